package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	infraerrors "github.com/jonesrussell/cityvoice/infrastructure/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseHTTPError_Success(t *testing.T) {
	t.Parallel()

	assert.NoError(t, infraerrors.ParseHTTPError(response(http.StatusOK, "{}")))
}

func TestParseHTTPError_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"flat error", `{"error":"quota exceeded"}`, "quota exceeded"},
		{"message", `{"message":"bad key"}`, "bad key"},
		{"google nested", `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, "INVALID_ARGUMENT: API key not valid"},
		{"plain text", "upstream down", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := infraerrors.ParseHTTPError(response(http.StatusBadRequest, tt.body))
			var httpErr *infraerrors.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.want, httpErr.Message)
		})
	}
}

func TestStatusCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("gemini: %w", infraerrors.ParseHTTPError(response(http.StatusTooManyRequests, "slow down")))
	code, ok := infraerrors.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, code)
}
