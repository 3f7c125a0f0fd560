package api_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrajwt "github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/jonesrussell/cityvoice/infrastructure/sse"
	"github.com/jonesrussell/cityvoice/internal/api"
)

func newFeedServer(t *testing.T) (*httptest.Server, *sse.Broker, *infrajwt.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	broker := sse.NewBroker(sse.Config{}, nil)
	broker.Start(t.Context())
	t.Cleanup(broker.Stop)

	router := gin.New()
	api.SetupRoutes(router, api.NewHandler(api.Deps{}), api.RouteConfig{JWTSecret: testSecret, Feed: broker})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, broker, infrajwt.NewIssuer(testSecret, time.Hour)
}

func openFeed(t *testing.T, ctx context.Context, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/v1/authority/feed", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func nextEventType(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if after, ok := strings.CutPrefix(line, "event: "); ok {
			return strings.TrimSpace(after)
		}
	}
}

func TestAuthorityFeed_ZoneScoped(t *testing.T) {
	srv, broker, issuer := newFeedServer(t)
	token, _, err := issuer.Issue("1", infrajwt.RoleAuthority, "North")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	resp := openFeed(t, ctx, srv.URL, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	r := bufio.NewReader(resp.Body)
	require.Equal(t, "connected", nextEventType(t, r))

	require.NoError(t, broker.Publish(sse.Event{Type: "COMPLAINT_SUBMITTED", Topic: "East"}))
	require.NoError(t, broker.Publish(sse.Event{Type: "COMPLAINT_STATUS_CHANGED", Topic: "North"}))
	assert.Equal(t, "COMPLAINT_STATUS_CHANGED", nextEventType(t, r))
}

func TestAuthorityFeed_RequiresAuthority(t *testing.T) {
	srv, broker, issuer := newFeedServer(t)

	citizen, _, err := issuer.Issue("7", infrajwt.RoleCitizen, "")
	require.NoError(t, err)
	resp := openFeed(t, t.Context(), srv.URL, citizen)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	unknown, _, err := issuer.Issue("9", infrajwt.RoleAuthority, "Central")
	require.NoError(t, err)
	resp = openFeed(t, t.Context(), srv.URL, unknown)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.Equal(t, 0, broker.ClientCount())
}
