// Package errors turns failed HTTP responses from remote providers into typed errors.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is retained.
const maxErrorBody = 4096

// HTTPError represents a non-2xx response from a remote API.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// ParseHTTPError returns nil for 2xx responses. Otherwise it reads the body
// and extracts a message from the common JSON error shapes:
// {"error":"..."}, {"message":"..."} and {"error":{"message":"..."}}.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	body := string(bodyBytes)
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
		Message:    extractMessage(bodyBytes, body),
	}
}

func extractMessage(raw []byte, fallback string) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return fallback
	}

	if len(payload.Error) > 0 {
		var flat string
		if json.Unmarshal(payload.Error, &flat) == nil && flat != "" {
			return flat
		}
		var nested struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			if nested.Status != "" {
				return nested.Status + ": " + nested.Message
			}
			return nested.Message
		}
	}

	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}

// StatusCode extracts the HTTP status code from err if it wraps an HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
