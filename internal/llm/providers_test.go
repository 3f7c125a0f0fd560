package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraerrors "github.com/jonesrussell/cityvoice/infrastructure/errors"
	"github.com/jonesrussell/cityvoice/internal/llm"
)

func TestGemini_Complete(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Priority: P1\n"},{"text":"Reasoning: No water."}]}}],"modelVersion":"gemini-2.0-flash-001"}`))
	}))
	defer srv.Close()

	g := llm.NewGemini(llm.GeminiConfig{APIKey: "test-key", BaseURL: srv.URL}, srv.Client())
	resp, err := g.Complete(context.Background(), llm.Request{Prompt: "hello", Temperature: 0.2, MaxTokens: 100})

	require.NoError(t, err)
	assert.Equal(t, "Priority: P1\nReasoning: No water.", resp.Text)
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)

	cfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.2, cfg["temperature"], 0.0001)
	assert.InDelta(t, 100, cfg["maxOutputTokens"], 0.0001)
}

func TestGemini_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	g := llm.NewGemini(llm.GeminiConfig{APIKey: "bad", BaseURL: srv.URL}, srv.Client())
	_, err := g.Complete(context.Background(), llm.Request{Prompt: "hello"})

	require.Error(t, err)
	code, ok := infraerrors.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestGemini_NoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := llm.NewGemini(llm.GeminiConfig{BaseURL: srv.URL}, srv.Client())
	_, err := g.Complete(context.Background(), llm.Request{Prompt: "hello"})

	require.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestOpenAI_Complete(t *testing.T) {
	t.Parallel()

	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini-2024-07-18",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Summary: Broken light.\nLocation: MG Road"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	o := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	resp, err := o.Complete(context.Background(), llm.Request{
		System:      "You are a municipal complaint summarizer.",
		Prompt:      "Summarize this complaint: x",
		Temperature: 0.3,
		MaxTokens:   150,
	})

	require.NoError(t, err)
	assert.Equal(t, "Summary: Broken light.\nLocation: MG Road", resp.Text)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)
	assert.Equal(t, llm.DefaultOpenAIModel, got.Model)
	assert.Equal(t, 150, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAI_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := llm.NewOpenAI(llm.OpenAIConfig{APIKey: "k", BaseURL: srv.URL}).
		Complete(context.Background(), llm.Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestAnthropic_Complete(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-20241022",
			"content":[{"type":"text","text":"Sanitation"}],"stop_reason":"end_turn",
			"usage":{"input_tokens":10,"output_tokens":2}}`))
	}))
	defer srv.Close()

	a := llm.NewAnthropic(llm.AnthropicConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	resp, err := a.Complete(context.Background(), llm.Request{Prompt: "classify", MaxTokens: 20})

	require.NoError(t, err)
	assert.Equal(t, "Sanitation", resp.Text)
	assert.Equal(t, "claude-3-5-haiku-20241022", resp.Model)
}

func TestAnthropic_Error(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	_, err := llm.NewAnthropic(llm.AnthropicConfig{APIKey: "bad", BaseURL: srv.URL + "/"}).
		Complete(context.Background(), llm.Request{Prompt: "x"})
	assert.Error(t, err)
}
