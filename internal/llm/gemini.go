package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	infrahttp "github.com/jonesrussell/cityvoice/infrastructure/http"
)

const (
	// DefaultGeminiModel is used for triage, classification and priority.
	DefaultGeminiModel = "gemini-2.0-flash"

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// GeminiConfig configures the Gemini generateContent provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Gemini completes requests with the Generative Language REST API.
type Gemini struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewGemini creates a Gemini provider using client for transport.
func NewGemini(cfg GeminiConfig, client *http.Client) *Gemini {
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if client == nil {
		client = infrahttp.NewClient(nil)
	}

	return &Gemini{
		client:  client,
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
	}
}

// Name returns the configured model.
func (g *Gemini) Name() string { return g.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

// Complete calls models/{model}:generateContent.
func (g *Gemini) Complete(ctx context.Context, req Request) (*Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.Temperature > 0 {
		temp := req.Temperature
		body.GenerationConfig.Temperature = &temp
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	headers := map[string]string{"x-goog-api-key": g.apiKey}

	var resp geminiResponse
	if err := infrahttp.PostJSON(ctx, g.client, endpoint, headers, body, &resp); err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrEmptyResponse
	}

	model := resp.ModelVersion
	if model == "" {
		model = g.model
	}
	return &Response{Text: text, Model: model}, nil
}
