// Package triage turns raw complaint text into a ProcessedComplaint. It asks
// remote models for each aspect and falls back to keyword heuristics whenever
// a model fails or answers outside the allowed values.
package triage

import (
	"context"
	"strings"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/llm"
)

// Outcome reports which path produced a value.
type Outcome struct {
	Model   string `json:"model"`
	Offline bool   `json:"offline"`
}

// Client issues the triage, classify, priority and summary requests.
type Client struct {
	completers map[llm.Aspect]llm.Completer
	offline    *Offline
	logger     infralogger.Logger
}

// NewClient wraps each routed completer with the offline fallback. Aspects
// without a route are always answered offline.
func NewClient(router *llm.Router, engine *keywords.Engine, logger infralogger.Logger) *Client {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	offline := NewOffline(engine)

	c := &Client{
		completers: make(map[llm.Aspect]llm.Completer, len(llm.Aspects())),
		offline:    offline,
		logger:     logger,
	}
	for _, aspect := range llm.Aspects() {
		c.completers[aspect] = llm.WithFallback(router.For(aspect), offline, Accept, logger)
	}
	return c
}

// Accept reports whether a response parses into allowed values for its aspect.
func Accept(req llm.Request, resp *llm.Response) bool {
	if resp == nil {
		return false
	}
	switch req.Aspect {
	case llm.AspectTriage:
		f := parseTriage(resp.Text)
		_, catOK := domain.ParseCategory(f.Category)
		_, prioOK := domain.ParsePriority(f.Priority)
		return catOK && prioOK
	case llm.AspectClassify:
		_, ok := domain.ParseCategory(strings.TrimSpace(resp.Text))
		return ok
	case llm.AspectPriority:
		_, ok := domain.ParsePriority(parsePriority(resp.Text).Priority)
		return ok
	case llm.AspectSummary:
		return true
	default:
		return false
	}
}

func (c *Client) complete(ctx context.Context, req llm.Request) (*llm.Response, Outcome) {
	resp, err := c.completers[req.Aspect].Complete(ctx, req)
	if err != nil {
		// The offline completer only fails on an unknown aspect.
		c.logger.Error("Fallback completion failed",
			infralogger.Aspect(string(req.Aspect)),
			infralogger.Error(err),
		)
		resp, _ = c.offline.Complete(ctx, req)
	}
	if resp == nil {
		resp = &llm.Response{Model: llm.ModelOffline, Offline: true}
	}
	return resp, Outcome{Model: resp.Model, Offline: resp.Offline}
}

// Triage validates a complaint against an optional selected category and
// classifies and prioritizes it in one request.
func (c *Client) Triage(ctx context.Context, text string, selected *domain.Category) (domain.TriageResult, Outcome) {
	resp, outcome := c.complete(ctx, triageRequest(text, selected))

	f := parseTriage(resp.Text)
	category, catOK := domain.ParseCategory(f.Category)
	priority, prioOK := domain.ParsePriority(f.Priority)
	if !catOK || !prioOK {
		var sel string
		if selected != nil {
			sel = string(*selected)
		}
		return c.offline.triage(text, sel), Outcome{Model: llm.ModelOffline, Offline: true}
	}

	return domain.TriageResult{
		Validation:     f.Validation,
		Category:       category,
		Priority:       priority,
		SeverityReason: f.SeverityReason,
	}, outcome
}

// Classify returns exactly one category.
func (c *Client) Classify(ctx context.Context, text string) (domain.Category, Outcome) {
	resp, outcome := c.complete(ctx, classifyRequest(text))

	if category, ok := domain.ParseCategory(strings.TrimSpace(resp.Text)); ok {
		return category, outcome
	}
	return c.offline.engine.ClassifyFallback(text), Outcome{Model: llm.ModelOffline, Offline: true}
}

// Prioritize returns a P-scale priority with reasoning. category, when set,
// is given to the model as context.
func (c *Client) Prioritize(ctx context.Context, text string, category *domain.Category) (domain.PriorityResult, Outcome) {
	resp, outcome := c.complete(ctx, priorityRequest(text, category))

	f := parsePriority(resp.Text)
	if priority, ok := domain.ParsePriority(f.Priority); ok {
		return domain.PriorityResult{Priority: priority, Reasoning: f.Reasoning}, outcome
	}
	return domain.PriorityResult{
		Priority:  c.offline.engine.PrioritizeFallback(text),
		Reasoning: FallbackReasoning,
	}, Outcome{Model: llm.ModelOffline, Offline: true}
}

// Summarize returns a short summary with extracted entities.
func (c *Client) Summarize(ctx context.Context, text string) (domain.SummaryResult, Outcome) {
	resp, outcome := c.complete(ctx, summaryRequest(text))

	// Rebuilt from the text: a truncated summary may span several lines.
	if resp.Offline {
		return fallbackSummary(text), outcome
	}

	f := parseSummary(resp.Text)
	summary := f.Summary
	if summary == "" {
		summary = Truncate(text, summaryTruncateLen)
	}
	return domain.SummaryResult{
		Summary: summary,
		Entities: domain.Entities{
			Location: f.Location,
			Issue:    f.Issue,
			Service:  f.Service,
		},
	}, outcome
}
