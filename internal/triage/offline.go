package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/llm"
)

// Offline answers every aspect deterministically from the keyword engine,
// in the same line format the remote models use. It never fails.
type Offline struct {
	engine *keywords.Engine
}

// NewOffline creates the offline completer.
func NewOffline(engine *keywords.Engine) *Offline {
	return &Offline{engine: engine}
}

// Name identifies offline answers.
func (o *Offline) Name() string { return llm.ModelOffline }

// Complete formats the keyword fallback answer for req.Aspect.
func (o *Offline) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	var text string

	switch req.Aspect {
	case llm.AspectTriage:
		r := o.triage(req.Text, req.Category)
		text = fmt.Sprintf("%s %s\n%s %s\n%s %s\n%s %s",
			prefixValidation, r.Validation,
			prefixCategory, r.Category,
			prefixPriority, r.Priority,
			prefixSeverityReason, r.SeverityReason,
		)
	case llm.AspectClassify:
		text = string(o.engine.ClassifyFallback(req.Text))
	case llm.AspectPriority:
		text = fmt.Sprintf("%s %s\n%s %s",
			prefixPriority, o.engine.PrioritizeFallback(req.Text),
			prefixReasoning, FallbackReasoning,
		)
	case llm.AspectSummary:
		s := fallbackSummary(req.Text)
		text = fmt.Sprintf("%s %s\n%s %s\n%s %s\n%s %s",
			prefixSummary, s.Summary,
			prefixLocation, s.Entities.Location,
			prefixIssue, s.Entities.Issue,
			prefixService, s.Entities.Service,
		)
	default:
		return nil, fmt.Errorf("offline completer: unknown aspect %q", req.Aspect)
	}

	return &llm.Response{Text: text, Model: llm.ModelOffline, Offline: true}, nil
}

func (o *Offline) triage(text, selected string) domain.TriageResult {
	category := o.engine.ClassifyFallback(text)
	validation := "No"
	if selected != "" && strings.EqualFold(selected, string(category)) {
		validation = "Yes"
	}
	return domain.TriageResult{
		Validation:     validation,
		Category:       category,
		Priority:       o.engine.PrioritizeFallback(text),
		SeverityReason: FallbackReasoning,
	}
}

func fallbackSummary(text string) domain.SummaryResult {
	return domain.SummaryResult{
		Summary: Truncate(text, summaryTruncateLen),
		Entities: domain.Entities{
			Location: NotExtracted,
			Issue:    NotExtracted,
			Service:  NotExtracted,
		},
	}
}
