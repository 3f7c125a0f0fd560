package triage

import (
	"strings"
	"time"

	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/llm"
)

// Parts are the per-aspect results gathered by the pipeline.
type Parts struct {
	OriginalText    string
	CleanText       string
	Category        domain.Category
	CategoryOutcome Outcome
	Priority        domain.PriorityResult
	PriorityOutcome Outcome
	Summary         domain.SummaryResult
	SummaryOutcome  Outcome
}

// Assemble packages parts into a ProcessedComplaint, timing from start.
func Assemble(start time.Time, parts Parts) *domain.ProcessedComplaint {
	elapsed := time.Since(start)

	outcomes := []Outcome{parts.CategoryOutcome, parts.PriorityOutcome, parts.SummaryOutcome}
	var models []string
	aiProcessed := false
	for _, o := range outcomes {
		if o.Offline {
			continue
		}
		aiProcessed = true
		if o.Model != "" && !containsString(models, o.Model) {
			models = append(models, o.Model)
		}
	}

	model := llm.ModelOffline
	if len(models) > 0 {
		model = strings.Join(models, "+")
	}

	return &domain.ProcessedComplaint{
		OriginalText:      parts.OriginalText,
		CleanText:         parts.CleanText,
		Category:          parts.Category,
		Priority:          parts.Priority.Priority,
		AISummary:         parts.Summary.Summary,
		Entities:          parts.Summary.Entities,
		PriorityReasoning: parts.Priority.Reasoning,
		ProcessingTime:    elapsed,
		IsAIProcessed:     aiProcessed,
		Model:             model,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
