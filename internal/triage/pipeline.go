package triage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
	"github.com/jonesrussell/cityvoice/internal/textnorm"
)

// Pipeline runs normalize, classify, prioritize and summarize in order.
// Each request is handled independently; it shares no mutable state.
type Pipeline struct {
	client    *Client
	telemetry *telemetry.Provider
	logger    infralogger.Logger
}

// NewPipeline creates a pipeline. tp may be nil.
func NewPipeline(client *Client, tp *telemetry.Provider, logger infralogger.Logger) *Pipeline {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Pipeline{client: client, telemetry: tp, logger: logger}
}

// Client returns the underlying triage client.
func (p *Pipeline) Client() *Client {
	return p.client
}

// Process always returns a complete record; remote failures degrade to the
// keyword fallback and are never returned.
func (p *Pipeline) Process(ctx context.Context, text string) *domain.ProcessedComplaint {
	start := time.Now()

	ctx, end := p.startSpan(ctx)

	parts := Parts{
		OriginalText: text,
		CleanText:    textnorm.Normalize(text),
	}

	parts.Category, parts.CategoryOutcome = p.client.Classify(ctx, text)
	p.recordAspect(ctx, llm.AspectClassify, parts.CategoryOutcome)

	category := parts.Category
	parts.Priority, parts.PriorityOutcome = p.client.Prioritize(ctx, text, &category)
	p.recordAspect(ctx, llm.AspectPriority, parts.PriorityOutcome)

	parts.Summary, parts.SummaryOutcome = p.client.Summarize(ctx, text)
	p.recordAspect(ctx, llm.AspectSummary, parts.SummaryOutcome)

	result := Assemble(start, parts)
	end(result)

	infralogger.FromContextOr(ctx, p.logger).Info("Complaint triaged",
		infralogger.String("category", string(result.Category)),
		infralogger.String("priority", string(result.Priority)),
		infralogger.Bool("ai_processed", result.IsAIProcessed),
		infralogger.String("model", result.Model),
		infralogger.Duration("processing_time", result.ProcessingTime),
	)
	return result
}

func (p *Pipeline) startSpan(ctx context.Context) (context.Context, func(*domain.ProcessedComplaint)) {
	if p.telemetry == nil {
		return ctx, func(*domain.ProcessedComplaint) {}
	}

	ctx, span := p.telemetry.StartSpan(ctx, "triage.process")
	return ctx, func(result *domain.ProcessedComplaint) {
		span.SetAttributes(
			attribute.String("category", string(result.Category)),
			attribute.String("priority", string(result.Priority)),
			attribute.Bool("ai_processed", result.IsAIProcessed),
			attribute.String("model", result.Model),
		)
		span.End()
		p.telemetry.RecordTriage(ctx, result.ProcessingTime, result.IsAIProcessed)
	}
}

func (p *Pipeline) recordAspect(ctx context.Context, aspect llm.Aspect, o Outcome) {
	if p.telemetry == nil {
		return
	}
	p.telemetry.RecordAspect(ctx, string(aspect), o.Model, o.Offline)
}
