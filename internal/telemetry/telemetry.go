// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for cityvoice.
package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "cityvoice"

// Aspect outcomes.
const (
	OutcomeRemote   = "remote"
	OutcomeFallback = "fallback"
)

// Metrics holds all cityvoice Prometheus metrics.
type Metrics struct {
	// Triage metrics
	AspectTotal    *prometheus.CounterVec
	TriageDuration prometheus.Histogram
	TriageTotal    *prometheus.CounterVec

	// Workflow metrics
	ComplaintsSubmitted *prometheus.CounterVec
	StatusChanges       *prometheus.CounterVec
	Upvotes             *prometheus.CounterVec

	// Supporting infrastructure
	KeywordReloads      *prometheus.CounterVec
	BreakerState        *prometheus.GaugeVec
	SearchIndexFailures prometheus.Counter
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

var (
	defaultProvider *Provider
	defaultOnce     sync.Once
)

// NewProvider returns the process-wide provider registered on the default
// Prometheus registry. Repeated calls return the same provider.
func NewProvider() *Provider {
	defaultOnce.Do(func() {
		defaultProvider = NewProviderWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return defaultProvider
}

// NewProviderWithRegistry registers metrics on reg. Tests pass a fresh registry.
func NewProviderWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		gatherer: gatherer,
	}
}

// NewPrivateProvider returns a provider on its own registry, for one-shot
// commands and tests that must not touch the process-wide metrics.
func NewPrivateProvider() *Provider {
	reg := prometheus.NewRegistry()
	return NewProviderWithRegistry(reg, reg)
}

// Handler returns the Prometheus HTTP handler for /metrics.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}

	m.AspectTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "cityvoice_triage_aspect_total",
		Help: "Triage aspects answered, by aspect and outcome (remote or fallback)",
	}, []string{"aspect", "outcome", "model"})

	m.TriageDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "cityvoice_triage_duration_seconds",
		Help:    "Wall-clock time of one full triage pipeline run",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	})

	m.TriageTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "cityvoice_triage_total",
		Help: "Triage pipeline runs, by whether any remote model contributed",
	}, []string{"ai_processed"})

	m.ComplaintsSubmitted = f.NewCounterVec(prometheus.CounterOpts{
		Name: "cityvoice_complaints_submitted_total",
		Help: "Complaints stored, by category, priority and zone",
	}, []string{"category", "priority", "zone"})

	m.StatusChanges = f.NewCounterVec(prometheus.CounterOpts{
		Name: "cityvoice_complaint_status_changes_total",
		Help: "Status updates by zone authorities, by new status",
	}, []string{"status"})

	m.Upvotes = f.NewCounterVec(prometheus.CounterOpts{
		Name: "cityvoice_upvotes_total",
		Help: "Upvote changes, by action",
	}, []string{"action"})

	m.KeywordReloads = f.NewCounterVec(prometheus.CounterOpts{
		Name: "cityvoice_keyword_reloads_total",
		Help: "Keyword table reloads from the database, by result",
	}, []string{"result"})

	m.BreakerState = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cityvoice_llm_breaker_state",
		Help: "Circuit breaker state per provider (0 closed, 1 open, 2 half-open)",
	}, []string{"provider"})

	m.SearchIndexFailures = f.NewCounter(prometheus.CounterOpts{
		Name: "cityvoice_search_index_failures_total",
		Help: "Complaints that could not be written to the search index",
	})

	return m
}

// RecordAspect records which path answered one triage aspect.
func (p *Provider) RecordAspect(_ context.Context, aspect, model string, offline bool) {
	outcome := OutcomeRemote
	if offline {
		outcome = OutcomeFallback
	}
	p.Metrics.AspectTotal.WithLabelValues(aspect, outcome, model).Inc()
}

// RecordTriage records a full pipeline run.
func (p *Provider) RecordTriage(_ context.Context, duration time.Duration, aiProcessed bool) {
	p.Metrics.TriageDuration.Observe(duration.Seconds())
	p.Metrics.TriageTotal.WithLabelValues(strconv.FormatBool(aiProcessed)).Inc()
}

// RecordSubmission records a stored complaint.
func (p *Provider) RecordSubmission(_ context.Context, category, priority, zone string) {
	p.Metrics.ComplaintsSubmitted.WithLabelValues(category, priority, zone).Inc()
}

// RecordStatusChange records an authority status update.
func (p *Provider) RecordStatusChange(_ context.Context, status string) {
	p.Metrics.StatusChanges.WithLabelValues(status).Inc()
}

// RecordUpvote records an upvote ("add") or its removal ("remove").
func (p *Provider) RecordUpvote(_ context.Context, action string) {
	p.Metrics.Upvotes.WithLabelValues(action).Inc()
}

// RecordKeywordReload records a keyword table reload attempt.
func (p *Provider) RecordKeywordReload(_ context.Context, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	p.Metrics.KeywordReloads.WithLabelValues(result).Inc()
}

// SetBreakerState publishes a provider circuit breaker state.
func (p *Provider) SetBreakerState(provider string, state int) {
	p.Metrics.BreakerState.WithLabelValues(provider).Set(float64(state))
}

// RecordSearchIndexFailure counts a failed search index write.
func (p *Provider) RecordSearchIndexFailure(_ context.Context) {
	p.Metrics.SearchIndexFailures.Inc()
}

// StartSpan starts a new trace span.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
