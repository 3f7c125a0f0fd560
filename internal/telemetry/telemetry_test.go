package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jonesrussell/cityvoice/internal/telemetry"
)

func TestNewProvider_Idempotent(t *testing.T) {
	first := telemetry.NewProvider()
	second := telemetry.NewProvider()

	if first != second {
		t.Error("expected NewProvider to return the shared provider")
	}
	if first.Tracer == nil || first.Metrics == nil {
		t.Fatal("expected tracer and metrics")
	}
}

func TestRecordAspect(t *testing.T) {
	provider := telemetry.NewPrivateProvider()
	ctx := context.Background()

	provider.RecordAspect(ctx, "classify", "gemini-2.0-flash", false)
	provider.RecordAspect(ctx, "classify", "offline", true)
	provider.RecordAspect(ctx, "classify", "offline", true)

	fallback := provider.Metrics.AspectTotal.WithLabelValues("classify", telemetry.OutcomeFallback, "offline")
	if got := testutil.ToFloat64(fallback); got != 2 {
		t.Errorf("fallback count = %v, want 2", got)
	}
}

func TestRecordTriage(t *testing.T) {
	provider := telemetry.NewPrivateProvider()

	provider.RecordTriage(context.Background(), 150*time.Millisecond, false)

	if got := testutil.ToFloat64(provider.Metrics.TriageTotal.WithLabelValues("false")); got != 1 {
		t.Errorf("triage total = %v, want 1", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	provider := telemetry.NewPrivateProvider()
	provider.RecordKeywordReload(context.Background(), true)

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if !strings.Contains(w.Body.String(), "cityvoice_keyword_reloads_total") {
		t.Error("expected keyword reload metric in /metrics output")
	}
}

func TestStartSpan(t *testing.T) {
	provider := telemetry.NewPrivateProvider()

	ctx, span := provider.StartSpan(context.Background(), "triage.process")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func TestNewPrivateProvider_IsolatedRegistry(t *testing.T) {
	first := telemetry.NewPrivateProvider()
	second := telemetry.NewPrivateProvider()

	if first == second || first == telemetry.NewProvider() {
		t.Fatal("expected a fresh provider per call")
	}

	first.RecordTriage(context.Background(), time.Millisecond, true)

	if got := testutil.ToFloat64(second.Metrics.TriageTotal.WithLabelValues("true")); got != 0 {
		t.Errorf("second provider triage total = %v, want 0", got)
	}
}
