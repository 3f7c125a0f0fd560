package triage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/cityvoice/internal/domain"
	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/llm/mocks"
	"github.com/jonesrussell/cityvoice/internal/telemetry"
	"github.com/jonesrussell/cityvoice/internal/triage"
)

func TestPipeline_RemoteUnavailable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	down := mocks.NewMockCompleter(ctrl)
	down.EXPECT().Name().Return("gemini-2.0-flash").AnyTimes()
	down.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil, errTimeout).Times(3)

	router := llm.NewRouter().
		Route(llm.AspectClassify, down).
		Route(llm.AspectPriority, down).
		Route(llm.AspectSummary, down)
	client := triage.NewClient(router, keywords.NewDefaultEngine(nil), nil)
	pipeline := triage.NewPipeline(client, telemetry.NewPrivateProvider(), nil)

	text := "Urgent sewage overflow near ABC School. The drain has been blocked for 3 days and the smell is unbearable. Many students are falling sick."
	got := pipeline.Process(context.Background(), text)

	require.NotNil(t, got)
	assert.Equal(t, text, got.OriginalText)
	assert.Equal(t, domain.CategorySanitation, got.Category)
	assert.Equal(t, domain.PriorityP1, got.Priority)
	assert.Equal(t, triage.FallbackReasoning, got.PriorityReasoning)
	assert.Equal(t, triage.Truncate(text, 100), got.AISummary)
	assert.True(t, strings.HasSuffix(got.AISummary, "..."))
	assert.False(t, got.IsAIProcessed)
	assert.Equal(t, llm.ModelOffline, got.Model)
	assert.Contains(t, got.CleanText, "sewage overflow")
}

func TestPipeline_MixedOutcomes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gemini := mocks.NewMockCompleter(ctrl)
	gemini.EXPECT().Name().Return("gemini-2.0-flash").AnyTimes()
	gemini.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req llm.Request) (*llm.Response, error) {
			switch req.Aspect {
			case llm.AspectClassify:
				return &llm.Response{Text: "Electricity", Model: "gemini-2.0-flash"}, nil
			default:
				return &llm.Response{Text: "Priority: urgent", Model: "gemini-2.0-flash"}, nil
			}
		}).Times(2)

	openai := mocks.NewMockCompleter(ctrl)
	openai.EXPECT().Name().Return("gpt-4o-mini").AnyTimes()
	openai.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(&llm.Response{Text: "Summary: Streetlight out.\nLocation: MG Road", Model: "gpt-4o-mini"}, nil)

	router := llm.NewRouter().
		Route(llm.AspectClassify, gemini).
		Route(llm.AspectPriority, gemini).
		Route(llm.AspectSummary, openai)
	pipeline := triage.NewPipeline(triage.NewClient(router, keywords.NewDefaultEngine(nil), nil), nil, nil)

	got := pipeline.Process(context.Background(), "Streetlight not working on MG Road!!")

	assert.Equal(t, domain.CategoryElectricity, got.Category)
	assert.Equal(t, domain.PriorityP3, got.Priority)
	assert.Equal(t, triage.FallbackReasoning, got.PriorityReasoning)
	assert.Equal(t, "Streetlight out.", got.AISummary)
	assert.Equal(t, "streetlight working mg road", got.CleanText)
	assert.True(t, got.IsAIProcessed)
	assert.Equal(t, "gemini-2.0-flash+gpt-4o-mini", got.Model)
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	start := time.Now().Add(-2 * time.Second)
	got := triage.Assemble(start, triage.Parts{
		OriginalText:    "x",
		Category:        domain.CategoryWater,
		CategoryOutcome: triage.Outcome{Model: "gemini-2.0-flash"},
		Priority:        domain.PriorityResult{Priority: domain.PriorityP2, Reasoning: "r"},
		PriorityOutcome: triage.Outcome{Model: "gemini-2.0-flash"},
		Summary:         domain.SummaryResult{Summary: "s"},
		SummaryOutcome:  triage.Outcome{Model: llm.ModelOffline, Offline: true},
	})

	assert.GreaterOrEqual(t, got.ProcessingTime, 2*time.Second)
	assert.True(t, got.IsAIProcessed)
	assert.Equal(t, "gemini-2.0-flash", got.Model)
	assert.Equal(t, "r", got.PriorityReasoning)
}
