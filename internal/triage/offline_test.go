package triage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/cityvoice/internal/keywords"
	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/triage"
)

func TestOffline_Complete(t *testing.T) {
	t.Parallel()

	offline := triage.NewOffline(keywords.NewDefaultEngine(nil))
	ctx := context.Background()

	resp, err := offline.Complete(ctx, llm.Request{Aspect: llm.AspectClassify, Text: "Traffic jam near signal"})
	require.NoError(t, err)
	assert.Equal(t, "Traffic", resp.Text)
	assert.Equal(t, llm.ModelOffline, resp.Model)
	assert.True(t, resp.Offline)

	resp, err = offline.Complete(ctx, llm.Request{Aspect: llm.AspectPriority, Text: "Sparking wire near school"})
	require.NoError(t, err)
	assert.Equal(t, "Priority: P0\nReasoning: Fallback keyword-based analysis", resp.Text)

	resp, err = offline.Complete(ctx, llm.Request{Aspect: llm.AspectTriage, Text: "Garbage on road", Category: "waste"})
	require.NoError(t, err)
	assert.Equal(t, "Validation: Yes\nCategory: Waste\nPriority: P2\nSeverity Reason: Fallback keyword-based analysis", resp.Text)

	resp, err = offline.Complete(ctx, llm.Request{Aspect: llm.AspectSummary, Text: "Dog barking"})
	require.NoError(t, err)
	assert.Equal(t, "Summary: Dog barking\nLocation: Not extracted\nIssue: Not extracted\nService: Not extracted", resp.Text)
}

func TestOffline_UnknownAspect(t *testing.T) {
	t.Parallel()

	offline := triage.NewOffline(keywords.NewDefaultEngine(nil))

	_, err := offline.Complete(context.Background(), llm.Request{Aspect: "translate"})
	require.Error(t, err)
}

func TestAccept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		aspect llm.Aspect
		text   string
		want   bool
	}{
		{"classify exact", llm.AspectClassify, " Noise \n", true},
		{"classify unknown", llm.AspectClassify, "Potholes", false},
		{"priority valid", llm.AspectPriority, "Priority: P0", true},
		{"priority default", llm.AspectPriority, "nothing useful", true},
		{"priority invalid", llm.AspectPriority, "Priority: Critical", false},
		{"triage valid", llm.AspectTriage, "Category: Water\nPriority: P2", true},
		{"triage bad priority", llm.AspectTriage, "Category: Water\nPriority: 2", false},
		{"summary anything", llm.AspectSummary, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := triage.Accept(llm.Request{Aspect: tt.aspect}, &llm.Response{Text: tt.text})
			assert.Equal(t, tt.want, got)
		})
	}
	assert.False(t, triage.Accept(llm.Request{Aspect: llm.AspectClassify}, nil))
}
