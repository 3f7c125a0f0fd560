package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/cityvoice/internal/llm"
	"github.com/jonesrussell/cityvoice/internal/llm/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errUnavailable = errors.New("service unavailable")

func TestFallback_PrimarySucceeds(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	primary := mocks.NewMockCompleter(ctrl)
	offline := mocks.NewMockCompleter(ctrl)

	req := llm.Request{Aspect: llm.AspectClassify, Prompt: "p"}
	primary.EXPECT().Complete(gomock.Any(), req).Return(&llm.Response{Text: "Water", Model: "gemini-2.0-flash"}, nil)

	resp, err := llm.WithFallback(primary, offline, nil, nil).Complete(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Water", resp.Text)
	assert.False(t, resp.Offline)
}

func TestFallback_PrimaryErrorUsesFallback(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	primary := mocks.NewMockCompleter(ctrl)
	offline := mocks.NewMockCompleter(ctrl)

	primary.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil, errUnavailable).Times(1)
	primary.EXPECT().Name().Return("gemini-2.0-flash").AnyTimes()
	offline.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "Waste", Model: llm.ModelOffline}, nil)

	resp, err := llm.WithFallback(primary, offline, nil, nil).Complete(context.Background(), llm.Request{Aspect: llm.AspectClassify})

	require.NoError(t, err)
	assert.Equal(t, "Waste", resp.Text)
	assert.True(t, resp.Offline)
}

func TestFallback_RejectedResponseUsesFallback(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	primary := mocks.NewMockCompleter(ctrl)
	offline := mocks.NewMockCompleter(ctrl)

	primary.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "Potholes", Model: "m"}, nil)
	primary.EXPECT().Name().Return("m").AnyTimes()
	offline.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "Other", Model: llm.ModelOffline}, nil)

	accept := func(_ llm.Request, resp *llm.Response) bool { return resp.Text == "Other" }
	resp, err := llm.WithFallback(primary, offline, accept, nil).Complete(context.Background(), llm.Request{})

	require.NoError(t, err)
	assert.Equal(t, "Other", resp.Text)
	assert.True(t, resp.Offline)
}

func TestFallback_NilPrimary(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	offline := mocks.NewMockCompleter(ctrl)
	offline.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(&llm.Response{Text: "P3", Model: llm.ModelOffline}, nil)
	offline.EXPECT().Name().Return(llm.ModelOffline)

	f := llm.WithFallback(nil, offline, nil, nil)
	resp, err := f.Complete(context.Background(), llm.Request{})

	require.NoError(t, err)
	assert.True(t, resp.Offline)
	assert.Equal(t, llm.ModelOffline, f.Name())
}
