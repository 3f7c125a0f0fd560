package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/cityvoice/internal/scheduler"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestKeywordScheduler_RunsOnSchedule(t *testing.T) {
	t.Parallel()

	r := &countingReloader{}
	s := scheduler.New(r, "@every 1s", nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
}

func TestKeywordScheduler_FailureKeepsRunning(t *testing.T) {
	t.Parallel()

	r := &countingReloader{err: errors.New("database unavailable")}
	s := scheduler.New(r, "@every 1s", nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 6*time.Second, 50*time.Millisecond)
}

func TestKeywordScheduler_InvalidSchedule(t *testing.T) {
	t.Parallel()

	s := scheduler.New(&countingReloader{}, "every now and then", nil)
	require.Error(t, s.Start())
	s.Stop()
}

func TestKeywordScheduler_DefaultSchedule(t *testing.T) {
	t.Parallel()

	r := &countingReloader{}
	s := scheduler.New(r, "", nil)
	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, r.calls.Load())
}
