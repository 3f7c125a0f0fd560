package context_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracontext "github.com/jonesrussell/cityvoice/infrastructure/context"
)

func TestWithPingTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	before := time.Now()
	ctx, cancel := infracontext.WithPingTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, before.Add(infracontext.DefaultPingTimeout), deadline, time.Second)
}

func TestWithPingTimeout_HonoursParentCancel(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := infracontext.WithPingTimeout(parent)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
