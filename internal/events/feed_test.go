package events_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/jonesrussell/cityvoice/infrastructure/events"
	"github.com/jonesrussell/cityvoice/infrastructure/sse"
	"github.com/jonesrussell/cityvoice/internal/events"
)

type recorder struct{ got []infraevents.ComplaintEvent }

func (r *recorder) PublishAsync(e infraevents.ComplaintEvent) { r.got = append(r.got, e) }

func TestFeed_PublishAsync(t *testing.T) {
	t.Parallel()

	broker := sse.NewBroker(sse.Config{}, nil)
	broker.Start(t.Context())
	t.Cleanup(broker.Stop)

	stream, unsubscribe, err := broker.Subscribe(nil)
	require.NoError(t, err)
	defer unsubscribe()

	events.NewFeed(broker, nil).PublishAsync(infraevents.ComplaintEvent{
		EventType:   infraevents.ComplaintStatusChanged,
		ComplaintID: 3,
		Zone:        "South",
	})

	select {
	case e := <-stream:
		assert.Equal(t, string(infraevents.ComplaintStatusChanged), e.Type)
		assert.Equal(t, "South", e.Topic)
		assert.NotEmpty(t, e.ID)
		data, ok := e.Data.(infraevents.ComplaintEvent)
		require.True(t, ok)
		assert.Equal(t, int64(3), data.ComplaintID)
		assert.False(t, data.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestFeed_NilIsNoop(t *testing.T) {
	t.Parallel()

	feed := events.NewFeed(nil, nil)
	assert.Nil(t, feed)
	feed.PublishAsync(infraevents.ComplaintEvent{})
}

func TestFanout_SharesEventID(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	events.Fanout{a, b}.PublishAsync(infraevents.ComplaintEvent{EventType: infraevents.ComplaintUpvoted})

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.NotEqual(t, uuid.Nil, a.got[0].EventID)
	assert.Equal(t, a.got[0].EventID, b.got[0].EventID)
}
