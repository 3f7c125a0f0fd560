package events

import (
	"strconv"

	infraevents "github.com/jonesrussell/cityvoice/infrastructure/events"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/infrastructure/sse"
)

// AsyncPublisher is anything that accepts complaint events without blocking.
type AsyncPublisher interface {
	PublishAsync(event infraevents.ComplaintEvent)
}

// Feed forwards complaint events to live dashboard subscribers. Events are
// tagged with the complaint zone so subscribers can filter by jurisdiction.
type Feed struct {
	broker *sse.Broker
	log    infralogger.Logger
}

// NewFeed creates a feed over broker. Returns nil if broker is nil; a nil
// Feed is a no-op.
func NewFeed(broker *sse.Broker, log infralogger.Logger) *Feed {
	if broker == nil {
		return nil
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Feed{broker: broker, log: log}
}

// PublishAsync hands the event to the broker. A full buffer drops the event.
func (f *Feed) PublishAsync(event infraevents.ComplaintEvent) {
	if f == nil {
		return
	}
	event = stamp(event)
	err := f.broker.Publish(sse.Event{
		Type:  string(event.EventType),
		ID:    event.EventID.String(),
		Data:  event,
		Topic: event.Zone,
	})
	if err != nil {
		f.log.Warn("Live feed dropped event",
			infralogger.String("event_type", string(event.EventType)),
			infralogger.String("complaint_id", strconv.FormatInt(event.ComplaintID, 10)),
			infralogger.Error(err),
		)
	}
}

// Fanout publishes every event to each publisher in order.
type Fanout []AsyncPublisher

// PublishAsync implements AsyncPublisher.
func (f Fanout) PublishAsync(event infraevents.ComplaintEvent) {
	event = stamp(event)
	for _, p := range f {
		p.PublishAsync(event)
	}
}
