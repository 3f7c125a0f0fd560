// Package events publishes complaint lifecycle events to Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infraevents "github.com/jonesrussell/cityvoice/infrastructure/events"
	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// Publisher publishes complaint events to Redis Streams.
type Publisher struct {
	client *redis.Client
	log    infralogger.Logger
}

// NewPublisher creates a new event publisher.
// Returns nil if client is nil; a nil Publisher is a no-op.
func NewPublisher(client *redis.Client, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Publisher{client: client, log: log}
}

// Publish sends an event to the Redis stream.
func (p *Publisher) Publish(ctx context.Context, event infraevents.ComplaintEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	event = stamp(event)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: infraevents.StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		p.log.Error("Failed to publish event",
			infralogger.String("event_type", string(event.EventType)),
			infralogger.String("complaint_id", strconv.FormatInt(event.ComplaintID, 10)),
			infralogger.Error(publishErr),
		)
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Debug("Published complaint event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.String("complaint_id", strconv.FormatInt(event.ComplaintID, 10)),
		infralogger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes an event asynchronously.
// Errors are logged but not returned.
func (p *Publisher) PublishAsync(event infraevents.ComplaintEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		// Publish logs its own failures.
		_ = p.Publish(ctx, event)
	}()
}

// stamp fills the event ID and timestamp when the caller left them unset.
func stamp(event infraevents.ComplaintEvent) infraevents.ComplaintEvent {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return event
}
