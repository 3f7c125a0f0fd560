package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

// FilterFunc derives a subscriber filter from the request. Returning false
// means the handler has already written a response.
type FilterFunc func(c *gin.Context) (Filter, bool)

// Handler streams broker events to the client until it disconnects.
func Handler(b *Broker, filterFor FilterFunc, logger infralogger.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return func(c *gin.Context) {
		var filter Filter
		if filterFor != nil {
			var ok bool
			if filter, ok = filterFor(c); !ok {
				return
			}
		}

		events, unsubscribe, err := b.Subscribe(filter)
		if err != nil {
			status := http.StatusServiceUnavailable
			if errors.Is(err, ErrTooManyClients) {
				status = http.StatusTooManyRequests
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		defer unsubscribe()

		// Streams outlive the server write timeout.
		_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

		setHeaders(c.Writer)
		c.Status(http.StatusOK)
		if writeErr := writeEvent(c.Writer, Event{
			Type: eventTypeConnected,
			Data: gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)},
		}); writeErr != nil {
			return
		}

		heartbeat := time.NewTicker(b.cfg.HeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event, open := <-events:
				if !open {
					return
				}
				if writeErr := writeEvent(c.Writer, event); writeErr != nil {
					logger.Debug("SSE write failed", infralogger.Error(writeErr))
					return
				}
			case <-heartbeat.C:
				if _, writeErr := fmt.Fprint(c.Writer, ": heartbeat\n\n"); writeErr != nil {
					return
				}
				c.Writer.Flush()
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeEvent(w gin.ResponseWriter, event Event) error {
	if err := Encode(w, event); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// Encode writes one event in text/event-stream framing.
func Encode(w io.Writer, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if event.Type != "" {
		if _, err = fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
			return err
		}
	}
	if event.ID != "" {
		if _, err = fmt.Fprintf(w, "id: %s\n", event.ID); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
