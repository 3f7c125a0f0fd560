// Package sse streams Server-Sent Events to connected dashboards.
package sse

import "time"

// Default configuration values.
const (
	DefaultClientBufferSize  = 64
	DefaultPublishBufferSize = 256
	DefaultHeartbeatInterval = 15 * time.Second
	DefaultMaxClients        = 200
)

// Internal event types.
const (
	eventTypeConnected = "connected"
)

// Event is one message on the wire:
//
//	event: <Type>
//	id: <ID>
//	data: <JSON of Data>
type Event struct {
	Type string
	ID   string
	Data any
	// Topic routes the event to subscribers; it is not written to the stream.
	Topic string
}

// Filter reports whether a subscriber should receive an event.
type Filter func(Event) bool

// Config holds broker limits.
type Config struct {
	Enabled           bool          `env:"SSE_ENABLED"            yaml:"enabled"`
	ClientBufferSize  int           `env:"SSE_CLIENT_BUFFER"      yaml:"client_buffer_size"`
	PublishBufferSize int           `env:"SSE_PUBLISH_BUFFER"     yaml:"publish_buffer_size"`
	HeartbeatInterval time.Duration `env:"SSE_HEARTBEAT_INTERVAL" yaml:"heartbeat_interval"`
	MaxClients        int           `env:"SSE_MAX_CLIENTS"        yaml:"max_clients"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.ClientBufferSize <= 0 {
		c.ClientBufferSize = DefaultClientBufferSize
	}
	if c.PublishBufferSize <= 0 {
		c.PublishBufferSize = DefaultPublishBufferSize
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.MaxClients <= 0 {
		c.MaxClients = DefaultMaxClients
	}
}
