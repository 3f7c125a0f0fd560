package sse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

var (
	// ErrBrokerStopped is returned when publishing to a broker that is not running.
	ErrBrokerStopped = errors.New("sse broker is not running")
	// ErrPublishBufferFull is returned when the broker cannot keep up.
	ErrPublishBufferFull = errors.New("sse publish buffer full")
	// ErrTooManyClients is returned when MaxClients subscribers are connected.
	ErrTooManyClients = errors.New("too many sse clients")
)

// Broker fans events out to subscribers. A slow subscriber is disconnected
// rather than allowed to stall the others.
type Broker struct {
	cfg     Config
	logger  infralogger.Logger
	publish chan Event

	mu      sync.RWMutex
	clients map[int64]*client
	nextID  atomic.Int64

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewBroker creates a stopped broker.
func NewBroker(cfg Config, logger infralogger.Logger) *Broker {
	cfg.SetDefaults()
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Broker{
		cfg:     cfg,
		logger:  logger,
		publish: make(chan Event, cfg.PublishBufferSize),
		clients: make(map[int64]*client),
	}
}

// Start runs the broadcast loop until ctx ends or Stop is called.
func (b *Broker) Start(ctx context.Context) {
	if !b.running.CompareAndSwap(false, true) {
		return
	}
	ctx, b.cancel = context.WithCancel(ctx)
	b.done = make(chan struct{})

	go b.loop(ctx)

	b.logger.Info("SSE broker started",
		infralogger.Int("max_clients", b.cfg.MaxClients),
		infralogger.Duration("heartbeat_interval", b.cfg.HeartbeatInterval),
	)
}

// Stop disconnects every subscriber and waits for the loop to exit.
func (b *Broker) Stop() {
	if !b.running.CompareAndSwap(true, false) {
		return
	}
	b.cancel()
	<-b.done
	b.logger.Info("SSE broker stopped")
}

// Publish queues an event without blocking.
func (b *Broker) Publish(event Event) error {
	if !b.running.Load() {
		return ErrBrokerStopped
	}
	select {
	case b.publish <- event:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s", ErrPublishBufferFull, event.Type)
	}
}

// Subscribe registers a subscriber. The returned channel is closed when the
// subscriber is removed; call unsubscribe when the connection ends.
func (b *Broker) Subscribe(filter Filter) (events <-chan Event, unsubscribe func(), err error) {
	if !b.running.Load() {
		return nil, nil, ErrBrokerStopped
	}

	b.mu.Lock()
	if b.cfg.MaxClients > 0 && len(b.clients) >= b.cfg.MaxClients {
		b.mu.Unlock()
		return nil, nil, ErrTooManyClients
	}
	c := &client{
		id:     b.nextID.Add(1),
		events: make(chan Event, b.cfg.ClientBufferSize),
		filter: filter,
	}
	b.clients[c.id] = c
	b.mu.Unlock()

	return c.events, func() { b.remove(c.id) }, nil
}

// ClientCount returns the number of connected subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broker) loop(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case event := <-b.publish:
			b.broadcast(event)
		case <-ctx.Done():
			b.removeAll()
			return
		}
	}
}

func (b *Broker) broadcast(event Event) {
	b.mu.RLock()
	var slow []int64
	for id, c := range b.clients {
		if !c.send(event) {
			slow = append(slow, id)
		}
	}
	b.mu.RUnlock()

	for _, id := range slow {
		b.logger.Warn("SSE client too slow, disconnecting",
			infralogger.Int64("client_id", id),
			infralogger.String("event_type", event.Type),
		)
		b.remove(id)
	}
}

func (b *Broker) remove(id int64) {
	b.mu.Lock()
	c, ok := b.clients[id]
	delete(b.clients, id)
	b.mu.Unlock()
	if ok {
		c.close()
	}
}

func (b *Broker) removeAll() {
	b.mu.Lock()
	clients := b.clients
	b.clients = make(map[int64]*client)
	b.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

type client struct {
	id     int64
	events chan Event
	filter Filter
	once   sync.Once
}

// send reports false when the client buffer is full. Filtered events count
// as delivered.
func (c *client) send(event Event) bool {
	if c.filter != nil && !c.filter(event) {
		return true
	}
	select {
	case c.events <- event:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.events) })
}
