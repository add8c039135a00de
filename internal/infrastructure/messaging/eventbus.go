// Package messaging implements the in-process event bus for ClassQuest Hub.
// Domain events fan out to subscribers; the main consumer is the audit log.
package messaging

import (
	"errors"
	"sync"
	"time"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/pkg/logger"
)

// ErrEventBusClosed is returned when operations are attempted on a closed bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus is a synchronous in-memory implementation of
// shared.EventBus. Handlers run on the publisher's goroutine in subscription
// order; a failing handler is logged and never blocks the others.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	log         *logger.Logger
	metrics     *Metrics
	closed      bool
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(log *logger.Logger) *InMemoryEventBus {
	if log == nil {
		log = logger.Default()
	}
	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log.With(logger.Component("event_bus")),
		metrics:  NewMetrics(),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

// Publish delivers an event to all subscribed handlers.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}

	handlers := make([]shared.EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	b.metrics.RecordPublish(event.EventType())

	for _, handler := range handlers {
		start := time.Now()
		err := handler(event)
		b.metrics.RecordHandlerExecution(time.Since(start), err == nil)

		if err != nil {
			b.log.Error("event handler failed",
				logger.String("event_type", string(event.EventType())),
				logger.Err(err))
		}
	}

	return nil
}

// Close marks the bus closed; further publishes and subscribes fail.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Metrics returns the bus counters.
func (b *InMemoryEventBus) Metrics() *Metrics {
	return b.metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT SUBSCRIBER
// ══════════════════════════════════════════════════════════════════════════════

// AuditLogger writes every published event to the structured log.
// Registered via SubscribeAll.
func AuditLogger(log *logger.Logger) shared.EventHandler {
	audit := log.With(logger.Component("audit"))
	return func(event shared.Event) error {
		audit.Info("domain event",
			logger.String("event_type", string(event.EventType())),
			logger.String("aggregate_id", event.AggregateID()),
			logger.Time("occurred_at", event.OccurredAt()),
			logger.Any("payload", event.Payload()))
		return nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// Metrics tracks publish and handler counters for the bus.
type Metrics struct {
	mu sync.RWMutex

	PublishedTotal   map[shared.EventType]int64
	HandlerSuccesses int64
	HandlerFailures  int64
	HandlerDuration  time.Duration
}

// NewMetrics creates a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{
		PublishedTotal: make(map[shared.EventType]int64),
	}
}

// RecordPublish records a publish of the given event type.
func (m *Metrics) RecordPublish(eventType shared.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedTotal[eventType]++
}

// RecordHandlerExecution records a handler run.
func (m *Metrics) RecordHandlerExecution(duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HandlerDuration += duration
	if success {
		m.HandlerSuccesses++
	} else {
		m.HandlerFailures++
	}
}

// Published returns the publish count for an event type.
func (m *Metrics) Published(eventType shared.EventType) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishedTotal[eventType]
}
