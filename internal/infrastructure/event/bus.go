// Package event provides the event publishers used by the person saga:
// EventBridge, Redis Streams and an in-process bus for local runs.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/person-service/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned when publishing to a stopped in-memory bus
var ErrBusStopped = errors.New("event bus is not running")

// InMemoryEventBus implements EventBus with synchronous in-process dispatch.
// Publish fails only when the bus is stopped; handler errors and panics are
// logged and do not affect the publisher.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	logger    *zap.Logger
	running   atomic.Bool
	published atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus in the running state
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	b.running.Store(true)
	return b
}

// Publish delivers the envelope to every matching handler
func (b *InMemoryEventBus) Publish(ctx context.Context, envelope shared.Envelope) error {
	if !b.running.Load() {
		return fmt.Errorf("publish %s to %s: %w", envelope.Type, envelope.Bus, ErrBusStopped)
	}

	for _, handler := range b.registry.GetHandlers(envelope.Type) {
		if err := b.dispatchToHandler(ctx, handler, envelope); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", envelope.Type),
				zap.String("bus", envelope.Bus),
				zap.Error(err),
			)
		}
	}
	b.published.Add(1)
	return nil
}

// Published returns the number of accepted envelopes
func (b *InMemoryEventBus) Published() int64 {
	return b.published.Load()
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop stops the event bus; later publishes fail with ErrBusStopped
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, envelope shared.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, envelope)
}

// LoggingHandler logs every envelope it receives at info level
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a wildcard handler writing to logger
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) Handle(_ context.Context, envelope shared.Envelope) error {
	h.logger.Info("Event delivered",
		zap.String("event_type", envelope.Type),
		zap.String("source", envelope.Source),
		zap.String("bus", envelope.Bus),
		zap.ByteString("detail", envelope.Detail),
	)
	return nil
}

func (h *LoggingHandler) EventTypes() []string { return nil }

var (
	_ shared.EventBus     = (*InMemoryEventBus)(nil)
	_ shared.EventHandler = (*LoggingHandler)(nil)
)
