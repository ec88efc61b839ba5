package event

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/person-service/backend/internal/domain/shared"
)

// subscription binds a handler to the event types it accepts.
// An empty type list accepts every event.
type subscription struct {
	handler shared.EventHandler
	types   []string
}

func (s subscription) accepts(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// HandlerRegistry keeps subscriptions in registration order. Writers copy
// the list; Publish reads a snapshot without locking.
type HandlerRegistry struct {
	mu   sync.Mutex
	subs atomic.Pointer[[]subscription]
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{}
	r.subs.Store(&[]subscription{})
	return r
}

// Register subscribes handler to eventTypes, or to all events when none are given
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.Clone(*r.subs.Load())
	next = append(next, subscription{handler: handler, types: slices.Clone(eventTypes)})
	r.subs.Store(&next)
}

// Unregister drops every subscription of handler
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(*r.subs.Load()), func(s subscription) bool {
		return s.handler == handler
	})
	r.subs.Store(&next)
}

// GetHandlers returns the handlers accepting eventType in registration order
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	var result []shared.EventHandler
	for _, s := range *r.subs.Load() {
		if s.accepts(eventType) {
			result = append(result, s.handler)
		}
	}
	return result
}

// Len returns the number of subscriptions
func (r *HandlerRegistry) Len() int {
	return len(*r.subs.Load())
}
