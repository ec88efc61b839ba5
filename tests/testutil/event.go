package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/person-service/backend/internal/domain/shared"
)

// RecordingPublisher is a shared.EventPublisher that keeps every envelope
// it accepts. A configured error makes Publish fail without recording.
type RecordingPublisher struct {
	mu        sync.Mutex
	published []shared.Envelope
	err       error
}

// NewRecordingPublisher creates an empty recording publisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records envelope unless an error is configured.
func (p *RecordingPublisher) Publish(_ context.Context, envelope shared.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, envelope)
	return nil
}

// SetError sets the error to return from Publish.
func (p *RecordingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Published returns a copy of all accepted envelopes.
func (p *RecordingPublisher) Published() []shared.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]shared.Envelope, len(p.published))
	copy(result, p.published)
	return result
}

// MockEventHandler is a shared.EventHandler that records delivered envelopes.
type MockEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.Envelope
	err        error
}

// NewMockEventHandler creates a new mock event handler.
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to.
func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records envelope and returns the configured error.
func (h *MockEventHandler) Handle(_ context.Context, envelope shared.Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, envelope)
	return h.err
}

// SetError sets the error to return from Handle.
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Handled returns all handled envelopes.
func (h *MockEventHandler) Handled() []shared.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.Envelope, len(h.handled))
	copy(result, h.handled)
	return result
}

// HandledCount returns the number of handled envelopes.
func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// WaitForEventCount waits until the handler has processed at least n events.
func WaitForEventCount(t *testing.T, handler *MockEventHandler, count int, timeout time.Duration) bool {
	t.Helper()

	return WaitForCondition(t, func() bool {
		return handler.HandledCount() >= count
	}, timeout, 10*time.Millisecond)
}

var (
	_ shared.EventPublisher = (*RecordingPublisher)(nil)
	_ shared.EventHandler   = (*MockEventHandler)(nil)
)
