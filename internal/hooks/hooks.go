// Package hooks provides an event-driven hook system for Safe Talk lifecycle events.
package hooks

import (
	"context"
	"sort"
	"sync"

	"github.com/soyeahso/safetalk/internal/logging"
)

// Event names for the hook system.
const (
	EventNotificationRevealed   = "notification_revealed"
	EventNotificationClassified = "notification_classified"
	EventNotificationOpened     = "notification_opened"
	EventFlowTransition         = "flow_transition"
	EventChatReplied            = "chat_replied"
	EventChatFailed             = "chat_failed"
	EventDetectionServed        = "detection_served"
	EventGatewayStart           = "gateway_start"
	EventGatewayStop            = "gateway_stop"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventNotificationRevealed,
	EventNotificationClassified,
	EventNotificationOpened,
	EventFlowTransition,
	EventChatReplied,
	EventChatFailed,
	EventDetectionServed,
	EventGatewayStart,
	EventGatewayStop,
}

// Emitter is the publishing side of a Manager.
type Emitter interface {
	Emit(ctx context.Context, event string, data map[string]any)
}

// Nop is an Emitter that drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, string, map[string]any) {}

// Payload carries event data to hook handlers.
type Payload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler is a function that handles a hook event.
// Returning an error logs the failure but does not stop processing.
type Handler func(ctx context.Context, p Payload) error

// Manager manages hook registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for the given event.
// The name identifies the handler for logging and debugging.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Emit dispatches an event to all registered handlers synchronously.
// Handlers are called in registration order. Errors are logged but do not
// prevent subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	payload := Payload{Event: event, Data: data}

	for _, h := range handlers {
		if err := h.handler(ctx, payload); err != nil {
			m.log.Warn().
				Err(err).
				Str("event", event).
				Str("handler", h.name).
				Msg("hook handler error")
		}
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Events returns the list of events that have at least one handler registered.
func (m *Manager) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]string, 0, len(m.handlers))
	for event, handlers := range m.handlers {
		if len(handlers) > 0 {
			events = append(events, event)
		}
	}
	sort.Strings(events)
	return events
}

// RegisterLogging attaches a debug-level logging handler to every known event.
func RegisterLogging(m *Manager, log *logging.Logger) {
	hl := log.Sub("events")
	for _, event := range AllEvents {
		m.On(event, "log", func(_ context.Context, p Payload) error {
			hl.Debug().Str("event", p.Event).Fields(p.Data).Msg("lifecycle event")
			return nil
		})
	}
}
