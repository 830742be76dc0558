package events

import (
	"sync"
	"time"
)

const (
	// TypeSettingsSaved fires after a settings blob is persisted.
	TypeSettingsSaved = "settings.saved"
	// TypeBookingLinkSaved fires after the booking link is created or updated.
	TypeBookingLinkSaved = "booking_link.saved"
	// TypeAppointmentsChanged fires when upstream bookings changed and cached
	// appointment ranges must be dropped before the next regeneration.
	TypeAppointmentsChanged = "appointments.changed"
)

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	StylistID string
	Kind      string
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type and returns the first
// handler error. All handlers run even if one fails.
func (b *EventBus) Publish(event Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var first error
	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		if err := handler(event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
