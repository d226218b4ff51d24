// Package events carries fire-and-forget notifications from the core to the UI.
package events

import (
	"context"
	"log"
	"sync"
)

// Event names published by the profile store.
const (
	ProfileCreated   = "profile.created"
	ProfileSwitched  = "profile.switched"
	ProfileDeleted   = "profile.deleted"
	SessionCompleted = "session.completed"
	StreakExtended   = "streak.extended"
	SettingsSaved    = "settings.saved"
)

// Event is a named notification with an arbitrary payload.
type Event struct {
	Name     string
	Username string
	Payload  any
}

// Handler reacts to an event. Handlers run on the publisher's goroutine and
// must not block.
type Handler func(context.Context, Event) error

// Bus dispatches events to subscribers by name. A nil *Bus drops everything.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *log.Logger
}

// NewBus returns a bus that logs handler failures to logger (or discards them
// when logger is nil).
func NewBus(logger *log.Logger) *Bus {
	return &Bus{handlers: map[string][]Handler{}, logger: logger}
}

// Subscribe registers handler for the named events.
func (b *Bus) Subscribe(handler Handler, names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range names {
		b.handlers[name] = append(b.handlers[name], handler)
	}
}

// Publish delivers e to every subscriber in registration order. Handler errors
// are logged and never returned; a failing handler does not stop the others.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Name]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, e); err != nil && b.logger != nil {
			b.logger.Printf("event %s handler failed: %v", e.Name, err)
		}
	}
}
