// Package fanout broadcasts task events to every connected subscriber.
//
// Delivery is best effort: a subscriber whose buffer is full misses the event,
// nothing is queued for subscribers that connect later, and Publish never
// blocks on a slow consumer.
package fanout

import (
	"log/slog"
	"sync"

	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/google/uuid"
)

const DefaultBuffer = 16

type Hub struct {
	logger *slog.Logger
	buffer int

	mu   sync.RWMutex
	subs map[string]*Subscription
}

type Subscription struct {
	ID     string
	events chan schemas.Event
	hub    *Hub
	once   sync.Once
}

func NewHub(logger *slog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		logger: logger,
		buffer: buffer,
		subs:   make(map[string]*Subscription),
	}
}

func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		events: make(chan schemas.Event, h.buffer),
		hub:    h,
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("Push subscriber connected", "subscriber_id", sub.ID, "subscribers", count)
	return sub
}

// Publish hands event to every subscriber registered at call time.
func (h *Hub) Publish(event schemas.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		select {
		case sub.events <- event:
		default:
			h.logger.Warn("Dropping event for slow subscriber",
				"subscriber_id", id,
				"event", event.Kind,
				"task_id", event.Data.ID,
			)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub.ID)
	count := len(h.subs)
	close(sub.events)
	h.mu.Unlock()

	h.logger.Debug("Push subscriber disconnected", "subscriber_id", sub.ID, "subscribers", count)
}

// Events is closed once the subscription is closed.
func (s *Subscription) Events() <-chan schemas.Event {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}
