// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

var ErrHubClosed = errors.New("hub closed")

// Event is one change delivered to subscribers.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"event"`
	Payload     any       `json:"data"`
	PublishedAt time.Time `json:"published_at"`
}

// Subscription is a live feed. C is closed when the subscriber is removed,
// whether by Unsubscribe, by falling behind, or by Close.
type Subscription struct {
	ID string
	C  <-chan Event

	ch chan Event
}

// Stats counts deliveries since the hub was created.
type Stats struct {
	Published uint64
	Sent      uint64
	Dropped   uint64
}

// Hub fans events out to subscribers without ever blocking the publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*Subscription
	buffer      int
	closed      bool

	published atomic.Uint64
	sent      atomic.Uint64
	dropped   atomic.Uint64

	logger *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]*Subscription),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers a new subscriber. It only sees events published after
// it returns.
func (h *Hub) Subscribe() (*Subscription, error) {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{ID: uuid.NewString(), C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	h.subscribers[sub.ID] = sub
	h.logger.Debug("subscriber added", "subscriber_id", sub.ID, "subscribers", len(h.subscribers))
	return sub, nil
}

// Unsubscribe removes sub. Calling it for an already removed subscriber is a
// no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sub.ID)
}

// Publish delivers an event to every subscriber with room in its buffer.
// Subscribers whose buffer is full are dropped. Publish holds the registry
// lock for the whole fan-out so each subscriber sees events in publish
// order.
func (h *Hub) Publish(name string, payload any) {
	ev := Event{
		ID:          uuid.NewString(),
		Name:        name,
		Payload:     payload,
		PublishedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.published.Add(1)

	for id, sub := range h.subscribers {
		select {
		case sub.ch <- ev:
			h.sent.Add(1)
		default:
			h.dropped.Add(1)
			h.logger.Debug("dropping slow subscriber", "subscriber_id", id, "event", name)
			h.remove(id)
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) Stats() Stats {
	return Stats{
		Published: h.published.Load(),
		Sent:      h.sent.Load(),
		Dropped:   h.dropped.Load(),
	}
}

// Close removes every subscriber. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id := range h.subscribers {
		h.remove(id)
	}
}

// remove must be called with mu held.
func (h *Hub) remove(id string) {
	sub, ok := h.subscribers[id]
	if !ok {
		return
	}
	delete(h.subscribers, id)
	close(sub.ch)
}
