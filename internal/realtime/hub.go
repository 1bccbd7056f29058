package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/quickcare/quickcare-backend/internal/bookings"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

const subscriberBuffer = 16

// Hub fans booking change events out to connected dashboard clients. A
// subscriber either follows one user's bookings or, with a nil user ID,
// guest bookings only; owned bookings never reach anonymous connections.
type Hub struct {
	logger *logging.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	userID *uuid.UUID
	ch     chan bookings.ChangeEvent
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{logger: logger, subs: make(map[int]*subscriber)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the client goes away; it closes the event channel.
func (h *Hub) Subscribe(userID *uuid.UUID) (<-chan bookings.ChangeEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	sub := &subscriber{userID: userID, ch: make(chan bookings.ChangeEvent, subscriberBuffer)}
	h.subs[id] = sub

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Broadcast delivers an event to every matching subscriber. Slow clients
// with a full buffer are skipped rather than blocking the feed.
func (h *Hub) Broadcast(event bookings.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !wants(sub, event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("dropping booking change for slow subscriber", "booking_id", event.BookingID)
		}
	}
}

// wants reports whether a subscriber should see the event. Anonymous
// subscribers see guest bookings only; authenticated ones see their own.
func wants(sub *subscriber, event bookings.ChangeEvent) bool {
	if sub.userID == nil {
		return event.UserID == nil
	}
	return event.UserID != nil && *event.UserID == *sub.userID
}

// LocalPublisher feeds the in-process hub directly, used when no shared
// database carries the feed between instances.
type LocalPublisher struct {
	hub *Hub
}

// NewLocalPublisher creates a publisher that broadcasts straight to hub.
func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) PublishBookingChange(_ context.Context, event bookings.ChangeEvent) error {
	p.hub.Broadcast(event)
	return nil
}

// Run pumps events from source into the hub until ctx is canceled or the
// source closes.
func (h *Hub) Run(ctx context.Context, source <-chan bookings.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-source:
			if !ok {
				return
			}
			h.Broadcast(event)
		}
	}
}
