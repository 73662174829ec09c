package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kiosk404/echosql/pkg/logger"
)

// subscriberBuffer bounds how many undelivered events a slow subscriber
// can accumulate before new ones are dropped rather than blocking the
// publisher — publishing happens inline with request-state transitions
// (queryflow.Runner.Run) and must never stall on a stuck SSE client.
const subscriberBuffer = 32

// Hub fans out Events published for a session to every current
// subscriber of that session's stream (spec §6.3). Generalizes the
// single-consumer schema.Pipe the teacher uses for one run's event
// stream into a per-session multi-subscriber registry, since this
// contract requires delivery to *all* current subscribers, not one.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[string]chan Event // sessionID -> subscriberID -> channel
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[string]chan Event)}
}

// Subscribe registers a new subscriber for sessionID and returns its
// channel plus an Unsubscribe func the caller must invoke when the SSE
// connection closes.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	id := uuid.New().String()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[string]chan Event)
	}
	h.subs[sessionID][id] = ch
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subs[sessionID]; ok {
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
			}
			if len(subs) == 0 {
				delete(h.subs, sessionID)
			}
		}
	}
	return ch, unsubscribe
}

// Publish delivers ev to every current subscriber of sessionID. Delivery
// is non-blocking: a subscriber whose buffer is full drops the event
// rather than stalling the publisher (recoverable for request_update via
// a point-in-time fetch per spec §6.3; agent_status is transient by
// design).
func (h *Hub) Publish(sessionID string, ev Event) {
	h.mu.Lock()
	subs := h.subs[sessionID]
	channels := make([]chan Event, 0, len(subs))
	for _, ch := range subs {
		channels = append(channels, ch)
	}
	h.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- ev:
		default:
			logger.WarnX("events", "subscriber buffer full for session %s, dropping %s event", sessionID, ev.Kind)
		}
	}
}

// SubscriberCount reports how many subscribers sessionID currently has.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}
