// Package spectate streams playback to websocket subscribers.
package spectate

import (
	"sync"

	"github.com/tatianab/tactics-game/internal/models"
	"github.com/tatianab/tactics-game/internal/replay"
)

// Frame is one dispatched action in its positional wire form.
type Frame []any

const subscriberBuffer = 256

// Hub fans frames out to subscribers. A subscriber whose buffer is full
// loses the frame; playback never waits on the network.
type Hub struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]chan Frame
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]chan Frame)}
}

// Register creates a subscription and returns its id and channel.
func (h *Hub) Register() (int, <-chan Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Frame, subscriberBuffer)
	h.subscribers[id] = ch
	return id, ch
}

// Unregister closes the subscriber's channel.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

func (h *Hub) Broadcast(f Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- f:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close unregisters every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Sink returns a replay.Sink that broadcasts every dispatched action.
func (h *Hub) Sink() replay.Sink {
	return replay.Func(func(a models.Action) {
		h.Broadcast(Frame(a.Fields()))
	})
}
