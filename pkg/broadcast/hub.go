// Package broadcast carries the payload-free change cue between the session
// state stores and their observers. Delivery is in-process, synchronous and
// ordered: a subscriber only ever runs after the persisted write that
// triggered the cue has completed.
package broadcast

import (
	"sync"
)

// UnsubscribeFunc removes a subscription. Observers must call it on
// teardown; a dangling subscription keeps receiving cues.
type UnsubscribeFunc func()

type subscriber struct {
	id uint64
	fn func()
}

// Hub fans a named cue out to every current subscriber of that topic.
// The cue carries no data; subscribers re-read whatever store they watch.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	topics map[string][]subscriber
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string][]subscriber)}
}

// Subscribe registers fn for the topic and returns its unsubscribe handle.
// Subscribers are invoked in subscription order.
func (h *Hub) Subscribe(topic string, fn func()) UnsubscribeFunc {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.topics[topic] = append(h.topics[topic], subscriber{id: id, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.topics[topic]
		for i, sub := range subs {
			if sub.id == id {
				h.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Emit invokes every subscriber of the topic synchronously, in order.
// The subscriber list is snapshotted first so a callback may unsubscribe
// itself (or subscribe others) without corrupting delivery.
func (h *Hub) Emit(topic string) {
	h.mu.Lock()
	subs := make([]subscriber, len(h.topics[topic]))
	copy(subs, h.topics[topic])
	h.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

// SubscriberCount reports how many subscribers a topic currently has.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
