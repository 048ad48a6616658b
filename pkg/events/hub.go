package events

import (
	"encoding/json"
	"sync"
)

const subscriberBuffer = 16

// EventHub fans daemon events out to SSE subscribers.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewEventHub() *EventHub { return &EventHub{subs: make(map[chan Event]struct{})} }

func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish marshals payload and delivers it to every subscriber. Slow
// subscribers have the event dropped rather than stalling the loop.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	h.mu.RUnlock()
}
