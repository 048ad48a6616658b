package events

import (
	"testing"
	"time"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish(StateTransition, StateTransitionEvent{
		From:          "Cooling",
		To:            "Charging",
		Temperature:   20,
		BatteryCharge: 22,
		Ts:            time.Now().Unix(),
	})

	select {
	case ev := <-ch:
		if ev.Name != StateTransition {
			t.Fatalf("event name = %q, want %q", ev.Name, StateTransition)
		}
		payload, err := DecodeAs[StateTransitionEvent](ev)
		if err != nil {
			t.Fatalf("DecodeAs returned error: %v", err)
		}
		if payload.From != "Cooling" || payload.To != "Charging" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < subscriberBuffer+8; i++ {
		h.Publish(Reseed, ReseedEvent{Reason: "manual"})
	}
	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("buffered events = %d, want %d", got, subscriberBuffer)
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after unsubscribe")
	}
	// Double unsubscribe must be safe.
	h.Unsubscribe(ch)
}
