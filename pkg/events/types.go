package events

import "encoding/json"

// Event name constants
const (
	StateTransition = "sim.transition"
	Reseed          = "sim.reseed"
)

// Event is a generic SSE event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// StateTransitionEvent is the typed payload for sim.transition.
type StateTransitionEvent struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Temperature   float64 `json:"temperature"`
	BatteryCharge float64 `json:"batteryCharge"`
	Cycle         uint64  `json:"cycle"`
	Ts            int64   `json:"ts"`
}

// ReseedEvent is the typed payload for sim.reseed.
type ReseedEvent struct {
	Reason string `json:"reason"` // "manual" or "scheduled"
	Ts     int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified type T.
// It ignores the event name and simply unmarshals Data into T. If Data
// is empty, it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
