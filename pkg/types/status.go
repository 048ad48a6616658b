package types

import (
	"time"

	"github.com/thermoreg/thermoreg/pkg/sim"
)

// RegulatorStatus is the daemon status view model returned by the
// /status endpoint. It is shared between the daemon and client packages
// to keep the JSON contract consistent.
type RegulatorStatus struct {
	Snapshot        sim.Snapshot `json:"snapshot"`
	Cycles          uint64       `json:"cycles"`
	TickIntervalMS  int          `json:"tickIntervalMs"`
	TicksLastMinute int          `json:"ticksLastMinute"`
	ReseedSchedule  string       `json:"reseedSchedule,omitempty"`
	NextReseed      *time.Time   `json:"nextReseed,omitempty"`
}
