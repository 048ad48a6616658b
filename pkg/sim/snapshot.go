package sim

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

// OperatingState defines the externally visible phases of the regulator.
type OperatingState string

const (
	StateStart    OperatingState = "Start"
	StateCooling  OperatingState = "Cooling"
	StateHeating  OperatingState = "Heating"
	StateCharging OperatingState = "Charging"
	StateFinish   OperatingState = "Finish"

	// StateStandby is reserved. It is part of the state vocabulary but
	// nothing transitions into it; the driver treats it as a no-op.
	StateStandby OperatingState = "StandBy"
)

// Snapshot is the value record shared between the driver and the
// sequences. It is always passed and stored by value: the driver and
// each sequence operate on independent copies, and a snapshot observed
// across a suspension point is always completely updated.
type Snapshot struct {
	Temperature   float64        `json:"temperature"`
	BatteryCharge float64        `json:"batteryCharge"`
	State         OperatingState `json:"operatingState"`
}

// Validate rejects snapshots whose numeric fields are NaN or infinite.
// Such values would not fail loudly on their own; they would just step
// the simulation into garbage.
func (s Snapshot) Validate() error {
	if math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0) {
		return pkgerrors.Wrapf(ErrInvalidSnapshot, "temperature is %v", s.Temperature)
	}
	if math.IsNaN(s.BatteryCharge) || math.IsInf(s.BatteryCharge, 0) {
		return pkgerrors.Wrapf(ErrInvalidSnapshot, "battery charge is %v", s.BatteryCharge)
	}
	return nil
}
