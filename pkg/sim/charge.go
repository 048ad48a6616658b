package sim

const (
	chargeTarget   = 94.9
	chargeStep     = 0.1
	chargeHeatStep = 0.01
)

// ChargeSequence drives the battery charge to the target in a single
// blocking computation. Unlike AcclimateSequence it exposes no
// intermediate steps: callers get exactly one terminal result.
type ChargeSequence struct {
	cur  Snapshot
	done bool
}

var _ OneShotProducer = (*ChargeSequence)(nil)

// NewChargeSequence creates a sequence over a private copy of in.
func NewChargeSequence(in Snapshot) *ChargeSequence {
	return &ChargeSequence{cur: in}
}

// Run performs every charge iteration and returns the terminal
// snapshot. Charging nudges the temperature up a little per iteration.
// The operating state comes back exactly as it was passed in; that
// field belongs to the driver.
//
// A snapshot already at or above the target returns immediately with
// the charge unchanged. Calling Run a second time returns
// ErrAlreadyCompleted.
func (s *ChargeSequence) Run() (Snapshot, error) {
	if s.done {
		return Snapshot{}, ErrAlreadyCompleted
	}
	s.done = true

	if err := s.cur.Validate(); err != nil {
		return Snapshot{}, err
	}

	for s.cur.BatteryCharge < chargeTarget {
		s.cur.BatteryCharge += chargeStep
		s.cur.Temperature += chargeHeatStep
	}
	return s.cur, nil
}
