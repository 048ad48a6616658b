package sim

const (
	// lowBatteryThreshold is the charge percentage below which the
	// regulator gives up acclimating and hands off to charging.
	lowBatteryThreshold = 20.0

	// The settled temperature band. Thresholds are strict: exactly 18
	// or 20 degrees counts as settled.
	settledLowTemp  = 18.0
	settledHighTemp = 20.0

	acclimateTempStep  = 0.1
	acclimateDrainStep = 0.8
)

// AcclimateSequence steps temperature toward the settled band while
// discharging the battery, suspending after every step. Each instance
// is single-use: it is restartable only by constructing a new sequence
// from a fresh snapshot.
type AcclimateSequence struct {
	cur  Snapshot
	done bool
}

var _ StepwiseProducer = (*AcclimateSequence)(nil)

// NewAcclimateSequence creates a sequence over a private copy of in.
func NewAcclimateSequence(in Snapshot) *AcclimateSequence {
	return &AcclimateSequence{cur: in}
}

// Step advances the sequence by exactly one logical step and returns a
// copy of the working snapshot. The sequence does not advance again
// until the next Step call.
//
// Cooling is considered before heating on every resume, and a drained
// battery short-circuits straight to the charging hand-off, wherever in
// the stepping it happens.
func (s *AcclimateSequence) Step() (StepResult, error) {
	if s.done {
		return StepResult{}, ErrAlreadyCompleted
	}
	if err := s.cur.Validate(); err != nil {
		s.done = true
		return StepResult{}, err
	}

	switch {
	case s.cur.BatteryCharge <= lowBatteryThreshold:
		// Not enough battery left to regulate temperature.
		s.cur.State = StateCharging
		s.done = true
		return StepResult{Kind: StepDone, Snapshot: s.cur}, nil
	case s.cur.Temperature > settledHighTemp:
		s.cur.Temperature -= acclimateTempStep
		s.cur.BatteryCharge -= acclimateDrainStep
		s.cur.State = StateCooling
		return StepResult{Kind: StepYielded, Snapshot: s.cur}, nil
	case s.cur.Temperature < settledLowTemp:
		s.cur.Temperature += acclimateTempStep
		s.cur.BatteryCharge -= acclimateDrainStep
		s.cur.State = StateHeating
		return StepResult{Kind: StepYielded, Snapshot: s.cur}, nil
	default:
		// Temperature settled in [18, 20]; final charging hand-off.
		s.cur.State = StateCharging
		s.done = true
		return StepResult{Kind: StepDone, Snapshot: s.cur}, nil
	}
}

// Done reports whether the sequence has produced its terminal step.
func (s *AcclimateSequence) Done() bool { return s.done }
