package sim

// StepKind tags the result of resuming a stepwise sequence.
type StepKind int

const (
	// StepYielded means the sequence suspended after a regular step and
	// may be resumed again.
	StepYielded StepKind = iota
	// StepDone means the carried snapshot is the final step. Resuming
	// again returns ErrAlreadyCompleted.
	StepDone
)

// StepResult is handed back on every resume of a stepwise sequence. The
// snapshot is a copy; it never aliases the sequence's private state.
type StepResult struct {
	Kind     StepKind
	Snapshot Snapshot
}

// StepwiseProducer yields one snapshot per explicit resume until it
// reaches a terminal step.
type StepwiseProducer interface {
	Step() (StepResult, error)
	Done() bool
}

// OneShotProducer runs all of its internal iterations in one call and
// exposes only the terminal result.
//
// The two producer contracts are deliberately separate. The driver's
// transition logic depends on the asymmetry: acclimating needs
// per-step feedback, charging never does.
type OneShotProducer interface {
	Run() (Snapshot, error)
}
