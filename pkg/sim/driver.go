package sim

import (
	"context"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Reporter consumes a progress line after phase transitions. The output
// is informational only; its format is not a contract surface.
// Reporters run after the driver has released its internal lock, so
// they may call back into the driver.
type Reporter interface {
	Report(Snapshot)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Snapshot)

func (f ReporterFunc) Report(s Snapshot) { f(s) }

// Driver walks the regulator state machine. It owns the canonical
// snapshot and the lifecycle of the active sequence: a sequence is
// created when its phase is entered and dropped when the phase is left,
// whether or not it ran to its terminal step. The driver only ever
// copies values out of a sequence, never aliases its private state.
type Driver struct {
	mu        sync.RWMutex
	snap      Snapshot
	acclimate *AcclimateSequence
	cycles    uint64
	pending   []Snapshot

	init     Initializer
	reporter Reporter
	log      *logrus.Entry
}

// NewDriver creates a driver in the Start state. A nil init seeds
// random snapshots; a nil reporter logs transitions through logrus.
func NewDriver(init Initializer, reporter Reporter) *Driver {
	if init == nil {
		init = RandomSnapshot
	}
	d := &Driver{
		init: init,
		snap: Snapshot{State: StateStart},
		log:  logrus.WithField("component", "driver"),
	}
	if reporter == nil {
		reporter = ReporterFunc(d.logReport)
	}
	d.reporter = reporter
	return d
}

func (d *Driver) logReport(s Snapshot) {
	d.log.WithFields(logrus.Fields{
		"temperature":   s.Temperature,
		"batteryCharge": s.BatteryCharge,
		"state":         s.State,
	}).Info("phase transition")
}

// Snapshot returns a copy of the canonical snapshot.
func (d *Driver) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Cycles returns how many Finish states the machine has passed through.
func (d *Driver) Cycles() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cycles
}

// Reset abandons any active sequence and forces the machine back to
// Start. The next Tick seeds a fresh snapshot.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acclimate = nil
	d.snap = Snapshot{State: StateStart}
}

// Run ticks the machine until ctx is done. The machine itself never
// halts: Finish loops back to Start by design, so the original outer
// guard of "keep going while not finished" could never trigger. The
// context is the real stop mechanism.
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := d.Tick(); err != nil {
			return err
		}
	}
}

// Tick performs exactly one state-machine iteration. A returned error
// means the current phase was aborted; the driver must not be ticked
// again on the same snapshot.
func (d *Driver) Tick() error {
	d.mu.Lock()
	err := d.tickLocked()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	// Deliver reports with the lock released; a reporter holding up
	// the tick or reading the driver back must not deadlock the loop.
	for _, s := range pending {
		d.reporter.Report(s)
	}
	return err
}

// report queues a snapshot for delivery once the current tick has
// released the lock.
func (d *Driver) report(s Snapshot) {
	d.pending = append(d.pending, s)
}

func (d *Driver) tickLocked() error {
	switch d.snap.State {
	case StateStart:
		return d.tickStart()
	case StateCooling, StateHeating:
		return d.tickAcclimate()
	case StateCharging:
		return d.tickCharging()
	case StateFinish:
		return d.tickFinish()
	case StateStandby:
		// Reserved state; nothing drives it.
		return nil
	default:
		return pkgerrors.Errorf("unknown operating state %q", d.snap.State)
	}
}

func (d *Driver) tickStart() error {
	snap := d.init()
	if err := snap.Validate(); err != nil {
		return pkgerrors.Wrap(err, "initializer produced unusable snapshot")
	}

	switch {
	case snap.BatteryCharge > lowBatteryThreshold && snap.Temperature < settledLowTemp:
		snap.State = StateHeating
	case snap.BatteryCharge > lowBatteryThreshold && snap.Temperature > settledHighTemp:
		snap.State = StateCooling
	case snap.BatteryCharge > lowBatteryThreshold:
		snap.State = StateFinish
	default:
		snap.State = StateCharging
	}
	d.snap = snap
	d.report(d.snap)

	if snap.State == StateCooling || snap.State == StateHeating {
		d.acclimate = NewAcclimateSequence(d.snap)
		// Prime the fresh sequence once. The primed step stays inside
		// the sequence's private copy; the driver adopts values
		// starting from the next resume.
		if _, err := d.acclimate.Step(); err != nil {
			d.acclimate = nil
			return pkgerrors.Wrap(err, "prime acclimate sequence")
		}
	}
	return nil
}

func (d *Driver) tickAcclimate() error {
	if d.acclimate == nil {
		return pkgerrors.Errorf("in state %q without an active acclimate sequence", d.snap.State)
	}
	res, err := d.acclimate.Step()
	if err != nil {
		d.acclimate = nil
		return pkgerrors.Wrap(err, "resume acclimate sequence")
	}
	d.snap = res.Snapshot
	if res.Kind == StepDone {
		// Charging hand-off; the sequence is terminal, drop it.
		d.acclimate = nil
	}
	return nil
}

func (d *Driver) tickCharging() error {
	// Any acclimate sequence that brought us here is abandoned
	// mid-stream; charging starts from the adopted snapshot only.
	d.acclimate = nil
	d.report(d.snap)

	res, err := NewChargeSequence(d.snap).Run()
	if err != nil {
		return pkgerrors.Wrap(err, "run charge sequence")
	}
	d.snap = res
	d.report(d.snap)

	switch {
	case d.snap.Temperature < settledLowTemp:
		d.snap.State = StateHeating
		d.acclimate = NewAcclimateSequence(d.snap)
		d.report(d.snap)
	case d.snap.Temperature > settledHighTemp:
		d.snap.State = StateCooling
		d.acclimate = NewAcclimateSequence(d.snap)
		d.report(d.snap)
	default:
		// Exactly 18 or 20 degrees counts as settled.
		d.snap.State = StateFinish
	}
	return nil
}

func (d *Driver) tickFinish() error {
	d.report(d.snap)
	d.snap.State = StateStart
	d.cycles++
	return nil
}
