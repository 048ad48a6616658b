package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func fixedInit(temperature, charge float64) Initializer {
	return func() Snapshot {
		return Snapshot{Temperature: temperature, BatteryCharge: charge, State: StateStart}
	}
}

// captureReporter records every reported snapshot.
type captureReporter struct {
	reports []Snapshot
}

func (r *captureReporter) Report(s Snapshot) { r.reports = append(r.reports, s) }

func tickUntil(t *testing.T, d *Driver, want OperatingState, maxTicks int) Snapshot {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if err := d.Tick(); err != nil {
			t.Fatalf("tick %d returned error: %v", i+1, err)
		}
		if d.Snapshot().State == want {
			return d.Snapshot()
		}
	}
	t.Fatalf("state %q not reached within %d ticks, stuck at %q", want, maxTicks, d.Snapshot().State)
	return Snapshot{}
}

func TestDriverCoolingScenario(t *testing.T) {
	d := NewDriver(fixedInit(28, 86), &captureReporter{})

	if err := d.Tick(); err != nil {
		t.Fatalf("start tick returned error: %v", err)
	}
	if got := d.Snapshot().State; got != StateCooling {
		t.Fatalf("classified as %q, want %q", got, StateCooling)
	}

	snap := tickUntil(t, d, StateCharging, 200)
	if math.Abs(snap.Temperature-20) > 1e-6 {
		t.Fatalf("temperature at hand-off = %v, want 20", snap.Temperature)
	}
	if math.Abs(snap.BatteryCharge-22) > 1e-6 {
		t.Fatalf("battery at hand-off = %v, want 22", snap.BatteryCharge)
	}
}

func TestDriverHeatingScenario(t *testing.T) {
	d := NewDriver(fixedInit(10, 50), &captureReporter{})

	if err := d.Tick(); err != nil {
		t.Fatalf("start tick returned error: %v", err)
	}
	if got := d.Snapshot().State; got != StateHeating {
		t.Fatalf("classified as %q, want %q", got, StateHeating)
	}

	prev := d.Snapshot()
	for prev.State == StateHeating {
		if err := d.Tick(); err != nil {
			t.Fatalf("tick returned error: %v", err)
		}
		cur := d.Snapshot()
		if cur.State == StateHeating {
			if cur.Temperature <= prev.Temperature {
				t.Fatalf("heating must raise temperature, got %v then %v", prev.Temperature, cur.Temperature)
			}
			if cur.BatteryCharge >= prev.BatteryCharge {
				t.Fatalf("heating must drain battery, got %v then %v", prev.BatteryCharge, cur.BatteryCharge)
			}
		}
		prev = cur
	}

	if prev.State != StateCharging {
		t.Fatalf("heating ended in %q, want %q", prev.State, StateCharging)
	}
	// The battery crosses the threshold before the temperature settles.
	if prev.BatteryCharge > lowBatteryThreshold {
		t.Fatalf("battery at hand-off = %v, want <= %v", prev.BatteryCharge, lowBatteryThreshold)
	}
	if math.Abs(prev.Temperature-13.8) > 1e-6 {
		t.Fatalf("temperature at hand-off = %v, want 13.8", prev.Temperature)
	}
}

func TestDriverLowBatteryRoutesStraightToCharging(t *testing.T) {
	d := NewDriver(fixedInit(19, 15), &captureReporter{})

	if err := d.Tick(); err != nil {
		t.Fatalf("start tick returned error: %v", err)
	}
	if got := d.Snapshot().State; got != StateCharging {
		t.Fatalf("classified as %q, want %q without intermediate steps", got, StateCharging)
	}
	if d.acclimate != nil {
		t.Fatalf("no acclimate sequence should be active on a straight charge route")
	}

	if err := d.Tick(); err != nil {
		t.Fatalf("charging tick returned error: %v", err)
	}
	snap := d.Snapshot()
	if snap.BatteryCharge < chargeTarget {
		t.Fatalf("battery after charging = %v, want >= %v", snap.BatteryCharge, chargeTarget)
	}
	// Charging from 15% heats 19 degrees up to roughly 27, so cooling is next.
	if snap.State != StateCooling {
		t.Fatalf("post-charge state = %q, want %q", snap.State, StateCooling)
	}
}

func TestDriverImmediateFinish(t *testing.T) {
	d := NewDriver(fixedInit(19, 50), &captureReporter{})

	if err := d.Tick(); err != nil {
		t.Fatalf("start tick returned error: %v", err)
	}
	if got := d.Snapshot().State; got != StateFinish {
		t.Fatalf("classified as %q, want %q", got, StateFinish)
	}

	if err := d.Tick(); err != nil {
		t.Fatalf("finish tick returned error: %v", err)
	}
	if got := d.Snapshot().State; got != StateStart {
		t.Fatalf("finish must loop back to %q, got %q", StateStart, got)
	}
	if d.Cycles() != 1 {
		t.Fatalf("cycles = %d, want 1", d.Cycles())
	}
}

func TestDriverPostChargeClassification(t *testing.T) {
	tests := []struct {
		name      string
		temp      float64
		wantState OperatingState
		wantSeq   bool
	}{
		{name: "exactly 20 settles", temp: 20, wantState: StateFinish},
		{name: "exactly 18 settles", temp: 18, wantState: StateFinish},
		{name: "just below band", temp: 17.99, wantState: StateHeating, wantSeq: true},
		{name: "just above band", temp: 20.01, wantState: StateCooling, wantSeq: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDriver(nil, &captureReporter{})
			// Enter Charging with the battery already at target so the
			// charge sequence returns immediately and the classified
			// temperature is exact.
			d.snap = Snapshot{Temperature: tt.temp, BatteryCharge: 95, State: StateCharging}

			if err := d.Tick(); err != nil {
				t.Fatalf("charging tick returned error: %v", err)
			}
			if got := d.Snapshot().State; got != tt.wantState {
				t.Fatalf("post-charge state = %q, want %q", got, tt.wantState)
			}
			if gotSeq := d.acclimate != nil; gotSeq != tt.wantSeq {
				t.Fatalf("active sequence = %t, want %t", gotSeq, tt.wantSeq)
			}
		})
	}
}

func TestDriverNeverResumesCompletedSequence(t *testing.T) {
	// Oscillates between cooling and charging indefinitely; any resume
	// past a terminal step would surface as ErrAlreadyCompleted.
	d := NewDriver(fixedInit(21, 30), &captureReporter{})
	for i := 0; i < 5000; i++ {
		if err := d.Tick(); err != nil {
			t.Fatalf("tick %d returned error: %v", i+1, err)
		}
	}
}

func TestDriverReportsPhaseTransitions(t *testing.T) {
	rep := &captureReporter{}
	d := NewDriver(fixedInit(19, 15), rep)

	if err := d.Tick(); err != nil {
		t.Fatalf("start tick returned error: %v", err)
	}
	if err := d.Tick(); err != nil {
		t.Fatalf("charging tick returned error: %v", err)
	}

	// Seed report, charging entry, charging exit, forced cooling.
	wantStates := []OperatingState{StateCharging, StateCharging, StateCharging, StateCooling}
	if len(rep.reports) != len(wantStates) {
		t.Fatalf("got %d reports, want %d", len(rep.reports), len(wantStates))
	}
	for i, want := range wantStates {
		if rep.reports[i].State != want {
			t.Fatalf("report %d state = %q, want %q", i, rep.reports[i].State, want)
		}
	}
	if rep.reports[2].BatteryCharge < chargeTarget {
		t.Fatalf("charging exit report battery = %v, want >= %v", rep.reports[2].BatteryCharge, chargeTarget)
	}
}

func TestDriverReporterMayReadDriver(t *testing.T) {
	// Reporters that call back into the driver (the daemon's event
	// reporter reads the cycle count) must not block the tick.
	var d *Driver
	var cycles []uint64
	rep := ReporterFunc(func(Snapshot) {
		_ = d.Snapshot()
		cycles = append(cycles, d.Cycles())
	})
	d = NewDriver(fixedInit(19, 50), rep)

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 2; i++ { // Start classification, then Finish
			if err := d.Tick(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("tick returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("tick did not complete; reporter blocked the driver")
	}
	if len(cycles) != 2 {
		t.Fatalf("got %d reports, want 2", len(cycles))
	}
}

func TestDriverInvalidInitializer(t *testing.T) {
	d := NewDriver(func() Snapshot {
		return Snapshot{Temperature: math.NaN(), BatteryCharge: 50, State: StateStart}
	}, &captureReporter{})

	if err := d.Tick(); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestDriverStandbyIsNoop(t *testing.T) {
	d := NewDriver(nil, &captureReporter{})
	d.snap = Snapshot{Temperature: 19, BatteryCharge: 50, State: StateStandby}

	if err := d.Tick(); err != nil {
		t.Fatalf("standby tick returned error: %v", err)
	}
	if got := d.Snapshot(); got.State != StateStandby || got.Temperature != 19 {
		t.Fatalf("standby must not change the snapshot, got %+v", got)
	}
}

func TestDriverReset(t *testing.T) {
	d := NewDriver(fixedInit(28, 86), &captureReporter{})
	if err := d.Tick(); err != nil {
		t.Fatalf("start tick returned error: %v", err)
	}
	if d.acclimate == nil {
		t.Fatalf("expected an active sequence before reset")
	}

	d.Reset()
	if d.acclimate != nil {
		t.Fatalf("reset must abandon the active sequence")
	}
	if got := d.Snapshot().State; got != StateStart {
		t.Fatalf("reset state = %q, want %q", got, StateStart)
	}
}

func TestDriverRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDriver(fixedInit(21, 30), &captureReporter{})
	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
