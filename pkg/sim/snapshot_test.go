package sim

import (
	"errors"
	"math"
	"testing"
)

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Snapshot
		wantErr bool
	}{
		{name: "plausible readings", in: Snapshot{Temperature: 22.5, BatteryCharge: 80, State: StateStart}},
		{name: "out-of-domain but finite", in: Snapshot{Temperature: -40, BatteryCharge: 400}},
		{name: "nan temperature", in: Snapshot{Temperature: math.NaN(), BatteryCharge: 50}, wantErr: true},
		{name: "positive inf temperature", in: Snapshot{Temperature: math.Inf(1), BatteryCharge: 50}, wantErr: true},
		{name: "nan battery", in: Snapshot{Temperature: 20, BatteryCharge: math.NaN()}, wantErr: true},
		{name: "negative inf battery", in: Snapshot{Temperature: 20, BatteryCharge: math.Inf(-1)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSnapshot) {
					t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
		})
	}
}

func TestRandomInitializerDomain(t *testing.T) {
	initialize := NewRandomInitializer(55, 100)
	for i := 0; i < 200; i++ {
		snap := initialize()
		if snap.State != StateStart {
			t.Fatalf("seed state = %q, want %q", snap.State, StateStart)
		}
		if snap.Temperature < 0 || snap.Temperature >= 55 {
			t.Fatalf("seed temperature = %v, want [0, 55)", snap.Temperature)
		}
		if snap.BatteryCharge < 0 || snap.BatteryCharge >= 100 {
			t.Fatalf("seed battery charge = %v, want [0, 100)", snap.BatteryCharge)
		}
		if snap.Temperature != math.Trunc(snap.Temperature) {
			t.Fatalf("seed temperature = %v, want integer-valued", snap.Temperature)
		}
	}
}
