package daemon

import (
	"testing"
	"time"
)

func TestTickRecorderCountSince(t *testing.T) {
	tests := []struct {
		name  string
		ticks []time.Duration // ages of recorded ticks
		since time.Duration
		want  int
	}{
		{
			name:  "all recent",
			ticks: []time.Duration{30 * time.Second, 20 * time.Second, 10 * time.Second},
			since: time.Minute,
			want:  3,
		},
		{
			name:  "some aged out",
			ticks: []time.Duration{90 * time.Second, 70 * time.Second, 10 * time.Second},
			since: time.Minute,
			want:  1,
		},
		{
			name:  "none recorded",
			ticks: nil,
			since: time.Minute,
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTickRecorder(10)
			for _, age := range tt.ticks {
				r.Add(time.Now().Add(-age))
			}
			if got := r.CountSince(tt.since); got != tt.want {
				t.Errorf("CountSince() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickRecorderCapsEntries(t *testing.T) {
	r := NewTickRecorder(3)
	for i := 0; i < 10; i++ {
		r.Add(time.Now())
	}
	if got := r.CountSince(time.Minute); got != 3 {
		t.Fatalf("CountSince() = %d, want capped at 3", got)
	}
}
