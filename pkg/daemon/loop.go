package daemon

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	simLoopLock  = &sync.Mutex{}
	tickRecorder = NewTickRecorder(120)
)

// TickRecorder remembers when the most recent simulation ticks ran, so
// status can report how busy the loop has been.
type TickRecorder struct {
	max   int
	ticks []time.Time
	mu    *sync.Mutex
}

// NewTickRecorder returns a recorder keeping at most max entries.
func NewTickRecorder(max int) *TickRecorder {
	return &TickRecorder{
		max: max,
		mu:  &sync.Mutex{},
	}
}

// Add records a tick at t. The monotonic clock reading is stripped so
// time.Since stays accurate across system sleep.
func (r *TickRecorder) Add(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t = t.Round(0)
	if len(r.ticks) >= r.max {
		r.ticks = r.ticks[1:]
	}
	r.ticks = append(r.ticks, t)
}

// CountSince returns how many recorded ticks happened in the last d.
func (r *TickRecorder) CountSince(d time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i := len(r.ticks) - 1; i >= 0; i-- {
		if time.Since(r.ticks[i]) > d {
			break
		}
		count++
	}
	return count
}

// runLoop ticks the driver until stop closes or a tick fails. The
// interval is re-read from config every iteration so SIGHUP reloads and
// API updates take effect without a restart.
func runLoop(stop <-chan struct{}) {
	logrus.Debug("simulation loop starts")

	for {
		select {
		case <-stop:
			logrus.Debug("simulation loop stopped")
			return
		default:
		}

		simLoopLock.Lock()
		err := drv.Tick()
		simLoopLock.Unlock()
		tickRecorder.Add(time.Now())

		if err != nil {
			logrus.Errorf("simulation tick failed: %v", err)
			return
		}

		select {
		case <-stop:
			logrus.Debug("simulation loop stopped")
			return
		case <-time.After(conf.TickInterval()):
		}
	}
}
