package daemon

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// TaskFunc represents a runnable task.
type TaskFunc func() error

// NotifyFunc is called with out-of-band scheduler notifications.
type NotifyFunc func(data any)

// Scheduler runs a task on a cron schedule. The daemon uses it to
// reseed the simulation periodically.
type Scheduler struct {
	Task    TaskFunc   // task callback
	OnError NotifyFunc // called on task error

	parser cron.Parser

	schedule cron.Schedule
	expr     string
	nextRun  time.Time

	mu      sync.Mutex
	running bool

	recalcCh chan struct{}
	stopCh   chan struct{}
}

func NewScheduler(task TaskFunc, onError NotifyFunc) *Scheduler {
	if task == nil {
		panic("task function cannot be nil")
	}

	return &Scheduler{
		Task:     task,
		OnError:  onError,
		parser:   cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		recalcCh: make(chan struct{}, 4),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.runScheduled()
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
	}
}

// Schedule sets the cron expression. An empty expression disables the
// scheduler until a new one is set.
func (s *Scheduler) Schedule(cronExpr string) error {
	if cronExpr == "" {
		s.mu.Lock()
		s.schedule = nil
		s.expr = ""
		s.nextRun = time.Time{}
		running := s.running
		s.mu.Unlock()
		if running {
			s.trySendRecalc()
		}
		return nil
	}

	sh, err := s.parser.Parse(cronExpr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.schedule = sh
	s.expr = cronExpr
	s.nextRun = sh.Next(time.Now())
	running := s.running
	s.mu.Unlock()

	if running {
		s.trySendRecalc()
	}
	return nil
}

// Skip skips the next scheduled run.
func (s *Scheduler) Skip() error {
	s.mu.Lock()
	if s.schedule == nil || s.nextRun.IsZero() {
		s.mu.Unlock()
		return fmt.Errorf("no active schedule to skip")
	}
	s.nextRun = s.schedule.Next(s.nextRun)
	running := s.running
	s.mu.Unlock()

	if running {
		s.trySendRecalc()
	}
	return nil
}

// Status returns the configured expression, the next run time and
// whether the scheduler goroutine is running.
func (s *Scheduler) Status() (expr string, nextRun time.Time, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expr, s.nextRun, s.running
}

func (s *Scheduler) trySendRecalc() {
	select {
	case s.recalcCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) snapshot() (cron.Schedule, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule, s.nextRun
}

func (s *Scheduler) runScheduled() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		logrus.Debug("reseed scheduler stopped")
	}()

	logrus.Debug("reseed scheduler started")

	for {
		schedule, nextRun := s.snapshot()

		var timer *time.Timer
		if schedule == nil || nextRun.IsZero() {
			// Nothing scheduled; park until told otherwise.
			timer = time.NewTimer(time.Hour * 10000)
		} else {
			wait := time.Until(nextRun)
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
		}

		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case <-s.recalcCh:
			timer.Stop()
			continue
		case <-timer.C:
		}

		if schedule == nil || nextRun.IsZero() {
			continue
		}

		if err := s.Task(); err != nil {
			logrus.Errorf("scheduled task failed: %v", err)
			if s.OnError != nil {
				s.OnError(err)
			}
		}

		s.mu.Lock()
		if s.schedule != nil {
			s.nextRun = s.schedule.Next(time.Now())
		}
		s.mu.Unlock()
	}
}
