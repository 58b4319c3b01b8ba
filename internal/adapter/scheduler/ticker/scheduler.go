// Package ticker provides a timer based frame clock for headless runs.
package ticker

import (
	"time"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// DefaultInterval approximates a 60 Hz display.
const DefaultInterval = time.Second / 60

// Scheduler fires each callback once, interval after it was scheduled.
type Scheduler struct {
	interval time.Duration
}

// New creates a scheduler. A non-positive interval uses DefaultInterval.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Interval returns the delay between scheduling and firing.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

type handle struct {
	timer *time.Timer
}

// Cancel implements ports.TickHandle.
func (h handle) Cancel() {
	h.timer.Stop()
}

// Schedule implements ports.Scheduler.
func (s *Scheduler) Schedule(fn func(now time.Time)) ports.TickHandle {
	return handle{timer: time.AfterFunc(s.interval, func() {
		fn(time.Now())
	})}
}

// Verify interface implementation at compile time.
var _ ports.Scheduler = (*Scheduler)(nil)
