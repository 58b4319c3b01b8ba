// Package manual provides a hand cranked frame clock for tests.
// Scheduled callbacks queue up until Fire is called.
package manual

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Scheduler queues callbacks and runs them on Fire.
type Scheduler struct {
	mu        sync.Mutex
	pending   []*tick
	scheduled int
	cancelled int
}

type tick struct {
	s         *Scheduler
	fn        func(now time.Time)
	cancelled bool
}

// Cancel implements ports.TickHandle.
func (t *tick) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if !t.cancelled {
		t.cancelled = true
		t.s.cancelled++
	}
}

// New creates an empty manual scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Schedule implements ports.Scheduler.
func (s *Scheduler) Schedule(fn func(now time.Time)) ports.TickHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tick{s: s, fn: fn}
	s.pending = append(s.pending, t)
	s.scheduled++
	return t
}

// Fire runs every callback queued before the call, skipping cancelled ones.
// Callbacks scheduled while firing wait for the next Fire.
// It returns the number of callbacks run.
func (s *Scheduler) Fire(now time.Time) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range batch {
		s.mu.Lock()
		skip := t.cancelled
		s.mu.Unlock()
		if skip {
			continue
		}
		t.fn(now)
		ran++
	}
	return ran
}

// Pending returns the number of queued callbacks that have not been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Scheduled returns how many callbacks were ever scheduled.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Cancelled returns how many handles were cancelled.
func (s *Scheduler) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Verify interface implementation at compile time.
var _ ports.Scheduler = (*Scheduler)(nil)
