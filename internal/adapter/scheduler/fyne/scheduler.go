// Package fyne provides a frame clock aligned with the Fyne animation loop.
package fyne

import (
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Scheduler runs each scheduled callback on the next Fyne animation frame.
//
// A single repeating animation, started by Start, drains the queue once per
// frame on the Fyne main goroutine. Callbacks scheduled before Start wait for
// the first frame.
type Scheduler struct {
	anim *fyneapp.Animation

	mu      sync.Mutex
	pending []*tick
	started bool
	closed  bool
}

type tick struct {
	fn        func(now time.Time)
	mu        sync.Mutex
	cancelled bool
}

// Cancel implements ports.TickHandle.
func (t *tick) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

func (t *tick) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.cancelled
}

// New creates a stopped scheduler.
func New() *Scheduler {
	s := &Scheduler{}
	s.anim = fyneapp.NewAnimation(time.Second, s.onFrame)
	s.anim.RepeatCount = fyneapp.AnimationRepeatForever
	s.anim.Curve = fyneapp.AnimationLinear
	return s
}

// Schedule implements ports.Scheduler.
func (s *Scheduler) Schedule(fn func(now time.Time)) ports.TickHandle {
	t := &tick{fn: fn}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		t.cancelled = true
		return t
	}

	s.pending = append(s.pending, t)
	return t
}

// Start begins the animation. It needs a running Fyne app.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.anim.Start()
}

// onFrame is the animation tick. The progress value is irrelevant: the
// animation only serves as a display synchronised clock.
func (s *Scheduler) onFrame(float32) {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	now := time.Now()
	for _, t := range batch {
		if t.live() {
			t.fn(now)
		}
	}
}

// Close stops the animation and drops pending callbacks.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	started := s.started
	s.mu.Unlock()

	if started {
		s.anim.Stop()
	}
}

// Verify interface implementation at compile time.
var _ ports.Scheduler = (*Scheduler)(nil)
