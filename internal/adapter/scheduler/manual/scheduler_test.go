package manual

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_FireRunsQueued(t *testing.T) {
	s := New()
	var got []time.Time
	s.Schedule(func(now time.Time) { got = append(got, now) })
	s.Schedule(func(now time.Time) { got = append(got, now) })

	now := time.Unix(100, 0)
	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, 2, s.Fire(now))
	assert.Equal(t, []time.Time{now, now}, got)
	assert.Zero(t, s.Pending())
}

func TestScheduler_CancelSkips(t *testing.T) {
	s := New()
	called := false
	h := s.Schedule(func(time.Time) { called = true })
	h.Cancel()
	h.Cancel()

	assert.Zero(t, s.Pending())
	assert.Zero(t, s.Fire(time.Now()))
	assert.False(t, called)
	assert.Equal(t, 1, s.Cancelled())
}

func TestScheduler_RescheduleWaitsForNextFire(t *testing.T) {
	s := New()
	count := 0
	var loop func(time.Time)
	loop = func(time.Time) {
		count++
		s.Schedule(loop)
	}
	s.Schedule(loop)

	s.Fire(time.Now())
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, s.Pending())

	s.Fire(time.Now())
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, s.Scheduled())
}
