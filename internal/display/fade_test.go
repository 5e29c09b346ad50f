package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFadeStep     = 0.1
	testFadeInterval = 20 * time.Millisecond
	testHold         = 5 * time.Second
)

// fakeScheduler records scheduled steps and lets tests fire them in order.
type fakeScheduler struct {
	next      Handle
	pending   map[Handle]fakeTask
	order     []Handle
	cancelled []fakeTask // Cancelled tasks, kept so tests can replay them
}

type fakeTask struct {
	delay time.Duration
	fn    func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[Handle]fakeTask)}
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Handle {
	s.next++
	h := s.next
	s.pending[h] = fakeTask{delay: d, fn: fn}
	s.order = append(s.order, h)
	return h
}

func (s *fakeScheduler) Cancel(h Handle) {
	if task, ok := s.pending[h]; ok {
		s.cancelled = append(s.cancelled, task)
		delete(s.pending, h)
	}
}

// fire runs the oldest pending task and returns its scheduled delay.
func (s *fakeScheduler) fire() (time.Duration, bool) {
	for len(s.order) > 0 {
		h := s.order[0]
		s.order = s.order[1:]
		task, ok := s.pending[h]
		if !ok {
			continue // Was cancelled
		}
		delete(s.pending, h)
		task.fn()
		return task.delay, true
	}
	return 0, false
}

func (s *fakeScheduler) pendingCount() int {
	return len(s.pending)
}

// testFader builds a fader wired to the fake scheduler, recording every
// opacity it applies.
func testFader(sched *fakeScheduler, hold time.Duration) (f *fader, opacities *[]float64, done *int) {
	var recorded []float64
	var doneCount int
	alive := true

	f = newFader(sched, testFadeStep, testFadeInterval, hold,
		func(o float64) { recorded = append(recorded, o) },
		func() bool { return alive },
		func() { doneCount++ },
	)
	return f, &recorded, &doneCount
}

func TestFader_FullOpacityBeforeHold(t *testing.T) {
	sched := newFakeScheduler()
	f, opacities, done := testFader(sched, testHold)

	f.Start()

	// Drive fade-in steps until the hold timer is scheduled.
	var holdSeen bool
	for i := 0; i < 100; i++ {
		delay, ok := sched.fire()
		require.True(t, ok, "animation stalled before reaching full opacity")
		if delay == testHold {
			holdSeen = true
			break
		}
		assert.Equal(t, testFadeInterval, delay)
	}
	require.True(t, holdSeen)

	// The hold only starts once opacity is clamped at exactly 1.0.
	require.NotEmpty(t, *opacities)
	assert.Equal(t, 1.0, (*opacities)[len(*opacities)-1])
	for _, o := range *opacities {
		assert.LessOrEqual(t, o, 1.0)
		assert.GreaterOrEqual(t, o, 0.0)
	}
	assert.Zero(t, *done)
}

func TestFader_FadeOutCompletesThenDone(t *testing.T) {
	sched := newFakeScheduler()
	f, opacities, done := testFader(sched, testHold)

	f.Start()

	// Run the whole animation to completion.
	for i := 0; i < 200; i++ {
		if _, ok := sched.fire(); !ok {
			break
		}
	}

	assert.Equal(t, 1, *done, "fade-out must finish exactly once")
	assert.Zero(t, sched.pendingCount(), "no steps may remain after completion")

	// Opacity went up to 1.0 and back down below the fade step.
	last := (*opacities)[len(*opacities)-1]
	assert.Less(t, last, testFadeStep)
	assert.LessOrEqual(t, f.Opacity(), 0.0)
}

func TestFader_CancelRemovesPendingSteps(t *testing.T) {
	sched := newFakeScheduler()
	f, opacities, done := testFader(sched, testHold)

	f.Start()
	_, ok := sched.fire()
	require.True(t, ok)
	require.Equal(t, 1, sched.pendingCount())

	f.Cancel()
	assert.Zero(t, sched.pendingCount())

	// A step that was already dispatched when the window died must be a
	// no-op: replaying the cancelled task changes nothing.
	applied := len(*opacities)
	for _, task := range sched.cancelled {
		task.fn()
	}
	assert.Equal(t, applied, len(*opacities))
	assert.Zero(t, sched.pendingCount())
	assert.Zero(t, *done)
}

func TestFader_StepIsNoopWhenWindowGone(t *testing.T) {
	sched := newFakeScheduler()

	var recorded []float64
	var doneCount int
	alive := true

	f := newFader(sched, testFadeStep, testFadeInterval, testHold,
		func(o float64) { recorded = append(recorded, o) },
		func() bool { return alive },
		func() { doneCount++ },
	)

	f.Start()
	_, ok := sched.fire()
	require.True(t, ok)

	// Window disappears between scheduling and firing.
	alive = false
	applied := len(recorded)
	sched.fire()

	assert.Equal(t, applied, len(recorded))
	assert.Zero(t, sched.pendingCount(), "a dead window schedules no further steps")
	assert.Zero(t, doneCount)
}

func TestFader_CancelIsIdempotent(t *testing.T) {
	sched := newFakeScheduler()
	f, _, _ := testFader(sched, testHold)

	f.Start()
	f.Cancel()
	f.Cancel()

	assert.Zero(t, sched.pendingCount())
}
