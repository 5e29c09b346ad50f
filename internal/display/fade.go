package display

import "time"

// Handle identifies a scheduled fade step.
type Handle uint

// Scheduler schedules one-shot callbacks on the renderer's event loop.
// The GTK implementation lives in toast.go; tests drive a fake.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// fader runs the toast fade animation as self-rescheduling steps:
// opacity climbs 0→1, holds, then descends 1→0, one step per interval.
// Steps are cooperative callbacks, never blocking sleeps, and every
// pending step can be cancelled when the window is destroyed early.
// All methods run on the event loop thread.
type fader struct {
	sched    Scheduler
	step     float64
	interval time.Duration
	hold     time.Duration

	setOpacity func(float64)
	alive      func() bool
	onDone     func()

	opacity   float64
	pending   map[Handle]struct{}
	cancelled bool
}

func newFader(sched Scheduler, step float64, interval, hold time.Duration,
	setOpacity func(float64), alive func() bool, onDone func()) *fader {
	return &fader{
		sched:      sched,
		step:       step,
		interval:   interval,
		hold:       hold,
		setOpacity: setOpacity,
		alive:      alive,
		onDone:     onDone,
		pending:    make(map[Handle]struct{}),
	}
}

// Start begins the fade-in from opacity 0.
func (f *fader) Start() {
	f.fadeInStep()
}

// Cancel removes every pending step. Further steps become no-ops.
func (f *fader) Cancel() {
	if f.cancelled {
		return
	}
	f.cancelled = true
	for h := range f.pending {
		f.sched.Cancel(h)
	}
	f.pending = make(map[Handle]struct{})
}

// Opacity returns the current animation opacity.
func (f *fader) Opacity() float64 {
	return f.opacity
}

// after schedules fn and tracks the handle until it fires. A step that
// fires after cancellation, or once the window is gone, does nothing.
func (f *fader) after(d time.Duration, fn func()) {
	if f.cancelled {
		return
	}
	var h Handle
	h = f.sched.After(d, func() {
		delete(f.pending, h)
		if f.cancelled || !f.alive() {
			return
		}
		fn()
	})
	f.pending[h] = struct{}{}
}

// fadeInStep applies the current opacity and schedules the next increment.
// On reaching full opacity it clamps to 1.0 and schedules the hold.
func (f *fader) fadeInStep() {
	if f.opacity < 1.0 {
		f.setOpacity(f.opacity)
		f.after(f.interval, func() {
			f.opacity += f.step
			f.fadeInStep()
		})
		return
	}

	f.opacity = 1.0
	f.setOpacity(1.0)
	f.after(f.hold, f.fadeOutStep)
}

// fadeOutStep applies the current opacity and schedules the next decrement.
// On reaching zero it cancels any stragglers and fires onDone.
func (f *fader) fadeOutStep() {
	if f.opacity > 0 {
		f.setOpacity(f.opacity)
		f.after(f.interval, func() {
			f.opacity -= f.step
			f.fadeOutStep()
		})
		return
	}

	f.Cancel()
	f.onDone()
}
