package editor

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a change is emitted.
const DefaultDebounce = 500 * time.Millisecond

// Timer is a pending call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delays a call until no trigger has happened for a quiet period.
//
// All methods must be called with the locker held. The timer path acquires
// the locker itself before calling fn, so fn always runs under it.
type Debouncer struct {
	locker sync.Locker
	sched  Scheduler
	delay  time.Duration
	fn     func()

	timer  Timer
	gen    uint64
	closed bool
}

// NewDebouncer returns a debouncer calling fn. A nil scheduler uses the
// runtime timers.
func NewDebouncer(locker sync.Locker, sched Scheduler, delay time.Duration, fn func()) *Debouncer {
	if sched == nil {
		sched = realScheduler{}
	}
	return &Debouncer{locker: locker, sched: sched, delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	if d.closed {
		return
	}
	d.cancel()
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

// Flush runs a scheduled call right away. It reports whether one was pending.
func (d *Debouncer) Flush() bool {
	if d.closed || d.timer == nil {
		return false
	}
	d.cancel()
	d.fn()
	return true
}

// Stop cancels the scheduled call. No call happens after Stop.
func (d *Debouncer) Stop() {
	d.cancel()
	d.closed = true
}

func (d *Debouncer) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// fire runs on the scheduler's goroutine. A timer that was stopped too late
// to prevent the callback carries a stale generation and is ignored.
func (d *Debouncer) fire(gen uint64) {
	d.locker.Lock()
	defer d.locker.Unlock()

	if d.closed || gen != d.gen {
		return
	}
	d.timer = nil
	d.fn()
}
