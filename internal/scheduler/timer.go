package scheduler

import "sync/atomic"

// Timer is a countdown shared between a tick goroutine and the main loop. Zero
// means expired or inactive. Every access is a single atomic operation.
type Timer struct {
	v atomic.Int32
}

// Tick decrements the timer by one unless it is already zero
func (t *Timer) Tick() {
	for {
		cur := t.v.Load()
		if cur <= 0 {
			return
		}
		if t.v.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Set loads the timer with a new count
func (t *Timer) Set(n int) {
	t.v.Store(int32(max(n, 0)))
}

// Claim reports whether the timer has expired and, if so, reloads it in the same
// atomic step. A concurrent Tick can never be lost between the check and the reload.
func (t *Timer) Claim(reload int) bool {
	return t.v.CompareAndSwap(0, int32(max(reload, 0)))
}

// Remaining returns the current count
func (t *Timer) Remaining() int {
	return int(t.v.Load())
}

// Expired reports whether the count has reached zero
func (t *Timer) Expired() bool {
	return t.v.Load() == 0
}

// Deadline is the authoritative turn timer in the one-second domain
type Deadline struct {
	Timer
	timeout int
	rephase chan struct{}
}

// NewDeadline creates an expired deadline that re-arms to timeoutSec seconds
func NewDeadline(timeoutSec int) *Deadline {
	return &Deadline{
		timeout: max(timeoutSec, 1),
		rephase: make(chan struct{}, 1),
	}
}

// Arm restarts the deadline at the full timeout and asks the one-second source to
// restart its phase so the first second is a whole one
func (d *Deadline) Arm() {
	d.Set(d.timeout)
	select {
	case d.rephase <- struct{}{}:
	default:
	}
}

// Timeout returns the configured timeout in seconds
func (d *Deadline) Timeout() int {
	return d.timeout
}
