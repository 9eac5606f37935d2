package input

import "sync/atomic"

const latchEmpty = -1

// CharLatch holds the last character received on the operator link. The receive
// side overwrites it; the main loop claims it with a compare-and-swap so a
// character arriving during the claim is never lost.
type CharLatch struct {
	v atomic.Int32
}

// NewCharLatch creates an empty latch
func NewCharLatch() *CharLatch {
	l := &CharLatch{}
	l.v.Store(latchEmpty)
	return l
}

// Store records a received character, replacing any unclaimed one
func (l *CharLatch) Store(c byte) {
	l.v.Store(int32(c))
}

// Peek returns the pending character without claiming it
func (l *CharLatch) Peek() (byte, bool) {
	v := l.v.Load()
	if v == latchEmpty {
		return 0, false
	}
	return byte(v), true
}

// Take claims the pending character if it is one of accept (any character when
// accept is empty). Characters that are not accepted stay in the latch.
func (l *CharLatch) Take(accept ...byte) (byte, bool) {
	v := l.v.Load()
	if v == latchEmpty {
		return 0, false
	}
	c := byte(v)
	if len(accept) > 0 && !contains(accept, c) {
		return 0, false
	}
	if !l.v.CompareAndSwap(v, latchEmpty) {
		return 0, false
	}
	return c, true
}

// Clear drops any pending character
func (l *CharLatch) Clear() {
	l.v.Store(latchEmpty)
}

func contains(set []byte, c byte) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}
