package periph

import "sync/atomic"

// LevelPin is a Pin that remembers its level and counts transitions. It is safe to
// set from the tick goroutine while another goroutine renders it.
type LevelPin struct {
	on    atomic.Bool
	edges atomic.Uint64
}

// Set drives the output level
func (p *LevelPin) Set(on bool) {
	if p.on.Swap(on) != on {
		p.edges.Add(1)
	}
}

// On reports the current level
func (p *LevelPin) On() bool {
	return p.on.Load()
}

// Edges returns the number of level changes since creation
func (p *LevelPin) Edges() uint64 {
	return p.edges.Load()
}

// NopPin discards writes
type NopPin struct{}

// Set does nothing
func (NopPin) Set(bool) {}
