// Package input turns raw button levels, potentiometer samples and received
// characters into the discrete events the table engine consumes.
package input

import (
	"strings"
	"sync/atomic"
)

// Buttons is a set of physical buttons
type Buttons uint8

const (
	AllIn Buttons = 1 << iota
	Fold
	Call
	Raise
)

// Mask covers every defined button
const Mask = AllIn | Fold | Call | Raise

var buttonNames = []struct {
	b    Buttons
	name string
}{
	{AllIn, "all-in"},
	{Fold, "fold"},
	{Call, "call"},
	{Raise, "raise"},
}

// Has reports whether every button in b is in the set
func (s Buttons) Has(b Buttons) bool {
	return s&b == b && b != 0
}

// String lists the buttons in the set, e.g. "fold|call"
func (s Buttons) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, bn := range buttonNames {
		if s&bn.b != 0 {
			parts = append(parts, bn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseButton maps a button name to its bit
func ParseButton(name string) (Buttons, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, bn := range buttonNames {
		if bn.name == name {
			return bn.b, true
		}
	}
	return 0, false
}

// ButtonPort returns the lines currently held down, already converted from the
// active-low pin encoding
type ButtonPort interface {
	ReadButtons() Buttons
}

// Debouncer converts periodic level samples into press edges. Sample runs at the
// poll cadence; Take may run from any goroutine.
type Debouncer struct {
	port  ButtonPort
	last  Buttons
	edges atomic.Uint32
}

// NewDebouncer creates a debouncer reading port
func NewDebouncer(port ButtonPort) *Debouncer {
	return &Debouncer{port: port}
}

// Sample reads the port and publishes any line that went from released to pressed
// since the previous sample. Edges not yet taken are kept.
func (d *Debouncer) Sample() Buttons {
	now := d.port.ReadButtons() & Mask
	pressed := now &^ d.last
	d.last = now
	if pressed != 0 {
		d.edges.Or(uint32(pressed))
	}
	return pressed
}

// Take claims and clears the pending edges so each is consumed at most once
func (d *Debouncer) Take() Buttons {
	return Buttons(d.edges.Swap(0))
}

// Pending returns the edges not yet taken without consuming them
func (d *Debouncer) Pending() Buttons {
	return Buttons(d.edges.Load())
}

// VirtualPort is a ButtonPort driven by software: the terminal panel and the
// remote console press and release lines on it
type VirtualPort struct {
	held atomic.Uint32
}

// ReadButtons implements ButtonPort
func (v *VirtualPort) ReadButtons() Buttons {
	return Buttons(v.held.Load())
}

// Press holds the given lines down
func (v *VirtualPort) Press(b Buttons) {
	v.held.Or(uint32(b & Mask))
}

// Release lets the given lines go
func (v *VirtualPort) Release(b Buttons) {
	v.held.And(^uint32(b))
}
