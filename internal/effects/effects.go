// Package effects generates the buzzer tone and LED flash patterns without blocking.
// Start methods run on the main loop; Step runs once per millisecond tick.
package effects

import (
	"sync"

	"github.com/lox/pokertable/internal/periph"
)

// Tone frequency limits in Hz
const (
	MinFreqHz = 50
	MaxFreqHz = 4000
)

// Tone is a square-wave generator for the buzzer output
type Tone struct {
	mu        sync.Mutex
	out       periph.Pin
	remaining int // ms left
	half      int // half-period in ms
	phase     int // ms until next edge
	level     bool
}

// NewTone creates a tone generator driving out
func NewTone(out periph.Pin) *Tone {
	return &Tone{out: out}
}

// Start (re)starts the tone, preempting anything in progress. The first edge
// happens on the next tick and the output starts low.
func (t *Tone) Start(durationMs, freqHz int) {
	freqHz = min(max(freqHz, MinFreqHz), MaxFreqHz)
	half := max(500/freqHz, 1)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = max(durationMs, 0)
	t.half = half
	t.phase = 0
	t.level = false
	t.out.Set(false)
}

// Step advances the generator by one millisecond
func (t *Tone) Step() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining == 0 {
		return
	}
	if t.phase > 0 {
		t.phase--
	} else {
		t.level = !t.level
		t.out.Set(t.level)
		t.phase = t.half
	}
	t.remaining--
	if t.remaining == 0 {
		t.level = false
		t.out.Set(false)
	}
}

// Active reports whether a tone is still sounding
func (t *Tone) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining > 0
}

// HalfPeriod returns the current half-period in ms
func (t *Tone) HalfPeriod() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.half
}

// Flasher toggles the LED bank a fixed number of times
type Flasher struct {
	mu        sync.Mutex
	out       periph.Pin
	remaining int // toggles left
	period    int
	phase     int
	level     bool
}

// NewFlasher creates a pattern generator driving out
func NewFlasher(out periph.Pin) *Flasher {
	return &Flasher{out: out}
}

// Start (re)starts a pattern of toggles edges, one every periodMs. A zero period
// is treated as 1 ms.
func (f *Flasher) Start(toggles, periodMs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining = max(toggles, 0)
	f.period = max(periodMs, 1)
	f.phase = 0
	f.level = false
	f.out.Set(false)
}

// Step advances the pattern by one millisecond
func (f *Flasher) Step() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remaining == 0 {
		return
	}
	if f.phase > 0 {
		f.phase--
		return
	}
	f.level = !f.level
	f.out.Set(f.level)
	f.phase = f.period
	f.remaining--
	if f.remaining == 0 {
		f.level = false
		f.out.Set(false)
	}
}

// Active reports whether toggles remain
func (f *Flasher) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining > 0
}

// Engine bundles both generators. It implements periph.Feedback for the table and
// is stepped by the scheduler.
type Engine struct {
	Buzzer *Tone
	LEDs   *Flasher
}

// New creates an effects engine on the buzzer and LED outputs
func New(buzzer, leds periph.Pin) *Engine {
	return &Engine{Buzzer: NewTone(buzzer), LEDs: NewFlasher(leds)}
}

// Tone implements periph.Feedback
func (e *Engine) Tone(durationMs, freqHz int) {
	e.Buzzer.Start(durationMs, freqHz)
}

// LEDPattern implements periph.Feedback
func (e *Engine) LEDPattern(toggles, periodMs int) {
	e.LEDs.Start(toggles, periodMs)
}

// Step advances both generators by one millisecond
func (e *Engine) Step() {
	e.Buzzer.Step()
	e.LEDs.Step()
}
