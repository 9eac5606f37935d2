// Package periph declares the peripheral services the table engine talks to and
// provides hosted implementations of them.
package periph

// Side selects one of the two player displays
type Side int

const (
	SideP1 Side = iota
	SideP2
)

// String returns "P1" or "P2"
func (s Side) String() string {
	if s == SideP2 {
		return "P2"
	}
	return "P1"
}

// AnalogMax is the largest raw reading an Analog source returns
const AnalogMax = 1023

// MatrixMax is the largest value the numeric matrix can render
const MatrixMax = 9999

// Display refreshes a two-line player display
type Display interface {
	ShowPlayer(side Side, card1, card2 string, balance int)
}

// Matrix renders an integer on the four-digit numeric display
type Matrix interface {
	ShowNumber(value int)
}

// Analog returns a raw potentiometer sample in [0, AnalogMax]
type Analog interface {
	ReadAnalog() uint16
}

// Console appends one human-readable status line to the operator stream
type Console interface {
	EmitLine(text string)
}

// Feedback starts fire-and-forget buzzer and LED effects
type Feedback interface {
	Tone(durationMs, freqHz int)
	LEDPattern(toggles, periodMs int)
}

// Pin is a single digital output: the buzzer, the LED bank or the heartbeat LED
type Pin interface {
	Set(on bool)
}

// ClampNumber limits a value to what the matrix can show
func ClampNumber(v int) int {
	if v < 0 {
		return 0
	}
	if v > MatrixMax {
		return MatrixMax
	}
	return v
}
