package periph

import "sync/atomic"

// Fixed is an Analog source that always returns the same reading
type Fixed uint16

// ReadAnalog returns the fixed value clamped to the ADC range
func (f Fixed) ReadAnalog() uint16 {
	if f > AnalogMax {
		return AnalogMax
	}
	return uint16(f)
}

// Knob is an Analog source adjusted at runtime, standing in for the potentiometer
type Knob struct {
	v atomic.Uint32
}

// ReadAnalog returns the current knob position
func (k *Knob) ReadAnalog() uint16 {
	return uint16(k.v.Load())
}

// Set moves the knob to an absolute position
func (k *Knob) Set(v int) {
	k.v.Store(uint32(clampAnalog(v)))
}

// Nudge moves the knob by delta and returns the new position
func (k *Knob) Nudge(delta int) int {
	for {
		old := k.v.Load()
		next := uint32(clampAnalog(int(old) + delta))
		if k.v.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

func clampAnalog(v int) int {
	if v < 0 {
		return 0
	}
	if v > AnalogMax {
		return AnalogMax
	}
	return v
}
