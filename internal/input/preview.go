package input

import "github.com/lox/pokertable/internal/periph"

// Deadband is the minimum change in the smoothed reading that is reported
const Deadband = 10

// SamplesPerPoll is the number of raw readings averaged per poll
const SamplesPerPoll = 4

// Smoother filters raw potentiometer readings: a four-sample average folded into a
// 7/8 : 1/8 exponential filter kept at x8 fixed point, then a deadband.
type Smoother struct {
	filt   uint32
	primed bool
	last   uint16
}

// Update folds one set of samples into the filter and returns the reported value
// and whether it changed
func (s *Smoother) Update(samples [SamplesPerPoll]uint16) (uint16, bool) {
	var sum uint32
	for _, v := range samples {
		sum += uint32(v)
	}
	avg := sum / SamplesPerPoll

	if !s.primed {
		s.filt = avg << 3
		s.primed = true
	}
	s.filt = (s.filt*7 + avg<<3) / 8
	o := uint16(s.filt >> 3)

	if o > s.last+Deadband || int(o)+Deadband < int(s.last) {
		s.last = o
		return o, true
	}
	return s.last, false
}

// Value returns the last reported reading
func (s *Smoother) Value() uint16 {
	return s.last
}

// Preview turns the potentiometer into the bet-preview amount shown on the matrix
type Preview struct {
	adc      periph.Analog
	matrix   periph.Matrix
	smoother Smoother
	bet      int
}

// NewPreview creates a preview reading adc and rendering to matrix
func NewPreview(adc periph.Analog, matrix periph.Matrix) *Preview {
	return &Preview{adc: adc, matrix: matrix}
}

// Poll samples the potentiometer, scales the smoothed reading to [0, maxBet],
// clamps it to the acting player's balance and refreshes the matrix only when the
// amount changes
func (p *Preview) Poll(maxBet, balance int) int {
	var samples [SamplesPerPoll]uint16
	for i := range samples {
		samples[i] = p.adc.ReadAnalog()
	}
	raw, _ := p.smoother.Update(samples)

	bet := int(raw) * maxBet / periph.AnalogMax
	bet = min(bet, maxBet)
	bet = max(min(bet, balance), 0)

	if bet != p.bet {
		p.bet = bet
		p.matrix.ShowNumber(periph.ClampNumber(bet))
	}
	return bet
}

// Value returns the current preview amount
func (p *Preview) Value() int {
	return p.bet
}
