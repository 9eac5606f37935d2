package tui

import (
	"sync"

	"github.com/lox/pokertable/internal/periph"
)

// MaxLogLines bounds the console history kept for the log pane
const MaxLogLines = 500

// Panel is the on-screen front panel. The table writes into it from the loop
// goroutine and the model reads it on every refresh.
type Panel struct {
	mu      sync.Mutex
	players [2]periph.PlayerView
	number  int
	lines   []string
	version uint64

	Buzzer    periph.LevelPin
	LEDs      periph.LevelPin
	Heartbeat periph.LevelPin
}

// NewPanel creates a blank panel
func NewPanel() *Panel {
	return &Panel{}
}

// ShowPlayer implements periph.Display
func (p *Panel) ShowPlayer(side periph.Side, card1, card2 string, balance int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.players[side] = periph.PlayerView{Card1: card1, Card2: card2, Balance: balance}
	p.version++
}

// ShowNumber implements periph.Matrix
func (p *Panel) ShowNumber(value int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.number = periph.ClampNumber(value)
	p.version++
}

// EmitLine implements periph.Console
func (p *Panel) EmitLine(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, text)
	if n := len(p.lines) - MaxLogLines; n > 0 {
		p.lines = append(p.lines[:0], p.lines[n:]...)
	}
	p.version++
}

// panelState is a consistent copy of the panel taken for one render
type panelState struct {
	players [2]periph.PlayerView
	number  int
	lines   []string
	version uint64
}

func (p *Panel) state() panelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return panelState{
		players: p.players,
		number:  p.number,
		lines:   append([]string(nil), p.lines...),
		version: p.version,
	}
}

func (p *Panel) changedSince(version uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version != version
}
