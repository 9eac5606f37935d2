package periph

import (
	"bytes"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnobClampsToADCRange(t *testing.T) {
	var k Knob
	k.Set(2000)
	assert.Equal(t, uint16(AnalogMax), k.ReadAnalog())

	assert.Equal(t, AnalogMax-100, k.Nudge(-100))
	k.Set(-5)
	assert.Equal(t, uint16(0), k.ReadAnalog())
	assert.Equal(t, 0, k.Nudge(-1))

	assert.Equal(t, uint16(AnalogMax), Fixed(5000).ReadAnalog())
	assert.Equal(t, uint16(512), Fixed(512).ReadAnalog())
}

func TestLevelPinCountsEdges(t *testing.T) {
	var p LevelPin
	p.Set(false)
	assert.Equal(t, uint64(0), p.Edges())
	p.Set(true)
	p.Set(true)
	p.Set(false)
	assert.False(t, p.On())
	assert.Equal(t, uint64(2), p.Edges())
}

func TestRecorderConcurrentUse(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.EmitLine("line")
			r.ShowNumber(i)
			r.Tone(100, 900)
			r.LEDPattern(2, 60)
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Lines(), 8)
	assert.Len(t, r.Numbers(), 8)
	assert.Len(t, r.Tones(), 8)
	assert.Len(t, r.Patterns(), 8)

	r.ShowPlayer(SideP2, "AS", "KD", 950)
	view, n := r.Player(SideP2)
	assert.Equal(t, PlayerView{Card1: "AS", Card2: "KD", Balance: 950}, view)
	assert.Equal(t, 1, n)

	r.Reset()
	assert.Empty(t, r.Lines())
	assert.Equal(t, "", r.LastLine())
}

func TestWriterConsoleForwardsToSinks(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var buf bytes.Buffer
	sink := NewRecorder()
	c := NewWriterConsole(&buf, sink)
	extra := NewRecorder()
	c.Attach(extra)

	c.EmitLine("=== FLOP ===")
	c.EmitLine("Player 1 is out of chips! Buy-in again for 4000 chips? (y/n): ")

	require.Equal(t, []string{"=== FLOP ===", "Player 1 is out of chips! Buy-in again for 4000 chips? (y/n): "}, sink.Lines())
	assert.Equal(t, sink.Lines(), extra.Lines())
	assert.Contains(t, buf.String(), "=== FLOP ===\n")
	assert.NotContains(t, buf.String(), "(y/n): \n")
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, BannerStyle, StyleFor("=== TURN ==="))
	assert.Equal(t, AlertStyle, StyleFor("GAME OVER"))
	assert.Equal(t, WinStyle, StyleFor("Player 2 wins +150 chips  (P2 950 -> 1100)"))
	assert.Equal(t, PlainStyle, StyleFor("Player 1 checks."))
}

func TestClampNumber(t *testing.T) {
	assert.Equal(t, 0, ClampNumber(-3))
	assert.Equal(t, 9999, ClampNumber(12000))
	assert.Equal(t, 42, ClampNumber(42))
}
