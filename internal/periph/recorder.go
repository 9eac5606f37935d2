package periph

import (
	"strings"
	"sync"
)

// PlayerView is what one player display currently shows
type PlayerView struct {
	Card1   string
	Card2   string
	Balance int
}

// ToneCall records one Feedback.Tone request
type ToneCall struct {
	DurationMs int
	FreqHz     int
}

// PatternCall records one Feedback.LEDPattern request
type PatternCall struct {
	Toggles  int
	PeriodMs int
}

// Recorder is an in-memory implementation of Display, Matrix, Console and Feedback.
// It backs headless mode and tests.
type Recorder struct {
	mu       sync.Mutex
	lines    []string
	players  [2]PlayerView
	refresh  [2]int
	numbers  []int
	tones    []ToneCall
	patterns []PatternCall
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ShowPlayer implements Display
func (r *Recorder) ShowPlayer(side Side, card1, card2 string, balance int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[side] = PlayerView{Card1: card1, Card2: card2, Balance: balance}
	r.refresh[side]++
}

// ShowNumber implements Matrix
func (r *Recorder) ShowNumber(value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numbers = append(r.numbers, value)
}

// EmitLine implements Console
func (r *Recorder) EmitLine(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
}

// Tone implements Feedback
func (r *Recorder) Tone(durationMs, freqHz int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, ToneCall{DurationMs: durationMs, FreqHz: freqHz})
}

// LEDPattern implements Feedback
func (r *Recorder) LEDPattern(toggles, periodMs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, PatternCall{Toggles: toggles, PeriodMs: periodMs})
}

// Lines returns a copy of every emitted line
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// LastLine returns the most recent line, or "" if none
func (r *Recorder) LastLine() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

// HasLine reports whether any emitted line contains substr
func (r *Recorder) HasLine(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// Player returns the current contents of a player display and how many times it was refreshed
func (r *Recorder) Player(side Side) (PlayerView, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[side], r.refresh[side]
}

// Numbers returns every value sent to the matrix
func (r *Recorder) Numbers() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.numbers...)
}

// Tones returns every tone request
func (r *Recorder) Tones() []ToneCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ToneCall(nil), r.tones...)
}

// Patterns returns every LED pattern request
func (r *Recorder) Patterns() []PatternCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PatternCall(nil), r.patterns...)
}

// Reset forgets everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.players = [2]PlayerView{}
	r.refresh = [2]int{}
	r.numbers = nil
	r.tones = nil
	r.patterns = nil
}
