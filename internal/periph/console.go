package periph

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Line styles for the operator console
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	WinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	AlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	PlainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))
)

// StyleFor picks the console style for a status line
func StyleFor(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "==="):
		return BannerStyle
	case strings.Contains(line, "GAME OVER"), strings.Contains(line, "ALL IN"):
		return AlertStyle
	case strings.Contains(line, "wins"), strings.HasPrefix(line, "Split pot"):
		return WinStyle
	case strings.HasSuffix(line, "(y/n): "):
		return PromptStyle
	}
	return PlainStyle
}

// WriterConsole writes styled status lines to an io.Writer and forwards the raw
// text to any attached sinks
type WriterConsole struct {
	mu    sync.Mutex
	w     io.Writer
	sinks []Console
}

// NewWriterConsole creates a console writing to w
func NewWriterConsole(w io.Writer, sinks ...Console) *WriterConsole {
	return &WriterConsole{w: w, sinks: sinks}
}

// Attach adds a sink that receives every subsequent line
func (c *WriterConsole) Attach(sink Console) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, sink)
}

// EmitLine implements Console
func (c *WriterConsole) EmitLine(text string) {
	c.mu.Lock()
	sinks := c.sinks
	if c.w != nil {
		// Prompts stay on the same line as the operator's answer.
		if strings.HasSuffix(text, "(y/n): ") {
			fmt.Fprint(c.w, StyleFor(text).Render(text))
		} else {
			fmt.Fprintln(c.w, StyleFor(text).Render(text))
		}
	}
	c.mu.Unlock()

	for _, s := range sinks {
		s.EmitLine(text)
	}
}

// MultiConsole fans one line out to several consoles
type MultiConsole []Console

// EmitLine implements Console
func (m MultiConsole) EmitLine(text string) {
	for _, c := range m {
		c.EmitLine(text)
	}
}
