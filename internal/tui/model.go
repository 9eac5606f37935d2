// Package tui renders the table's front panel in a terminal and maps keyboard
// input onto the four buttons, the bet knob and the operator link.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/periph"
	"github.com/lox/pokertable/internal/stats"
	"github.com/lox/pokertable/internal/table"
)

const (
	// RefreshInterval is how often the model re-reads the panel
	RefreshInterval = 50 * time.Millisecond

	// ButtonHold is how long a key press holds its button down
	ButtonHold = 50 * time.Millisecond

	// KnobStep and KnobPage are the knob movements for arrow and page keys
	KnobStep = 16
	KnobPage = 128
)

// ButtonSink is the button port key presses are pressed on
type ButtonSink interface {
	Press(b input.Buttons)
	Release(b input.Buttons)
}

// KeySink receives the characters typed at a prompt
type KeySink interface {
	Store(c byte)
}

// Controls is what the keyboard drives
type Controls struct {
	Buttons  ButtonSink
	Knob     *periph.Knob
	Keys     KeySink
	Snapshot func() table.Snapshot
	Stats    func() stats.Summary
}

var buttonKeys = map[string]input.Buttons{
	"a": input.AllIn,
	"f": input.Fold,
	"c": input.Call,
	"r": input.Raise,
}

type refreshMsg time.Time

// Model is the Bubble Tea model for the front panel
type Model struct {
	panel    *Panel
	controls Controls
	clock    quartz.Clock
	logger   *log.Logger

	logViewport viewport.Model
	seen        uint64
	view        panelState
	snapshot    table.Snapshot
	summary     stats.Summary

	width    int
	height   int
	quitting bool
}

// NewModel creates the panel model
func NewModel(panel *Panel, controls Controls, clock quartz.Clock, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &Model{
		panel:       panel,
		controls:    controls,
		clock:       clock,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
	}
	m.sync()
	return m
}

// Init starts the refresh ticker
func (m *Model) Init() tea.Cmd {
	return refresh()
}

func refresh() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Quitting reports whether the operator asked to leave
func (m *Model) Quitting() bool {
	return m.quitting
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case refreshMsg:
		m.sync()
		cmds = append(cmds, refresh())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		m.resize()

	case tea.KeyMsg:
		key := msg.String()
		if b, ok := buttonKeys[key]; ok {
			m.tap(b)
			return m, nil
		}
		switch key {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "y", "n":
			m.controls.Keys.Store(key[0])
			return m, nil
		case "up", "right":
			m.nudge(KnobStep)
			return m, nil
		case "down", "left":
			m.nudge(-KnobStep)
			return m, nil
		case "pgup":
			m.nudge(KnobPage)
			return m, nil
		case "pgdown":
			m.nudge(-KnobPage)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// tap presses a button and schedules its release
func (m *Model) tap(b input.Buttons) {
	m.logger.Debug("Button tap", "button", b)
	m.clock.AfterFunc(ButtonHold, func() {
		m.controls.Buttons.Release(b)
	}, "tui", "release")
	m.controls.Buttons.Press(b)
}

func (m *Model) nudge(delta int) {
	if m.controls.Knob == nil {
		return
	}
	pos := m.controls.Knob.Nudge(delta)
	m.logger.Debug("Knob moved", "position", pos)
}

// sync copies the panel when it has changed
func (m *Model) sync() {
	if m.controls.Snapshot != nil {
		m.snapshot = m.controls.Snapshot()
	}
	if m.controls.Stats != nil {
		m.summary = m.controls.Stats()
	}
	if !m.panel.changedSince(m.seen) {
		return
	}
	m.view = m.panel.state()
	m.seen = m.view.version

	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(renderLog(m.view.lines))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) resize() {
	chrome := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderDisplays()) +
		lipgloss.Height(m.renderLamps()) + lipgloss.Height(m.renderHelp()) + 2
	w := m.width - 2
	h := m.height - chrome
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m.logViewport.Width = w
	m.logViewport.Height = h
	m.logViewport.GotoBottom()
}

// View renders the panel
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	logPane := LogPaneStyle.
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderDisplays(),
		m.renderLamps(),
		logPane,
		m.renderHelp(),
	)
}

func (m *Model) renderHeader() string {
	s := m.snapshot
	text := fmt.Sprintf(" Hand %d  %s  Pot %d ", s.Hand, s.State, s.Pot)
	if len(s.Board) > 0 {
		text += " Board " + strings.Join(s.Board, " ") + " "
	}
	if m.summary.Hands > 0 {
		text += fmt.Sprintf(" P1 %+.2f bb/hand ", m.summary.MeanBB)
	}
	return HeaderStyle.Render(text)
}

func (m *Model) renderDisplays() string {
	betting := m.snapshot.Betting
	boxes := make([]string, 0, 3)
	for i, side := range []periph.Side{periph.SideP1, periph.SideP2} {
		style := DisplayStyle
		if betting && m.snapshot.Actor == i {
			style = ActiveDisplayStyle
		}
		boxes = append(boxes, style.Render(renderPlayer(side, m.view.players[side])))
		if i == 0 {
			boxes = append(boxes, MatrixStyle.Render(fmt.Sprintf("%4d", m.view.number)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, boxes...)
}

func renderPlayer(side periph.Side, v periph.PlayerView) string {
	c1, c2 := v.Card1, v.Card2
	if c1 == "" {
		c1, c2 = "--", "--"
	}
	return fmt.Sprintf("%s %s %s\nBal: %d",
		side, cardStyle(c1).Render(c1), cardStyle(c2).Render(c2), v.Balance)
}

func (m *Model) renderLamps() string {
	knob := 0
	if m.controls.Knob != nil {
		knob = int(m.controls.Knob.ReadAnalog())
	}
	return strings.Join([]string{
		lamp("BUZZ", m.panel.Buzzer.On()),
		lamp("LED", m.panel.LEDs.On()),
		lamp("HB", m.panel.Heartbeat.On()),
		fmt.Sprintf("knob %4d", knob),
	}, "  ")
}

func lamp(name string, on bool) string {
	if on {
		return LampOnStyle.Render("● " + name)
	}
	return LampOffStyle.Render("○ " + name)
}

func (m *Model) renderHelp() string {
	return HelpStyle.Render("a all-in • f fold • c call • r raise • ←↓↑→ knob • y/n answer • q quit")
}

func renderLog(lines []string) string {
	styled := make([]string, len(lines))
	for i, l := range lines {
		styled[i] = periph.StyleFor(l).Render(l)
	}
	return strings.Join(styled, "\n")
}
