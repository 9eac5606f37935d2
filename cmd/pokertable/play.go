package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/firmware"
	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/periph"
	"github.com/lox/pokertable/internal/remote"
	"github.com/lox/pokertable/internal/tui"
)

// PlayCmd runs the table behind the terminal front panel
type PlayCmd struct {
	Seed    *int64 `help:"Deterministic deck seed (overrides config)"`
	LogFile string `help:"Write diagnostics to this file; they are discarded otherwise"`
}

func (c *PlayCmd) Run(g *Globals) error {
	// The panel owns the terminal, so diagnostics never go to stderr here.
	var logOut io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	cfg, logger, err := g.setup(logOut)
	if err != nil {
		return err
	}
	fw := cfg.Firmware()
	if c.Seed != nil {
		fw.Table.Seed = *c.Seed
	}

	clock := quartz.NewReal()
	panel := tui.NewPanel()
	port := &input.VirtualPort{}
	knob := &periph.Knob{}
	console := periph.NewWriterConsole(nil, panel)

	board := firmware.NewBoard(clock, fw, firmware.Hardware{
		Display:   panel,
		Matrix:    panel,
		Analog:    knob,
		Buttons:   port,
		Console:   console,
		Buzzer:    &panel.Buzzer,
		LEDs:      &panel.LEDs,
		Heartbeat: &panel.Heartbeat,
	}, logger)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)

	if cfg.Console.Enabled {
		srv := remote.NewServer(cfg.Console.Address, board.Keys(), port, board.Snapshot, clock, logger)
		srv.SetKnob(knob)
		console.Attach(srv)
		grp.Go(func() error { return srv.Run(ctx) })
	}

	grp.Go(func() error { return board.Run(ctx) })

	model := tui.NewModel(panel, tui.Controls{
		Buttons:  port,
		Knob:     knob,
		Keys:     board.Keys(),
		Snapshot: board.Snapshot,
		Stats:    board.Stats,
	}, clock, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	grp.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("front panel: %w", err)
		}
		return nil
	})

	err = grp.Wait()
	g.dump(os.Stderr, board.Snapshot(), board.Stats())
	return err
}
