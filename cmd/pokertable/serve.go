package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/firmware"
	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/periph"
	"github.com/lox/pokertable/internal/remote"
	"github.com/lox/pokertable/internal/statefile"
)

// ServeCmd runs the table without a front panel. Status lines go to stdout and
// operators drive it through the websocket console or stdin.
type ServeCmd struct {
	Addr  string `short:"a" help:"Operator console address (overrides config and enables the console)"`
	Seed  *int64 `help:"Deterministic deck seed (overrides config)"`
	Stdin bool   `default:"true" negatable:"" help:"Read y/n answers and button names from stdin"`

	StateFile     string        `help:"Periodically write the table state as JSON to this file"`
	StateInterval time.Duration `default:"5s" help:"How often to write the state file"`
}

// logDisplay stands in for the player displays and the matrix when headless
type logDisplay struct {
	logger *log.Logger
}

func (d logDisplay) ShowPlayer(side periph.Side, card1, card2 string, balance int) {
	d.logger.Debug("Display", "side", side, "cards", card1+" "+card2, "balance", balance)
}

func (d logDisplay) ShowNumber(value int) {
	d.logger.Debug("Matrix", "value", value)
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup(os.Stderr)
	if err != nil {
		return err
	}
	fw := cfg.Firmware()
	if c.Seed != nil {
		fw.Table.Seed = *c.Seed
	}
	if c.Addr != "" {
		cfg.Console.Enabled = true
		cfg.Console.Address = c.Addr
	}

	clock := quartz.NewReal()
	port := &input.VirtualPort{}
	knob := &periph.Knob{}
	knob.Set(periph.AnalogMax / 2)
	console := periph.NewWriterConsole(os.Stdout)
	display := logDisplay{logger: logger.WithPrefix("panel")}

	board := firmware.NewBoard(clock, fw, firmware.Hardware{
		Display: display,
		Matrix:  display,
		Analog:  knob,
		Buttons: port,
		Console: console,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grp, ctx := errgroup.WithContext(ctx)

	if cfg.Console.Enabled {
		srv := remote.NewServer(cfg.Console.Address, board.Keys(), port, board.Snapshot, clock, logger)
		srv.SetKnob(knob)
		console.Attach(srv)
		grp.Go(func() error { return srv.Run(ctx) })
	}

	if c.Stdin {
		// The scanner goroutine is left blocked on stdin at shutdown.
		go readOperator(os.Stdin, board.Keys(), port, clock, logger)
	}

	grp.Go(func() error { return board.Run(ctx) })

	if c.StateFile != "" {
		grp.Go(func() error {
			return writeStates(ctx, c.StateFile, c.StateInterval, board, clock, logger)
		})
	}

	err = grp.Wait()
	sum := board.Stats()
	logger.Info("Session summary",
		"hands", sum.Hands,
		"p1_bb_per_hand", sum.MeanBB,
		"ci95", sum.CI95,
		"showdown_wins", sum.ShowdownWins,
		"fold_wins", sum.NonShowdownWins,
		"splits", sum.Splits,
		"max_pot", sum.MaxPot)
	g.dump(os.Stderr, board.Snapshot(), sum)
	return err
}

// writeStates saves the board state every interval and once more at shutdown
func writeStates(ctx context.Context, path string, interval time.Duration, board *firmware.Board, clock quartz.Clock, logger *log.Logger) error {
	save := func() {
		st := statefile.State{SavedAt: clock.Now(), Table: board.Snapshot(), Session: board.Stats()}
		if err := statefile.Save(path, st); err != nil {
			logger.Warn("Failed to write state file", "path", path, "error", err)
		}
	}

	ticker := clock.NewTicker(interval, "statefile")
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			save()
			return nil
		case <-ticker.C:
			save()
		}
	}
}

// readOperator turns stdin lines into key presses and button taps. A button
// name taps that button; any other line latches its first character.
func readOperator(r io.Reader, keys remote.KeySink, port remote.ButtonSink, clock quartz.Clock, logger *log.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if b, ok := input.ParseButton(strings.ToLower(line)); ok {
			clock.AfterFunc(remote.ButtonHold, func() { port.Release(b) }, "stdin", "release")
			port.Press(b)
			continue
		}
		keys.Store(line[0])
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Operator input closed", "error", err)
	}
}
