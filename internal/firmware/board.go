// Package firmware is the cooperative main loop. Each iteration runs the cadence
// tasks whose software timers have expired, then advances the table by one step.
package firmware

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/effects"
	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/periph"
	"github.com/lox/pokertable/internal/scheduler"
	"github.com/lox/pokertable/internal/stats"
	"github.com/lox/pokertable/internal/table"
)

// Config collects everything the board needs to boot
type Config struct {
	Table        table.Config
	Scheduler    scheduler.Config
	ButtonPollMs int
	AnalogPollMs int
	MaxBet       int
	Loop         time.Duration
}

// DefaultConfig returns the stock table: 4000-chip stacks, 25/50 blinds, 20 s turns
func DefaultConfig() Config {
	return Config{
		Table:        table.DefaultConfig(),
		Scheduler:    scheduler.DefaultConfig(),
		ButtonPollMs: 10,
		AnalogPollMs: 20,
		MaxBet:       4000,
		Loop:         time.Millisecond,
	}
}

// Hardware is the set of peripherals the board is wired to
type Hardware struct {
	Display   periph.Display
	Matrix    periph.Matrix
	Analog    periph.Analog
	Buttons   input.ButtonPort
	Console   periph.Console
	Buzzer    periph.Pin
	LEDs      periph.Pin
	Heartbeat periph.Pin
}

// Board owns the scheduler, the input sampler and the table engine
type Board struct {
	clock  quartz.Clock
	cfg    Config
	logger *log.Logger

	sched     *scheduler.Scheduler
	effects   *effects.Engine
	debouncer *input.Debouncer
	preview   *input.Preview
	keys      *input.CharLatch
	engine    *table.Engine
	session   *stats.Session

	snapshot atomic.Pointer[table.Snapshot]
	steps    atomic.Uint64
}

// NewBoard wires the components together. Missing pins are replaced with no-ops.
func NewBoard(clock quartz.Clock, cfg Config, hw Hardware, logger *log.Logger) *Board {
	for _, pin := range []*periph.Pin{&hw.Buzzer, &hw.LEDs, &hw.Heartbeat} {
		if *pin == nil {
			*pin = periph.NopPin{}
		}
	}

	fx := effects.New(hw.Buzzer, hw.LEDs)
	sched := scheduler.New(clock, cfg.Scheduler, fx, hw.Heartbeat, logger)
	preview := input.NewPreview(hw.Analog, hw.Matrix)
	keys := input.NewCharLatch()

	b := &Board{
		clock:     clock,
		cfg:       cfg,
		logger:    logger.WithPrefix("firmware"),
		sched:     sched,
		effects:   fx,
		debouncer: input.NewDebouncer(hw.Buttons),
		preview:   preview,
		keys:      keys,
		session:   stats.NewSession(cfg.Table.BigBlind),
	}
	b.engine = table.New(cfg.Table, table.Peripherals{
		Display:  hw.Display,
		Console:  hw.Console,
		Feedback: fx,
		Deadline: sched.Deadline,
		Keys:     keys,
		Bets:     preview,
		Results:  b.session,
	}, logger)
	b.publish()
	return b
}

// Keys is the latch the operator link writes received characters into
func (b *Board) Keys() *input.CharLatch {
	return b.keys
}

// Scheduler exposes the tick domains, mainly for tests and diagnostics
func (b *Board) Scheduler() *scheduler.Scheduler {
	return b.sched
}

// Snapshot returns the table state as of the last completed iteration. It is safe
// to call from any goroutine.
func (b *Board) Snapshot() table.Snapshot {
	return *b.snapshot.Load()
}

// Stats summarises the hands played since power-up. It is safe to call from any
// goroutine.
func (b *Board) Stats() stats.Summary {
	return b.session.Summary()
}

// Steps returns the number of iterations run so far
func (b *Board) Steps() uint64 {
	return b.steps.Load()
}

// Iterate runs one pass of the main loop. It never blocks.
func (b *Board) Iterate() {
	if b.sched.Button.Claim(b.cfg.ButtonPollMs) {
		b.debouncer.Sample()
	}
	if b.sched.Analog.Claim(b.cfg.AnalogPollMs) {
		actor := b.engine.Player(b.engine.Actor())
		b.preview.Poll(b.cfg.MaxBet, actor.Balance)
	}

	b.sched.SetHandActive(b.engine.HandActive())
	b.engine.Step(b.debouncer.Take())

	b.steps.Add(1)
	b.publish()
}

func (b *Board) publish() {
	s := b.engine.Snapshot()
	b.snapshot.Store(&s)
}

// Run starts the tick domains and paces Iterate from the loop ticker until ctx is
// cancelled
func (b *Board) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	ticks := b.sched.Start(ctx)
	g.Go(ticks.Wait)

	loop := b.clock.NewTicker(b.cfg.Loop, "firmware", "loop")
	b.logger.Info("Table powered up",
		"stack", b.cfg.Table.StartingStack,
		"blinds", []int{b.cfg.Table.SmallBlind, b.cfg.Table.BigBlind},
		"turn_timeout", b.cfg.Scheduler.TurnTimeout,
		"seed", b.cfg.Table.Seed)

	g.Go(func() error {
		defer loop.Stop()
		for {
			select {
			case <-ctx.Done():
				sum := b.session.Summary()
				b.logger.Info("Table powered down",
					"steps", b.steps.Load(),
					"hands", sum.Hands,
					"p1_bb_per_hand", sum.MeanBB)
				return nil
			case <-loop.C:
				b.Iterate()
			}
		}
	})

	return g.Wait()
}
