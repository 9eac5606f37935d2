// Package scheduler runs the two tick domains: a fast tick that drives software
// timers, effects and the heartbeat LED, and a one-second tick that owns the turn
// deadline.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/periph"
)

// HeartbeatDivider is the number of fast ticks between heartbeat toggles
const HeartbeatDivider = 250

// Stepper is advanced once per fast tick
type Stepper interface {
	Step()
}

// Config sets the tick periods and the turn timeout
type Config struct {
	Tick        time.Duration
	Second      time.Duration
	TurnTimeout int // seconds
}

// DefaultConfig returns the nominal 1 ms / 1 s periods and a 20 s turn timeout
func DefaultConfig() Config {
	return Config{
		Tick:        time.Millisecond,
		Second:      time.Second,
		TurnTimeout: 20,
	}
}

// Scheduler owns the interrupt-side state. The main loop reads it only through
// Timer, Deadline and SetHandActive.
type Scheduler struct {
	clock  quartz.Clock
	logger *log.Logger
	cfg    Config

	Button   Timer
	Analog   Timer
	Deadline *Deadline

	effects    Stepper
	heartbeat  periph.Pin
	handActive atomic.Bool

	// fast-tick context only
	hbDiv   int
	hbLevel bool
}

// New creates a scheduler. effects and heartbeat may be nil.
func New(clock quartz.Clock, cfg Config, effects Stepper, heartbeat periph.Pin, logger *log.Logger) *Scheduler {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Millisecond
	}
	if cfg.Second <= 0 {
		cfg.Second = time.Second
	}
	if heartbeat == nil {
		heartbeat = periph.NopPin{}
	}
	return &Scheduler{
		clock:     clock,
		logger:    logger.WithPrefix("scheduler"),
		cfg:       cfg,
		Deadline:  NewDeadline(cfg.TurnTimeout),
		effects:   effects,
		heartbeat: heartbeat,
	}
}

// SetHandActive tells the heartbeat whether a hand is in progress
func (s *Scheduler) SetHandActive(active bool) {
	s.handActive.Store(active)
}

// TickMillis is the fast-tick handler
func (s *Scheduler) TickMillis() {
	s.Button.Tick()
	s.Analog.Tick()

	if s.effects != nil {
		s.effects.Step()
	}

	if !s.handActive.Load() {
		s.hbDiv = 0
		s.hbLevel = false
		s.heartbeat.Set(false)
		return
	}
	s.hbDiv++
	if s.hbDiv >= HeartbeatDivider {
		s.hbDiv = 0
		s.hbLevel = !s.hbLevel
		s.heartbeat.Set(s.hbLevel)
	}
}

// TickSecond is the one-second handler
func (s *Scheduler) TickSecond() {
	s.Deadline.Tick()
}

// Start creates both tickers and runs each tick domain in its own goroutine until
// ctx is cancelled. The tickers exist by the time Start returns.
func (s *Scheduler) Start(ctx context.Context) *errgroup.Group {
	g, ctx := errgroup.WithContext(ctx)

	fast := s.clock.NewTicker(s.cfg.Tick, "scheduler", "fast")
	slow := s.clock.NewTicker(s.cfg.Second, "scheduler", "second")

	// A freshly created ticker is already in phase.
	select {
	case <-s.Deadline.rephase:
	default:
	}

	s.logger.Debug("Scheduler started", "tick", s.cfg.Tick, "second", s.cfg.Second)

	g.Go(func() error {
		defer fast.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-fast.C:
				s.TickMillis()
			}
		}
	})

	g.Go(func() error {
		defer slow.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-s.Deadline.rephase:
				slow.Reset(s.cfg.Second, "scheduler", "rephase")
			case <-slow.C:
				s.TickSecond()
			}
		}
	})

	return g
}

// Run blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	return s.Start(ctx).Wait()
}
