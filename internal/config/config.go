// Package config loads the table configuration from an HCL file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokertable/internal/firmware"
	"github.com/lox/pokertable/internal/scheduler"
	"github.com/lox/pokertable/internal/table"
)

// DefaultFile is the configuration file read when none is given
const DefaultFile = "pokertable.hcl"

// Config represents the complete table configuration
type Config struct {
	LogLevel string           `hcl:"log_level,optional"`
	Table    *TableSettings   `hcl:"table,block"`
	Timing   *TimingSettings  `hcl:"timing,block"`
	Console  *ConsoleSettings `hcl:"console,block"`
}

// TableSettings are the stakes and the turn timer
type TableSettings struct {
	StartingStack int   `hcl:"starting_stack,optional"`
	SmallBlind    int   `hcl:"small_blind,optional"`
	BigBlind      int   `hcl:"big_blind,optional"`
	MaxBet        int   `hcl:"max_bet,optional"`
	TurnTimeout   int   `hcl:"turn_timeout,optional"`
	Seed          int64 `hcl:"seed,optional"`
}

// TimingSettings are the tick and cadence periods in milliseconds
type TimingSettings struct {
	TickMs       int `hcl:"tick_ms,optional"`
	ButtonPollMs int `hcl:"button_poll_ms,optional"`
	AnalogPollMs int `hcl:"analog_poll_ms,optional"`
	LoopMs       int `hcl:"loop_ms,optional"`
}

// ConsoleSettings control the websocket operator console
type ConsoleSettings struct {
	Enabled bool   `hcl:"enabled,optional"`
	Address string `hcl:"address,optional"`
}

// Default returns the configuration the table powers up with
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Table: &TableSettings{
			StartingStack: 4000,
			SmallBlind:    25,
			BigBlind:      50,
			MaxBet:        4000,
			TurnTimeout:   20,
			Seed:          1,
		},
		Timing: &TimingSettings{
			TickMs:       1,
			ButtonPollMs: 10,
			AnalogPollMs: 20,
			LoopMs:       1,
		},
		Console: &ConsoleSettings{
			Enabled: false,
			Address: "localhost:8080",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in missing blocks and zero values
func (c *Config) applyDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Table == nil {
		c.Table = d.Table
	}
	if c.Timing == nil {
		c.Timing = d.Timing
	}
	if c.Console == nil {
		c.Console = d.Console
	}

	if c.Table.StartingStack == 0 {
		c.Table.StartingStack = d.Table.StartingStack
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = d.Table.SmallBlind
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = c.Table.SmallBlind * 2
	}
	if c.Table.MaxBet == 0 {
		c.Table.MaxBet = c.Table.StartingStack
	}
	if c.Table.TurnTimeout == 0 {
		c.Table.TurnTimeout = d.Table.TurnTimeout
	}
	if c.Table.Seed == 0 {
		c.Table.Seed = d.Table.Seed
	}

	if c.Timing.TickMs == 0 {
		c.Timing.TickMs = d.Timing.TickMs
	}
	if c.Timing.ButtonPollMs == 0 {
		c.Timing.ButtonPollMs = d.Timing.ButtonPollMs
	}
	if c.Timing.AnalogPollMs == 0 {
		c.Timing.AnalogPollMs = d.Timing.AnalogPollMs
	}
	if c.Timing.LoopMs == 0 {
		c.Timing.LoopMs = d.Timing.LoopMs
	}

	if c.Console.Address == "" {
		c.Console.Address = d.Console.Address
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	t := *c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if t.StartingStack < t.BigBlind {
		return fmt.Errorf("starting stack %d is smaller than the big blind", t.StartingStack)
	}
	if t.StartingStack > 65535 {
		return fmt.Errorf("starting stack %d exceeds 65535", t.StartingStack)
	}
	if t.MaxBet <= 0 {
		return fmt.Errorf("max bet must be positive")
	}
	if t.TurnTimeout < 1 {
		return fmt.Errorf("turn timeout must be at least 1 second")
	}

	for name, ms := range map[string]int{
		"tick_ms":        c.Timing.TickMs,
		"button_poll_ms": c.Timing.ButtonPollMs,
		"analog_poll_ms": c.Timing.AnalogPollMs,
		"loop_ms":        c.Timing.LoopMs,
	} {
		if ms <= 0 {
			return fmt.Errorf("timing %s must be positive", name)
		}
	}

	return nil
}

// Firmware converts the file settings into the board configuration
func (c *Config) Firmware() firmware.Config {
	return firmware.Config{
		Table: table.Config{
			StartingStack: c.Table.StartingStack,
			SmallBlind:    c.Table.SmallBlind,
			BigBlind:      c.Table.BigBlind,
			Seed:          c.Table.Seed,
		},
		Scheduler: scheduler.Config{
			Tick:        time.Duration(c.Timing.TickMs) * time.Millisecond,
			Second:      time.Second,
			TurnTimeout: c.Table.TurnTimeout,
		},
		ButtonPollMs: c.Timing.ButtonPollMs,
		AnalogPollMs: c.Timing.AnalogPollMs,
		MaxBet:       c.Table.MaxBet,
		Loop:         time.Duration(c.Timing.LoopMs) * time.Millisecond,
	}
}
