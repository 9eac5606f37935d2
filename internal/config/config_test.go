package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokertable.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

table {
  starting_stack = 1000
  small_blind    = 10
}

console {
  enabled = true
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.Table.StartingStack)
	assert.Equal(t, 10, cfg.Table.SmallBlind)
	assert.Equal(t, 20, cfg.Table.BigBlind, "big blind defaults to twice the small blind")
	assert.Equal(t, 1000, cfg.Table.MaxBet, "max bet defaults to the starting stack")
	assert.Equal(t, 20, cfg.Table.TurnTimeout)
	assert.Equal(t, 10, cfg.Timing.ButtonPollMs, "missing block gets defaults")
	assert.True(t, cfg.Console.Enabled)
	assert.Equal(t, "localhost:8080", cfg.Console.Address)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	_, err := Load(writeConfig(t, `table {`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `table { small_blind = "lots" }`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"zero small blind", func(c *Config) { c.Table.SmallBlind = 0 }, "small blind must be positive"},
		{"big blind not above small", func(c *Config) { c.Table.BigBlind = 25 }, "big blind must be greater"},
		{"stack below big blind", func(c *Config) { c.Table.StartingStack = 40 }, "smaller than the big blind"},
		{"stack too large", func(c *Config) { c.Table.StartingStack = 70000 }, "exceeds 65535"},
		{"zero timeout", func(c *Config) { c.Table.TurnTimeout = 0 }, "turn timeout"},
		{"negative poll", func(c *Config) { c.Timing.AnalogPollMs = -1 }, "analog_poll_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFirmwareConversion(t *testing.T) {
	cfg := Default()
	cfg.Timing.LoopMs = 2
	fw := cfg.Firmware()

	assert.Equal(t, 4000, fw.Table.StartingStack)
	assert.Equal(t, 25, fw.Table.SmallBlind)
	assert.Equal(t, 50, fw.Table.BigBlind)
	assert.Equal(t, int64(1), fw.Table.Seed)
	assert.Equal(t, time.Millisecond, fw.Scheduler.Tick)
	assert.Equal(t, 20, fw.Scheduler.TurnTimeout)
	assert.Equal(t, 10, fw.ButtonPollMs)
	assert.Equal(t, 20, fw.AnalogPollMs)
	assert.Equal(t, 4000, fw.MaxBet)
	assert.Equal(t, 2*time.Millisecond, fw.Loop)
}
