package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/sanity-io/litter"

	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/stats"
	"github.com/lox/pokertable/internal/table"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config    string `short:"c" default:"pokertable.hcl" help:"Path to HCL configuration file"`
	LogLevel  string `short:"l" help:"Log level (overrides config)"`
	NoColor   bool   `help:"Disable colour output"`
	DumpState bool   `help:"Print the final table state on exit"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play at the table in the terminal"`
	Serve   ServeCmd         `cmd:"" help:"Run the table headless with the operator console"`
	Eval    EvalCmd          `cmd:"" help:"Rank the best hand from seven cards"`
}

// setup loads and validates the configuration and builds a logger writing to w
func (g *Globals) setup(w io.Writer) (*config.Config, *log.Logger, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return cfg, logger, nil
}

// dump prints the final table state and session figures when --dump-state is set
func (g *Globals) dump(w io.Writer, s table.Snapshot, sum stats.Summary) {
	if !g.DumpState {
		return
	}
	fmt.Fprintln(w, litter.Sdump(s, sum))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable"),
		kong.Description("Heads-up Texas Hold'em table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
