// Package table is the heads-up betting state machine. An Engine owns every piece
// of game state and is advanced one step per main-loop iteration.
package table

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/periph"
	"github.com/lox/pokertable/poker"
)

// Config holds the fixed table parameters
type Config struct {
	StartingStack int
	SmallBlind    int
	BigBlind      int
	Seed          int64
}

// DefaultConfig returns the stakes the table powers up with
func DefaultConfig() Config {
	return Config{
		StartingStack: 4000,
		SmallBlind:    25,
		BigBlind:      50,
		Seed:          1,
	}
}

// Deadline is the turn timer: re-armed on every action, polled for expiry
type Deadline interface {
	Arm()
	Expired() bool
}

// Keys is the operator's character input
type Keys interface {
	Take(accept ...byte) (byte, bool)
	Clear()
}

// BetSource supplies the bet-preview amount used as the raise size
type BetSource interface {
	Value() int
}

// Peripherals are the collaborators the engine drives
type Peripherals struct {
	Display  periph.Display
	Console  periph.Console
	Feedback periph.Feedback
	Deadline Deadline
	Keys     Keys
	Bets     BetSource
	Results  ResultSink
}

// Engine is the table context object
type Engine struct {
	cfg    Config
	io     Peripherals
	logger *log.Logger

	rng  *rand.Rand
	deck *poker.Deck

	state       State
	transitions map[State]func(input.Buttons) State

	players    [NumPlayers]Player
	board      [5]poker.Card
	pot        int
	currentBet int
	minRaise   int
	acted      [NumPlayers]bool
	dealer     int
	nextDealer int
	actor      int
	runout     bool
	prompted   [NumPlayers]bool

	bankroll int
	handID   uuid.UUID
	hands    int
	started  [NumPlayers]int
	reached  State
}

// NumPlayers is fixed: the table is heads-up only
const NumPlayers = 2

// New creates an engine in the Idle state with both players at the starting stack.
// Player 1 deals the first hand.
func New(cfg Config, io Peripherals, logger *log.Logger) *Engine {
	rng := poker.NewRand(cfg.Seed)
	e := &Engine{
		cfg:    cfg,
		io:     io,
		logger: logger.WithPrefix("table"),
		rng:    rng,
		deck:   poker.NewDeck(rng),
		state:  Idle,
	}
	for i := range e.players {
		e.players[i].Balance = cfg.StartingStack
	}
	e.bankroll = NumPlayers * cfg.StartingStack
	e.transitions = map[State]func(input.Buttons) State{
		Idle:      e.idle,
		WaitBuyIn: e.waitBuyIn,
		NewHand:   e.newHand,
		Preflop:   e.street,
		Flop:      e.street,
		Turn:      e.street,
		River:     e.street,
		Showdown:  e.showdown,
		FoldWin:   e.foldWin,
	}
	return e
}

// Step runs the transition function for the current state once. edges are the
// button presses taken since the previous step; they are dropped if the current
// state does not use them.
func (e *Engine) Step(edges input.Buttons) {
	from := e.state
	e.state = e.transitions[from](edges)
	if e.state != from {
		e.logger.Debug("State transition", "from", from, "to", e.state, "hand", e.handID)
	}
}

// State returns the current state
func (e *Engine) State() State {
	return e.state
}

// HandActive reports whether a hand is in progress
func (e *Engine) HandActive() bool {
	return e.state.InHand()
}

// Actor returns the index of the player whose turn it is
func (e *Engine) Actor() int {
	return e.actor
}

// Player returns a copy of player i
func (e *Engine) Player(i int) Player {
	return e.players[i]
}

// Pot returns the chips in the pot
func (e *Engine) Pot() int {
	return e.pot
}

// owed is the amount player p needs to call
func (e *Engine) owed(p int) int {
	return max(e.currentBet-e.players[p].Contribution, 0)
}

// commit moves up to amount from player p into the pot and raises the current
// bet level if the player's contribution now exceeds it
func (e *Engine) commit(p, amount int) int {
	paid := e.players[p].pay(amount)
	e.pot += paid
	if c := e.players[p].Contribution; c > e.currentBet {
		e.currentBet = c
	}
	return paid
}

func (e *Engine) emit(format string, args ...any) {
	e.io.Console.EmitLine(fmt.Sprintf(format, args...))
}

func (e *Engine) showPlayer(p int) {
	pl := &e.players[p]
	e.io.Display.ShowPlayer(periph.Side(p), pl.Hole[0].String(), pl.Hole[1].String(), pl.Balance)
}

func (e *Engine) mustDraw() poker.Card {
	c, err := e.deck.Draw()
	if err != nil {
		panic(fmt.Errorf("hand %s: %w", e.handID, err))
	}
	return c
}

// checkChips verifies no chips were created or destroyed
func (e *Engine) checkChips() {
	total := e.pot
	for i := range e.players {
		total += e.players[i].Balance
	}
	if total != e.bankroll {
		e.logger.Error("Chip conservation violated", "hand", e.handID, "expected", e.bankroll, "actual", total)
	}
}
