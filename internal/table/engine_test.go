package table

import (
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/internal/periph"
	"github.com/lox/pokertable/internal/scheduler"
	"github.com/lox/pokertable/poker"
)

type fakeDeadline struct {
	expired bool
	arms    int
}

func (d *fakeDeadline) Arm() {
	d.arms++
	d.expired = false
}

func (d *fakeDeadline) Expired() bool {
	return d.expired
}

type betKnob struct {
	v int
}

func (b *betKnob) Value() int {
	return b.v
}

type resultLog struct {
	got []HandResult
}

func (r *resultLog) HandFinished(res HandResult) {
	r.got = append(r.got, res)
}

func (r *resultLog) last(t *testing.T) HandResult {
	t.Helper()
	require.NotEmpty(t, r.got)
	return r.got[len(r.got)-1]
}

type harness struct {
	e        *Engine
	rec      *periph.Recorder
	deadline *fakeDeadline
	keys     *input.CharLatch
	bets     *betKnob
	results  *resultLog
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testConfig() Config {
	return Config{StartingStack: 1000, SmallBlind: 25, BigBlind: 50, Seed: 1}
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		rec:      periph.NewRecorder(),
		deadline: &fakeDeadline{},
		keys:     input.NewCharLatch(),
		bets:     &betKnob{},
		results:  &resultLog{},
	}
	h.e = New(cfg, Peripherals{
		Display:  h.rec,
		Console:  h.rec,
		Feedback: h.rec,
		Deadline: h.deadline,
		Keys:     h.keys,
		Bets:     h.bets,
		Results:  h.results,
	}, quietLogger())
	return h
}

// setBalances overrides stacks before the first hand
func (h *harness) setBalances(b0, b1 int) {
	h.e.players[0].Balance = b0
	h.e.players[1].Balance = b1
	h.e.bankroll = b0 + b1
}

// startHand steps until a hand has been dealt
func (h *harness) startHand(t *testing.T) {
	t.Helper()
	for i := 0; i < 5 && h.e.State() != Preflop; i++ {
		h.e.Step(0)
	}
	require.Equal(t, Preflop, h.e.State())
}

func (h *harness) assertPotInvariant(t *testing.T) {
	t.Helper()
	p0, p1 := h.e.Player(0), h.e.Player(1)
	assert.Equal(t, h.e.Pot(), p0.Committed+p1.Committed, "pot equals chips committed this hand")
	assert.Equal(t, h.e.bankroll, p0.Balance+p1.Balance+h.e.Pot(), "no chips created or destroyed")
}

func TestBlindsScenario(t *testing.T) {
	h := newHarness(t, testConfig())
	assert.Equal(t, Idle, h.e.State())
	assert.False(t, h.e.HandActive())

	h.startHand(t)

	p1, p2 := h.e.Player(0), h.e.Player(1)
	assert.Equal(t, 25, p1.Contribution)
	assert.Equal(t, 50, p2.Contribution)
	assert.Equal(t, 75, h.e.Pot())
	assert.Equal(t, 975, p1.Balance)
	assert.Equal(t, 950, p2.Balance)
	assert.Equal(t, 1, h.e.Actor(), "non-dealer acts first")
	assert.True(t, h.e.HandActive())
	assert.Equal(t, p1.Contribution+p2.Contribution, h.e.Pot())

	assert.Equal(t, []string{
		"P1 posts 25 (SB), P2 posts 50 (BB) – Pot=75",
		"=== PRE-FLOP ===",
	}, h.rec.Lines())

	view, refreshes := h.rec.Player(periph.SideP2)
	assert.Equal(t, 950, view.Balance)
	assert.Len(t, view.Card1, 2)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 1, h.deadline.arms)
}

func TestShortBlindGoesAllIn(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(10, 1000)
	h.startHand(t)

	p1 := h.e.Player(0)
	assert.True(t, p1.AllIn)
	assert.Equal(t, 10, p1.Contribution)
	assert.Equal(t, 0, p1.Balance)
	assert.Equal(t, 60, h.e.Pot())
	assert.True(t, strings.HasPrefix(h.rec.Lines()[0], "P1 posts 10 (SB), P2 posts 50 (BB)"))
}

func TestRaiseResetsOpponentActedFlag(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	h.e.Step(input.Call) // P2 checks the big blind
	assert.Equal(t, "Player 2 checks.", h.rec.LastLine())
	require.True(t, h.e.acted[1])
	require.Equal(t, 0, h.e.Actor())

	h.bets.v = 50
	h.e.Step(input.Raise) // P1 raises to 100
	assert.Equal(t, 100, h.e.Player(0).Contribution)
	assert.Equal(t, 100, h.e.currentBet)
	assert.Equal(t, "Player 1 raises 75 (Pot=150)", h.rec.LastLine())
	assert.True(t, h.e.acted[0], "raiser has acted")
	assert.False(t, h.e.acted[1], "opponent must respond")
	assert.Equal(t, Preflop, h.e.State())
	h.assertPotInvariant(t)
}

func TestRaiseFloorsAtMinimumRaise(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	h.bets.v = 10
	h.e.Step(input.Raise) // P2 owes nothing, raise floored to 50
	assert.Equal(t, 100, h.e.Player(1).Contribution)
	assert.Equal(t, 50, h.e.minRaise)

	h.bets.v = 200
	h.e.Step(input.Raise) // P1 calls 75 and raises 200
	assert.Equal(t, 300, h.e.Player(0).Contribution)
	assert.Equal(t, 200, h.e.minRaise)
	assert.Equal(t, "Player 1 raises 275 (Pot=400)", h.rec.LastLine())

	h.bets.v = 0
	h.e.Step(input.Raise) // P2 must raise at least 200 more
	assert.Equal(t, 500, h.e.Player(1).Contribution)
	h.assertPotInvariant(t)
}

func TestTimeoutAutoChecks(t *testing.T) {
	h := newHarness(t, testConfig())
	sched := scheduler.New(quartz.NewMock(t), scheduler.DefaultConfig(), nil, nil, quietLogger())
	h.e.io.Deadline = sched.Deadline
	h.startHand(t)
	require.Equal(t, 20, sched.Deadline.Remaining())

	h.e.Step(0)
	assert.Equal(t, 1, h.e.Actor(), "no action before the deadline")

	for i := 0; i < 20; i++ {
		sched.TickSecond()
	}
	require.True(t, sched.Deadline.Expired())

	h.e.Step(0)
	assert.Equal(t, "Player 2 auto-checks.", h.rec.LastLine())
	assert.False(t, h.e.Player(1).Folded)
	assert.True(t, h.e.acted[1])
	assert.Equal(t, 0, h.e.Actor())
	assert.Equal(t, 20, sched.Deadline.Remaining(), "action re-arms the deadline")
}

func TestTimeoutAutoCallsAndFolds(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(500, 1000)
	h.startHand(t)

	h.bets.v = 100
	h.e.Step(input.Raise) // P2 to 150
	h.deadline.expired = true
	h.e.Step(0)
	assert.True(t, h.rec.HasLine("Player 1 auto-calls 125."))
	assert.Equal(t, 350, h.e.Player(0).Balance)

	// Flop: P2 shoves more than P1 can call.
	require.Equal(t, Flop, h.e.State())
	h.e.Step(input.AllIn)
	h.deadline.expired = true
	next := h.e.State()
	h.e.Step(0)
	assert.Equal(t, "Player 1 folds (timeout).", h.rec.LastLine())
	assert.Equal(t, Flop, next)
	assert.Equal(t, FoldWin, h.e.State())

	h.e.Step(0)
	assert.Equal(t, WaitBuyIn, h.e.State())
	assert.Equal(t, 350, h.e.Player(0).Balance)
	assert.Equal(t, 1150, h.e.Player(1).Balance)
}

func TestAdvanceClearsStreetState(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	h.e.Step(input.Call) // P2 checks
	h.e.Step(input.Call) // P1 completes the small blind
	require.Equal(t, Flop, h.e.State())

	p1, p2 := h.e.Player(0), h.e.Player(1)
	assert.Equal(t, 0, p1.Contribution)
	assert.Equal(t, 0, p2.Contribution)
	assert.False(t, h.e.acted[0])
	assert.False(t, h.e.acted[1])
	assert.Equal(t, 100, h.e.Pot())
	assert.Equal(t, 0, h.e.currentBet)
	assert.Equal(t, 50, h.e.minRaise)
	assert.Equal(t, 1, h.e.Actor())
	h.assertPotInvariant(t)

	lines := h.rec.Lines()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "=== FLOP ===", lines[len(lines)-2])
	assert.Equal(t, "Community: "+h.e.community(3), lines[len(lines)-1])
	assert.Len(t, h.e.Snapshot().Board, 3)
}

func TestFoldWin(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	h.e.Step(input.Fold)
	assert.Equal(t, "Player 2 folds.", h.rec.LastLine())
	require.Equal(t, FoldWin, h.e.State())

	h.e.Step(input.Call) // ignored outside a betting street
	assert.Equal(t, WaitBuyIn, h.e.State())
	assert.True(t, h.rec.HasLine("Player 1 wins by fold +75  (P1 975 -> 1050)"))
	assert.Equal(t, "Balances now: P1=1050  P2=950", h.rec.LastLine())
	assert.Equal(t, 0, h.e.Pot())
	h.assertPotInvariant(t)

	res := h.results.last(t)
	assert.Equal(t, 1, res.Hand)
	assert.Equal(t, 75, res.Pot)
	assert.Equal(t, Preflop, res.Street)
	assert.False(t, res.Showdown)
	assert.Equal(t, 0, res.Winner)
	assert.Equal(t, [NumPlayers]int{50, -50}, res.Net)
}

func TestDealerAlternates(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)
	h.e.Step(input.Fold)
	h.e.Step(0)
	h.rec.Reset()

	h.startHand(t)
	assert.Equal(t, "P2 posts 25 (SB), P1 posts 50 (BB) – Pot=75", h.rec.Lines()[0])
	assert.Equal(t, 0, h.e.Actor())
	assert.Equal(t, 1, h.e.Snapshot().Dealer)
}

func TestBothAllInRunsOut(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	h.e.Step(input.AllIn)
	assert.Equal(t, "Player 2 ALL IN! Pot=1025", h.rec.LastLine())
	h.e.Step(input.Call)
	assert.True(t, h.rec.HasLine("Player 1 calls 975. Pot=2000"))
	assert.True(t, h.e.Player(0).AllIn)

	assert.Equal(t, []periph.ToneCall{{DurationMs: 220, FreqHz: 1000}, {DurationMs: 180, FreqHz: 900}}, h.rec.Tones())
	assert.Equal(t, []periph.PatternCall{{Toggles: 40, PeriodMs: 60}, {Toggles: 20, PeriodMs: 60}}, h.rec.Patterns())

	for _, want := range []State{Flop, Turn, River, Showdown} {
		require.Equal(t, want, h.e.State())
		h.assertPotInvariant(t)
		h.e.Step(input.Fold) // buttons have no effect during a runout
	}
	assert.Equal(t, WaitBuyIn, h.e.State())
	assert.True(t, h.rec.HasLine("=== SHOWDOWN ==="))
	assert.Equal(t, 2000, h.e.Player(0).Balance+h.e.Player(1).Balance)
}

func TestUncalledExcessReturned(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(1000, 500)
	h.startHand(t)

	h.e.Step(input.AllIn) // P2 all-in for 500
	h.e.Step(input.AllIn) // P1 shoves 1000
	assert.False(t, h.e.acted[1])

	h.e.Step(0) // both all-in: excess returned, flop revealed
	assert.True(t, h.rec.HasLine("Player 1 takes back 500 uncalled."))
	assert.Equal(t, 1000, h.e.Pot())
	assert.Equal(t, 500, h.e.Player(0).Balance)
	assert.Equal(t, Flop, h.e.State())
	h.assertPotInvariant(t)

	for h.e.State() != WaitBuyIn {
		h.e.Step(0)
	}
	assert.Equal(t, 1500, h.e.Player(0).Balance+h.e.Player(1).Balance)
}

func TestCalledAllInSkipsRemainingBetting(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(1000, 300)
	h.startHand(t)

	h.e.Step(input.AllIn) // P2 all-in for 300
	h.e.Step(input.Call)  // P1 calls 275
	assert.Equal(t, Flop, h.e.State())
	assert.False(t, h.e.Player(0).AllIn)

	h.e.Step(0)
	assert.Equal(t, Turn, h.e.State(), "no betting once the only opponent is all-in")
	h.assertPotInvariant(t)
}

func TestRaiseWithoutCoverGoesAllIn(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(200, 1000)
	h.startHand(t)

	h.bets.v = 500
	h.e.Step(input.Raise) // P2 raises to 550
	h.e.Step(input.Raise) // P1 has 175 left against 525 owed
	assert.True(t, h.rec.HasLine("Player 1 goes ALL IN. Pot=750"))
	assert.True(t, h.e.Player(0).AllIn)
	assert.Equal(t, []periph.ToneCall{{DurationMs: 180, FreqHz: 1000}}, h.rec.Tones())
	h.assertPotInvariant(t)
}

func TestSplitPotOddChipToPlayerTwo(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	// Both players play a board royal flush.
	copy(h.e.board[:], poker.MustParseCards("AsKsQsJsTs"))
	h.e.players[0].Hole = [2]poker.Card{poker.MustParseCards("2h")[0], poker.MustParseCards("3d")[0]}
	h.e.players[1].Hole = [2]poker.Card{poker.MustParseCards("4h")[0], poker.MustParseCards("5d")[0]}
	h.e.players[0].Balance, h.e.players[0].Committed = 950, 50
	h.e.players[1].Balance, h.e.players[1].Committed = 949, 51
	h.e.pot = 101
	h.e.state = Showdown

	h.e.Step(0)
	assert.Equal(t, WaitBuyIn, h.e.State())
	assert.True(t, h.rec.HasLine("Player 1: Straight Flush"))
	assert.True(t, h.rec.HasLine("Split pot: P1 +50 ( 950 -> 1000 ), P2 +51 ( 949 -> 1000 )"))
	assert.Equal(t, 1000, h.e.Player(0).Balance)
	assert.Equal(t, 1000, h.e.Player(1).Balance)
	assert.Equal(t, 0, h.e.Pot())

	res := h.results.last(t)
	assert.Equal(t, -1, res.Winner)
	assert.True(t, res.Showdown)
	assert.Equal(t, 101, res.Pot)
}

func TestShowdownWinnerTakesPot(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	copy(h.e.board[:], poker.MustParseCards("2c7d9hJsKd"))
	copy(h.e.players[0].Hole[:], poker.MustParseCards("AhAd"))
	copy(h.e.players[1].Hole[:], poker.MustParseCards("3h4h"))
	h.e.state = Showdown

	h.e.Step(0)
	assert.True(t, h.rec.HasLine("Player 1: One Pair"))
	assert.True(t, h.rec.HasLine("Player 2: High Card"))
	assert.True(t, h.rec.HasLine("Player 1 wins +75 chips  (P1 975 -> 1050)"))
	assert.Equal(t, "Balances now: P1=1050  P2=950", h.rec.LastLine())

	res := h.results.last(t)
	assert.Equal(t, 0, res.Winner)
	assert.True(t, res.Showdown)
	assert.Equal(t, [NumPlayers]int{50, -50}, res.Net)
}

func TestBuyInAccept(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(0, 2000)
	h.e.state = WaitBuyIn

	h.e.Step(0)
	h.e.Step(0)
	assert.Equal(t, WaitBuyIn, h.e.State())
	assert.Equal(t, []string{"Player 1 is out of chips! Buy-in again for 1000 chips? (y/n): "}, h.rec.Lines(), "prompt printed once")

	h.keys.Store('q')
	h.e.Step(0)
	assert.Equal(t, WaitBuyIn, h.e.State(), "other characters are ignored")

	h.keys.Store('Y')
	h.e.Step(0)
	assert.Equal(t, NewHand, h.e.State())
	assert.Equal(t, "Player 1 re-buys.", h.rec.LastLine())
	assert.Equal(t, 1000, h.e.Player(0).Balance)
	assert.Equal(t, 3000, h.e.bankroll)
}

func TestBuyInDeclineEndsGame(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(2000, 0)
	h.e.state = WaitBuyIn

	h.e.Step(0)
	h.keys.Store('n')
	h.e.Step(0)

	assert.Equal(t, NewHand, h.e.State())
	assert.Equal(t, []string{
		"Player 2 is out of chips! Buy-in again for 1000 chips? (y/n): ",
		"GAME OVER",
		"Player 1 wins with 2000 chips",
		"=== NEW GAME ===",
	}, h.rec.Lines())
	assert.Equal(t, 1000, h.e.Player(0).Balance)
	assert.Equal(t, 1000, h.e.Player(1).Balance)
}

func TestBuyInIgnoresAnswerTypedBeforePrompt(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(0, 2000)
	h.e.state = WaitBuyIn
	h.keys.Store('y') // typed during the previous hand

	h.e.Step(0)
	assert.Equal(t, WaitBuyIn, h.e.State())
	assert.Equal(t, "Player 1 is out of chips! Buy-in again for 1000 chips? (y/n): ", h.rec.LastLine())
	assert.False(t, h.rec.HasLine("Player 1 re-buys."))
	_, pending := h.keys.Peek()
	assert.False(t, pending, "prompt discards the stale answer")

	h.keys.Store('y')
	h.e.Step(0)
	assert.Equal(t, NewHand, h.e.State())
	assert.Equal(t, "Player 1 re-buys.", h.rec.LastLine())
}

func TestGameOverDiscardsPendingKey(t *testing.T) {
	h := newHarness(t, testConfig())
	h.setBalances(2000, 0)
	h.e.state = WaitBuyIn

	h.e.Step(0)
	h.keys.Store('n')
	h.e.gameOver()
	_, pending := h.keys.Peek()
	assert.False(t, pending)
}

func TestDeckExhaustionPanics(t *testing.T) {
	h := newHarness(t, testConfig())
	for h.e.deck.Remaining() > 0 {
		_, err := h.e.deck.Draw()
		require.NoError(t, err)
	}
	assert.Panics(t, func() { h.e.mustDraw() })
}

func TestSnapshot(t *testing.T) {
	h := newHarness(t, testConfig())
	h.startHand(t)

	s := h.e.Snapshot()
	assert.Equal(t, "preflop", s.State)
	assert.True(t, s.Betting)
	assert.Equal(t, 1, s.Hand)
	assert.Empty(t, s.Board)
	assert.Len(t, s.Players[0].Hole, 2)
	assert.Equal(t, 75, s.Pot)
	assert.Equal(t, 50, s.CurrentBet)
	assert.NotEqual(t, uuid.Nil, s.HandID)
}

// Random play over many hands never breaks pot or chip conservation.
func TestRandomPlayConservesChips(t *testing.T) {
	h := newHarness(t, Config{StartingStack: 300, SmallBlind: 25, BigBlind: 50, Seed: 9})
	rng := rand.New(rand.NewPCG(1, 2))
	buttons := []input.Buttons{0, input.AllIn, input.Fold, input.Call, input.Call, input.Raise, input.Raise}

	hands := 0
	for i := 0; i < 20000 && hands < 200; i++ {
		if h.e.State() == WaitBuyIn {
			hands++
			h.keys.Store("yn"[rng.IntN(2)])
		}
		h.bets.v = rng.IntN(400)
		h.deadline.expired = rng.IntN(10) == 0
		h.e.Step(buttons[rng.IntN(len(buttons))])

		h.assertPotInvariant(t)
		if h.e.State() == Preflop && h.e.currentBet > 0 {
			p0, p1 := h.e.Player(0), h.e.Player(1)
			assert.Equal(t, h.e.Pot(), p0.Contribution+p1.Contribution, "first street pot equals contributions")
		}
		if t.Failed() {
			t.Fatalf("invariant broken at step %d in state %s", i, h.e.State())
		}
	}
	assert.Greater(t, hands, 50)

	require.NotEmpty(t, h.results.got)
	for _, res := range h.results.got {
		assert.Zero(t, res.Net[0]+res.Net[1], "hand %d nets must cancel", res.Hand)
		assert.True(t, res.Street.Betting())
		if res.Showdown {
			assert.Equal(t, River, res.Street)
		}
	}
}
