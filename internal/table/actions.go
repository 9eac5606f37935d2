package table

import "github.com/lox/pokertable/internal/input"

// feedback is the buzzer and LED response when an action empties a stack
type feedback struct {
	toneMs  int
	freqHz  int
	toggles int
}

const flashPeriodMs = 60

var (
	allInFeedback   = feedback{toneMs: 220, freqHz: 1000, toggles: 40}
	callFeedback    = feedback{toneMs: 180, freqHz: 900, toggles: 20}
	raiseFeedback   = feedback{toneMs: 180, freqHz: 1000, toggles: 20}
	timeoutFeedback = feedback{toneMs: 140, freqHz: 800, toggles: 12}
)

func (e *Engine) signal(f feedback) {
	e.io.Feedback.Tone(f.toneMs, f.freqHz)
	e.io.Feedback.LEDPattern(f.toggles, flashPeriodMs)
}

// pass hands the turn to the other player and restarts the deadline
func (e *Engine) pass() {
	e.actor = 1 - e.actor
	e.io.Deadline.Arm()
}

// act processes at most one action for the current actor. The first matching
// button wins; with no button the expired deadline plays for them.
func (e *Engine) act(edges input.Buttons) {
	p := e.actor
	if e.players[p].Out() {
		e.acted[p] = true
		e.pass()
		return
	}

	switch {
	case edges.Has(input.AllIn):
		e.allIn(p)
	case edges.Has(input.Fold):
		e.players[p].Folded = true
		e.emit("Player %d folds.", p+1)
	case edges.Has(input.Call):
		e.call(p)
	case edges.Has(input.Raise):
		e.raise(p)
	case e.io.Deadline.Expired():
		e.timeout(p)
	default:
		return
	}

	e.logger.Debug("Player acted", "hand", e.handID, "player", p+1, "buttons", edges,
		"balance", e.players[p].Balance, "pot", e.pot)
	e.showPlayer(p)
	e.acted[p] = true
	e.pass()
}

func (e *Engine) allIn(p int) {
	before := e.currentBet
	e.commit(p, e.players[p].Balance)
	e.players[p].AllIn = true
	e.emit("Player %d ALL IN! Pot=%d", p+1, e.pot)
	e.signal(allInFeedback)
	if e.currentBet > before {
		e.acted[1-p] = false
	}
}

func (e *Engine) call(p int) {
	paid := e.commit(p, e.owed(p))
	if paid == 0 {
		e.emit("Player %d checks.", p+1)
	} else {
		e.emit("Player %d calls %d. Pot=%d", p+1, paid, e.pot)
	}
	if e.players[p].Balance == 0 {
		e.signal(callFeedback)
	}
}

func (e *Engine) raise(p int) {
	need := e.owed(p)
	if e.players[p].Balance <= need {
		e.commit(p, e.players[p].Balance)
		e.emit("Player %d goes ALL IN. Pot=%d", p+1, e.pot)
		e.signal(raiseFeedback)
		return
	}

	size := max(e.io.Bets.Value(), e.minRaise)
	paid := e.commit(p, need+size)
	e.minRaise = size
	e.emit("Player %d raises %d (Pot=%d)", p+1, paid, e.pot)
	if e.players[p].Balance == 0 {
		e.signal(raiseFeedback)
	}
	e.acted[1-p] = false
}

func (e *Engine) timeout(p int) {
	need := e.owed(p)
	switch {
	case need == 0:
		e.emit("Player %d auto-checks.", p+1)
	case need <= e.players[p].Balance:
		e.commit(p, need)
		e.emit("Player %d auto-calls %d.", p+1, need)
	default:
		e.players[p].Folded = true
		e.emit("Player %d folds (timeout).", p+1)
	}
	if e.players[p].Balance == 0 {
		e.signal(timeoutFeedback)
	}
}
