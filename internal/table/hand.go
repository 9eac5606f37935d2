package table

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lox/pokertable/internal/input"
)

type buyInStatus int

const (
	buyInFunded buyInStatus = iota
	buyInDeclined
	buyInWaiting
)

func (e *Engine) idle(input.Buttons) State {
	return WaitBuyIn
}

// buyIn prompts a busted player once and polls for their answer
func (e *Engine) buyIn(p int) buyInStatus {
	if e.players[p].Balance > 0 {
		e.prompted[p] = false
		return buyInFunded
	}
	if !e.prompted[p] {
		// Only an answer typed after the prompt counts.
		e.io.Keys.Clear()
		e.emit("Player %d is out of chips! Buy-in again for %d chips? (y/n): ", p+1, e.cfg.StartingStack)
		e.prompted[p] = true
	}
	c, ok := e.io.Keys.Take('y', 'Y', 'n', 'N')
	if !ok {
		return buyInWaiting
	}
	e.prompted[p] = false
	if c == 'y' || c == 'Y' {
		e.players[p].Balance = e.cfg.StartingStack
		e.bankroll += e.cfg.StartingStack
		e.emit("Player %d re-buys.", p+1)
		e.logger.Info("Player re-bought", "player", p+1, "stack", e.cfg.StartingStack)
		e.showPlayer(p)
		return buyInFunded
	}
	return buyInDeclined
}

func (e *Engine) waitBuyIn(input.Buttons) State {
	s0 := e.buyIn(0)
	s1 := e.buyIn(1)
	if s0 == buyInWaiting || s1 == buyInWaiting {
		return WaitBuyIn
	}
	if s0 == buyInDeclined || s1 == buyInDeclined {
		e.gameOver()
	}
	return NewHand
}

// gameOver announces the match result and resets both stacks
func (e *Engine) gameOver() {
	b0, b1 := e.players[0].Balance, e.players[1].Balance
	e.emit("GAME OVER")
	switch {
	case b0 > b1:
		e.emit("Player 1 wins with %d chips", b0)
	case b1 > b0:
		e.emit("Player 2 wins with %d chips", b1)
	default:
		e.emit("Tie game. Both players at %d chips", b0)
	}
	e.logger.Info("Game over", "p1", b0, "p2", b1, "hands", e.hands)

	for i := range e.players {
		e.players[i].Balance = e.cfg.StartingStack
		e.prompted[i] = false
	}
	e.bankroll = NumPlayers * e.cfg.StartingStack
	e.io.Keys.Clear()
	e.emit("=== NEW GAME ===")
}

func (e *Engine) newHand(input.Buttons) State {
	e.hands++
	e.handID = uuid.New()
	for i := range e.players {
		e.players[i].resetHand()
	}
	e.acted = [NumPlayers]bool{}
	e.runout = false
	e.pot = 0
	e.reached = Preflop
	for i := range e.players {
		e.started[i] = e.players[i].Balance
	}

	e.dealer = e.nextDealer
	e.nextDealer = 1 - e.dealer
	sb, bb := e.dealer, 1-e.dealer

	sbPaid := e.players[sb].pay(e.cfg.SmallBlind)
	bbPaid := e.players[bb].pay(e.cfg.BigBlind)
	e.pot = sbPaid + bbPaid
	e.currentBet = max(sbPaid, bbPaid)
	e.minRaise = e.cfg.BigBlind
	e.emit("P%d posts %d (SB), P%d posts %d (BB) – Pot=%d", sb+1, sbPaid, bb+1, bbPaid, e.pot)

	e.deck.Shuffle()
	for i := range e.players {
		e.players[i].Hole[0] = e.mustDraw()
		e.players[i].Hole[1] = e.mustDraw()
		e.showPlayer(i)
	}
	for i := range e.board {
		e.board[i] = e.mustDraw()
	}

	e.actor = bb
	e.io.Deadline.Arm()

	e.logger.Info("Hand started", "hand", e.handID, "number", e.hands, "dealer", sb+1, "pot", e.pot)
	e.io.Console.EmitLine(Preflop.banner())
	return Preflop
}

// street handles one main-loop iteration of a betting round
func (e *Engine) street(edges input.Buttons) State {
	if e.players[0].Folded != e.players[1].Folded {
		return FoldWin
	}
	if e.runout || (e.players[0].AllIn && e.players[1].AllIn) {
		e.runout = true
		return e.advance()
	}

	e.act(edges)

	if e.players[0].Folded || e.players[1].Folded {
		return FoldWin
	}
	if e.streetComplete() {
		if e.players[0].AllIn || e.players[1].AllIn {
			e.runout = true
		}
		return e.advance()
	}
	return e.state
}

// streetComplete reports whether both players have acted since the last raise
// and nobody owes chips they can still pay
func (e *Engine) streetComplete() bool {
	if !e.acted[0] || !e.acted[1] {
		return false
	}
	c0, c1 := e.players[0].Contribution, e.players[1].Contribution
	switch {
	case c0 == c1:
		return true
	case c0 < c1:
		return e.players[0].AllIn
	default:
		return e.players[1].AllIn
	}
}

// returnUncalled gives back the part of a bet the all-in opponent could not match
func (e *Engine) returnUncalled() {
	hi, lo := 0, 1
	if e.players[1].Contribution > e.players[0].Contribution {
		hi, lo = 1, 0
	}
	excess := e.players[hi].Contribution - e.players[lo].Contribution
	if excess == 0 || !e.players[lo].AllIn {
		return
	}
	e.players[hi].refund(excess)
	e.pot -= excess
	e.emit("Player %d takes back %d uncalled.", hi+1, excess)
	e.showPlayer(hi)
}

// advance closes the street and reveals the next one
func (e *Engine) advance() State {
	e.returnUncalled()
	for i := range e.players {
		e.players[i].Contribution = 0
	}
	e.currentBet = 0
	e.minRaise = e.cfg.BigBlind
	e.acted = [NumPlayers]bool{}
	e.actor = 1 - e.dealer
	e.io.Deadline.Arm()

	next := e.state.next()
	if next.Betting() {
		e.reached = next
	}
	e.io.Console.EmitLine(next.banner())
	e.emit("Community: %s", e.community(next.revealed()))
	return next
}

func (e *Engine) community(n int) string {
	parts := make([]string, n)
	for i := range n {
		parts[i] = e.board[i].String()
	}
	return strings.Join(parts, " ")
}
