package table

import (
	"github.com/lox/pokertable/internal/input"
	"github.com/lox/pokertable/poker"
)

// sevenCards is player p's hole cards plus the full board
func (e *Engine) sevenCards(p int) [7]poker.Card {
	var h [7]poker.Card
	h[0], h[1] = e.players[p].Hole[0], e.players[p].Hole[1]
	copy(h[2:], e.board[:])
	return h
}

func (e *Engine) showdown(input.Buttons) State {
	s0 := poker.EvaluateBest(e.sevenCards(0))
	s1 := poker.EvaluateBest(e.sevenCards(1))
	e.emit("Player 1: %s", s0.Category)
	e.emit("Player 2: %s", s1.Category)

	b0, b1 := e.players[0].Balance, e.players[1].Balance
	winner := -1
	switch cmp := poker.CompareHands(s0, s1); {
	case cmp > 0:
		winner = 0
		e.players[0].Balance += e.pot
		e.emit("Player 1 wins +%d chips  (P1 %d -> %d)", e.pot, b0, e.players[0].Balance)
	case cmp < 0:
		winner = 1
		e.players[1].Balance += e.pot
		e.emit("Player 2 wins +%d chips  (P2 %d -> %d)", e.pot, b1, e.players[1].Balance)
	default:
		// Odd chip goes to player 2.
		half := e.pot / 2
		e.players[0].Balance += half
		e.players[1].Balance += e.pot - half
		e.emit("Split pot: P1 +%d ( %d -> %d ), P2 +%d ( %d -> %d )",
			half, b0, e.players[0].Balance, e.pot-half, b1, e.players[1].Balance)
	}
	e.logger.Info("Showdown", "hand", e.handID, "p1", s0, "p2", s1, "pot", e.pot)
	return e.finishHand(winner, true)
}

func (e *Engine) foldWin(input.Buttons) State {
	w := 0
	if e.players[0].Folded {
		w = 1
	}
	before := e.players[w].Balance
	e.players[w].Balance += e.pot
	e.emit("Player %d wins by fold +%d  (P%d %d -> %d)", w+1, e.pot, w+1, before, e.players[w].Balance)
	e.logger.Info("Won by fold", "hand", e.handID, "winner", w+1, "pot", e.pot)
	return e.finishHand(w, false)
}

// finishHand reports the result, clears the paid-out pot, refreshes both displays
// and returns to the buy-in gate. winner is -1 for a split pot.
func (e *Engine) finishHand(winner int, showdown bool) State {
	if e.io.Results != nil {
		res := HandResult{
			HandID:   e.handID,
			Hand:     e.hands,
			Dealer:   e.dealer,
			Pot:      e.pot,
			Street:   e.reached,
			Showdown: showdown,
			Winner:   winner,
		}
		for i := range e.players {
			res.Net[i] = e.players[i].Balance - e.started[i]
		}
		e.io.Results.HandFinished(res)
	}

	e.pot = 0
	for i := range e.players {
		e.players[i].Contribution = 0
		e.players[i].Committed = 0
	}
	e.checkChips()
	e.showPlayer(0)
	e.showPlayer(1)
	e.emit("Balances now: P1=%d  P2=%d", e.players[0].Balance, e.players[1].Balance)
	return WaitBuyIn
}
