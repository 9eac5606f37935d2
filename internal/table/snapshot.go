package table

import (
	"github.com/google/uuid"

	"github.com/lox/pokertable/poker"
)

// PlayerSnapshot is the observable part of a seat
type PlayerSnapshot struct {
	Balance      int      `json:"balance"`
	Contribution int      `json:"contribution"`
	Committed    int      `json:"committed"`
	AllIn        bool     `json:"all_in"`
	Folded       bool     `json:"folded"`
	Acted        bool     `json:"acted"`
	Hole         []string `json:"hole"`
}

// Snapshot is a copy of the table state taken between steps
type Snapshot struct {
	HandID     uuid.UUID                  `json:"hand_id"`
	Hand       int                        `json:"hand"`
	State      string                     `json:"state"`
	Betting    bool                       `json:"betting"`
	Dealer     int                        `json:"dealer"`
	Actor      int                        `json:"actor"`
	Pot        int                        `json:"pot"`
	CurrentBet int                        `json:"current_bet"`
	MinRaise   int                        `json:"min_raise"`
	Board      []string                   `json:"board"`
	Players    [NumPlayers]PlayerSnapshot `json:"players"`
}

// Snapshot copies the current state. Undealt board cards are left out.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		HandID:     e.handID,
		Hand:       e.hands,
		State:      e.state.String(),
		Betting:    e.state.Betting(),
		Dealer:     e.dealer,
		Actor:      e.actor,
		Pot:        e.pot,
		CurrentBet: e.currentBet,
		MinRaise:   e.minRaise,
		Board:      cardStrings(e.board[:e.state.revealed()]),
	}
	for i, p := range e.players {
		s.Players[i] = PlayerSnapshot{
			Balance:      p.Balance,
			Contribution: p.Contribution,
			Committed:    p.Committed,
			AllIn:        p.AllIn,
			Folded:       p.Folded,
			Acted:        e.acted[i],
			Hole:         cardStrings(p.Hole[:]),
		}
	}
	return s
}

func cardStrings(cards []poker.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Valid() {
			out = append(out, c.String())
		}
	}
	return out
}
