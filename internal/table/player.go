package table

import "github.com/lox/pokertable/poker"

// Player is one seat at the table
type Player struct {
	Balance      int
	Contribution int // this street
	Committed    int // this hand, all streets
	AllIn        bool
	Folded       bool
	Hole         [2]poker.Card
}

// Out reports whether the player can no longer act this hand
func (p *Player) Out() bool {
	return p.AllIn || p.Folded || p.Balance == 0
}

// pay moves up to amount from the balance into the pot contributions and returns
// what was actually paid. A payment that empties the stack puts the player all-in.
func (p *Player) pay(amount int) int {
	amount = max(min(amount, p.Balance), 0)
	p.Balance -= amount
	p.Contribution += amount
	p.Committed += amount
	if p.Balance == 0 && amount > 0 {
		p.AllIn = true
	}
	return amount
}

// refund returns chips this player put in the pot this street
func (p *Player) refund(amount int) {
	p.Balance += amount
	p.Contribution -= amount
	p.Committed -= amount
	if p.Balance > 0 {
		p.AllIn = false
	}
}

func (p *Player) resetHand() {
	p.Contribution = 0
	p.Committed = 0
	p.AllIn = false
	p.Folded = false
	p.Hole = [2]poker.Card{}
}
