package table

// State is the betting state machine's current phase
type State int

const (
	Idle State = iota
	WaitBuyIn
	NewHand
	Preflop
	Flop
	Turn
	River
	Showdown
	FoldWin
)

var stateNames = [...]string{
	Idle:      "idle",
	WaitBuyIn: "wait-buyin",
	NewHand:   "new-hand",
	Preflop:   "preflop",
	Flop:      "flop",
	Turn:      "turn",
	River:     "river",
	Showdown:  "showdown",
	FoldWin:   "fold-win",
}

// String returns the state name used in logs
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Betting reports whether the state is one of the four betting streets
func (s State) Betting() bool {
	return s >= Preflop && s <= River
}

// InHand reports whether a hand is in progress, which drives the heartbeat LED
func (s State) InHand() bool {
	return s >= NewHand && s <= FoldWin
}

// next returns the street after s; River is followed by Showdown
func (s State) next() State {
	if s >= River {
		return Showdown
	}
	return s + 1
}

// banner is the operator line printed when a street begins
func (s State) banner() string {
	switch s {
	case Preflop:
		return "=== PRE-FLOP ==="
	case Flop:
		return "=== FLOP ==="
	case Turn:
		return "=== TURN ==="
	case River:
		return "=== RIVER ==="
	case Showdown:
		return "=== SHOWDOWN ==="
	}
	return ""
}

// revealed is the number of board cards visible in s
func (s State) revealed() int {
	switch s {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown:
		return 5
	}
	return 0
}
