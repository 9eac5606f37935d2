// Package stats accumulates session results from player 1's side of the table.
// Heads-up is zero-sum, so player 2's figures are the negation.
package stats

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/lox/pokertable/internal/table"
)

// BigPotBB is the pot size, in big blinds, from which a hand counts as a big pot
const BigPotBB = 50

// PositionStats tracks results for one seat position
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Mean returns the average result in big blinds per hand
func (p PositionStats) Mean() float64 {
	if p.Hands == 0 {
		return 0
	}
	return p.SumBB / float64(p.Hands)
}

// Session is safe for concurrent use: the table reports from the loop goroutine
// while the front ends read summaries.
type Session struct {
	mu sync.Mutex
	bb int

	hands  int
	sumBB  float64
	sumBB2 float64
	values []float64

	showdownWins    [table.NumPlayers]int
	nonShowdownWins [table.NumPlayers]int
	splits          int
	showdownBB      float64
	nonShowdownBB   float64

	// Indexed by whether player 1 had the button.
	button   PositionStats
	bigBlind PositionStats

	streets   map[table.State]int
	maxPot    int
	bigPots   int
	bigPotsBB float64
}

// NewSession creates an empty session measured in the given big blind
func NewSession(bigBlind int) *Session {
	if bigBlind <= 0 {
		bigBlind = 1
	}
	return &Session{bb: bigBlind, streets: make(map[table.State]int)}
}

// HandFinished implements table.ResultSink
func (s *Session) HandFinished(res table.HandResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	netBB := float64(res.Net[0]) / float64(s.bb)
	s.hands++
	s.sumBB += netBB
	s.sumBB2 += netBB * netBB
	s.values = append(s.values, netBB)

	switch {
	case res.Winner < 0:
		s.splits++
	case res.Showdown:
		s.showdownWins[res.Winner]++
	default:
		s.nonShowdownWins[res.Winner]++
	}
	if res.Showdown {
		s.showdownBB += netBB
	} else {
		s.nonShowdownBB += netBB
	}

	pos := &s.bigBlind
	if res.Dealer == 0 {
		pos = &s.button
	}
	pos.Hands++
	pos.SumBB += netBB
	pos.SumBB2 += netBB * netBB

	s.streets[res.Street]++
	if res.Pot > s.maxPot {
		s.maxPot = res.Pot
	}
	if res.Pot >= BigPotBB*s.bb {
		s.bigPots++
		s.bigPotsBB += netBB
	}
}

// Summary is a point-in-time copy of the session
type Summary struct {
	Hands           int                   `json:"hands"`
	MeanBB          float64               `json:"mean_bb"`
	StdDevBB        float64               `json:"stddev_bb"`
	CI95            [2]float64            `json:"ci95"`
	MedianBB        float64               `json:"median_bb"`
	ShowdownWins    [table.NumPlayers]int `json:"showdown_wins"`
	NonShowdownWins [table.NumPlayers]int `json:"non_showdown_wins"`
	Splits          int                   `json:"splits"`
	ShowdownBB      float64               `json:"showdown_bb"`
	NonShowdownBB   float64               `json:"non_showdown_bb"`
	Button          PositionStats         `json:"button"`
	BigBlind        PositionStats         `json:"big_blind"`
	Streets         map[string]int        `json:"streets"`
	MaxPot          int                   `json:"max_pot"`
	BigPots         int                   `json:"big_pots"`
}

// Summary computes the current figures
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := s.ci95()
	sum := Summary{
		Hands:           s.hands,
		MeanBB:          s.mean(),
		StdDevBB:        math.Sqrt(s.variance()),
		CI95:            [2]float64{lo, hi},
		MedianBB:        percentile(s.values, 0.5),
		ShowdownWins:    s.showdownWins,
		NonShowdownWins: s.nonShowdownWins,
		Splits:          s.splits,
		ShowdownBB:      s.showdownBB,
		NonShowdownBB:   s.nonShowdownBB,
		Button:          s.button,
		BigBlind:        s.bigBlind,
		Streets:         make(map[string]int, len(s.streets)),
		MaxPot:          s.maxPot,
		BigPots:         s.bigPots,
	}
	for st, n := range s.streets {
		sum.Streets[st.String()] = n
	}
	return sum
}

// Percentile returns player 1's result at p in [0, 1], interpolating between
// neighbouring hands
func (s *Session) Percentile(p float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return percentile(s.values, p)
}

// Validate checks that the accounting is consistent
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if math.Abs(s.sumBB-s.showdownBB-s.nonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f showdown=%.6f non-showdown=%.6f",
			s.sumBB, s.showdownBB, s.nonShowdownBB)
	}
	if len(s.values) != s.hands {
		return fmt.Errorf("recorded %d results for %d hands", len(s.values), s.hands)
	}
	wins := s.splits
	for i := range table.NumPlayers {
		wins += s.showdownWins[i] + s.nonShowdownWins[i]
	}
	if wins != s.hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", wins, s.hands)
	}
	if s.button.Hands+s.bigBlind.Hands != s.hands {
		return fmt.Errorf("position hands (%d) do not match hands (%d)", s.button.Hands+s.bigBlind.Hands, s.hands)
	}
	return nil
}

func (s *Session) mean() float64 {
	if s.hands == 0 {
		return 0
	}
	return s.sumBB / float64(s.hands)
}

func (s *Session) variance() float64 {
	if s.hands < 2 {
		return 0
	}
	m := s.mean()
	return (s.sumBB2 - float64(s.hands)*m*m) / float64(s.hands-1)
}

func (s *Session) ci95() (float64, float64) {
	m := s.mean()
	if s.hands == 0 {
		return 0, 0
	}
	margin := 1.96 * math.Sqrt(s.variance()) / math.Sqrt(float64(s.hands))
	return m - margin, m + margin
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
