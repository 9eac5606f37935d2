package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/pokertable/poker"
)

// EvalCmd ranks seven cards, optionally against a second pair of hole cards
type EvalCmd struct {
	Cards   []string `arg:"" help:"Seven cards, e.g. AS KS QS JS TS 2C 3D"`
	Against string   `help:"Opponent hole cards sharing the last five cards as the board, e.g. 7H7D"`
}

func (c *EvalCmd) Run(g *Globals) error {
	return c.run(os.Stdout)
}

func (c *EvalCmd) run(w io.Writer) error {
	hand, err := parseSeven(strings.Join(c.Cards, ""))
	if err != nil {
		return err
	}
	score := poker.EvaluateBest(hand)
	fmt.Fprintln(w, score)

	if c.Against == "" {
		return nil
	}
	hole, err := poker.ParseCards(c.Against)
	if err != nil {
		return err
	}
	if len(hole) != 2 {
		return fmt.Errorf("--against needs 2 cards, got %d", len(hole))
	}
	other := hand
	other[0], other[1] = hole[0], hole[1]
	if err := checkDistinct(append(hand[:], hole...)); err != nil {
		return err
	}
	otherScore := poker.EvaluateBest(other)
	fmt.Fprintln(w, otherScore)

	switch cmp := poker.CompareHands(score, otherScore); {
	case cmp > 0:
		fmt.Fprintln(w, "first hand wins")
	case cmp < 0:
		fmt.Fprintln(w, "second hand wins")
	default:
		fmt.Fprintln(w, "split")
	}
	return nil
}

func parseSeven(s string) ([7]poker.Card, error) {
	var hand [7]poker.Card
	cards, err := poker.ParseCards(s)
	if err != nil {
		return hand, err
	}
	if len(cards) != len(hand) {
		return hand, fmt.Errorf("need 7 cards, got %d", len(cards))
	}
	if err := checkDistinct(cards); err != nil {
		return hand, err
	}
	copy(hand[:], cards)
	return hand, nil
}

func checkDistinct(cards []poker.Card) error {
	seen := make(map[poker.Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return fmt.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
	return nil
}
