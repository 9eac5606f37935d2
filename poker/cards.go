package poker

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const suitChars = "SHDC"

// String returns the single-letter suit used on the displays
func (s Suit) String() string {
	if s > Clubs {
		return "?"
	}
	return suitChars[s : s+1]
}

// Rank represents a card rank, 2 through 14 with the ace high
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the single-character rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	i := r - Two
	return rankChars[i : i+1]
}

// Card is a single playing card. The zero value is not a valid card.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card has a real rank and suit
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Clubs
}

// String returns the two-character form shown on the player displays, e.g. "AS", "TD"
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank.String() + c.Suit.String()
}

// ParseCard parses a two-character card such as "As" or "TD" (case-insensitive)
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: expected 2 characters", s)
	}
	up := strings.ToUpper(s)
	r := strings.IndexByte(rankChars, up[0])
	if r < 0 {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}
	su := strings.IndexByte(suitChars, up[1])
	if su < 0 {
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}
	return Card{Rank: Two + Rank(r), Suit: Suit(su)}, nil
}

// ParseCards parses a run of concatenated cards, optionally separated by spaces ("AsKs Qh")
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error, for tests and fixtures
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
