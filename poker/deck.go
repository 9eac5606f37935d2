package poker

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// ErrDeckExhausted is returned when a draw is attempted past the last card.
// The table reshuffles every hand, so seeing this is an invariant violation.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck represents a standard 52-card deck with a cursor at the next undealt card
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Shuffle()
	return d
}

// NewShuffledDeck creates a deck shuffled from a fixed seed. The same seed always
// yields the same order.
func NewShuffledDeck(seed int64) *Deck {
	return NewDeck(NewRand(seed))
}

// Shuffle rebuilds the ordered deck, shuffles it with Fisher-Yates and resets the cursor
func (d *Deck) Shuffle() {
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	for i := DeckSize - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.next = 0
}

// Draw returns the card at the cursor and advances it
func (d *Deck) Draw() (Card, error) {
	if d.next >= DeckSize {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return DeckSize - d.next
}

// Cards returns a copy of the deck order, dealt cards included
func (d *Deck) Cards() [DeckSize]Card {
	return d.cards
}
