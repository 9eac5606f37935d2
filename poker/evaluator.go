package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Category enumerates the hand categories ordered from weakest to strongest.
// A royal flush is simply the ace-high straight flush.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"Invalid", "High Card", "One Pair", "Two Pair", "Three of a Kind",
	"Straight", "Flush", "Full House", "Four of a Kind", "Straight Flush",
}

// String returns the category name printed at showdown
func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "Invalid"
	}
	return categoryNames[c]
}

// HandScore is the value of the best five-card hand. TieBreak holds up to five
// ranks in descending significance; unused slots are zero.
type HandScore struct {
	Category Category
	TieBreak [5]Rank
}

// String returns a description such as "Two Pair [K 9 A]"
func (h HandScore) String() string {
	var parts []string
	for _, r := range h.TieBreak {
		if r == 0 {
			break
		}
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("%s [%s]", h.Category, strings.Join(parts, " "))
}

const wheelMask = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five

// EvaluateBest ranks the best five-card hand that can be made from seven cards
func EvaluateBest(cards [7]Card) HandScore {
	var suitMasks [4]uint16
	var counts [Ace + 1]uint8
	var rankMask uint16
	for _, c := range cards {
		suitMasks[c.Suit] |= 1 << c.Rank
		counts[c.Rank]++
		rankMask |= 1 << c.Rank
	}

	// At most one suit can hold five of seven cards.
	flushMask := uint16(0)
	for _, m := range suitMasks {
		if bits.OnesCount16(m) >= 5 {
			flushMask = m
			break
		}
	}
	if flushMask != 0 {
		if high := straightHigh(flushMask); high > 0 {
			return score(StraightFlush, high)
		}
	}

	var quadsMask, tripsMask, pairsMask uint16
	for r := Two; r <= Ace; r++ {
		switch counts[r] {
		case 4:
			quadsMask |= 1 << r
		case 3:
			tripsMask |= 1 << r
		case 2:
			pairsMask |= 1 << r
		}
	}

	if quad := highestRank(quadsMask); quad > 0 {
		return score(FourOfAKind, quad, highestRank(rankMask&^(1<<quad)))
	}

	trip := highestRank(tripsMask)
	if trip > 0 {
		// A second set of trips plays as the pair.
		if pair := highestRank(pairsMask | tripsMask&^(1<<trip)); pair > 0 {
			return score(FullHouse, trip, pair)
		}
	}

	if flushMask != 0 {
		return score(Flush, topRanks(flushMask, 5)...)
	}

	if high := straightHigh(rankMask); high > 0 {
		return score(Straight, high)
	}

	if trip > 0 {
		return score(ThreeOfAKind, append([]Rank{trip}, topRanks(rankMask&^(1<<trip), 2)...)...)
	}

	if high := highestRank(pairsMask); high > 0 {
		if low := highestRank(pairsMask &^ (1 << high)); low > 0 {
			kicker := highestRank(rankMask &^ (1 << high) &^ (1 << low))
			return score(TwoPair, high, low, kicker)
		}
		return score(OnePair, append([]Rank{high}, topRanks(rankMask&^(1<<high), 3)...)...)
	}

	return score(HighCard, topRanks(rankMask, 5)...)
}

// CompareHands returns a positive value if a beats b, negative if b beats a and
// zero for an exact tie
func CompareHands(a, b HandScore) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := range a.TieBreak {
		if a.TieBreak[i] > b.TieBreak[i] {
			return 1
		}
		if a.TieBreak[i] < b.TieBreak[i] {
			return -1
		}
	}
	return 0
}

func score(cat Category, ranks ...Rank) HandScore {
	h := HandScore{Category: cat}
	copy(h.TieBreak[:], ranks)
	return h
}

// highestRank returns the highest rank present in the mask, or 0 when empty
func highestRank(mask uint16) Rank {
	if mask == 0 {
		return 0
	}
	return Rank(bits.Len16(mask) - 1)
}

// topRanks returns up to n ranks from the mask in descending order
func topRanks(mask uint16, n int) []Rank {
	ranks := make([]Rank, 0, n)
	for len(ranks) < n && mask != 0 {
		top := highestRank(mask)
		ranks = append(ranks, top)
		mask &^= 1 << top
	}
	return ranks
}

// straightHigh returns the top rank of the best straight in the mask, 5 for the
// wheel, or 0 when there is none
func straightHigh(mask uint16) Rank {
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return Rank(bits.Len16(seq)-1) + 4
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}
