package card

import (
	"errors"
	"math/rand"
	"sort"
)

// ErrDeckExhausted is returned when a deal asks for more cards than the
// deck holds. It bounds the seat count for a given starting hand size.
var ErrDeckExhausted = errors.New("not enough cards in deck")

// DeckSize is the standard deck size; no variants are supported.
const DeckSize = 52

type Deck []Card

// NewDeck returns the 52 cards in a fixed suit-then-rank order.
func NewDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for _, s := range Suits {
		for rank := byte(2); rank <= RankAce; rank++ {
			d = append(d, Make(s, rank))
		}
	}
	return d
}

func (d Deck) Count() int {
	return len(d)
}

// Shuffle permutes the deck using the supplied source so tests can
// inject a fixed seed.
func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Deal removes n cards per hand for players hands from the top of the
// deck. No card appears in two hands.
func (d *Deck) Deal(n, players int) ([][]Card, error) {
	need := n * players
	if need > len(*d) {
		return nil, ErrDeckExhausted
	}
	hands := make([][]Card, players)
	for i := range hands {
		hand := make([]Card, n)
		copy(hand, (*d)[:n])
		*d = (*d)[n:]
		hands[i] = hand
	}
	return hands, nil
}

// SortHand orders a hand by suit then descending rank for display.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit() != hand[j].Suit() {
			return hand[i].Suit() < hand[j].Suit()
		}
		return hand[i].Rank() > hand[j].Rank()
	})
}
