package whist

import "knockout-whist/card"

// Play is one (player, card) entry of a trick.
type Play struct {
	Player string
	Card   card.Card
}

// Trick is the ordered sequence of plays on the table. The first play
// fixes the led suit.
type Trick struct {
	Plays []Play
}

// LedSuit returns card.NoSuit while the trick is empty.
func (t *Trick) LedSuit() card.Suit {
	if len(t.Plays) == 0 {
		return card.NoSuit
	}
	return t.Plays[0].Card.Suit()
}

func (t *Trick) Add(player string, c card.Card) {
	t.Plays = append(t.Plays, Play{Player: player, Card: c})
}

// Complete reports whether every active player has played.
func (t *Trick) Complete(activePlayers int) bool {
	return len(t.Plays) == activePlayers
}

// Winner resolves the trick: trump-suit cards beat everything else, then
// the led suit, then rank. Exactly one winner exists since the 52 cards
// are distinct.
func (t *Trick) Winner(trump card.Suit) string {
	led := t.LedSuit()
	best := t.Plays[0]
	for _, p := range t.Plays[1:] {
		if card.Beats(p.Card, best.Card, led, trump) {
			best = p
		}
	}
	return best.Player
}

// Cards returns the cards played so far, in play order.
func (t *Trick) Cards() []card.Card {
	cards := make([]card.Card, len(t.Plays))
	for i, p := range t.Plays {
		cards[i] = p.Card
	}
	return cards
}
