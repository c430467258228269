// Package ai provides the card-play policy used for AI seats. Strategies
// see only their own hand and the public trick state, and must return
// synchronously: the game loop runs them inline during a transition.
package ai

import "knockout-whist/card"

// TrickView is the public trick state visible when choosing a card.
type TrickView struct {
	Trump card.Suit
	// Led is card.NoSuit when the strategy is leading the trick.
	Led card.Suit
	// Played holds the cards already on the table, in play order.
	Played []card.Card
}

type Strategy interface {
	// ChooseTrump picks the trump suit for a round from the caller's hand.
	ChooseTrump(hand []card.Card) card.Suit
	// ChooseCard picks a legal card to play. The hand is never empty.
	ChooseCard(hand []card.Card, view TrickView) card.Card
}

// Rule is the default strategy: call the longest suit as trump; when
// following, win with the cheapest card that still wins, otherwise shed
// the lowest legal card; when leading, play the lowest card in hand.
type Rule struct{}

func (Rule) ChooseTrump(hand []card.Card) card.Suit {
	var counts [4]int
	for _, c := range hand {
		counts[c.Suit()]++
	}
	best := card.Suits[0]
	for _, s := range card.Suits[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

func (Rule) ChooseCard(hand []card.Card, view TrickView) card.Card {
	legal := playable(hand, view.Led)

	if len(view.Played) == 0 {
		return lowest(legal)
	}

	// Find the card currently winning the trick, then the cheapest card
	// that beats it.
	winning := view.Played[0]
	for _, c := range view.Played[1:] {
		if card.Beats(c, winning, view.Led, view.Trump) {
			winning = c
		}
	}
	var winners []card.Card
	for _, c := range legal {
		if card.Beats(c, winning, view.Led, view.Trump) {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		return lowest(winners)
	}
	return lowest(legal)
}

// playable narrows the hand to led-suit cards when any are held.
func playable(hand []card.Card, led card.Suit) []card.Card {
	if led == card.NoSuit {
		return hand
	}
	var follow []card.Card
	for _, c := range hand {
		if c.Suit() == led {
			follow = append(follow, c)
		}
	}
	if len(follow) > 0 {
		return follow
	}
	return hand
}

func lowest(cards []card.Card) card.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank() < best.Rank() {
			best = c
		}
	}
	return best
}
