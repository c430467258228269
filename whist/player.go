package whist

import "knockout-whist/card"

// Player is one participant. The hand is owned exclusively by the player
// and only ever serialized toward its owner.
type Player struct {
	Name   string
	AI     bool
	Hand   []card.Card
	Tricks int
}

func (p *Player) holds(c card.Card) bool {
	for _, h := range p.Hand {
		if h == c {
			return true
		}
	}
	return false
}

func (p *Player) hasSuit(s card.Suit) bool {
	for _, h := range p.Hand {
		if h.Suit() == s {
			return true
		}
	}
	return false
}

// remove takes c out of the hand; the caller must have checked holds.
func (p *Player) remove(c card.Card) {
	for i, h := range p.Hand {
		if h == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

func (p *Player) handEmpty() bool {
	return len(p.Hand) == 0
}
