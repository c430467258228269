package whist

import (
	"fmt"

	"knockout-whist/card"
	"knockout-whist/whist/ai"
)

// DefaultStartingHand is the card count of the first round.
const DefaultStartingHand = 7

type Config struct {
	// StartingHand is the hand size of the first round; later rounds
	// shrink by one card each down to 1.
	StartingHand int

	// Seed for shuffling and caller selection (0 => time-based).
	Seed int64

	// Strategy drives AI seats. Defaults to ai.Rule{}.
	Strategy ai.Strategy
}

func (c Config) validate() error {
	if c.StartingHand < 1 || c.StartingHand > 13 {
		return fmt.Errorf("StartingHand must be 1-13, got %d", c.StartingHand)
	}
	return nil
}

// MaxSeats is the active-seat capacity: every seated player must receive
// a full first-round hand from one 52-card deck.
func (c Config) MaxSeats() int {
	return card.DeckSize / c.StartingHand
}
