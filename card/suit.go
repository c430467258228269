package card

import "fmt"

type Suit byte

const (
	Spade   Suit = iota // ♠
	Heart               // ♥
	Diamond             // ♦
	Club                // ♣
)

// NoSuit marks an absent suit (no trump called yet, empty trick).
// No card carries it.
const NoSuit Suit = 0xF

// Suits lists the four suits in precedence order, used for deck
// construction and AI tie-breaking.
var Suits = [4]Suit{Spade, Heart, Diamond, Club}

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠"
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	}
	return ""
}

// ParseSuit converts a suit symbol as it appears on the wire.
func ParseSuit(raw string) (Suit, error) {
	switch raw {
	case "♠":
		return Spade, nil
	case "♥":
		return Heart, nil
	case "♦":
		return Diamond, nil
	case "♣":
		return Club, nil
	}
	return NoSuit, fmt.Errorf("invalid suit: %q", raw)
}
