package card

import (
	"fmt"
	"strings"
)

// Card is a single playing card packed into one byte.
//
// Encoding:
// - high nibble: suit (0:Spade 1:Heart 2:Diamond 3:Club)
// - low nibble: rank 2-14, ace high
type Card byte

const CardInvalid Card = 0

const (
	RankJack  byte = 11
	RankQueen byte = 12
	RankKing  byte = 13
	RankAce   byte = 14
)

// Make builds a card from a suit and a rank in the 2-14 range.
func Make(s Suit, rank byte) Card {
	return Card(byte(s)<<4 | rank&0x0F)
}

// Rank returns the comparable rank 2-14 (A=14).
func (c Card) Rank() byte {
	return byte(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// String renders the wire format: rank then suit symbol, e.g. "10♠", "A♥".
func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	rank := c.Rank()
	rankStr := ""
	switch rank {
	case RankJack:
		rankStr = "J"
	case RankQueen:
		rankStr = "Q"
	case RankKing:
		rankStr = "K"
	case RankAce:
		rankStr = "A"
	default:
		rankStr = fmt.Sprintf("%d", rank)
	}
	return rankStr + c.Suit().String()
}

// Parse converts a wire string like "A♥" or "10♠" into a Card.
// The suit symbol is the final rune; everything before it is the rank.
func Parse(cardStr string) (Card, error) {
	runes := []rune(cardStr)
	if len(runes) < 2 {
		return CardInvalid, fmt.Errorf("invalid card string: %q", cardStr)
	}

	suit, err := ParseSuit(string(runes[len(runes)-1]))
	if err != nil {
		return CardInvalid, fmt.Errorf("invalid card string: %q", cardStr)
	}

	var rank byte
	switch strings.ToUpper(string(runes[:len(runes)-1])) {
	case "2":
		rank = 2
	case "3":
		rank = 3
	case "4":
		rank = 4
	case "5":
		rank = 5
	case "6":
		rank = 6
	case "7":
		rank = 7
	case "8":
		rank = 8
	case "9":
		rank = 9
	case "10", "T":
		rank = 10
	case "J":
		rank = RankJack
	case "Q":
		rank = RankQueen
	case "K":
		rank = RankKing
	case "A":
		rank = RankAce
	default:
		return CardInvalid, fmt.Errorf("invalid rank in %q", cardStr)
	}

	return Make(suit, rank), nil
}

// Beats reports whether a wins over b when both are played in the same
// trick: trump beats non-trump, led suit beats off-suit, and within one
// suit the higher rank wins. A card of neither suit never wins.
func Beats(a, b Card, led, trump Suit) bool {
	if a.Suit() == trump && b.Suit() != trump {
		return true
	}
	if b.Suit() == trump && a.Suit() != trump {
		return false
	}
	if a.Suit() != b.Suit() {
		return a.Suit() == led && b.Suit() != led
	}
	return a.Rank() > b.Rank()
}
