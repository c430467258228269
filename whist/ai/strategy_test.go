package ai

import (
	"testing"

	"knockout-whist/card"
)

func TestChooseTrumpLongestSuit(t *testing.T) {
	hand := []card.Card{card.Heart2, card.Heart9, card.HeartK, card.Spade5, card.Club7}
	if got := (Rule{}).ChooseTrump(hand); got != card.Heart {
		t.Fatalf("ChooseTrump = %v, want %v", got, card.Heart)
	}
}

func TestChooseTrumpTieUsesPrecedence(t *testing.T) {
	// Two hearts, two clubs: the earlier suit in precedence order wins.
	hand := []card.Card{card.Club2, card.Heart9, card.HeartK, card.Club7}
	if got := (Rule{}).ChooseTrump(hand); got != card.Heart {
		t.Fatalf("ChooseTrump = %v, want %v", got, card.Heart)
	}
}

func TestChooseCardLeadsLowest(t *testing.T) {
	hand := []card.Card{card.SpadeA, card.Heart3, card.ClubK}
	view := TrickView{Trump: card.Diamond, Led: card.NoSuit}
	if got := (Rule{}).ChooseCard(hand, view); got != card.Heart3 {
		t.Fatalf("lead = %v, want %v", got, card.Heart3)
	}
}

func TestChooseCardCheapestWinner(t *testing.T) {
	hand := []card.Card{card.Spade8, card.SpadeQ, card.SpadeA}
	view := TrickView{
		Trump:  card.Heart,
		Led:    card.Spade,
		Played: []card.Card{card.Spade10},
	}
	// Q and A both win; the queen is the cheaper winner. The 8 loses.
	if got := (Rule{}).ChooseCard(hand, view); got != card.SpadeQ {
		t.Fatalf("follow = %v, want %v", got, card.SpadeQ)
	}
}

func TestChooseCardShedsLowestWhenBeaten(t *testing.T) {
	hand := []card.Card{card.Spade5, card.Spade9}
	view := TrickView{
		Trump:  card.Heart,
		Led:    card.Spade,
		Played: []card.Card{card.SpadeA},
	}
	if got := (Rule{}).ChooseCard(hand, view); got != card.Spade5 {
		t.Fatalf("follow = %v, want %v", got, card.Spade5)
	}
}

func TestChooseCardMustFollowSuit(t *testing.T) {
	hand := []card.Card{card.ClubA, card.Heart2}
	view := TrickView{
		Trump:  card.Spade,
		Led:    card.Heart,
		Played: []card.Card{card.Heart9},
	}
	// The club ace is not legal while a heart is held.
	if got := (Rule{}).ChooseCard(hand, view); got != card.Heart2 {
		t.Fatalf("follow = %v, want %v", got, card.Heart2)
	}
}

func TestChooseCardTrumpsWhenVoid(t *testing.T) {
	hand := []card.Card{card.Spade2, card.ClubK}
	view := TrickView{
		Trump:  card.Spade,
		Led:    card.Heart,
		Played: []card.Card{card.HeartA},
	}
	// Void in hearts: the low trump wins the trick, the club king cannot.
	if got := (Rule{}).ChooseCard(hand, view); got != card.Spade2 {
		t.Fatalf("follow = %v, want %v", got, card.Spade2)
	}
}
