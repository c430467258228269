package whist

import (
	"testing"

	"knockout-whist/card"
)

func TestTrickWinnerHighestOfLedSuit(t *testing.T) {
	tr := Trick{}
	tr.Add("A", card.Spade10)
	tr.Add("B", card.SpadeK)
	tr.Add("C", card.ClubA) // off-suit, cannot win

	if got := tr.Winner(card.Heart); got != "B" {
		t.Fatalf("winner = %q, want B", got)
	}
}

func TestTrickWinnerTrumpBeatsLedSuit(t *testing.T) {
	tr := Trick{}
	tr.Add("A", card.SpadeA)
	tr.Add("B", card.Heart2)
	tr.Add("C", card.SpadeK)

	if got := tr.Winner(card.Heart); got != "B" {
		t.Fatalf("winner = %q, want B (low trump beats high led suit)", got)
	}
}

func TestTrickWinnerHighestTrump(t *testing.T) {
	tr := Trick{}
	tr.Add("A", card.Heart5)
	tr.Add("B", card.HeartJ)
	tr.Add("C", card.Heart7)

	if got := tr.Winner(card.Heart); got != "B" {
		t.Fatalf("winner = %q, want B", got)
	}
}

func TestTrickLedSuit(t *testing.T) {
	tr := Trick{}
	if tr.LedSuit() != card.NoSuit {
		t.Fatal("empty trick should have no led suit")
	}
	tr.Add("A", card.Diamond9)
	tr.Add("B", card.Club2)
	if tr.LedSuit() != card.Diamond {
		t.Fatalf("led suit = %v, want %v", tr.LedSuit(), card.Diamond)
	}
	if tr.Complete(3) {
		t.Fatal("trick should not be complete with 2 of 3 plays")
	}
	if !tr.Complete(2) {
		t.Fatal("trick should be complete with 2 of 2 plays")
	}
}
