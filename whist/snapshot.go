package whist

import "knockout-whist/card"

// PlayerSnapshot carries the full per-player state including the hand.
// Redaction toward other viewers happens at the encode boundary, never
// here.
type PlayerSnapshot struct {
	Name   string
	AI     bool
	Tricks int
	Hand   []card.Card
}

type Snapshot struct {
	Code     string
	State    State
	HandSize int

	// Trump is card.NoSuit until called.
	Trump card.Suit

	Trick      []Play
	Players    []PlayerSnapshot
	Spectators []string

	// CurrentPlayer is only set while playing.
	CurrentPlayer string
	TrumpCaller   string
	Winner        string
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	s := Snapshot{
		Code:     g.code,
		State:    g.state,
		HandSize: g.handSize,
		Trump:    g.trump,
		Trick:    append([]Play{}, g.trick.Plays...),
		Winner:   g.winner,
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			Name:   p.Name,
			AI:     p.AI,
			Tricks: p.Tricks,
			Hand:   append([]card.Card{}, p.Hand...),
		})
	}
	for _, p := range g.spectators {
		s.Spectators = append(s.Spectators, p.Name)
	}
	if g.state == StatePlaying && g.current != nil {
		s.CurrentPlayer = g.current.Name
	}
	if g.caller != nil {
		s.TrumpCaller = g.caller.Name
	}
	return s
}
