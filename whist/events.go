package whist

import "knockout-whist/card"

// EventType names match the wire protocol's outbound "type" field.
type EventType string

const (
	EventPlayerJoined   EventType = "playerJoined"
	EventGameState      EventType = "gameState"
	EventTrumpSelection EventType = "trumpSelection"
	EventRoundStart     EventType = "roundStart"
	EventCardPlayed     EventType = "cardPlayed"
	EventTrickComplete  EventType = "trickComplete"
	EventTrickWinner    EventType = "trickWinner"
	EventNextTrick      EventType = "nextTrick"
	EventRoundEnd       EventType = "roundEnd"
	EventEliminated     EventType = "eliminated"
	EventGameOver       EventType = "gameOver"
)

// Event is one outbound notification produced by a state transition.
// The set is closed: the room fans each variant out and attaches the
// per-viewer state snapshot.
type Event struct {
	Type EventType

	// To targets a single player when set; otherwise broadcast.
	To string

	Player      string    // cardPlayed, playerJoined
	IsAI        bool      // playerJoined
	Card        card.Card // cardPlayed
	NextPlayer  string    // cardPlayed
	Winner      string    // trickWinner, gameOver
	Chooser     string    // trumpSelection
	TrumpCaller string    // roundEnd
}

func broadcast(t EventType) Event {
	return Event{Type: t}
}
