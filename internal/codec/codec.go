// Package codec converts between the JSON wire protocol and the engine
// types. Per-viewer hand redaction lives here, at the encode boundary.
package codec

import (
	"encoding/json"
	"fmt"

	"knockout-whist/card"
	"knockout-whist/whist"
)

// MsgInvalidSession is the sentinel error message that tells a client
// its stored session is unrecoverable and it must rejoin from scratch.
const MsgInvalidSession = "invalid session"

// IntentType names the inbound "type" field values.
type IntentType string

const (
	IntentCreate     IntentType = "create"
	IntentJoin       IntentType = "join"
	IntentReconnect  IntentType = "reconnect"
	IntentStartGame  IntentType = "startGame"
	IntentAddAI      IntentType = "addAI"
	IntentPlayCard   IntentType = "playCard"
	IntentCallTrumps IntentType = "callTrumps"
	IntentPlayAgain  IntentType = "playAgain"
)

// Intent is one inbound client message. Fields beyond Type are only
// meaningful for the intents that use them.
type Intent struct {
	Type      IntentType `json:"type"`
	Name      string     `json:"name,omitempty"`
	Code      string     `json:"code,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	Card      string     `json:"card,omitempty"`
	Suit      string     `json:"suit,omitempty"`
}

// DecodeIntent parses one raw client frame.
func DecodeIntent(data []byte) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return Intent{}, fmt.Errorf("malformed message: %w", err)
	}
	if in.Type == "" {
		return Intent{}, fmt.Errorf("malformed message: missing type")
	}
	return in, nil
}

// PlayerView is one seated player as shown to any viewer. Hands are
// never exposed here.
type PlayerView struct {
	Name       string `json:"name"`
	TrickCount int    `json:"trickCount"`
	IsAI       bool   `json:"isAI"`
	Connected  bool   `json:"connected"`
}

// StateView is the per-viewer serialization of a game snapshot. Hand
// holds the viewer's own cards only; spectators get none.
type StateView struct {
	Code          string       `json:"code"`
	CurrentRound  int          `json:"currentRound"`
	TrumpSuit     string       `json:"trumpSuit,omitempty"`
	CurrentTrick  [][2]string  `json:"currentTrick"`
	Players       []PlayerView `json:"players"`
	Spectators    []string     `json:"spectators"`
	State         string       `json:"state"`
	CurrentPlayer string       `json:"currentPlayer,omitempty"`
	TrumpCaller   string       `json:"trumpCaller,omitempty"`
	Hand          []string     `json:"hand,omitempty"`
}

// NewStateView redacts a full snapshot down to what viewer may see.
// online reports connection liveness per name; AI seats count as
// connected.
func NewStateView(snap whist.Snapshot, viewer string, online map[string]bool) StateView {
	v := StateView{
		Code:          snap.Code,
		CurrentRound:  snap.HandSize,
		CurrentTrick:  make([][2]string, 0, len(snap.Trick)),
		Players:       make([]PlayerView, 0, len(snap.Players)),
		Spectators:    snap.Spectators,
		State:         snap.State.String(),
		CurrentPlayer: snap.CurrentPlayer,
		TrumpCaller:   snap.TrumpCaller,
	}
	if snap.Spectators == nil {
		v.Spectators = []string{}
	}
	if snap.Trump != card.NoSuit {
		v.TrumpSuit = snap.Trump.String()
	}
	for _, play := range snap.Trick {
		v.CurrentTrick = append(v.CurrentTrick, [2]string{play.Player, play.Card.String()})
	}
	for _, p := range snap.Players {
		v.Players = append(v.Players, PlayerView{
			Name:       p.Name,
			TrickCount: p.Tricks,
			IsAI:       p.AI,
			Connected:  p.AI || online[p.Name],
		})
		if p.Name == viewer {
			for _, c := range p.Hand {
				v.Hand = append(v.Hand, c.String())
			}
		}
	}
	return v
}

// Envelope is one outbound server message. Every field beyond Type is
// optional and set per event variant.
type Envelope struct {
	Type        string     `json:"type"`
	Message     string     `json:"message,omitempty"`
	Player      string     `json:"player,omitempty"`
	IsAI        bool       `json:"isAI,omitempty"`
	Card        string     `json:"card,omitempty"`
	NextPlayer  string     `json:"nextPlayer,omitempty"`
	Winner      string     `json:"winner,omitempty"`
	Chooser     string     `json:"chooser,omitempty"`
	TrumpCaller string     `json:"trumpCaller,omitempty"`
	Code        string     `json:"code,omitempty"`
	SessionID   string     `json:"sessionId,omitempty"`
	IsSpectator bool       `json:"isSpectator,omitempty"`
	State       *StateView `json:"state,omitempty"`
}

// EventEnvelope converts an engine event to its wire shape. The caller
// attaches the per-viewer state afterwards.
func EventEnvelope(ev whist.Event) Envelope {
	env := Envelope{
		Type:        string(ev.Type),
		Player:      ev.Player,
		IsAI:        ev.IsAI,
		NextPlayer:  ev.NextPlayer,
		Winner:      ev.Winner,
		Chooser:     ev.Chooser,
		TrumpCaller: ev.TrumpCaller,
	}
	if ev.Type == whist.EventCardPlayed {
		env.Card = ev.Card.String()
	}
	return env
}

// ErrorEnvelope is the error{message} event sent to the offender only.
func ErrorEnvelope(message string) Envelope {
	return Envelope{Type: "error", Message: message}
}

// Encode marshals an envelope for the wire.
func Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}
