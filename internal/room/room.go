// Package room hosts one game per actor goroutine and fans engine
// events out to connected clients with per-viewer state attached.
package room

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"knockout-whist/card"
	"knockout-whist/internal/codec"
	"knockout-whist/whist"
)

var ErrRoomClosed = errors.New("room closed")

// SendFunc delivers an encoded frame to the named member's connection.
// Delivery to offline members is a no-op.
type SendFunc func(name string, data []byte)

// Member tracks connection presence for one name in the room.
type Member struct {
	Name      string
	Spectator bool
	Online    bool
	LastSeen  time.Time
}

// EventType enumerates the actor's inbound message kinds.
type EventType int

const (
	EventJoin EventType = iota
	EventStartGame
	EventAddAI
	EventPlayCard
	EventCallTrumps
	EventPlayAgain
	EventConnLost
	EventConnResume
	EventClose
)

// Event is one message to the room actor.
type Event struct {
	Type      EventType
	Name      string
	SessionID string
	// Ack is the reply type sent to a joiner ("gameCreated" for the
	// creator, "joined" otherwise).
	Ack       string
	Card      card.Card
	Suit      card.Suit
	Timestamp time.Time
	Response  chan error
}

// Room wraps one game behind an actor goroutine. All game access goes
// through the event channel, so member bookkeeping and fan-out stay
// ordered with the transitions that caused them.
type Room struct {
	Code string

	mu       sync.RWMutex
	game     *whist.Game
	members  map[string]*Member
	closed   bool
	stopOnce sync.Once

	emptySince time.Time

	events chan Event
	done   chan struct{}

	send SendFunc
}

// New creates a room around a fresh game and starts its actor.
func New(code string, cfg whist.Config, send SendFunc) (*Room, error) {
	game, err := whist.NewGame(code, cfg)
	if err != nil {
		return nil, err
	}
	r := &Room{
		Code:       code,
		game:       game,
		members:    make(map[string]*Member),
		emptySince: time.Now(),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
		send:       send,
	}
	go r.run()
	log.Printf("[Room %s] Created (hand size %d)", code, cfg.StartingHand)
	return r, nil
}

func (r *Room) run() {
	for {
		select {
		case e := <-r.events:
			err := r.handleEvent(e)
			if e.Response != nil {
				e.Response <- err
			}
		case <-r.done:
			log.Printf("[Room %s] Actor stopped", r.Code)
			return
		}
	}
}

// Submit sends an event to the actor and waits for the result.
func (r *Room) Submit(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return ErrRoomClosed
	}

	select {
	case r.events <- e:
	case <-r.done:
		return ErrRoomClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) handleEvent(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && e.Type != EventClose {
		return ErrRoomClosed
	}

	switch e.Type {
	case EventJoin:
		return r.handleJoin(e)
	case EventStartGame:
		return r.handleStartGame(e.Name)
	case EventAddAI:
		return r.handleAddAI()
	case EventPlayCard:
		return r.handlePlayCard(e.Name, e.Card)
	case EventCallTrumps:
		return r.handleCallTrumps(e.Name, e.Suit)
	case EventPlayAgain:
		return r.handlePlayAgain()
	case EventConnLost:
		return r.handleConnLost(e.Name, e.Timestamp)
	case EventConnResume:
		return r.handleConnResume(e)
	case EventClose:
		r.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (r *Room) handleJoin(e Event) error {
	if m := r.members[e.Name]; m != nil {
		return whist.ErrNameTaken
	}

	role, events, err := r.game.Join(e.Name)
	if err != nil {
		return err
	}
	now := time.Now()
	r.members[e.Name] = &Member{
		Name:      e.Name,
		Spectator: role == whist.RoleSpectator,
		Online:    true,
		LastSeen:  now,
	}
	r.updateEmptySinceLocked(now)
	log.Printf("[Room %s] %s joined as %s", r.Code, e.Name, role)

	r.sendToLocked(e.Name, codec.Envelope{
		Type:        e.Ack,
		Code:        r.Code,
		SessionID:   e.SessionID,
		IsSpectator: role == whist.RoleSpectator,
	})
	r.fanOutLocked(events, e.Name)
	return nil
}

func (r *Room) handleStartGame(name string) error {
	if m := r.members[name]; m == nil || m.Spectator {
		return whist.ErrUnknownPlayer
	}
	events, err := r.game.Start()
	if err != nil {
		return err
	}
	log.Printf("[Room %s] Game started by %s", r.Code, name)
	r.fanOutLocked(events, "")
	return nil
}

func (r *Room) handleAddAI() error {
	events, err := r.game.AddAI()
	if err != nil {
		return err
	}
	r.fanOutLocked(events, "")
	return nil
}

func (r *Room) handlePlayCard(name string, c card.Card) error {
	events, err := r.game.PlayCard(name, c)
	if err != nil {
		return err
	}
	r.refreshRolesLocked()
	r.fanOutLocked(events, "")
	return nil
}

func (r *Room) handleCallTrumps(name string, suit card.Suit) error {
	events, err := r.game.CallTrumps(name, suit)
	if err != nil {
		return err
	}
	r.refreshRolesLocked()
	r.fanOutLocked(events, "")
	return nil
}

func (r *Room) handlePlayAgain() error {
	events, err := r.game.Reset()
	if err != nil {
		return err
	}
	r.refreshRolesLocked()
	log.Printf("[Room %s] Restarted", r.Code)
	r.fanOutLocked(events, "")
	return nil
}

func (r *Room) handleConnLost(name string, ts time.Time) error {
	m := r.members[name]
	if m == nil {
		return nil
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	m.Online = false
	m.LastSeen = ts
	r.updateEmptySinceLocked(ts)
	log.Printf("[Room %s] %s connection lost", r.Code, name)
	return nil
}

func (r *Room) handleConnResume(e Event) error {
	m := r.members[e.Name]
	if m == nil {
		return whist.ErrUnknownPlayer
	}
	now := time.Now()
	m.Online = true
	m.LastSeen = now
	r.updateEmptySinceLocked(now)
	log.Printf("[Room %s] %s reconnected", r.Code, e.Name)

	r.sendToLocked(e.Name, codec.Envelope{
		Type:        string(whist.EventGameState),
		SessionID:   e.SessionID,
		IsSpectator: m.Spectator,
	})
	return nil
}

// refreshRolesLocked re-reads roles after transitions that can move
// players to the spectator list (eliminations, playAgain reseating).
func (r *Room) refreshRolesLocked() {
	snap := r.game.Snapshot()
	seated := make(map[string]bool, len(snap.Players))
	for _, p := range snap.Players {
		seated[p.Name] = true
	}
	for name, m := range r.members {
		m.Spectator = !seated[name]
	}
}

// fanOutLocked delivers engine events to members. Broadcast events get
// the recipient's own redacted state attached; targeted events go bare
// to their single recipient. skip suppresses delivery of playerJoined
// back to the player it announces.
func (r *Room) fanOutLocked(events []whist.Event, skip string) {
	if len(events) == 0 {
		return
	}
	snap := r.game.Snapshot()
	online := r.onlineLocked()

	for _, ev := range events {
		env := codec.EventEnvelope(ev)
		if ev.To != "" {
			r.sendEncodedLocked(ev.To, env)
			continue
		}
		for name, m := range r.members {
			if !m.Online {
				continue
			}
			if ev.Type == whist.EventPlayerJoined && name == skip {
				continue
			}
			view := codec.NewStateView(snap, name, online)
			env.State = &view
			r.sendEncodedLocked(name, env)
		}
	}
}

// sendToLocked delivers an acknowledgement envelope with the
// recipient's state view attached.
func (r *Room) sendToLocked(name string, env codec.Envelope) {
	view := codec.NewStateView(r.game.Snapshot(), name, r.onlineLocked())
	env.State = &view
	r.sendEncodedLocked(name, env)
}

func (r *Room) sendEncodedLocked(name string, env codec.Envelope) {
	data, err := codec.Encode(env)
	if err != nil {
		log.Printf("[Room %s] Encode failed for %s: %v", r.Code, name, err)
		return
	}
	r.send(name, data)
}

func (r *Room) onlineLocked() map[string]bool {
	online := make(map[string]bool, len(r.members))
	for name, m := range r.members {
		online[name] = m.Online
	}
	return online
}

func (r *Room) updateEmptySinceLocked(now time.Time) {
	for _, m := range r.members {
		if m.Online {
			r.emptySince = time.Time{}
			return
		}
	}
	if r.emptySince.IsZero() {
		r.emptySince = now
	}
}

// IsSpectator reports whether name currently watches rather than plays.
func (r *Room) IsSpectator(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.members[name]
	return m == nil || m.Spectator
}

// Snapshot exposes the underlying game state.
func (r *Room) Snapshot() whist.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game.Snapshot()
}

// IsIdleFor reports whether every member has been offline for at least
// ttl. A never-joined room counts from creation.
func (r *Room) IsIdleFor(ttl time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return true
	}
	if r.emptySince.IsZero() {
		return false
	}
	return time.Since(r.emptySince) >= ttl
}

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Stop shuts the actor down.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Room) stopLocked() {
	r.closed = true
	r.stopOnce.Do(func() {
		close(r.done)
	})
}
