package room

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"knockout-whist/internal/codec"
	"knockout-whist/whist"
)

// recorder captures every frame the room sends, decoded per recipient.
type recorder struct {
	mu     sync.Mutex
	frames map[string][]codec.Envelope
}

func newRecorder() *recorder {
	return &recorder{frames: make(map[string][]codec.Envelope)}
}

func (rec *recorder) send(name string, data []byte) {
	var env codec.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		panic(err)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.frames[name] = append(rec.frames[name], env)
}

func (rec *recorder) sent(name string) []codec.Envelope {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.frames[name]
}

func (rec *recorder) last(t *testing.T, name string) codec.Envelope {
	t.Helper()
	frames := rec.sent(name)
	if len(frames) == 0 {
		t.Fatalf("no frames delivered to %s", name)
	}
	return frames[len(frames)-1]
}

func newTestRoom(t *testing.T, rec *recorder) *Room {
	t.Helper()
	r, err := New("TEST", whist.Config{StartingHand: 7, Seed: 1}, rec.send)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	t.Cleanup(r.Stop)
	return r
}

func join(t *testing.T, r *Room, name, ack string) {
	t.Helper()
	err := r.Submit(Event{Type: EventJoin, Name: name, SessionID: "tok-" + name, Ack: ack})
	if err != nil {
		t.Fatalf("join %s err: %v", name, err)
	}
}

func TestJoinAcknowledgements(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)

	join(t, r, "alice", "gameCreated")
	ack := rec.last(t, "alice")
	if ack.Type != "gameCreated" || ack.Code != "TEST" || ack.SessionID != "tok-alice" {
		t.Fatalf("creator ack = %+v", ack)
	}
	if ack.IsSpectator {
		t.Fatal("creator admitted as spectator")
	}
	if ack.State == nil || ack.State.State != "waiting" {
		t.Fatalf("creator ack state = %+v", ack.State)
	}

	join(t, r, "bob", "joined")
	if got := rec.last(t, "bob"); got.Type != "joined" {
		t.Fatalf("joiner ack = %+v", got)
	}

	// alice hears about bob, bob does not hear his own announcement.
	last := rec.last(t, "alice")
	if last.Type != "playerJoined" || last.Player != "bob" {
		t.Fatalf("alice's last frame = %+v", last)
	}
	for _, env := range rec.sent("bob") {
		if env.Type == "playerJoined" && env.Player == "bob" {
			t.Fatal("bob received his own join announcement")
		}
	}
}

func TestJoinDuplicateNameRejected(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)

	join(t, r, "alice", "gameCreated")
	err := r.Submit(Event{Type: EventJoin, Name: "alice", Ack: "joined"})
	if !errors.Is(err, whist.ErrNameTaken) {
		t.Fatalf("duplicate join err = %v, want ErrNameTaken", err)
	}
}

func TestStartGameFanOutRedactsHands(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	join(t, r, "alice", "gameCreated")
	join(t, r, "bob", "joined")

	if err := r.Submit(Event{Type: EventStartGame, Name: "alice"}); err != nil {
		t.Fatalf("startGame err: %v", err)
	}

	for _, name := range []string{"alice", "bob"} {
		var state *codec.StateView
		for _, env := range rec.sent(name) {
			if env.Type == "gameState" {
				state = env.State
			}
		}
		if state == nil {
			t.Fatalf("%s received no gameState", name)
		}
		if state.State != "choosingTrump" {
			t.Fatalf("%s sees state %q", name, state.State)
		}
		if len(state.Hand) != 7 {
			t.Fatalf("%s sees %d own cards, want 7", name, len(state.Hand))
		}
	}
}

func TestStartGameBySpectatorRejected(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	join(t, r, "alice", "gameCreated")

	if err := r.Submit(Event{Type: EventStartGame, Name: "ghost"}); err == nil {
		t.Fatal("non-member started the game")
	}
}

func TestAddAIAndShortHandedStart(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	join(t, r, "alice", "gameCreated")

	if err := r.Submit(Event{Type: EventStartGame, Name: "alice"}); !errors.Is(err, whist.ErrNotEnoughPlayers) {
		t.Fatalf("solo start err = %v, want ErrNotEnoughPlayers", err)
	}
	if err := r.Submit(Event{Type: EventAddAI}); err != nil {
		t.Fatalf("addAI err: %v", err)
	}
	if err := r.Submit(Event{Type: EventStartGame, Name: "alice"}); err != nil {
		t.Fatalf("start with AI err: %v", err)
	}
}

func TestConnLifecycleDrivesIdleness(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)

	// A never-joined room is idle from creation.
	if !r.IsIdleFor(0) {
		t.Fatal("fresh empty room should be idle")
	}

	join(t, r, "alice", "gameCreated")
	if r.IsIdleFor(0) {
		t.Fatal("room with an online member counted as idle")
	}

	if err := r.Submit(Event{Type: EventConnLost, Name: "alice"}); err != nil {
		t.Fatalf("connLost err: %v", err)
	}
	if !r.IsIdleFor(0) {
		t.Fatal("room with every member offline should become idle")
	}

	if err := r.Submit(Event{Type: EventConnResume, Name: "alice", SessionID: "tok-alice"}); err != nil {
		t.Fatalf("connResume err: %v", err)
	}
	if r.IsIdleFor(0) {
		t.Fatal("room should leave idleness on reconnect")
	}

	resync := rec.last(t, "alice")
	if resync.Type != "gameState" || resync.SessionID != "tok-alice" {
		t.Fatalf("reconnect resync = %+v", resync)
	}
}

func TestReconnectMidGameReplaysState(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	join(t, r, "alice", "gameCreated")
	join(t, r, "bob", "joined")
	if err := r.Submit(Event{Type: EventStartGame, Name: "alice"}); err != nil {
		t.Fatalf("startGame err: %v", err)
	}

	if err := r.Submit(Event{Type: EventConnLost, Name: "bob"}); err != nil {
		t.Fatalf("connLost err: %v", err)
	}
	if err := r.Submit(Event{Type: EventConnResume, Name: "bob", SessionID: "tok-bob"}); err != nil {
		t.Fatalf("connResume err: %v", err)
	}

	resync := rec.last(t, "bob")
	if resync.Type != "gameState" || resync.State == nil {
		t.Fatalf("resync = %+v", resync)
	}
	if resync.State.State != "choosingTrump" {
		t.Fatalf("resync state = %q", resync.State.State)
	}
	if len(resync.State.Hand) != 7 {
		t.Fatalf("resync hand has %d cards, want the full dealt hand", len(resync.State.Hand))
	}
	if resync.State.TrumpCaller == "" {
		t.Fatal("resync missing trump caller")
	}
}

func TestConnResumeUnknownMember(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	if err := r.Submit(Event{Type: EventConnResume, Name: "ghost"}); err == nil {
		t.Fatal("resume for unknown member accepted")
	}
}

func TestSubmitAfterStop(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	r.Stop()

	err := r.Submit(Event{Type: EventJoin, Name: "late", Ack: "joined"})
	if !errors.Is(err, ErrRoomClosed) {
		t.Fatalf("submit after stop err = %v, want ErrRoomClosed", err)
	}
}

func TestIdlenessWaitsOutTTL(t *testing.T) {
	rec := newRecorder()
	r := newTestRoom(t, rec)
	join(t, r, "alice", "gameCreated")
	if err := r.Submit(Event{Type: EventConnLost, Name: "alice"}); err != nil {
		t.Fatalf("connLost err: %v", err)
	}

	if r.IsIdleFor(time.Hour) {
		t.Fatal("room idle before the TTL elapsed")
	}
}
