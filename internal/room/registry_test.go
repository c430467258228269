package room

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"knockout-whist/whist"
)

func newTestRegistry(reaped *[]string) *Registry {
	var mu sync.Mutex
	return NewRegistry(
		whist.Config{StartingHand: 7, Seed: 1},
		func(code, name string, data []byte) {},
		func(code string) {
			if reaped == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			*reaped = append(*reaped, code)
		},
	)
}

func TestRegistryCreateAndFind(t *testing.T) {
	reg := newTestRegistry(nil)

	r, err := reg.Create()
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	defer r.Stop()

	if len(r.Code) != 4 {
		t.Fatalf("code %q, want 4 letters", r.Code)
	}
	for _, c := range r.Code {
		if c < 'A' || c > 'Z' {
			t.Fatalf("code %q contains non-uppercase rune", r.Code)
		}
	}

	found, err := reg.Find(r.Code)
	if err != nil || found != r {
		t.Fatalf("Find(%q) = %v, %v", r.Code, found, err)
	}

	// Lookup is tolerant of client-side case and whitespace.
	if _, err := reg.Find(" " + strings.ToLower(r.Code) + " "); err != nil {
		t.Fatalf("normalized Find err: %v", err)
	}
}

func TestRegistryFindUnknownCode(t *testing.T) {
	reg := newTestRegistry(nil)
	if _, err := reg.Find("ZZZZ"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("Find unknown err = %v, want ErrGameNotFound", err)
	}
}

func TestRegistrySweepReapsIdleRooms(t *testing.T) {
	var reaped []string
	reg := newTestRegistry(&reaped)

	r, err := reg.Create()
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	code := r.Code

	// Fresh room with no members is idle immediately.
	if n := reg.Sweep(0); n != 1 {
		t.Fatalf("Sweep reaped %d rooms, want 1", n)
	}
	if !r.IsClosed() {
		t.Fatal("reaped room still running")
	}
	if reg.Count() != 0 {
		t.Fatalf("registry still holds %d rooms", reg.Count())
	}
	if len(reaped) != 1 || reaped[0] != code {
		t.Fatalf("onReap got %v, want [%s]", reaped, code)
	}

	// Once reaped, the code resolves to a definitive "ended".
	if _, err := reg.Find(code); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("Find reaped code err = %v, want ErrGameEnded", err)
	}
}

func TestRegistrySweepSkipsOccupiedRooms(t *testing.T) {
	reg := newTestRegistry(nil)

	r, err := reg.Create()
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	defer r.Stop()
	if err := r.Submit(Event{Type: EventJoin, Name: "alice", Ack: "gameCreated"}); err != nil {
		t.Fatalf("join err: %v", err)
	}

	if n := reg.Sweep(0); n != 0 {
		t.Fatalf("Sweep reaped %d rooms, want 0", n)
	}
	if _, err := reg.Find(r.Code); err != nil {
		t.Fatalf("occupied room vanished: %v", err)
	}
}
