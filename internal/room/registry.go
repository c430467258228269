package room

import (
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"knockout-whist/whist"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameEnded    = errors.New("game ended")
)

const (
	codeLength  = 4
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// endedCodeCacheSize bounds the memory kept for distinguishing
	// "that game is over" from "that code never existed".
	endedCodeCacheSize = 1024
)

// RouteFunc delivers an encoded frame to a member of a specific room.
type RouteFunc func(code, name string, data []byte)

// ReapFunc is invoked after an idle room is closed and removed.
type ReapFunc func(code string)

// Registry owns the live rooms. Reaped room codes go to an LRU cache so
// late reconnects get a definitive "game ended" instead of a confusing
// not-found.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	ended *lru.Cache[string, time.Time]
	rng   *rand.Rand
	cfg   whist.Config

	route  RouteFunc
	onReap ReapFunc
}

// NewRegistry creates a registry. cfg seeds every room's game config
// (a zero Seed gives each game its own time-based one). onReap may be
// nil.
func NewRegistry(cfg whist.Config, route RouteFunc, onReap ReapFunc) *Registry {
	ended, err := lru.New[string, time.Time](endedCodeCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Registry{
		rooms:  make(map[string]*Room),
		ended:  ended,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg:    cfg,
		route:  route,
		onReap: onReap,
	}
}

// Create allocates a fresh code and starts a room for it.
func (reg *Registry) Create() (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.newCodeLocked()
	r, err := New(code, reg.gameConfigLocked(), func(name string, data []byte) {
		reg.route(code, name, data)
	})
	if err != nil {
		return nil, err
	}
	reg.rooms[code] = r
	return r, nil
}

// Find returns the live room for code.
func (reg *Registry) Find(code string) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if r, ok := reg.rooms[code]; ok {
		return r, nil
	}
	if reg.ended.Contains(code) {
		return nil, ErrGameEnded
	}
	return nil, ErrGameNotFound
}

// Sweep closes and removes rooms idle for at least ttl. It returns the
// number of rooms reaped.
func (reg *Registry) Sweep(ttl time.Duration) int {
	reg.mu.Lock()
	var idle []*Room
	for _, r := range reg.rooms {
		if r.IsIdleFor(ttl) {
			idle = append(idle, r)
			delete(reg.rooms, r.Code)
			reg.ended.Add(r.Code, time.Now())
		}
	}
	reg.mu.Unlock()

	for _, r := range idle {
		r.Stop()
		log.Printf("[Registry] Reaped idle room %s", r.Code)
		if reg.onReap != nil {
			reg.onReap(r.Code)
		}
	}
	return len(idle)
}

// StartSweeper reaps idle rooms every interval until done is closed.
func (reg *Registry) StartSweeper(interval, ttl time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				reg.Sweep(ttl)
			case <-done:
				return
			}
		}
	}()
}

// Count reports live room count.
func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

func (reg *Registry) gameConfigLocked() whist.Config {
	cfg := reg.cfg
	if cfg.Seed == 0 {
		cfg.Seed = reg.rng.Int63()
	}
	return cfg
}

// newCodeLocked draws 4-letter codes until one collides with neither a
// live room nor a recently ended one.
func (reg *Registry) newCodeLocked() string {
	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeLetters[reg.rng.Intn(len(codeLetters))]
		}
		code := string(buf)
		if _, live := reg.rooms[code]; !live && !reg.ended.Contains(code) {
			return code
		}
	}
}
