package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session")

// Record binds a session token to a player identity inside one game.
type Record struct {
	Name     string
	GameCode string
	IssuedAt time.Time
}

// Manager provides in-memory session tracking for single-binary
// deployment. A token is minted when a player enters a game and stays
// valid for reconnects until the game itself is reaped.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Record   // token -> identity
	byGame   map[string][]string // game code -> tokens
	conns    map[string]string   // token -> owning connection id
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]Record),
		byGame:   make(map[string][]string),
		conns:    make(map[string]string),
	}
}

// Register mints a fresh token for name inside the given game.
func (m *Manager) Register(name, gameCode string) string {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = Record{Name: name, GameCode: gameCode, IssuedAt: time.Now()}
	m.byGame[gameCode] = append(m.byGame[gameCode], token)
	return token
}

// Resolve returns the identity bound to token.
func (m *Manager) Resolve(token string) (Record, error) {
	if token == "" {
		return Record{}, ErrInvalidSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[token]
	if !ok {
		return Record{}, ErrInvalidSession
	}
	return rec, nil
}

// Bind makes connID the sole owner of token and returns the connection
// it displaced, if any. A reconnect supersedes the previous socket.
func (m *Manager) Bind(token, connID string) (prev string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return "", ErrInvalidSession
	}
	prev = m.conns[token]
	m.conns[token] = connID
	if prev == connID {
		prev = ""
	}
	return prev, nil
}

// Unbind releases token's connection, but only if connID still owns it.
// A stale disconnect must not evict the socket that superseded it.
func (m *Manager) Unbind(token, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conns[token] == connID {
		delete(m.conns, token)
	}
}

// Drop discards a single token, e.g. after a failed join.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[token]
	if !ok {
		return
	}
	delete(m.sessions, token)
	delete(m.conns, token)

	tokens := m.byGame[rec.GameCode]
	for i, t := range tokens {
		if t == token {
			m.byGame[rec.GameCode] = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}
}

// InvalidateGame drops every session minted for gameCode.
func (m *Manager) InvalidateGame(gameCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, token := range m.byGame[gameCode] {
		delete(m.sessions, token)
		delete(m.conns, token)
	}
	delete(m.byGame, gameCode)
}
