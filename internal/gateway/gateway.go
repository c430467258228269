// Package gateway terminates WebSocket connections and translates the
// JSON intent protocol into room events.
package gateway

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"knockout-whist/card"
	"knockout-whist/internal/codec"
	"knockout-whist/internal/room"
	"knockout-whist/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// Connection is one WebSocket client.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Gateway *Gateway

	// Identity, set once the client creates, joins or reconnects.
	// Guarded by Gateway.mu.
	Token string
	Name  string
	Room  *room.Room
}

type routeKey struct {
	code string
	name string
}

// Gateway manages WebSocket connections and routes room fan-out back to
// the right socket by (game code, player name).
type Gateway struct {
	mu         sync.RWMutex
	conns      map[string]*Connection
	routes     map[routeKey]*Connection
	nextConnID uint64

	registry *room.Registry
	sessions *session.Manager
}

// New creates a gateway. BindRegistry must be called before serving;
// the registry itself needs the gateway's route function first.
func New(sessions *session.Manager) *Gateway {
	return &Gateway{
		conns:    make(map[string]*Connection),
		routes:   make(map[routeKey]*Connection),
		sessions: sessions,
	}
}

// BindRegistry attaches the room registry.
func (g *Gateway) BindRegistry(reg *room.Registry) {
	g.registry = reg
}

// Route delivers an encoded room frame to the named member, dropping it
// when no socket is attached.
func (g *Gateway) Route(code, name string, data []byte) {
	g.mu.RLock()
	c := g.routes[routeKey{code, name}]
	g.mu.RUnlock()

	if c == nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		// Drop if buffer full
	}
}

// DropRoom discards all routes for a reaped room.
func (g *Gateway) DropRoom(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, c := range g.routes {
		if key.code != code {
			continue
		}
		delete(g.routes, key)
		c.Room = nil
	}
}

// HandleWebSocket upgrades the HTTP request and starts the pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:      fmt.Sprintf("conn_%d", g.nextConnID),
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Gateway: g,
	}
	g.conns[c.ID] = c
	total := len(g.conns)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", c.ID, total)

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	in, err := codec.DecodeIntent(data)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	switch in.Type {
	case codec.IntentCreate:
		c.handleCreate(in)
	case codec.IntentJoin:
		c.handleJoin(in)
	case codec.IntentReconnect:
		c.handleReconnect(in)
	case codec.IntentStartGame:
		_, name := c.roomAndName()
		c.submitToRoom(room.Event{Type: room.EventStartGame, Name: name})
	case codec.IntentAddAI:
		c.submitToRoom(room.Event{Type: room.EventAddAI})
	case codec.IntentPlayCard:
		c.handlePlayCard(in)
	case codec.IntentCallTrumps:
		c.handleCallTrumps(in)
	case codec.IntentPlayAgain:
		c.submitToRoom(room.Event{Type: room.EventPlayAgain})
	default:
		c.sendError(fmt.Sprintf("unknown intent: %s", in.Type))
	}
}

func (c *Connection) handleCreate(in codec.Intent) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		c.sendError("name required")
		return
	}
	if c.currentRoom() != nil {
		c.sendError("already in a game")
		return
	}

	r, err := c.Gateway.registry.Create()
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.enterRoom(r, name, "gameCreated")
}

func (c *Connection) handleJoin(in codec.Intent) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		c.sendError("name required")
		return
	}
	if c.currentRoom() != nil {
		c.sendError("already in a game")
		return
	}

	r, err := c.Gateway.registry.Find(in.Code)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.enterRoom(r, name, "joined")
}

// enterRoom registers a session, binds routing and submits the join.
// The room replies with the ack envelope itself so the acknowledgement
// is ordered with the fan-out it triggers.
func (c *Connection) enterRoom(r *room.Room, name, ack string) {
	g := c.Gateway
	token := g.sessions.Register(name, r.Code)
	if _, err := g.sessions.Bind(token, c.ID); err != nil {
		c.sendError(err.Error())
		return
	}
	g.attach(c, r, name, token)

	err := r.Submit(room.Event{Type: room.EventJoin, Name: name, SessionID: token, Ack: ack})
	if err != nil {
		g.detach(c)
		g.sessions.Drop(token)
		c.sendError(err.Error())
		return
	}
	log.Printf("[Gateway] %s entered game %s as %q", c.ID, r.Code, name)
}

func (c *Connection) handleReconnect(in codec.Intent) {
	g := c.Gateway

	rec, err := g.sessions.Resolve(in.SessionID)
	if err != nil {
		c.sendError(codec.MsgInvalidSession)
		return
	}
	r, err := g.registry.Find(rec.GameCode)
	if err != nil {
		// The game is gone; the stored session is unrecoverable.
		c.sendError(codec.MsgInvalidSession)
		return
	}

	prev, err := g.sessions.Bind(in.SessionID, c.ID)
	if err != nil {
		c.sendError(codec.MsgInvalidSession)
		return
	}
	if prev != "" {
		g.closeSuperseded(prev)
	}
	g.attach(c, r, rec.Name, in.SessionID)

	err = r.Submit(room.Event{Type: room.EventConnResume, Name: rec.Name, SessionID: in.SessionID})
	if err != nil {
		g.detach(c)
		c.sendError(codec.MsgInvalidSession)
		return
	}
	log.Printf("[Gateway] %s reconnected to game %s as %q", c.ID, r.Code, rec.Name)
}

func (c *Connection) handlePlayCard(in codec.Intent) {
	played, err := card.Parse(in.Card)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	_, name := c.roomAndName()
	c.submitToRoom(room.Event{Type: room.EventPlayCard, Name: name, Card: played})
}

func (c *Connection) handleCallTrumps(in codec.Intent) {
	suit, err := card.ParseSuit(in.Suit)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	_, name := c.roomAndName()
	c.submitToRoom(room.Event{Type: room.EventCallTrumps, Name: name, Suit: suit})
}

// submitToRoom forwards an event to the connection's room, reporting
// any rejection back to this client only.
func (c *Connection) submitToRoom(e room.Event) {
	r := c.currentRoom()
	if r == nil {
		c.sendError("not in a game")
		return
	}
	if err := r.Submit(e); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Connection) currentRoom() *room.Room {
	r, _ := c.roomAndName()
	return r
}

func (c *Connection) roomAndName() (*room.Room, string) {
	c.Gateway.mu.RLock()
	defer c.Gateway.mu.RUnlock()
	return c.Room, c.Name
}

func (c *Connection) sendError(msg string) {
	data, err := codec.Encode(codec.ErrorEnvelope(msg))
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (g *Gateway) attach(c *Connection, r *room.Room, name, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c.Room = r
	c.Name = name
	c.Token = token
	g.routes[routeKey{r.Code, name}] = c
}

func (g *Gateway) detach(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.detachLocked(c)
}

func (g *Gateway) detachLocked(c *Connection) {
	if c.Room != nil {
		key := routeKey{c.Room.Code, c.Name}
		if g.routes[key] == c {
			delete(g.routes, key)
		}
	}
	c.Room = nil
	c.Name = ""
	c.Token = ""
}

// closeSuperseded shuts the previous socket of a session that just
// rebound to a new connection.
func (g *Gateway) closeSuperseded(connID string) {
	g.mu.Lock()
	prev := g.conns[connID]
	if prev != nil {
		g.detachLocked(prev)
	}
	g.mu.Unlock()

	if prev != nil {
		log.Printf("[Gateway] Closing superseded connection %s", connID)
		prev.Conn.Close()
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.conns, c.ID)
	r, name, token := c.Room, c.Name, c.Token
	g.detachLocked(c)
	total := len(g.conns)
	g.mu.Unlock()

	if token != "" {
		g.sessions.Unbind(token, c.ID)
	}
	if r != nil {
		// A closed room just means the reaper won the race.
		if err := r.Submit(room.Event{Type: room.EventConnLost, Name: name}); err != nil && err != room.ErrRoomClosed {
			log.Printf("[Gateway] ConnLost for %q failed: %v", name, err)
		}
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, total)
}
