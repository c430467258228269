// Package whist implements the Knockout Whist rules engine: a pure state
// machine over players, hands, tricks and rounds. It performs no I/O;
// every transition validates fully before mutating and returns the
// ordered events to broadcast.
package whist

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"knockout-whist/card"
	"knockout-whist/whist/ai"
)

type Game struct {
	code     string
	cfg      Config
	rng      *rand.Rand
	strategy ai.Strategy

	mu sync.Mutex

	state      State
	players    []*Player // seating order, non-eliminated
	spectators []*Player // eliminated players and late joiners
	aiSeats    int

	handSize int
	trump    card.Suit
	trick    Trick

	current *Player // whose turn, while playing
	starter *Player // leads the next trick
	caller  *Player // picks this round's trump
	winner  string
}

func NewGame(code string, cfg Config) (*Game, error) {
	if cfg.StartingHand == 0 {
		cfg.StartingHand = DefaultStartingHand
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	strategy := cfg.Strategy
	if strategy == nil {
		strategy = ai.Rule{}
	}
	return &Game{
		code:     code,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		strategy: strategy,
		state:    StateWaiting,
		handSize: cfg.StartingHand,
		trump:    card.NoSuit,
	}, nil
}

func (g *Game) Code() string { return g.code }

// Join admits name as a seated player while the game is waiting and a
// seat is free, otherwise as a spectator. Names are unique per game.
func (g *Game) Join(name string) (Role, []Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.findAnyLocked(name) != nil {
		return 0, nil, ErrNameTaken
	}
	p := &Player{Name: name}
	role := RolePlayer
	if g.state != StateWaiting || len(g.players) >= g.cfg.MaxSeats() {
		g.spectators = append(g.spectators, p)
		role = RoleSpectator
	} else {
		g.players = append(g.players, p)
	}
	return role, []Event{{Type: EventPlayerJoined, Player: name}}, nil
}

// AddAI seats an AI player, consuming one seat.
func (g *Game) AddAI() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateWaiting {
		return nil, InvalidStateError("can only add AI before the game starts")
	}
	if len(g.players) >= g.cfg.MaxSeats() {
		return nil, ErrGameFull
	}
	g.aiSeats++
	name := fmt.Sprintf("AI %d", g.aiSeats)
	for g.findAnyLocked(name) != nil {
		g.aiSeats++
		name = fmt.Sprintf("AI %d", g.aiSeats)
	}
	g.players = append(g.players, &Player{Name: name, AI: true})
	return []Event{{Type: EventPlayerJoined, Player: name, IsAI: true}}, nil
}

// Start begins the first round: deals hands and picks the round-1 trump
// caller at random. AI turns, including an AI caller, resolve inline.
func (g *Game) Start() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateWaiting {
		return nil, InvalidStateError("game already started")
	}
	if len(g.players) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	g.caller = g.players[g.rng.Intn(len(g.players))]
	g.starter = g.caller

	var events []Event
	if err := g.startTrumpSelectionLocked(&events); err != nil {
		return nil, err
	}
	g.runAILocked(&events)
	return events, nil
}

// CallTrumps records the designated caller's suit and starts the round.
func (g *Game) CallTrumps(name string, suit card.Suit) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var events []Event
	if err := g.callTrumpsLocked(name, suit, &events); err != nil {
		return nil, err
	}
	g.runAILocked(&events)
	return events, nil
}

// PlayCard validates and applies one card play for name. On trick
// completion the winner is resolved; on hand exhaustion the round ends.
func (g *Game) PlayCard(name string, c card.Card) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var events []Event
	if err := g.playCardLocked(name, c, &events); err != nil {
		return nil, err
	}
	g.runAILocked(&events)
	return events, nil
}

// Reset implements playAgain: back to waiting with the roster and code
// kept, eliminations cleared and spectators restored to seats while
// capacity allows.
func (g *Game) Reset() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateFinished {
		return nil, InvalidStateError("game is not over")
	}

	g.players = append(g.players, g.spectators...)
	g.spectators = nil
	if max := g.cfg.MaxSeats(); len(g.players) > max {
		g.spectators = append(g.spectators, g.players[max:]...)
		g.players = g.players[:max]
	}
	for _, p := range g.players {
		p.Hand = nil
		p.Tricks = 0
	}

	g.handSize = g.cfg.StartingHand
	g.trump = card.NoSuit
	g.trick = Trick{}
	g.current = nil
	g.starter = nil
	g.caller = nil
	g.winner = ""
	g.state = StateWaiting
	return []Event{broadcast(EventGameState)}, nil
}

// --- locked transition internals ---

// startTrumpSelectionLocked deals a fresh shuffled deck for the current
// hand size and enters choosingTrump. The caller field must be set.
func (g *Game) startTrumpSelectionLocked(events *[]Event) error {
	deck := card.NewDeck()
	deck.Shuffle(g.rng)
	hands, err := deck.Deal(g.handSize, len(g.players))
	if err != nil {
		return err
	}
	for i, p := range g.players {
		card.SortHand(hands[i])
		p.Hand = hands[i]
		p.Tricks = 0
	}
	g.trump = card.NoSuit
	g.trick = Trick{}
	g.state = StateChoosingTrump
	*events = append(*events, broadcast(EventGameState))
	*events = append(*events, Event{Type: EventTrumpSelection, Chooser: g.caller.Name})
	return nil
}

func (g *Game) callTrumpsLocked(name string, suit card.Suit, events *[]Event) error {
	if g.state != StateChoosingTrump {
		return InvalidStateError("not time to call trumps")
	}
	if g.caller == nil || g.caller.Name != name {
		return ErrNotYourTurn
	}
	if suit != card.Spade && suit != card.Heart && suit != card.Diamond && suit != card.Club {
		return ErrInvalidSuit
	}
	g.trump = suit
	g.state = StatePlaying
	g.trick = Trick{}
	g.current = g.starter
	*events = append(*events, broadcast(EventRoundStart))
	return nil
}

func (g *Game) playCardLocked(name string, c card.Card, events *[]Event) error {
	if g.state != StatePlaying {
		return InvalidStateError("not time to play")
	}
	p := g.findPlayerLocked(name)
	if p == nil || p != g.current {
		return ErrNotYourTurn
	}
	if !p.holds(c) {
		return IllegalCardError("card not in hand")
	}
	if led := g.trick.LedSuit(); led != card.NoSuit && c.Suit() != led && p.hasSuit(led) {
		return IllegalCardError("must follow suit")
	}

	p.remove(c)
	g.trick.Add(name, c)

	next := g.nextPlayerLocked(p)
	g.current = next
	ev := Event{Type: EventCardPlayed, Player: name, Card: c}
	if next != nil {
		ev.NextPlayer = next.Name
	}
	*events = append(*events, ev)

	if g.trick.Complete(len(g.players)) {
		g.resolveTrickLocked(events)
	}
	return nil
}

func (g *Game) resolveTrickLocked(events *[]Event) {
	*events = append(*events, broadcast(EventTrickComplete))

	winnerName := g.trick.Winner(g.trump)
	winner := g.findPlayerLocked(winnerName)
	winner.Tricks++
	*events = append(*events, Event{Type: EventTrickWinner, Winner: winnerName, NextPlayer: winnerName})

	// Winner leads the next trick.
	g.current = winner
	g.starter = winner
	g.trick = Trick{}

	for _, p := range g.players {
		if !p.handEmpty() {
			*events = append(*events, broadcast(EventNextTrick))
			return
		}
	}
	g.endRoundLocked(events)
}

func (g *Game) endRoundLocked(events *[]Event) {
	g.state = StateRoundEnd

	survivors := g.players[:0:0]
	for _, p := range g.players {
		if p.Tricks == 0 {
			g.spectators = append(g.spectators, p)
			*events = append(*events, Event{Type: EventEliminated, To: p.Name})
		} else {
			survivors = append(survivors, p)
		}
	}
	g.players = survivors

	if len(g.players) <= 1 || g.handSize <= 1 {
		g.state = StateFinished
		g.current = nil
		if len(g.players) > 0 {
			g.winner = g.players[0].Name
		}
		*events = append(*events, Event{Type: EventGameOver, Winner: g.winner})
		return
	}

	// Next caller: most tricks this round, earliest seat on ties. The
	// caller also leads the first trick.
	caller := g.players[0]
	for _, p := range g.players[1:] {
		if p.Tricks > caller.Tricks {
			caller = p
		}
	}
	g.caller = caller
	g.starter = caller
	g.current = nil
	g.handSize--

	*events = append(*events, Event{Type: EventRoundEnd, TrumpCaller: caller.Name})
	if err := g.startTrumpSelectionLocked(events); err != nil {
		// Unreachable: the next round needs strictly fewer cards than
		// the one that just fit.
		panic(err)
	}
}

// runAILocked plays AI turns inline until a human is due or the game
// ends. Strategies only return legal moves; an error still breaks the
// loop rather than spinning.
func (g *Game) runAILocked(events *[]Event) {
	for {
		switch {
		case g.state == StateChoosingTrump && g.caller != nil && g.caller.AI:
			suit := g.strategy.ChooseTrump(g.caller.Hand)
			if err := g.callTrumpsLocked(g.caller.Name, suit, events); err != nil {
				return
			}
		case g.state == StatePlaying && g.current != nil && g.current.AI:
			view := ai.TrickView{
				Trump:  g.trump,
				Led:    g.trick.LedSuit(),
				Played: g.trick.Cards(),
			}
			c := g.strategy.ChooseCard(g.current.Hand, view)
			if err := g.playCardLocked(g.current.Name, c, events); err != nil {
				return
			}
		default:
			return
		}
	}
}

// --- lookups ---

func (g *Game) findPlayerLocked(name string) *Player {
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (g *Game) findAnyLocked(name string) *Player {
	if p := g.findPlayerLocked(name); p != nil {
		return p
	}
	for _, p := range g.spectators {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (g *Game) nextPlayerLocked(cur *Player) *Player {
	if len(g.players) == 0 {
		return nil
	}
	for i, p := range g.players {
		if p == cur {
			return g.players[(i+1)%len(g.players)]
		}
	}
	return g.players[0]
}
