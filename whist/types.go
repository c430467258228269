package whist

// State is the lifecycle phase of one game.
type State byte

const (
	StateWaiting       State = iota // accepting joins
	StateChoosingTrump              // hands dealt, caller must pick trump
	StatePlaying                    // tricks in progress
	StateRoundEnd                   // transient: eliminations resolved
	StateFinished                   // terminal until playAgain
)

var stateNames = map[State]string{
	StateWaiting:       "waiting",
	StateChoosingTrump: "choosingTrump",
	StatePlaying:       "playing",
	StateRoundEnd:      "roundEnd",
	StateFinished:      "finished",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Role is the admission result for a join.
type Role byte

const (
	RolePlayer Role = iota
	RoleSpectator
)

func (r Role) String() string {
	if r == RoleSpectator {
		return "spectator"
	}
	return "player"
}
