package whist

import "errors"

var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotEnoughPlayers = errors.New("need at least 2 players")
	ErrGameFull         = errors.New("game full")
	ErrNameTaken        = errors.New("name already taken")
	ErrInvalidSuit      = errors.New("invalid suit")
	ErrUnknownPlayer    = errors.New("player not found in game")
)

// InvalidStateError rejects an intent that is not valid in the current
// lifecycle state.
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

// IllegalCardError rejects a card play: not in hand, or suit-following
// violated.
type IllegalCardError string

func (e IllegalCardError) Error() string { return string(e) }
