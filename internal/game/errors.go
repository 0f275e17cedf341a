package game

import "errors"

var (
	// ErrIllegalAction is returned when a command arrives out of order:
	// an action for a seat that is no longer alive, a double-down after
	// the first decision, or an engine call in the wrong phase. The
	// engine state is unchanged; the caller should re-prompt.
	ErrIllegalAction = errors.New("game: illegal action")

	// ErrInsufficientBalance is returned when a bet placement exceeds
	// the seat's available balance. The bet is rejected and state is
	// unchanged.
	ErrInsufficientBalance = errors.New("game: insufficient balance")
)
