package game

// Status represents the state of a seat (or the dealer) during a game.
// Alive is the only status that allows further cards or decisions.
// Stand, Busted and Blackjack are terminal for the round; Dead is
// terminal for the game and persists across rounds.
type Status int

const (
	Dead Status = iota
	Alive
	Busted
	Stand
	Blackjack
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case Dead:
		return "DEAD"
	case Alive:
		return "ALIVE"
	case Busted:
		return "BUSTED"
	case Stand:
		return "STAND"
	case Blackjack:
		return "BLACKJACK"
	default:
		return "UNKNOWN"
	}
}

// RoundOver reports whether the status is terminal for the current round
func (s Status) RoundOver() bool {
	return s != Alive
}
