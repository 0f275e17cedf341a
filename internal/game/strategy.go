package game

import "fmt"

// Move is a playing-strategy decision. DoubleOrHit and DoubleOrStand
// resolve to an actual double-down only when the seat is still
// double-eligible; otherwise they degrade to Hit and Stand.
type Move int

const (
	MoveStand Move = iota
	MoveHit
	MoveDoubleOrHit
	MoveDoubleOrStand
)

// String returns the string representation of a move
func (m Move) String() string {
	switch m {
	case MoveStand:
		return "stand"
	case MoveHit:
		return "hit"
	case MoveDoubleOrHit:
		return "double-or-hit"
	case MoveDoubleOrStand:
		return "double-or-stand"
	default:
		return "unknown"
	}
}

// Strategy decides bets and plays for an AI-controlled seat.
// Implementations are stateless: both methods are pure functions of
// their arguments, so one value can safely serve many seats.
type Strategy interface {
	// BettingStrategy returns the stake for the coming round given the
	// seat's current balance.
	BettingStrategy(balance int) int

	// PlayingStrategy returns the next move given the blackjack value
	// of the dealer's visible card and the seat's current hand.
	PlayingStrategy(dealerUpcard int, hand *Hand) Move
}

// NewStrategy returns the strategy registered under the given name.
// Used by config loading and the simulator.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "basic":
		return BasicStrategy{}, nil
	case "advanced":
		return AdvancedStrategy{}, nil
	default:
		return nil, fmt.Errorf("game: unknown strategy %q", name)
	}
}

// BasicStrategy bets a flat 10 every round and stands on anything
// above 16, never doubling down.
type BasicStrategy struct{}

// BettingStrategy always bets 10, regardless of balance
func (BasicStrategy) BettingStrategy(balance int) int {
	return 10
}

// PlayingStrategy stands above 16 and hits otherwise
func (BasicStrategy) PlayingStrategy(dealerUpcard int, hand *Hand) Move {
	if hand.Value() > 16 {
		return MoveStand
	}
	return MoveHit
}

// AdvancedStrategy sizes bets against the bankroll and plays a
// condensed basic-strategy chart split by soft and hard hands.
//
// The chart rows are evaluated in order with later rows overriding
// earlier ones. The ordering is load-bearing: soft 18 against a dealer
// 9 or 10 hits even though the stand row above it also matches. Do not
// reorder or merge the conditions.
type AdvancedStrategy struct{}

// BettingStrategy bets roughly 30% of the balance, rounded down to the
// nearest 10, with a floor of 10 for balances of 60 or less.
func (AdvancedStrategy) BettingStrategy(balance int) int {
	if balance > 60 {
		return (balance / 30) * 10
	}
	return 10
}

// PlayingStrategy implements the soft/hard decision tables
func (AdvancedStrategy) PlayingStrategy(dealer int, hand *Hand) Move {
	player := hand.Value()
	move := MoveHit

	if hand.IsSoft() {
		if player > 17 {
			move = MoveStand
		}
		if player == 18 && (dealer == 9 || dealer == 10) {
			move = MoveHit
		}
		if (player < 18 && dealer > 3 && dealer < 7) ||
			(player == 17 && dealer < 7) {
			move = MoveDoubleOrHit
		}
		if (player == 18 && dealer > 2 && dealer < 7) ||
			(player == 19 && dealer == 6) {
			move = MoveDoubleOrStand
		}
		return move
	}

	if player > 16 ||
		(player > 12 && dealer < 7) ||
		(player == 12 && dealer > 3 && dealer < 7) {
		move = MoveStand
	}
	if (player == 8 && (dealer == 5 || dealer == 6)) ||
		(player == 9 && dealer < 7) ||
		(player == 10 && dealer < 10) ||
		player == 11 {
		move = MoveDoubleOrHit
	}
	return move
}
