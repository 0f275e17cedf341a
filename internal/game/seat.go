package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Seat models one position at the table. A seat carrying a Strategy is
// AI-controlled; a nil Strategy marks the human-controlled seat.
type Seat struct {
	Name     string
	Balance  int
	Bet      int
	Hand     Hand
	Status   Status
	Strategy Strategy

	doubleAllowed bool
}

// NewSeat creates a human-controlled seat
func NewSeat(name string, balance int) *Seat {
	return &Seat{
		Name:    name,
		Balance: balance,
		Status:  Alive,
	}
}

// NewAISeat creates a strategy-driven seat
func NewAISeat(name string, balance int, strategy Strategy) *Seat {
	seat := NewSeat(name, balance)
	seat.Strategy = strategy
	return seat
}

// IsAI reports whether the seat is strategy-driven
func (s *Seat) IsAI() bool {
	return s.Strategy != nil
}

// CanDouble reports whether a double-down is currently legal: first
// decision on an untouched two-card hand with enough balance to match
// the existing bet.
func (s *Seat) CanDouble() bool {
	return s.doubleAllowed && s.Hand.Size() == 2 && s.Balance >= s.Bet
}

// resetForRound clears the hand and restores round-start state. Dead
// seats stay dead and are skipped in all future deals.
func (s *Seat) resetForRound() {
	s.Hand.Clear()
	s.doubleAllowed = true
	if s.Status != Dead {
		s.Status = Alive
	}
}

// String formats the seat the way the results log records it
func (s *Seat) String() string {
	return fmt.Sprintf("Seat: %-10s Balance: %-6d Bet: %-4d Status: %-10s Value: %-3d Hand: %s",
		s.Name, s.Balance, s.Bet, s.Status, s.Hand.Value(), &s.Hand)
}

// Dealer holds the house hand. The dealer has no balance and no
// strategy; its play is fixed by the house rules.
type Dealer struct {
	Hand   Hand
	Status Status
}

// Upcard returns the dealer's visible card. By convention the first
// card dealt stays face down, so the upcard is the second one.
func (d *Dealer) Upcard() (deck.Card, bool) {
	cards := d.Hand.Cards()
	if len(cards) < 2 {
		return deck.Card{}, false
	}
	return cards[1], true
}

// UpcardValue returns the blackjack value of the visible card, the
// number the playing strategies key on.
func (d *Dealer) UpcardValue() int {
	card, ok := d.Upcard()
	if !ok {
		return 0
	}
	return card.BlackjackValue()
}

func (d *Dealer) resetForRound() {
	d.Hand.Clear()
	d.Status = Alive
}

// String formats the dealer the way the results log records it
func (d *Dealer) String() string {
	return fmt.Sprintf("Dealer: Status: %-10s Value: %-3d Hand: %s",
		d.Status, d.Hand.Value(), &d.Hand)
}
