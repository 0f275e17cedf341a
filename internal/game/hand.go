package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand holds the cards dealt to one seat or the dealer, in draw order.
// Draw order matters only for display; the value is order-independent.
type Hand struct {
	cards []deck.Card
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Cards returns a copy of the cards in draw order
func (h *Hand) Cards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Size returns the number of cards in the hand
func (h *Hand) Size() int {
	return len(h.cards)
}

// Clear empties the hand
func (h *Hand) Clear() {
	h.cards = h.cards[:0]
}

// Value computes the blackjack total of the hand. Every ace starts at
// 11 and is demoted to 1, one at a time, while the total exceeds 21.
// The total is recomputed from scratch on every call since callers
// mutate hands between calls.
func (h *Hand) Value() int {
	sum := 0
	aces := 0
	for _, card := range h.cards {
		sum += card.BlackjackValue()
		if card.IsAce() {
			aces++
		}
	}
	for aces > 0 && sum > 21 {
		aces--
		sum -= 10
	}
	return sum
}

// IsSoft reports whether the hand contains an ace. The strategy tables
// key on this loose definition, whether or not the ace still counts
// as 11.
func (h *Hand) IsSoft() bool {
	for _, card := range h.cards {
		if card.IsAce() {
			return true
		}
	}
	return false
}

// IsBlackjack reports a natural: a two-card 21
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

// String returns the hand as space-separated cards (e.g., "A♠ K♥")
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, card := range h.cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}
