package game

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
)

func handOf(t *testing.T, cards string) *Hand {
	t.Helper()
	h := &Hand{}
	parsed, err := deck.ParseCards(cards)
	if err != nil {
		t.Fatalf("bad card string %q: %v", cards, err)
	}
	for _, card := range parsed {
		h.AddCard(card)
	}
	return h
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		value int
		soft  bool
	}{
		{name: "natural", cards: "AsKh", value: 21, soft: true},
		{name: "two aces and a nine", cards: "AsAh9d", value: 21, soft: true},
		{name: "hard twenty", cards: "KhQd", value: 20, soft: false},
		{name: "ace demoted", cards: "As9h5c", value: 15, soft: true},
		{name: "both aces demoted", cards: "AsAh9dTc", value: 21, soft: true},
		{name: "bust", cards: "KhQd5s", value: 25, soft: false},
		{name: "soft seventeen", cards: "As6h", value: 17, soft: true},
		{name: "five card twenty one", cards: "2s3h4d5c7h", value: 21, soft: false},
		{name: "empty hand", cards: "", value: 0, soft: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handOf(t, tt.cards)
			if got := h.Value(); got != tt.value {
				t.Errorf("Value() = %d, want %d", got, tt.value)
			}
			if got := h.IsSoft(); got != tt.soft {
				t.Errorf("IsSoft() = %v, want %v", got, tt.soft)
			}
		})
	}
}

func TestHandValueIsRecomputed(t *testing.T) {
	h := handOf(t, "As9h")
	if got := h.Value(); got != 20 {
		t.Fatalf("Value() = %d, want 20", got)
	}

	// adding a card must demote the ace on the next call
	h.AddCard(deck.MustParse("5c")[0])
	if got := h.Value(); got != 15 {
		t.Errorf("Value() after hit = %d, want 15", got)
	}
}

func TestIsBlackjack(t *testing.T) {
	tests := []struct {
		cards    string
		expected bool
	}{
		{"AsKh", true},
		{"AsTd", true},
		{"AsAh9d", false}, // 21 from three cards is not a natural
		{"7s7h7d", false},
		{"KhQd", false},
	}

	for _, tt := range tests {
		h := handOf(t, tt.cards)
		if got := h.IsBlackjack(); got != tt.expected {
			t.Errorf("IsBlackjack(%s) = %v, want %v", tt.cards, got, tt.expected)
		}
	}
}

func TestHandClear(t *testing.T) {
	h := handOf(t, "AsKh")
	h.Clear()
	if h.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", h.Size())
	}
	if h.Value() != 0 {
		t.Errorf("Value() after Clear = %d, want 0", h.Value())
	}
}
