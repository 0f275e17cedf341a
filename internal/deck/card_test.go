package deck

import "testing"

func TestNewCardRankBounds(t *testing.T) {
	tests := []struct {
		name    string
		rank    Rank
		wantErr bool
	}{
		{name: "ace", rank: Ace},
		{name: "king", rank: King},
		{name: "zero", rank: 0, wantErr: true},
		{name: "fourteen", rank: 14, wantErr: true},
		{name: "negative", rank: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := NewCard(Spades, tt.rank)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewCard(%d) expected error, got %v", tt.rank, card)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCard(%d) unexpected error: %v", tt.rank, err)
			}
			if card.Rank != tt.rank {
				t.Errorf("NewCard(%d) rank = %d", tt.rank, card.Rank)
			}
		})
	}
}

func TestBlackjackValue(t *testing.T) {
	tests := []struct {
		card     Card
		expected int
	}{
		{Card{Spades, Ace}, 11},
		{Card{Hearts, Two}, 2},
		{Card{Clubs, Nine}, 9},
		{Card{Diamonds, Ten}, 10},
		{Card{Spades, Jack}, 10},
		{Card{Hearts, Queen}, 10},
		{Card{Clubs, King}, 10},
	}

	for _, tt := range tests {
		if got := tt.card.BlackjackValue(); got != tt.expected {
			t.Errorf("%s BlackjackValue() = %d, want %d", tt.card, got, tt.expected)
		}
	}
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "blackjack",
			input: "AsKh",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
			},
		},
		{
			name:  "mixed with spaces",
			input: "Td 9c 2h",
			expected: []Card{
				{Suit: Diamonds, Rank: Ten},
				{Suit: Clubs, Rank: Nine},
				{Suit: Hearts, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqD",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AxKs",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "AsK",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseCards(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCards(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCards(%q) unexpected error: %v", tt.input, err)
			}
			if len(cards) != len(tt.expected) {
				t.Fatalf("ParseCards(%q) returned %d cards, want %d", tt.input, len(cards), len(tt.expected))
			}
			for i, card := range cards {
				if card != tt.expected[i] {
					t.Errorf("card %d = %v, want %v", i, card, tt.expected[i])
				}
			}
		})
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card     Card
		expected string
	}{
		{Card{Spades, Ace}, "A♠"},
		{Card{Hearts, Ten}, "T♥"},
		{Card{Diamonds, Queen}, "Q♦"},
		{Card{Clubs, Seven}, "7♣"},
	}

	for _, tt := range tests {
		if got := tt.card.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
