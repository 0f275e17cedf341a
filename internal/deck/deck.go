package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when a draw is requested on an empty
// deck. In normal play a round never consumes all 52 cards, so hitting
// this means a caller forgot to rebuild the shoe.
var ErrDeckExhausted = errors.New("deck: no cards remaining")

// Deck represents a single ordered 52-card shoe. Cards leave only from
// the front; Shuffle permutes the remaining cards in place.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full identity-ordered deck. The rng is used for
// subsequent shuffles.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Ace; rank <= King; rank++ {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
	return d
}

// NewStacked creates a deck containing exactly the given cards in draw
// order. Used by tests to rig deals; Shuffle is a no-op without an rng.
func NewStacked(cards ...Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Deck{cards: stacked}
}

// Shuffle randomizes the order of the remaining cards
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the front card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in draw order
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}
