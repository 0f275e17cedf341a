package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypeSeatAction   EventType = "seat_action"
	EventTypeDealerAction EventType = "dealer_action"
	EventTypeRoundEnd     EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a blackjack game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// DealerSeat is the seat index used for the dealer in events
const DealerSeat = -1

// SeatSnapshot is a read-only copy of a seat's state, used in events
// and by the history sink.
type SeatSnapshot struct {
	Index     int
	Name      string
	Balance   int
	Bet       int
	Status    Status
	HandValue int
	Cards     []deck.Card
}

// DealerSnapshot is a read-only copy of the dealer's state
type DealerSnapshot struct {
	Status    Status
	HandValue int
	Cards     []deck.Card
}

// RoundStartEvent is published when a new round begins
type RoundStartEvent struct {
	Round     int
	Seats     []SeatSnapshot
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(round int, seats []SeatSnapshot) RoundStartEvent {
	return RoundStartEvent{
		Round:     round,
		Seats:     seats,
		timestamp: time.Now(),
	}
}

// CardDealtEvent is published for every card dealt during the initial
// deal. SeatIndex is DealerSeat for dealer cards.
type CardDealtEvent struct {
	SeatIndex int
	Card      deck.Card
	HandValue int
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(seatIndex int, card deck.Card, handValue int) CardDealtEvent {
	return CardDealtEvent{
		SeatIndex: seatIndex,
		Card:      card,
		HandValue: handValue,
		timestamp: time.Now(),
	}
}

// SeatActionEvent is published when a seat takes an action. Card is
// non-nil when the action drew one.
type SeatActionEvent struct {
	SeatIndex int
	Name      string
	Action    Action
	Card      *deck.Card
	Bet       int
	HandValue int
	Status    Status
	timestamp time.Time
}

func (e SeatActionEvent) EventType() EventType { return EventTypeSeatAction }
func (e SeatActionEvent) Timestamp() time.Time { return e.timestamp }

// NewSeatActionEvent creates a new seat action event
func NewSeatActionEvent(seatIndex int, seat *Seat, action Action, card *deck.Card) SeatActionEvent {
	return SeatActionEvent{
		SeatIndex: seatIndex,
		Name:      seat.Name,
		Action:    action,
		Card:      card,
		Bet:       seat.Bet,
		HandValue: seat.Hand.Value(),
		Status:    seat.Status,
		timestamp: time.Now(),
	}
}

// DealerActionEvent is published for every card the dealer draws
// during its turn, and once more when the dealer reaches a terminal
// status without drawing.
type DealerActionEvent struct {
	Card      *deck.Card
	HandValue int
	Status    Status
	timestamp time.Time
}

func (e DealerActionEvent) EventType() EventType { return EventTypeDealerAction }
func (e DealerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewDealerActionEvent creates a new dealer action event
func NewDealerActionEvent(dealer *Dealer, card *deck.Card) DealerActionEvent {
	return DealerActionEvent{
		Card:      card,
		HandValue: dealer.Hand.Value(),
		Status:    dealer.Status,
		timestamp: time.Now(),
	}
}

// RoundEndEvent is published after settlement with post-settlement
// balances. The history sink records rounds from these.
type RoundEndEvent struct {
	Round     int
	Outcomes  []Outcome
	Seats     []SeatSnapshot
	Dealer    DealerSnapshot
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEndEvent creates a new round end event
func NewRoundEndEvent(round int, outcomes []Outcome, seats []SeatSnapshot, dealer DealerSnapshot) RoundEndEvent {
	return RoundEndEvent{
		Round:     round,
		Outcomes:  outcomes,
		Seats:     seats,
		Dealer:    dealer,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers synchronously
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
