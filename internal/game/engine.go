package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// Action is a turn command for a seat
type Action int

const (
	ActionStand Action = iota
	ActionHit
	ActionDouble
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case ActionStand:
		return "stand"
	case ActionHit:
		return "hit"
	case ActionDouble:
		return "double"
	default:
		return "unknown"
	}
}

// Phase tracks where the engine is inside the sequential round
// protocol. Commands arriving in the wrong phase are rejected with
// ErrIllegalAction and leave state untouched.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBetting
	PhasePlayerTurns
	PhaseDealerTurn
	PhaseSettlement
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBetting:
		return "betting"
	case PhasePlayerTurns:
		return "player-turns"
	case PhaseDealerTurn:
		return "dealer-turn"
	case PhaseSettlement:
		return "settlement"
	default:
		return "unknown"
	}
}

// Result is the outcome of one seat's round against the dealer
type Result int

const (
	ResultLose Result = iota
	ResultPush
	ResultWin
)

// String returns the string representation of a result
func (r Result) String() string {
	switch r {
	case ResultLose:
		return "LOSE"
	case ResultPush:
		return "PUSH"
	case ResultWin:
		return "WIN"
	default:
		return "UNKNOWN"
	}
}

// Outcome records one seat's settlement. BalanceDelta is the amount
// credited back: 2x the bet on a win, the bet on a push, zero on a
// loss (the stake was already debited when the bet was placed).
type Outcome struct {
	SeatIndex    int
	Result       Result
	BalanceDelta int
}

// DealEvent records one card leaving the deck during the initial deal.
// SeatIndex is DealerSeat for dealer cards.
type DealEvent struct {
	SeatIndex int
	Card      deck.Card
}

// Options configures an Engine
type Options struct {
	// MinBet seeds the human seat's bet each round while solvent.
	// Defaults to 10.
	MinBet int

	// Seed for the shuffle rng. Zero means seed from the clock.
	Seed int64

	// Logger for engine debug output. Defaults to a discard logger.
	Logger *log.Logger

	// NewDeck overrides shoe creation, used by tests to rig deals.
	// Defaults to a fresh shuffled 52-card deck per round.
	NewDeck func() *deck.Deck
}

// Engine drives rounds of blackjack for a fixed set of seats against
// the dealer. It exposes a strictly sequential command protocol: the
// caller invokes one operation at a time and each runs to completion.
// The deck, hands and seats are owned exclusively by the engine, so no
// locking is needed.
type Engine struct {
	seats    []*Seat
	dealer   Dealer
	deck     *deck.Deck
	newDeck  func() *deck.Deck
	logger   *log.Logger
	eventBus EventBus
	minBet   int
	phase    Phase
	round    int
	humanIdx int
}

// NewEngine creates an engine for the given seats. At most one seat
// may be human-controlled (nil Strategy); its turn is driven through
// HumanAction while AI seats play themselves in RunAITurns.
func NewEngine(seats []*Seat, opts Options) *Engine {
	if opts.MinBet <= 0 {
		opts.MinBet = 10
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	rng := randutil.New(opts.Seed)
	newDeck := opts.NewDeck
	if newDeck == nil {
		newDeck = func() *deck.Deck {
			d := deck.New(rng)
			d.Shuffle()
			return d
		}
	}

	humanIdx := -1
	for i, seat := range seats {
		if !seat.IsAI() {
			humanIdx = i
			break
		}
	}

	return &Engine{
		seats:    seats,
		newDeck:  newDeck,
		logger:   opts.Logger,
		eventBus: NewEventBus(),
		minBet:   opts.MinBet,
		phase:    PhaseIdle,
		humanIdx: humanIdx,
	}
}

// EventBus returns the bus observers subscribe to for game events
func (e *Engine) EventBus() EventBus {
	return e.eventBus
}

// Seats returns the engine's seats. Callers must treat them as
// read-only; all mutation goes through the command protocol.
func (e *Engine) Seats() []*Seat {
	return e.seats
}

// Dealer returns the dealer state, read-only for callers
func (e *Engine) Dealer() *Dealer {
	return &e.dealer
}

// Phase returns the current protocol phase
func (e *Engine) Phase() Phase {
	return e.phase
}

// Round returns the current round number, starting at 1
func (e *Engine) Round() int {
	return e.round
}

// HumanIndex returns the index of the human seat, or -1 for an
// all-AI table
func (e *Engine) HumanIndex() int {
	return e.humanIdx
}

// MinBet returns the table's minimum stake
func (e *Engine) MinBet() int {
	return e.minBet
}

// IsGameOver reports whether every seat has gone bankrupt
func (e *Engine) IsGameOver() bool {
	for _, seat := range e.seats {
		if seat.Status != Dead {
			return false
		}
	}
	return true
}

// StartRound resets hands and statuses, builds a fresh shuffled shoe
// and collects bets: AI seats stake per their betting strategy, the
// human seat is staked the table minimum while solvent (adjustable via
// PlaceBet until the deal).
func (e *Engine) StartRound() error {
	if e.phase != PhaseIdle {
		return e.phaseError("start a round")
	}
	if e.IsGameOver() {
		return fmt.Errorf("%w: all seats are dead", ErrIllegalAction)
	}

	e.round++
	e.deck = e.newDeck()
	e.dealer.resetForRound()
	for _, seat := range e.seats {
		seat.resetForRound()
	}

	for _, seat := range e.seats {
		if seat.Status != Alive {
			continue
		}
		if seat.IsAI() {
			bet := seat.Strategy.BettingStrategy(seat.Balance)
			if bet > seat.Balance {
				bet = seat.Balance
			}
			seat.Balance -= bet
			seat.Bet = bet
		} else if seat.Bet == 0 && seat.Balance >= e.minBet {
			seat.Balance -= e.minBet
			seat.Bet = e.minBet
		}
	}

	e.phase = PhaseBetting
	e.logger.Debug("round started", "round", e.round)
	e.eventBus.Publish(NewRoundStartEvent(e.round, e.seatSnapshots()))
	return nil
}

// PlaceBet replaces a seat's bet for the coming round. The previous
// stake is refunded before the new amount is debited, so the amount is
// validated against balance plus current bet.
func (e *Engine) PlaceBet(seatIndex, amount int) error {
	if e.phase != PhaseBetting {
		return e.phaseError("place a bet")
	}
	if seatIndex < 0 || seatIndex >= len(e.seats) {
		return fmt.Errorf("%w: no seat %d", ErrIllegalAction, seatIndex)
	}
	seat := e.seats[seatIndex]
	if seat.Status != Alive {
		return fmt.Errorf("%w: seat %s is %s", ErrIllegalAction, seat.Name, seat.Status)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be positive", ErrIllegalAction)
	}
	available := seat.Balance + seat.Bet
	if amount > available {
		return fmt.Errorf("%w: bet %d exceeds available %d", ErrInsufficientBalance, amount, available)
	}

	seat.Balance = available - amount
	seat.Bet = amount
	e.logger.Debug("bet placed", "seat", seat.Name, "bet", amount, "balance", seat.Balance)
	return nil
}

// DealInitialCards deals two cards round-robin to every alive seat and
// the dealer, then promotes two-card 21s to Blackjack. Dealer cards
// are reported with SeatIndex DealerSeat; by convention the dealer's
// first card stays face down until its turn.
func (e *Engine) DealInitialCards() ([]DealEvent, error) {
	if e.phase != PhaseBetting {
		return nil, e.phaseError("deal")
	}

	var events []DealEvent
	for ncard := 0; ncard < 2; ncard++ {
		for i, seat := range e.seats {
			if seat.Status != Alive {
				continue
			}
			card, err := e.deck.Draw()
			if err != nil {
				return events, fmt.Errorf("initial deal: %w", err)
			}
			seat.Hand.AddCard(card)
			events = append(events, DealEvent{SeatIndex: i, Card: card})
			e.eventBus.Publish(NewCardDealtEvent(i, card, seat.Hand.Value()))
		}
		card, err := e.deck.Draw()
		if err != nil {
			return events, fmt.Errorf("initial deal: %w", err)
		}
		e.dealer.Hand.AddCard(card)
		events = append(events, DealEvent{SeatIndex: DealerSeat, Card: card})
		e.eventBus.Publish(NewCardDealtEvent(DealerSeat, card, e.dealer.Hand.Value()))
	}

	for _, seat := range e.seats {
		if seat.Status == Alive && seat.Hand.Value() == 21 {
			seat.Status = Blackjack
			e.logger.Debug("blackjack on the deal", "seat", seat.Name)
		}
	}

	e.phase = PhasePlayerTurns
	return events, nil
}

// HumanAction applies one decision for the human seat. Hit draws a
// card and may bust or auto-stand on 21; Stand ends the turn; Double
// doubles the bet, draws exactly one card and ends the turn. Double is
// rejected unless it is the first decision on a two-card hand with
// sufficient balance.
func (e *Engine) HumanAction(action Action) (SeatActionEvent, error) {
	if e.phase != PhasePlayerTurns {
		return SeatActionEvent{}, e.phaseError("act")
	}
	if e.humanIdx < 0 {
		return SeatActionEvent{}, fmt.Errorf("%w: no human seat at this table", ErrIllegalAction)
	}
	seat := e.seats[e.humanIdx]
	if seat.Status != Alive {
		return SeatActionEvent{}, fmt.Errorf("%w: seat %s is %s", ErrIllegalAction, seat.Name, seat.Status)
	}

	var (
		event SeatActionEvent
		err   error
	)
	switch action {
	case ActionHit:
		event, err = e.hit(e.humanIdx)
	case ActionStand:
		event = e.stand(e.humanIdx)
	case ActionDouble:
		if !seat.CanDouble() {
			return SeatActionEvent{}, fmt.Errorf("%w: double-down not available", ErrIllegalAction)
		}
		event, err = e.double(e.humanIdx)
	default:
		return SeatActionEvent{}, fmt.Errorf("%w: unknown action %d", ErrIllegalAction, action)
	}
	seat.doubleAllowed = false
	return event, err
}

// RunAITurns plays every AI seat to a terminal status by consulting
// its strategy against the dealer upcard. The human seat, if present,
// must already be terminal.
func (e *Engine) RunAITurns() ([]SeatActionEvent, error) {
	if e.phase != PhasePlayerTurns {
		return nil, e.phaseError("run AI turns")
	}
	for _, seat := range e.seats {
		if !seat.IsAI() && seat.Status == Alive {
			return nil, fmt.Errorf("%w: seat %s has not finished its turn", ErrIllegalAction, seat.Name)
		}
	}

	var events []SeatActionEvent
	for i, seat := range e.seats {
		if !seat.IsAI() {
			continue
		}
		for seat.Status == Alive {
			move := seat.Strategy.PlayingStrategy(e.dealer.UpcardValue(), &seat.Hand)
			e.logger.Debug("strategy decision",
				"seat", seat.Name,
				"move", move,
				"hand", seat.Hand.Value(),
				"upcard", e.dealer.UpcardValue())

			var (
				event SeatActionEvent
				err   error
			)
			switch move {
			case MoveStand:
				event = e.stand(i)
			case MoveHit:
				event, err = e.hit(i)
			case MoveDoubleOrHit:
				if seat.CanDouble() {
					event, err = e.double(i)
				} else {
					event, err = e.hit(i)
				}
			case MoveDoubleOrStand:
				if seat.CanDouble() {
					event, err = e.double(i)
				} else {
					event = e.stand(i)
				}
			}
			if err != nil {
				return events, err
			}
			seat.doubleAllowed = false
			events = append(events, event)
		}
	}

	e.phase = PhaseDealerTurn
	return events, nil
}

// RunDealerTurn plays the house hand: blackjack on a two-card 21,
// otherwise draw while 16 or less, standing on 17+ and busting past
// 21. The dealer only draws when at least one seat finished in Stand
// or Blackjack; a table of busts needs no dealer cards.
func (e *Engine) RunDealerTurn() ([]DealerActionEvent, error) {
	if e.phase != PhaseDealerTurn {
		return nil, e.phaseError("run the dealer turn")
	}

	contender := false
	for _, seat := range e.seats {
		if seat.Status == Stand || seat.Status == Blackjack {
			contender = true
			break
		}
	}

	var events []DealerActionEvent
	d := &e.dealer
	if contender {
		switch v := d.Hand.Value(); {
		case v == 21:
			d.Status = Blackjack
		case v > 16:
			d.Status = Stand
		default:
			for d.Status == Alive {
				card, err := e.deck.Draw()
				if err != nil {
					return events, fmt.Errorf("dealer turn: %w", err)
				}
				d.Hand.AddCard(card)
				if v := d.Hand.Value(); v > 21 {
					d.Status = Busted
				} else if v > 16 {
					d.Status = Stand
				}
				event := NewDealerActionEvent(d, &card)
				e.eventBus.Publish(event)
				events = append(events, event)
			}
		}
	} else {
		d.Status = Stand
	}

	if len(events) == 0 {
		event := NewDealerActionEvent(d, nil)
		e.eventBus.Publish(event)
		events = append(events, event)
	}

	e.logger.Debug("dealer turn complete", "status", d.Status, "value", d.Hand.Value())
	e.phase = PhaseSettlement
	return events, nil
}

// Settle resolves every non-dead seat against the dealer and applies
// the payouts. All outcomes are computed before any balance moves, so
// a settlement never half-applies. A losing seat whose balance hits
// exactly zero goes Dead and is skipped in all future rounds.
func (e *Engine) Settle() ([]Outcome, error) {
	if e.phase != PhaseSettlement {
		return nil, e.phaseError("settle")
	}

	outcomes := make([]Outcome, 0, len(e.seats))
	for i, seat := range e.seats {
		if seat.Status == Dead {
			continue
		}
		result := e.resolve(seat)
		delta := 0
		switch result {
		case ResultWin:
			delta = seat.Bet * 2
		case ResultPush:
			delta = seat.Bet
		}
		outcomes = append(outcomes, Outcome{SeatIndex: i, Result: result, BalanceDelta: delta})
	}

	for _, outcome := range outcomes {
		seat := e.seats[outcome.SeatIndex]
		seat.Balance += outcome.BalanceDelta
		if outcome.Result == ResultLose && seat.Balance == 0 {
			seat.Status = Dead
			e.logger.Info("seat is out of money", "seat", seat.Name, "round", e.round)
		}
		seat.Bet = 0
	}

	e.eventBus.Publish(NewRoundEndEvent(e.round, outcomes, e.seatSnapshots(), e.dealerSnapshot()))
	e.phase = PhaseIdle
	return outcomes, nil
}

// resolve compares one seat against the dealer. A busted seat loses
// regardless of the dealer; a busted dealer pays every surviving seat;
// otherwise higher total wins with blackjack precedence overriding a
// numeric tie at 21.
func (e *Engine) resolve(seat *Seat) Result {
	if seat.Status == Busted {
		return ResultLose
	}
	if e.dealer.Status == Busted {
		return ResultWin
	}

	result := ResultPush
	seatValue, dealerValue := seat.Hand.Value(), e.dealer.Hand.Value()
	if seatValue > dealerValue {
		result = ResultWin
	}
	if dealerValue > seatValue {
		result = ResultLose
	}
	if seat.Status == Blackjack && e.dealer.Status != Blackjack {
		result = ResultWin
	}
	if e.dealer.Status == Blackjack && seat.Status != Blackjack {
		result = ResultLose
	}
	return result
}

func (e *Engine) hit(idx int) (SeatActionEvent, error) {
	seat := e.seats[idx]
	card, err := e.deck.Draw()
	if err != nil {
		return SeatActionEvent{}, fmt.Errorf("hit: %w", err)
	}
	seat.Hand.AddCard(card)
	switch v := seat.Hand.Value(); {
	case v > 21:
		seat.Status = Busted
	case v == 21:
		seat.Status = Stand
	}

	event := NewSeatActionEvent(idx, seat, ActionHit, &card)
	e.eventBus.Publish(event)
	return event, nil
}

func (e *Engine) stand(idx int) SeatActionEvent {
	seat := e.seats[idx]
	seat.Status = Stand

	event := NewSeatActionEvent(idx, seat, ActionStand, nil)
	e.eventBus.Publish(event)
	return event
}

func (e *Engine) double(idx int) (SeatActionEvent, error) {
	seat := e.seats[idx]
	seat.Balance -= seat.Bet
	seat.Bet *= 2

	card, err := e.deck.Draw()
	if err != nil {
		return SeatActionEvent{}, fmt.Errorf("double: %w", err)
	}
	seat.Hand.AddCard(card)
	if seat.Hand.Value() > 21 {
		seat.Status = Busted
	} else {
		seat.Status = Stand
	}

	event := NewSeatActionEvent(idx, seat, ActionDouble, &card)
	e.eventBus.Publish(event)
	return event, nil
}

func (e *Engine) seatSnapshots() []SeatSnapshot {
	snapshots := make([]SeatSnapshot, len(e.seats))
	for i, seat := range e.seats {
		snapshots[i] = SeatSnapshot{
			Index:     i,
			Name:      seat.Name,
			Balance:   seat.Balance,
			Bet:       seat.Bet,
			Status:    seat.Status,
			HandValue: seat.Hand.Value(),
			Cards:     seat.Hand.Cards(),
		}
	}
	return snapshots
}

func (e *Engine) dealerSnapshot() DealerSnapshot {
	return DealerSnapshot{
		Status:    e.dealer.Status,
		HandValue: e.dealer.Hand.Value(),
		Cards:     e.dealer.Hand.Cards(),
	}
}

func (e *Engine) phaseError(what string) error {
	return fmt.Errorf("%w: cannot %s during %s", ErrIllegalAction, what, e.phase)
}
