package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// riggedModel builds a three-seat table with a stacked deck. Deal
// order is You, Hal, Bishop, Dealer, twice over.
func riggedModel(t *testing.T, cards string) *Model {
	t.Helper()
	seats := []*game.Seat{
		game.NewSeat("You", 50),
		game.NewAISeat("Hal", 50, game.BasicStrategy{}),
		game.NewAISeat("Bishop", 50, game.BasicStrategy{}),
	}
	engine := game.NewEngine(seats, game.Options{
		MinBet: 10,
		Seed:   1,
		NewDeck: func() *deck.Deck {
			return deck.NewStacked(deck.MustParse(cards)...)
		},
	})
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	return NewModel(engine, logger)
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	updated, cmd := m.Update(msg)
	require.Same(t, m, updated)
	return cmd
}

func pressRune(t *testing.T, m *Model, r rune) tea.Cmd {
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func pressEnter(t *testing.T, m *Model) tea.Cmd {
	return press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// You 20, both bots 17, dealer 18: everyone stands, human wins.
const standPatDeck = "Kh Ts 9c 8s Qd 7h 8d Th"

func TestModelPlaysARound(t *testing.T) {
	m := riggedModel(t, standPatDeck)

	pressEnter(t, m) // start round
	assert.Equal(t, game.PhaseBetting, m.engine.Phase())

	pressEnter(t, m) // deal
	assert.Equal(t, game.PhasePlayerTurns, m.engine.Phase())
	assert.Contains(t, m.View(), "Your turn")

	pressRune(t, m, 's') // stand, bots and dealer play out
	assert.Equal(t, game.PhaseIdle, m.engine.Phase())
	assert.Equal(t, 60, m.engine.Seats()[0].Balance)
	assert.Contains(t, m.View(), "You win 20")
}

func TestBetAdjustment(t *testing.T) {
	m := riggedModel(t, standPatDeck)
	pressEnter(t, m) // start round, auto-staked at the minimum

	you := m.engine.Seats()[0]
	require.Equal(t, 10, you.Bet)

	press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 20, you.Bet)
	assert.Equal(t, 30, you.Balance)

	press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 10, you.Bet)

	// Already at the table minimum, going lower is refused
	press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 10, you.Bet)
	assert.Contains(t, m.View(), "Table minimum")
}

func TestDealerHoleCardHiddenUntilSettlement(t *testing.T) {
	m := riggedModel(t, standPatDeck)
	pressEnter(t, m)
	pressEnter(t, m)

	view := m.View()
	assert.Contains(t, view, "??", "hole card should be hidden during player turns")
	assert.NotContains(t, view, "8♠", "hole card should not leak before the dealer turn")

	pressRune(t, m, 's')
	view = m.View()
	assert.Contains(t, view, "8♠", "hole card should be revealed after the round")
	assert.NotContains(t, view, "??")
}

func TestActionKeysIgnoredOutsideTurn(t *testing.T) {
	m := riggedModel(t, standPatDeck)

	// No round running yet, hit must not reach the engine
	pressRune(t, m, 'h')
	assert.Equal(t, game.PhaseIdle, m.engine.Phase())
	assert.Empty(t, m.engine.Seats()[0].Hand.Cards())
}

func TestQuitKey(t *testing.T) {
	m := riggedModel(t, standPatDeck)
	cmd := pressRune(t, m, 'q')
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestEventLogCollectsRound(t *testing.T) {
	m := riggedModel(t, standPatDeck)
	pressEnter(t, m)
	pressEnter(t, m)
	pressRune(t, m, 's')

	joined := strings.Join(m.logLines, "\n")
	assert.Contains(t, joined, "Round 1")
	assert.Contains(t, joined, "Dealer takes a card face down")
	assert.Contains(t, joined, "You stands on 20")
	assert.Contains(t, joined, "Dealer stands on 18")
	assert.Contains(t, joined, "You: WIN (+20)")
}
