// Package tui is the interactive table front-end. The model owns the
// engine and drives its round protocol from key presses; everything
// shown in the log pane arrives through the engine's event bus.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

const maxLogLines = 200

type keyMap struct {
	Next    key.Binding
	Hit     key.Binding
	Stand   key.Binding
	Double  key.Binding
	BetUp   key.Binding
	BetDown key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Hit, k.Stand, k.Double, k.BetUp, k.BetDown, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Hit, k.Stand, k.Double},
		{k.BetUp, k.BetDown, k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "deal"),
		),
		Hit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hit"),
		),
		Stand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stand"),
		),
		Double: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "double down"),
		),
		BetUp: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑/+", "raise bet"),
		),
		BetDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓/-", "lower bet"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the Bubble Tea model for an interactive table
type Model struct {
	engine *game.Engine
	logger *log.Logger

	keys keyMap
	help help.Model

	message     string
	logLines    []string
	dealerCards int

	width    int
	height   int
	quitting bool
}

// NewModel creates a model for the given engine and subscribes it to
// the engine's events.
func NewModel(engine *game.Engine, logger *log.Logger) *Model {
	m := &Model{
		engine:  engine,
		logger:  logger.WithPrefix("tui"),
		keys:    newKeyMap(),
		help:    help.New(),
		message: "Press enter to start a round",
	}
	engine.EventBus().Subscribe(m)
	m.syncKeys()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			m.handleNext()
		case key.Matches(msg, m.keys.Hit):
			m.handleAction(game.ActionHit)
		case key.Matches(msg, m.keys.Stand):
			m.handleAction(game.ActionStand)
		case key.Matches(msg, m.keys.Double):
			m.handleAction(game.ActionDouble)
		case key.Matches(msg, m.keys.BetUp):
			m.adjustBet(m.engine.MinBet())
		case key.Matches(msg, m.keys.BetDown):
			m.adjustBet(-m.engine.MinBet())
		}
		m.syncKeys()
	}
	return m, nil
}

// handleNext advances the round protocol: a fresh round from idle, the
// initial deal from betting.
func (m *Model) handleNext() {
	switch m.engine.Phase() {
	case game.PhaseIdle:
		if m.engine.IsGameOver() {
			m.message = "The house has taken everything. Press q to leave."
			return
		}
		if err := m.engine.StartRound(); err != nil {
			m.fail("start round", err)
			return
		}
		m.message = "Adjust your bet, then press enter to deal"

	case game.PhaseBetting:
		if _, err := m.engine.DealInitialCards(); err != nil {
			m.fail("deal", err)
			return
		}
		if m.humanCanAct() {
			m.message = "Your turn"
		} else {
			// Human seat is dead, absent or dealt a natural; nothing
			// left to decide this round.
			m.finishRound()
		}
	}
}

// handleAction applies one human decision and, once the human seat is
// terminal, plays the rest of the round.
func (m *Model) handleAction(action game.Action) {
	if m.engine.Phase() != game.PhasePlayerTurns {
		return
	}
	if _, err := m.engine.HumanAction(action); err != nil {
		m.message = ErrorStyle.Render(err.Error())
		return
	}
	if !m.humanCanAct() {
		m.finishRound()
		return
	}
	m.message = "Your turn"
}

// finishRound plays the AI seats and the dealer, then settles
func (m *Model) finishRound() {
	if _, err := m.engine.RunAITurns(); err != nil {
		m.fail("AI turns", err)
		return
	}
	if _, err := m.engine.RunDealerTurn(); err != nil {
		m.fail("dealer turn", err)
		return
	}
	outcomes, err := m.engine.Settle()
	if err != nil {
		m.fail("settlement", err)
		return
	}
	m.message = m.settlementMessage(outcomes)
}

func (m *Model) settlementMessage(outcomes []game.Outcome) string {
	humanIdx := m.engine.HumanIndex()
	for _, outcome := range outcomes {
		if outcome.SeatIndex != humanIdx {
			continue
		}
		switch outcome.Result {
		case game.ResultWin:
			return SuccessStyle.Render(fmt.Sprintf("You win %d! Press enter for the next round", outcome.BalanceDelta))
		case game.ResultPush:
			return WarningStyle.Render("Push, your bet comes back. Press enter for the next round")
		default:
			if m.engine.Seats()[humanIdx].Status == game.Dead {
				return ErrorStyle.Render("You lose, and you're out of money")
			}
			return ErrorStyle.Render("You lose. Press enter for the next round")
		}
	}
	return "Round over. Press enter for the next round"
}

// adjustBet moves the human bet by one table minimum
func (m *Model) adjustBet(delta int) {
	if m.engine.Phase() != game.PhaseBetting {
		return
	}
	humanIdx := m.engine.HumanIndex()
	if humanIdx < 0 {
		return
	}
	bet := m.engine.Seats()[humanIdx].Bet + delta
	if bet < m.engine.MinBet() {
		m.message = WarningStyle.Render(fmt.Sprintf("Table minimum is %d", m.engine.MinBet()))
		return
	}
	if err := m.engine.PlaceBet(humanIdx, bet); err != nil {
		m.message = ErrorStyle.Render(err.Error())
		return
	}
	m.message = fmt.Sprintf("Bet set to %d. Press enter to deal", bet)
}

func (m *Model) humanCanAct() bool {
	humanIdx := m.engine.HumanIndex()
	return humanIdx >= 0 && m.engine.Seats()[humanIdx].Status == game.Alive
}

func (m *Model) fail(what string, err error) {
	m.logger.Error("engine command failed", "command", what, "error", err)
	m.message = ErrorStyle.Render(fmt.Sprintf("%s failed: %v", what, err))
}

func (m *Model) syncKeys() {
	phase := m.engine.Phase()
	m.keys.Next.SetEnabled(phase == game.PhaseIdle || phase == game.PhaseBetting)
	acting := phase == game.PhasePlayerTurns && m.humanCanAct()
	m.keys.Hit.SetEnabled(acting)
	m.keys.Stand.SetEnabled(acting)
	canDouble := acting && m.engine.Seats()[m.engine.HumanIndex()].CanDouble()
	m.keys.Double.SetEnabled(canDouble)
	betting := phase == game.PhaseBetting && m.engine.HumanIndex() >= 0
	m.keys.BetUp.SetEnabled(betting)
	m.keys.BetDown.SetEnabled(betting)
}

// OnEvent implements game.EventSubscriber, feeding the log pane
func (m *Model) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		m.dealerCards = 0
		m.appendLog(InfoStyle.Render(fmt.Sprintf("— Round %d —", e.Round)))

	case game.CardDealtEvent:
		if e.SeatIndex == game.DealerSeat {
			m.dealerCards++
			if m.dealerCards == 1 {
				m.appendLog("Dealer takes a card face down")
			} else {
				m.appendLog(fmt.Sprintf("Dealer shows %s", m.renderCard(e.Card)))
			}
			return
		}
		seat := m.engine.Seats()[e.SeatIndex]
		m.appendLog(fmt.Sprintf("%s is dealt %s (%d)", seat.Name, m.renderCard(e.Card), e.HandValue))

	case game.SeatActionEvent:
		switch e.Action {
		case game.ActionHit:
			m.appendLog(fmt.Sprintf("%s hits: %s (%d)", e.Name, m.renderCard(*e.Card), e.HandValue))
		case game.ActionDouble:
			m.appendLog(fmt.Sprintf("%s doubles to %d: %s (%d)", e.Name, e.Bet, m.renderCard(*e.Card), e.HandValue))
		default:
			m.appendLog(fmt.Sprintf("%s stands on %d", e.Name, e.HandValue))
		}
		if e.Status == game.Busted {
			m.appendLog(ErrorStyle.Render(fmt.Sprintf("%s busts!", e.Name)))
		}

	case game.DealerActionEvent:
		if e.Card != nil {
			m.appendLog(fmt.Sprintf("Dealer draws %s (%d)", m.renderCard(*e.Card), e.HandValue))
		}
		switch e.Status {
		case game.Busted:
			m.appendLog(SuccessStyle.Render(fmt.Sprintf("Dealer busts on %d!", e.HandValue)))
		case game.Blackjack:
			m.appendLog(ErrorStyle.Render("Dealer has blackjack"))
		case game.Stand:
			m.appendLog(fmt.Sprintf("Dealer stands on %d", e.HandValue))
		}

	case game.RoundEndEvent:
		for _, outcome := range e.Outcomes {
			name := e.Seats[outcome.SeatIndex].Name
			m.appendLog(fmt.Sprintf("%s: %s (+%d)", name, outcome.Result, outcome.BalanceDelta))
		}
	}
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("♠ ♥ Blackjack ♦ ♣"))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Round %d · min bet %d", m.engine.Round(), m.engine.MinBet())))
	b.WriteString("\n\n")

	b.WriteString(m.renderDealer())
	b.WriteString("\n\n")
	for i, seat := range m.engine.Seats() {
		b.WriteString(m.renderSeat(i, seat))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.message)
	b.WriteString("\n\n")

	if lines := m.recentLog(8); len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) recentLog(n int) []string {
	if len(m.logLines) <= n {
		return m.logLines
	}
	return m.logLines[len(m.logLines)-n:]
}

// renderDealer shows the house hand. The hole card stays hidden until
// the dealer's turn.
func (m *Model) renderDealer() string {
	dealer := m.engine.Dealer()
	cards := dealer.Hand.Cards()
	if len(cards) == 0 {
		return DealerStyle.Render("Dealer") + InfoStyle.Render("  (no cards)")
	}

	var parts []string
	if m.dealerRevealed() {
		for _, card := range cards {
			parts = append(parts, m.renderCard(card))
		}
		return fmt.Sprintf("%s  %s  %s",
			DealerStyle.Render("Dealer"),
			strings.Join(parts, " "),
			InfoStyle.Render(fmt.Sprintf("(%d %s)", dealer.Hand.Value(), dealer.Status)))
	}

	parts = append(parts, HiddenCardStyle.Render("[??]"))
	for _, card := range cards[1:] {
		parts = append(parts, m.renderCard(card))
	}
	return fmt.Sprintf("%s  %s", DealerStyle.Render("Dealer"), strings.Join(parts, " "))
}

func (m *Model) dealerRevealed() bool {
	switch m.engine.Phase() {
	case game.PhaseDealerTurn, game.PhaseSettlement:
		return true
	case game.PhaseIdle:
		return m.engine.Dealer().Hand.Size() > 0
	default:
		return false
	}
}

func (m *Model) renderSeat(idx int, seat *game.Seat) string {
	style := SeatStyle
	marker := "  "
	if idx == m.engine.HumanIndex() && m.engine.Phase() == game.PhasePlayerTurns && seat.Status == game.Alive {
		style = ActiveSeatStyle
		marker = "▸ "
	}

	var cards []string
	for _, card := range seat.Hand.Cards() {
		cards = append(cards, m.renderCard(card))
	}
	hand := strings.Join(cards, " ")
	if hand == "" {
		hand = InfoStyle.Render("--")
	}

	line := fmt.Sprintf("%s%-10s %s  %s",
		marker,
		seat.Name,
		style.Render(fmt.Sprintf("balance %-4d bet %-3d", seat.Balance, seat.Bet)),
		hand)
	if seat.Hand.Size() > 0 {
		line += InfoStyle.Render(fmt.Sprintf("  (%d %s)", seat.Hand.Value(), seat.Status))
	} else if seat.Status == game.Dead {
		line += ErrorStyle.Render("  (out)")
	}
	return line
}

func (m *Model) renderCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render("[" + card.String() + "]")
	}
	return BlackCardStyle.Render("[" + card.String() + "]")
}
