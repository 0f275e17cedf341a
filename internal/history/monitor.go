// Package history records settled rounds to a results file. The
// monitor is a read-only observer of engine events and has no
// influence on game behaviour.
package history

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Config configures a round-history monitor
type Config struct {
	// Path of the results file. Defaults to "results.txt".
	Path string

	// GameName is written in the file header.
	GameName string

	// FlushRounds is the number of buffered rounds before the writer
	// is flushed. Defaults to 10.
	FlushRounds int

	// FlushInterval is how often FlushLoop flushes regardless of the
	// round count. Defaults to 10 seconds.
	FlushInterval time.Duration

	// Clock abstracts time for deterministic testing. Defaults to the
	// real clock.
	Clock quartz.Clock
}

// Monitor subscribes to engine events and appends a snapshot of every
// settled round to the results file.
type Monitor struct {
	cfg    Config
	logger *log.Logger

	mu      sync.Mutex
	file    *os.File
	w       *bufio.Writer
	pending int
	rounds  int
}

// NewMonitor creates a monitor and writes the game header
func NewMonitor(cfg Config, logger *log.Logger) (*Monitor, error) {
	if cfg.Path == "" {
		cfg.Path = "results.txt"
	}
	if cfg.FlushRounds <= 0 {
		cfg.FlushRounds = 10
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	file, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("history: create results file: %w", err)
	}

	m := &Monitor{
		cfg:    cfg,
		logger: logger,
		file:   file,
		w:      bufio.NewWriter(file),
	}
	fmt.Fprintf(m.w, "-- New game: %s (%s)\n",
		cfg.GameName, m.cfg.Clock.Now().Format(time.RFC3339))
	return m, nil
}

// OnEvent implements game.EventSubscriber. Only round-end events are
// recorded; everything else is ignored.
func (m *Monitor) OnEvent(event game.GameEvent) {
	end, ok := event.(game.RoundEndEvent)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeRound(end)
	m.rounds++
	m.pending++
	if m.pending >= m.cfg.FlushRounds {
		if err := m.w.Flush(); err != nil {
			m.logger.Error("results flush failed", "error", err, "path", m.cfg.Path)
		}
		m.pending = 0
	}
}

// Rounds returns the number of rounds recorded so far
func (m *Monitor) Rounds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rounds
}

// Flush forces buffered rounds to disk
func (m *Monitor) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = 0
	return m.w.Flush()
}

// FlushLoop flushes buffered rounds on every interval tick until the
// context is cancelled. It runs in the calling goroutine.
func (m *Monitor) FlushLoop(ctx context.Context) error {
	ticker := m.cfg.Clock.TickerFunc(ctx, m.cfg.FlushInterval, func() error {
		if err := m.Flush(); err != nil {
			m.logger.Error("periodic results flush failed", "error", err, "path", m.cfg.Path)
		}
		return nil
	}, "history-flush")
	return ticker.Wait()
}

// Close flushes and closes the results file
func (m *Monitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.w.Flush(); err != nil {
		m.file.Close()
		return fmt.Errorf("history: flush on close: %w", err)
	}
	return m.file.Close()
}

func (m *Monitor) writeRound(end game.RoundEndEvent) {
	fmt.Fprintf(m.w, "-- Round %d (%s) %s\n",
		end.Round,
		m.cfg.Clock.Now().Format("15:04:05"),
		strings.Repeat("-", 40))
	for _, seat := range end.Seats {
		fmt.Fprintf(m.w, "Seat: %-10s Balance: %-6d Bet: %-4d Status: %-10s Value: %-3d Hand: %s\n",
			seat.Name, seat.Balance, seat.Bet, seat.Status, seat.HandValue, formatCards(seat.Cards))
	}
	fmt.Fprintf(m.w, "Dealer: Status: %-10s Value: %-3d Hand: %s\n",
		end.Dealer.Status, end.Dealer.HandValue, formatCards(end.Dealer.Cards))
	for _, outcome := range end.Outcomes {
		fmt.Fprintf(m.w, "Result: %-10s %s (+%d)\n",
			end.Seats[outcome.SeatIndex].Name, outcome.Result, outcome.BalanceDelta)
	}
	fmt.Fprintln(m.w)
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}
