package history

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func roundEnd(t *testing.T, round int) game.RoundEndEvent {
	t.Helper()
	seats := []game.SeatSnapshot{
		{Index: 0, Name: "You", Balance: 60, Bet: 10, Status: game.Stand, HandValue: 20, Cards: deck.MustParse("KhQd")},
		{Index: 1, Name: "Hal", Balance: 40, Bet: 10, Status: game.Busted, HandValue: 22, Cards: deck.MustParse("Kh5s7c")},
	}
	dealer := game.DealerSnapshot{
		Status:    game.Stand,
		HandValue: 19,
		Cards:     deck.MustParse("9dTh"),
	}
	outcomes := []game.Outcome{
		{SeatIndex: 0, Result: game.ResultWin, BalanceDelta: 20},
		{SeatIndex: 1, Result: game.ResultLose, BalanceDelta: 0},
	}
	return game.NewRoundEndEvent(round, outcomes, seats, dealer)
}

func TestMonitorRecordsRounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	m, err := NewMonitor(Config{
		Path:        path,
		GameName:    "test table",
		FlushRounds: 1,
		Clock:       quartz.NewMock(t),
	}, testLogger())
	require.NoError(t, err)
	defer m.Close()

	m.OnEvent(roundEnd(t, 1))
	m.OnEvent(roundEnd(t, 2))
	assert.Equal(t, 2, m.Rounds())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(contents)
	assert.Contains(t, text, "-- New game: test table")
	assert.Contains(t, text, "-- Round 1")
	assert.Contains(t, text, "-- Round 2")
	assert.Contains(t, text, "Seat: You")
	assert.Contains(t, text, "Status: BUSTED")
	assert.Contains(t, text, "Dealer: Status: STAND")
	assert.Contains(t, text, "Result: You        WIN (+20)")
}

func TestMonitorIgnoresOtherEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	m, err := NewMonitor(Config{Path: path, Clock: quartz.NewMock(t)}, testLogger())
	require.NoError(t, err)
	defer m.Close()

	m.OnEvent(game.NewRoundStartEvent(1, nil))
	m.OnEvent(game.NewCardDealtEvent(0, deck.MustParse("As")[0], 11))
	assert.Zero(t, m.Rounds())
}

func TestMonitorBuffersUntilFlushThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	m, err := NewMonitor(Config{
		Path:        path,
		FlushRounds: 100,
		Clock:       quartz.NewMock(t),
	}, testLogger())
	require.NoError(t, err)
	defer m.Close()

	m.OnEvent(roundEnd(t, 1))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "-- Round 1", "round should still be buffered")

	require.NoError(t, m.Flush())
	contents, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "-- Round 1")
}

func TestMonitorPeriodicFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	mock := quartz.NewMock(t)
	m, err := NewMonitor(Config{
		Path:          path,
		FlushRounds:   100,
		FlushInterval: time.Second,
		Clock:         mock,
	}, testLogger())
	require.NoError(t, err)
	defer m.Close()

	trap := mock.Trap().TickerFunc("history-flush")
	defer trap.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.FlushLoop(ctx) }()
	trap.MustWait(ctx).MustRelease(ctx)

	m.OnEvent(roundEnd(t, 1))
	mock.Advance(time.Second).MustWait(ctx)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "-- Round 1")

	cancel()
	<-done
}

func TestMonitorCloseFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	m, err := NewMonitor(Config{Path: path, FlushRounds: 100, Clock: quartz.NewMock(t)}, testLogger())
	require.NoError(t, err)

	m.OnEvent(roundEnd(t, 1))
	require.NoError(t, m.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "-- Round 1")
}
