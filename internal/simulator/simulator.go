// Package simulator plays large batches of AI-only games to measure
// how a strategy performs over many bankrolls.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// SeatSpec describes one AI seat in a simulated game. The first seat
// is the tracked seat whose results feed the statistics.
type SeatSpec struct {
	Name     string
	Strategy string
	Balance  int
}

// Config holds configuration for running simulations
type Config struct {
	// Games is the number of independent games to play.
	Games int

	// MaxRounds caps how many rounds a single game may run.
	// Defaults to 100.
	MaxRounds int

	// Seats at the table. All seats must carry a strategy; the
	// simulator never drives a human seat.
	Seats []SeatSpec

	// MinBet for the table. Defaults to 10.
	MinBet int

	// Seed is the base RNG seed. Each game derives its own seed from
	// it, so a batch replays exactly given the same seed.
	Seed int64

	// Concurrency bounds how many games run at once. Defaults to
	// GOMAXPROCS.
	Concurrency int

	// Logger for per-game debug output. Defaults to a discard logger.
	Logger *log.Logger
}

// Simulator runs blackjack game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.MaxRounds <= 0 {
		config.MaxRounds = 100
	}
	if config.MinBet <= 0 {
		config.MinBet = 10
	}
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays the configured batch of games and returns aggregate
// statistics for the tracked seat. Games run concurrently but results
// are accumulated in game order, so the aggregate is deterministic for
// a given seed.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("simulator: games must be positive, got %d", s.config.Games)
	}
	if len(s.config.Seats) < 2 {
		return nil, fmt.Errorf("simulator: at least two seats required, got %d", len(s.config.Seats))
	}
	for _, spec := range s.config.Seats {
		if spec.Strategy == "" {
			return nil, fmt.Errorf("simulator: seat %q has no strategy", spec.Name)
		}
	}

	results := make([]statistics.GameResult, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i := 0; i < s.config.Games; i++ {
		g.Go(func() error {
			gameSeed := s.config.Seed + int64(i)
			result, err := s.playGame(ctx, gameSeed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, gameSeed, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, result := range results {
		stats.Add(result)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playGame runs one game to its end: the round cap, the tracked seat
// going bankrupt, or the whole table going bankrupt.
func (s *Simulator) playGame(ctx context.Context, seed int64) (statistics.GameResult, error) {
	result := statistics.GameResult{Seed: seed}

	seats := make([]*game.Seat, len(s.config.Seats))
	for i, spec := range s.config.Seats {
		strategy, err := game.NewStrategy(spec.Strategy)
		if err != nil {
			return result, err
		}
		seats[i] = game.NewAISeat(spec.Name, spec.Balance, strategy)
	}
	engine := game.NewEngine(seats, game.Options{
		MinBet: s.config.MinBet,
		Seed:   seed,
		Logger: s.config.Logger,
	})

	tracked := seats[0]
	startBalance := tracked.Balance

	for round := 0; round < s.config.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if tracked.Status == game.Dead || engine.IsGameOver() {
			break
		}

		if err := engine.StartRound(); err != nil {
			return result, err
		}
		if _, err := engine.DealInitialCards(); err != nil {
			return result, err
		}
		if tracked.Status == game.Blackjack {
			result.Blackjacks++
		}
		if _, err := engine.RunAITurns(); err != nil {
			return result, err
		}
		if _, err := engine.RunDealerTurn(); err != nil {
			return result, err
		}
		outcomes, err := engine.Settle()
		if err != nil {
			return result, err
		}

		result.Rounds++
		for _, outcome := range outcomes {
			if outcome.SeatIndex != 0 {
				continue
			}
			switch outcome.Result {
			case game.ResultWin:
				result.Wins++
			case game.ResultLose:
				result.Losses++
			case game.ResultPush:
				result.Pushes++
			}
		}
	}

	result.FinalBalance = tracked.Balance
	result.NetUnits = float64(tracked.Balance - startBalance)
	result.Survived = tracked.Status != game.Dead
	return result, nil
}
