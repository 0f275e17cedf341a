package simulator

import (
	"context"
	"strings"
	"testing"
)

func testSeats() []SeatSpec {
	return []SeatSpec{
		{Name: "Hero", Strategy: "advanced", Balance: 50},
		{Name: "Hal", Strategy: "basic", Balance: 50},
		{Name: "Bishop", Strategy: "basic", Balance: 50},
	}
}

func TestSimulatorRunsBatch(t *testing.T) {
	sim := New(Config{
		Games:     25,
		MaxRounds: 40,
		Seats:     testSeats(),
		Seed:      42,
	})

	stats, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Games != 25 {
		t.Errorf("Expected 25 games, got %d", stats.Games)
	}
	if stats.RoundsPlayed == 0 {
		t.Error("Expected rounds to be played")
	}
	if stats.MaxRounds > 40 {
		t.Errorf("Game exceeded the round cap: %d rounds", stats.MaxRounds)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid statistics, got: %v", err)
	}
}

func TestSimulatorDeterministicForSeed(t *testing.T) {
	run := func() (mean float64, rounds int) {
		t.Helper()
		sim := New(Config{
			Games:     10,
			MaxRounds: 20,
			Seats:     testSeats(),
			Seed:      7,
		})
		stats, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return stats.Mean(), stats.RoundsPlayed
	}

	mean1, rounds1 := run()
	mean2, rounds2 := run()
	if mean1 != mean2 || rounds1 != rounds2 {
		t.Errorf("Same seed produced different results: mean %f vs %f, rounds %d vs %d",
			mean1, mean2, rounds1, rounds2)
	}
}

func TestSimulatorConcurrentMatchesSequential(t *testing.T) {
	run := func(concurrency int) float64 {
		t.Helper()
		sim := New(Config{
			Games:       10,
			MaxRounds:   20,
			Seats:       testSeats(),
			Seed:        99,
			Concurrency: concurrency,
		})
		stats, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return stats.SumUnits
	}

	if sequential, concurrent := run(1), run(4); sequential != concurrent {
		t.Errorf("Concurrency changed the aggregate: %f vs %f", sequential, concurrent)
	}
}

func TestSimulatorRejectsHumanSeat(t *testing.T) {
	sim := New(Config{
		Games: 1,
		Seats: []SeatSpec{
			{Name: "You", Balance: 50},
			{Name: "Hal", Strategy: "basic", Balance: 50},
		},
		Seed: 1,
	})

	_, err := sim.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for a seat with no strategy")
	}
	if !strings.Contains(err.Error(), "no strategy") {
		t.Errorf("Expected no-strategy error, got: %v", err)
	}
}

func TestSimulatorRejectsUnknownStrategy(t *testing.T) {
	sim := New(Config{
		Games: 1,
		Seats: []SeatSpec{
			{Name: "A", Strategy: "basic", Balance: 50},
			{Name: "B", Strategy: "martingale", Balance: 50},
		},
		Seed: 1,
	})

	if _, err := sim.Run(context.Background()); err == nil {
		t.Fatal("Expected error for unknown strategy")
	}
}

func TestSimulatorRejectsZeroGames(t *testing.T) {
	sim := New(Config{Seats: testSeats()})
	if _, err := sim.Run(context.Background()); err == nil {
		t.Fatal("Expected error for zero games")
	}
}

func TestSimulatorHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(Config{
		Games:     50,
		MaxRounds: 100,
		Seats:     testSeats(),
		Seed:      3,
	})

	if _, err := sim.Run(ctx); err == nil {
		t.Fatal("Expected error from a cancelled context")
	}
}
