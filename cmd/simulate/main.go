package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/simulator"
)

type CLI struct {
	Games       int    `short:"n" help:"Number of games to simulate" default:"1000"`
	MaxRounds   int    `help:"Round cap per game" default:"100"`
	Strategy    string `short:"s" help:"Strategy for the tracked seat" enum:"basic,advanced" default:"advanced"`
	Opponents   int    `help:"Number of AI opponents at the table" default:"2"`
	Balance     int    `help:"Starting balance per seat" default:"50"`
	MinBet      int    `help:"Table minimum bet" default:"10"`
	Seed        int64  `help:"Base RNG seed (0 seeds from the clock)"`
	Concurrency int    `short:"j" help:"Concurrent games (0 = GOMAXPROCS)"`
	Report      string `help:"Write the summary to this file as well"`
	Debug       bool   `short:"d" help:"Log at debug level"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Measure blackjack strategy performance over many games."))

	level := log.WarnLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	seats := []simulator.SeatSpec{
		{Name: "Hero", Strategy: cli.Strategy, Balance: cli.Balance},
	}
	for i := 0; i < cli.Opponents; i++ {
		seats = append(seats, simulator.SeatSpec{
			Name:     fmt.Sprintf("Bot%d", i+1),
			Strategy: "basic",
			Balance:  cli.Balance,
		})
	}

	sim := simulator.New(simulator.Config{
		Games:       cli.Games,
		MaxRounds:   cli.MaxRounds,
		Seats:       seats,
		MinBet:      cli.MinBet,
		Seed:        cli.Seed,
		Concurrency: cli.Concurrency,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		logger.Fatal("simulation failed", "error", err)
	}
	elapsed := time.Since(start)

	header := fmt.Sprintf("=== %s strategy, %d games, seed %d ===\n", cli.Strategy, cli.Games, cli.Seed)
	summary := header + stats.Summary()
	fmt.Print(summary)
	fmt.Printf("\nCompleted in %s (%.0f games/sec)\n",
		elapsed.Round(time.Millisecond), float64(stats.Games)/elapsed.Seconds())

	if cli.Report != "" {
		if err := fileutil.WriteFileAtomic(cli.Report, []byte(summary), 0644); err != nil {
			logger.Fatal("failed to write report", "error", err)
		}
		fmt.Printf("Report written to %s\n", cli.Report)
	}

	kctx.Exit(0)
}
