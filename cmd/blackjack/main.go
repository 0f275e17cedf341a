package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#1B5E20")).
	Padding(0, 1).
	Bold(true)

type CLI struct {
	Config   string `short:"c" help:"Path to an HCL table configuration" default:"blackjack.hcl"`
	Results  string `help:"Results file path, overriding the configuration"`
	Seed     int64  `help:"RNG seed for the shuffle (0 seeds from the clock)"`
	BotsOnly bool   `help:"Play the whole table with AI strategies, no TUI"`
	Rounds   int    `help:"Round cap for a bots-only run" default:"50"`
	Debug    bool   `short:"d" help:"Log at debug level"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("A blackjack table against AI opponents."))

	if err := run(cli); err != nil {
		log.Fatal("game failed", "error", err)
	}
	kctx.Exit(0)
}

func run(cli CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Results != "" {
		cfg.Table.ResultsFile = cli.Results
	}

	logFile, err := os.OpenFile(cfg.Table.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer logFile.Close()

	level := log.InfoLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	logger.Info("starting table",
		"config", cli.Config,
		"seats", len(cfg.Seats),
		"min_bet", cfg.Table.MinBet,
		"bots_only", cli.BotsOnly)

	seats, err := buildSeats(cfg, cli.BotsOnly)
	if err != nil {
		return err
	}

	engine := game.NewEngine(seats, game.Options{
		MinBet: cfg.Table.MinBet,
		Seed:   cli.Seed,
		Logger: logger.WithPrefix("engine"),
	})

	monitor, err := history.NewMonitor(history.Config{
		Path:     cfg.Table.ResultsFile,
		GameName: fmt.Sprintf("%d-seat table", len(seats)),
	}, logger.WithPrefix("history"))
	if err != nil {
		return err
	}
	defer monitor.Close()
	engine.EventBus().Subscribe(monitor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := monitor.FlushLoop(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("history flush loop stopped", "error", err)
		}
	}()

	if cli.BotsOnly {
		return runBotsOnly(engine, cli.Rounds)
	}

	fmt.Print(titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	fmt.Println()

	program := tea.NewProgram(tui.NewModel(engine, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

// buildSeats maps the configuration onto engine seats. In bots-only
// mode the human seat plays the basic strategy instead.
func buildSeats(cfg *config.GameConfig, botsOnly bool) ([]*game.Seat, error) {
	seats := make([]*game.Seat, 0, len(cfg.Seats))
	for _, sc := range cfg.Seats {
		name := sc.Strategy
		if name == "" {
			if !botsOnly {
				seats = append(seats, game.NewSeat(sc.Name, sc.Balance))
				continue
			}
			name = "basic"
		}
		strategy, err := game.NewStrategy(name)
		if err != nil {
			return nil, err
		}
		seats = append(seats, game.NewAISeat(sc.Name, sc.Balance, strategy))
	}
	return seats, nil
}

// runBotsOnly plays rounds headless until the cap or the whole table
// goes bankrupt, printing each seat's trajectory to stdout.
func runBotsOnly(engine *game.Engine, rounds int) error {
	for round := 0; round < rounds && !engine.IsGameOver(); round++ {
		if err := engine.StartRound(); err != nil {
			return err
		}
		if _, err := engine.DealInitialCards(); err != nil {
			return err
		}
		if _, err := engine.RunAITurns(); err != nil {
			return err
		}
		if _, err := engine.RunDealerTurn(); err != nil {
			return err
		}
		if _, err := engine.Settle(); err != nil {
			return err
		}

		fmt.Printf("Round %d\n", engine.Round())
		for _, seat := range engine.Seats() {
			fmt.Printf("  %s\n", seat)
		}
		fmt.Printf("  %s\n", engine.Dealer())
	}

	fmt.Println("\nFinal standings:")
	for _, seat := range engine.Seats() {
		fmt.Printf("  %-10s %d\n", seat.Name, seat.Balance)
	}
	return nil
}
