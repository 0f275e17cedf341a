package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// GameConfig represents the complete table configuration
type GameConfig struct {
	Table TableSettings `hcl:"table,block"`
	Seats []SeatConfig  `hcl:"seat,block"`
}

// TableSettings contains table-level configuration
type TableSettings struct {
	StartingBalance int    `hcl:"starting_balance,optional"`
	MinBet          int    `hcl:"min_bet,optional"`
	ResultsFile     string `hcl:"results_file,optional"`
	LogFile         string `hcl:"log_file,optional"`
}

// SeatConfig defines one seat at the table. An empty strategy marks
// the human-controlled seat; "basic" and "advanced" are AI strategies.
type SeatConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	Balance  int    `hcl:"balance,optional"`
}

// DefaultConfig returns the classic three-seat table: one human seat
// and two advanced AI opponents, everyone starting with 50 units.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Table: TableSettings{
			StartingBalance: 50,
			MinBet:          10,
			ResultsFile:     "results.txt",
			LogFile:         "blackjack.log",
		},
		Seats: []SeatConfig{
			{Name: "You"},
			{Name: "Hal", Strategy: "advanced"},
			{Name: "Bishop", Strategy: "advanced"},
		},
	}
}

// Load reads table configuration from an HCL file. A missing file
// yields the default table.
func Load(filename string) (*GameConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg GameConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *GameConfig) {
	defaults := DefaultConfig()
	if cfg.Table.StartingBalance == 0 {
		cfg.Table.StartingBalance = defaults.Table.StartingBalance
	}
	if cfg.Table.MinBet == 0 {
		cfg.Table.MinBet = defaults.Table.MinBet
	}
	if cfg.Table.ResultsFile == "" {
		cfg.Table.ResultsFile = defaults.Table.ResultsFile
	}
	if cfg.Table.LogFile == "" {
		cfg.Table.LogFile = defaults.Table.LogFile
	}
	if len(cfg.Seats) == 0 {
		cfg.Seats = defaults.Seats
	}
	for i := range cfg.Seats {
		if cfg.Seats[i].Balance == 0 {
			cfg.Seats[i].Balance = cfg.Table.StartingBalance
		}
	}
}

func validate(cfg *GameConfig) error {
	if len(cfg.Seats) < 2 {
		return fmt.Errorf("config: at least two seats required, got %d", len(cfg.Seats))
	}
	humans := 0
	for _, seat := range cfg.Seats {
		switch seat.Strategy {
		case "":
			humans++
		case "basic", "advanced":
		default:
			return fmt.Errorf("config: seat %q has unknown strategy %q", seat.Name, seat.Strategy)
		}
	}
	if humans > 1 {
		return fmt.Errorf("config: at most one human seat allowed, got %d", humans)
	}
	return nil
}
