package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// GameResult represents the outcome of a single simulated game for the
// tracked seat (the first seat at the table).
type GameResult struct {
	NetUnits     float64 // Final balance minus starting balance
	Seed         int64   // RNG seed for this game (for replay)
	Rounds       int     // Rounds played before the game ended
	FinalBalance int     // Tracked seat's balance when the game ended
	Survived     bool    // Seat still solvent when the game ended
	Wins         int     // Rounds won by the tracked seat
	Losses       int     // Rounds lost by the tracked seat
	Pushes       int     // Rounds pushed by the tracked seat
	Blackjacks   int     // Naturals dealt to the tracked seat
}

// Statistics tracks aggregate results across a batch of simulated games
type Statistics struct {
	Games     int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	// Track ALL results by how the game ended, not just survivals
	Survivals     int     // Games where the seat was still solvent at the cap
	BustOuts      int     // Games where the seat went dead
	SurvivalUnits float64 // Units from games that reached the cap (wins AND losses)
	BustUnits     float64 // Units from games that ended in a bust-out
	AllUnits      float64 // Total units for sanity check

	// Round-level analytics for the tracked seat
	RoundsPlayed int
	Wins         int
	Losses       int
	Pushes       int
	Blackjacks   int

	// Bankroll analytics
	MaxFinalBalance int
	MaxRounds       int
}

// Mean returns the arithmetic mean of net units per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Games)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// SurvivalRate returns the fraction of games where the tracked seat was
// still solvent when the game ended.
func (s *Statistics) SurvivalRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Survivals) / float64(s.Games)
}

// MeanRounds returns the average number of rounds played per game
func (s *Statistics) MeanRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.RoundsPlayed) / float64(s.Games)
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	units := result.NetUnits
	s.Games++
	s.SumUnits += units
	s.SumUnits2 += units * units
	s.Values = append(s.Values, units)

	// Track ALL results (wins and losses) in appropriate buckets
	if result.Survived {
		s.Survivals++
		s.SurvivalUnits += units
	} else {
		s.BustOuts++
		s.BustUnits += units
	}
	s.AllUnits += units // Total for sanity check

	s.RoundsPlayed += result.Rounds
	s.Wins += result.Wins
	s.Losses += result.Losses
	s.Pushes += result.Pushes
	s.Blackjacks += result.Blackjacks

	if result.FinalBalance > s.MaxFinalBalance {
		s.MaxFinalBalance = result.FinalBalance
	}
	if result.Rounds > s.MaxRounds {
		s.MaxRounds = result.Rounds
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllUnits-s.SurvivalUnits-s.BustUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllUnits=%.6f, SurvivalUnits=%.6f, BustUnits=%.6f",
			s.AllUnits, s.SurvivalUnits, s.BustUnits)
	}

	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	if s.Survivals+s.BustOuts != s.Games {
		return fmt.Errorf("survivals (%d) plus bust-outs (%d) does not match games count (%d)",
			s.Survivals, s.BustOuts, s.Games)
	}

	// Each round produces exactly one outcome for the tracked seat
	if s.Wins+s.Losses+s.Pushes != s.RoundsPlayed {
		return fmt.Errorf("outcome total (%d) does not match rounds played (%d)",
			s.Wins+s.Losses+s.Pushes, s.RoundsPlayed)
	}

	return nil
}

// Summary renders a human-readable report of the batch
func (s *Statistics) Summary() string {
	var b strings.Builder
	low, high := s.ConfidenceInterval95()
	fmt.Fprintf(&b, "Games:          %d\n", s.Games)
	fmt.Fprintf(&b, "Rounds:         %d (%.1f per game)\n", s.RoundsPlayed, s.MeanRounds())
	fmt.Fprintf(&b, "Net units/game: %+.2f (95%% CI %+.2f to %+.2f)\n", s.Mean(), low, high)
	fmt.Fprintf(&b, "Median:         %+.2f\n", s.Median())
	fmt.Fprintf(&b, "Std dev:        %.2f\n", s.StdDev())
	fmt.Fprintf(&b, "Survival rate:  %.1f%% (%d busted out)\n", s.SurvivalRate()*100, s.BustOuts)
	fmt.Fprintf(&b, "Win/Lose/Push:  %d/%d/%d\n", s.Wins, s.Losses, s.Pushes)
	fmt.Fprintf(&b, "Blackjacks:     %d\n", s.Blackjacks)
	fmt.Fprintf(&b, "Best finish:    %d units after %d rounds\n", s.MaxFinalBalance, s.MaxRounds)
	return b.String()
}
