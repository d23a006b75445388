// Package storage persists the portfolio state as a single JSON document.
// Writes are staged fully and committed with an atomic rename so a crash
// mid-write can never leave cash and positions inconsistent with each other.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/models"
)

// CurrentVersion is the state schema version written by this build.
const CurrentVersion = "1.1"

// Init writes a fresh state file seeded with starting cash. It refuses to
// overwrite an existing file.
func Init(path string, startingCash decimal.Decimal) (models.PortfolioState, error) {
	if _, err := os.Stat(path); err == nil {
		return models.PortfolioState{}, fmt.Errorf("state file %s already exists", path)
	}

	s := models.PortfolioState{
		Version:      CurrentVersion,
		StartingCash: startingCash,
		CashBalance:  startingCash,
		Positions:    []models.Position{},
		Benchmark: models.BenchmarkState{
			Shares: map[string]decimal.Decimal{},
		},
		StopFloors: map[string]decimal.Decimal{},
	}

	if err := Save(path, s); err != nil {
		return models.PortfolioState{}, err
	}
	return s, nil
}

// Load reads and, when needed, migrates the state file. Migrated state is
// saved back immediately so the file always matches CurrentVersion on disk.
func Load(path string) (models.PortfolioState, error) {
	var s models.PortfolioState

	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading state file: %w", err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("decoding state file %s: %w", path, err)
	}

	if migrate(&s) {
		if err := Save(path, s); err != nil {
			return s, fmt.Errorf("saving migrated state: %w", err)
		}
	}
	return s, nil
}

// migrate upgrades older schemas in place and reports whether anything
// changed.
func migrate(s *models.PortfolioState) bool {
	updated := false

	// 1.0 -> 1.1: stop floors and benchmark co-tracking were added. Older
	// files carry neither; initialize them empty.
	if s.Version < "1.1" {
		if s.StopFloors == nil {
			s.StopFloors = map[string]decimal.Decimal{}
		}
		if s.Benchmark.Shares == nil {
			s.Benchmark.Shares = map[string]decimal.Decimal{}
		}
		s.Version = "1.1"
		updated = true
	}

	return updated
}

// Save stages the full state to a temp file, syncs it, and renames it over
// the destination. Monetary fields are rounded to two places on the way out
// so repeated load/save cycles cannot drift.
func Save(path string, s models.PortfolioState) error {
	s.Version = CurrentVersion
	s.UpdatedAt = time.Now().Format(time.RFC3339)
	roundMonetary(&s)

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing temp state file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

func roundMonetary(s *models.PortfolioState) {
	s.StartingCash = s.StartingCash.Round(2)
	s.CashBalance = s.CashBalance.Round(2)
	s.RealizedPnLTotal = s.RealizedPnLTotal.Round(2)
	s.Benchmark.TotalInvested = s.Benchmark.TotalInvested.Round(2)

	for i := range s.RealizedTrades {
		t := &s.RealizedTrades[i]
		t.RealizedPnL = t.RealizedPnL.Round(2)
		t.RealizedPnLPct = t.RealizedPnLPct.Round(2)
	}
	for sym, floor := range s.StopFloors {
		s.StopFloors[sym] = floor.Round(2)
	}
	// Entry prices keep their full precision: 26 shares at 10.7845 must
	// not become 10.78 on the next load.
}
