// Package cli wires configuration, logging, persistence, and the market
// provider around the core packages. All file and network I/O happens here;
// the parser, ledger, policy engine, and tracker never touch the boundary.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/SteppieD/tradinggame/internal/benchmark"
	"github.com/SteppieD/tradinggame/internal/config"
	"github.com/SteppieD/tradinggame/internal/ledger"
	"github.com/SteppieD/tradinggame/internal/market"
	"github.com/SteppieD/tradinggame/internal/market/alpaca"
	"github.com/SteppieD/tradinggame/internal/models"
	"github.com/SteppieD/tradinggame/internal/stops"
	"github.com/SteppieD/tradinggame/internal/storage"
)

// App carries the shared dependencies of every command.
type App struct {
	Config config.Config
	Log    zerolog.Logger

	// Provider is lazily constructed so offline commands never need
	// market credentials. Tests inject a fake.
	Provider market.QuoteProvider
}

// provider returns the quote source, defaulting to Alpaca.
func (a *App) provider() market.QuoteProvider {
	if a.Provider == nil {
		if missing := config.RequireMarketCredentials(); len(missing) > 0 {
			a.Log.Warn().Strs("missing", missing).
				Msg("market credentials not set; quote fetches will fail")
		}
		a.Provider = alpaca.NewProvider()
	}
	return a.Provider
}

// loadState reads the persisted portfolio and rebuilds the core objects.
func (a *App) loadState() (models.PortfolioState, *ledger.Ledger, *benchmark.Tracker, error) {
	state, err := storage.Load(a.Config.StateFile)
	if err != nil {
		return state, nil, nil, fmt.Errorf("loading portfolio (run 'tradinggame init' first?): %w", err)
	}

	l := ledger.FromState(state)
	t := benchmark.FromState(a.Config.BenchmarkSymbols, state.Benchmark)
	return state, l, t, nil
}

// saveState reassembles the persisted document from the live objects and
// commits it atomically.
func (a *App) saveState(prev models.PortfolioState, l *ledger.Ledger, t *benchmark.Tracker) error {
	prev.StartingCash = l.StartingCash()
	prev.CashBalance = l.Cash()
	prev.Positions = l.Positions()
	prev.RealizedTrades = l.RealizedTrades()
	prev.RealizedPnLTotal = l.RealizedTotal()
	prev.Benchmark = t.State()

	if err := storage.Save(a.Config.StateFile, prev); err != nil {
		return fmt.Errorf("saving portfolio: %w", err)
	}
	return nil
}

// fetchQuotes best-effort collects quotes, logging each miss.
func (a *App) fetchQuotes(symbols []string) map[string]models.Quote {
	quotes, missing := market.Fetch(a.provider(), symbols)
	for _, sym := range missing {
		a.Log.Warn().Str("symbol", sym).Msg("quote unavailable")
	}
	return quotes
}

// stopEngine builds the policy engine with environment overrides applied.
func (a *App) stopEngine() *stops.Engine {
	policy := stops.DefaultPolicy()
	if a.Config.ATRMultiple > 0 {
		policy.ATRMultiple = decimal.NewFromFloat(a.Config.ATRMultiple)
	}
	if a.Config.PriceTick > 0 {
		policy.PriceTick = decimal.NewFromFloat(a.Config.PriceTick)
	}

	estimator := stops.DefaultEstimator()
	if a.Config.BaseVolatility > 0 {
		estimator.Fallback = decimal.NewFromFloat(a.Config.BaseVolatility)
	}

	return stops.NewEngine(policy, estimator)
}
