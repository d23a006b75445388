package cli

import (
	"github.com/SteppieD/tradinggame/internal/benchmark"
	"github.com/SteppieD/tradinggame/internal/ledger"
	"github.com/SteppieD/tradinggame/internal/models"
)

// applyIntents runs a batch of trade intents through the ledger in order.
// Rejected intents are collected, not fatal: each Apply is all-or-nothing, so
// a rejection leaves nothing to roll back and the batch continues.
//
// Every applied BUY is co-tracked against the benchmark references at their
// current quotes; a failed reference fetch is logged and skipped without
// touching the running totals.
func (a *App) applyIntents(l *ledger.Ledger, t *benchmark.Tracker, intents []models.TradeIntent) ([]ledger.AppliedEffect, []error) {
	var effects []ledger.AppliedEffect
	var rejected []error

	// Reference quotes are fetched once per batch, and only if a buy
	// actually lands.
	var refQuotes map[string]models.Quote

	for _, intent := range intents {
		effect, err := l.Apply(intent)
		if err != nil {
			a.Log.Warn().Str("symbol", intent.Symbol).Err(err).Msg("trade rejected")
			rejected = append(rejected, err)
			continue
		}
		effects = append(effects, effect)

		if intent.Side != models.SideBuy {
			continue
		}

		if refQuotes == nil {
			refQuotes = a.fetchQuotes(t.Symbols())
		}
		cost := intent.TotalValue().Add(intent.Commission)
		if err := t.RecordBuy(cost, refQuotes); err != nil {
			a.Log.Warn().Err(err).Msg("benchmark co-tracking skipped")
		}
	}

	return effects, rejected
}
