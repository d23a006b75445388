package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SteppieD/tradinggame/internal/models"
	"github.com/SteppieD/tradinggame/internal/report"
)

func newStopsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stops",
		Short: "Recommend protective stop-limit orders for open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, l, t, err := app.loadState()
			if err != nil {
				return err
			}

			positions := l.Positions()
			symbols := make([]string, 0, len(positions))
			for _, p := range positions {
				symbols = append(symbols, p.Symbol)
			}
			quotes := app.fetchQuotes(symbols)

			engine := app.stopEngine()
			var recs []models.StopRecommendation
			floorsRaised := false

			for _, pos := range positions {
				q, ok := quotes[pos.Symbol]
				if !ok {
					// No price means no meaningful recommendation;
					// skip rather than anchor the stop to stale data.
					app.Log.Warn().Str("symbol", pos.Symbol).
						Msg("skipping stop recommendation: no quote")
					continue
				}

				rec, err := engine.Recommend(pos, q.Price)
				if err != nil {
					app.Log.Warn().Str("symbol", pos.Symbol).Err(err).
						Msg("skipping stop recommendation")
					continue
				}

				rec, floor := engine.ApplyFloor(rec, state.StopFloors[pos.Symbol])
				if !floor.Equal(state.StopFloors[pos.Symbol]) {
					state.StopFloors[pos.Symbol] = floor
					floorsRaised = true
				}
				recs = append(recs, rec)
			}

			// Drop floors for positions that no longer exist.
			for sym := range state.StopFloors {
				if _, held := l.Position(sym); !held {
					delete(state.StopFloors, sym)
					floorsRaised = true
				}
			}

			if floorsRaised {
				if err := app.saveState(state, l, t); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), report.StopOrders(recs))
			return nil
		},
	}
}
