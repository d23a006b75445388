package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/SteppieD/tradinggame/internal/report"
)

var hundred = decimal.NewFromInt(100)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Mark the portfolio to market and print a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, _, err := app.loadState()
			if err != nil {
				return err
			}

			positions := l.Positions()
			symbols := make([]string, 0, len(positions))
			for _, p := range positions {
				symbols = append(symbols, p.Symbol)
			}

			snap := l.MarkToMarket(app.fetchQuotes(symbols))
			fmt.Fprint(cmd.OutOrStdout(), report.Snapshot(snap))
			fmt.Fprint(cmd.OutOrStdout(), report.RealizedTail(l.RealizedTrades(), 5))
			return nil
		},
	}
}

func newBenchmarkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "benchmark",
		Short: "Compare the account's return against the reference instruments",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, t, err := app.loadState()
			if err != nil {
				return err
			}

			positions := l.Positions()
			symbols := make([]string, 0, len(positions)+2)
			for _, p := range positions {
				symbols = append(symbols, p.Symbol)
			}
			symbols = append(symbols, t.Symbols()...)

			quotes := app.fetchQuotes(symbols)
			snap := l.MarkToMarket(quotes)

			accountReturnPct := decimal.Zero
			if l.StartingCash().IsPositive() {
				accountReturnPct = snap.TotalValue.Sub(l.StartingCash()).
					Div(l.StartingCash()).Mul(hundred)
			}

			cmp, err := t.Compare(quotes, accountReturnPct)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Benchmark(cmp, snap.TotalValue))
			return nil
		},
	}
}
