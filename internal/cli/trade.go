package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/SteppieD/tradinggame/internal/config"
	"github.com/SteppieD/tradinggame/internal/models"
	"github.com/SteppieD/tradinggame/internal/parser"
	"github.com/SteppieD/tradinggame/internal/report"
)

// newTradeCmd builds the direct-entry buy and sell commands; both feed the
// same ledger pipeline as paste.
func newTradeCmd(app *App, use string) *cobra.Command {
	var execTime string
	var commission float64

	side := models.SideBuy
	short := "Buy shares directly, without the text parser"
	if use == "sell" {
		side = models.SideSell
		short = "Sell shares directly, without the text parser"
	}

	cmd := &cobra.Command{
		Use:     use + " SYMBOL QTY PRICE",
		Short:   short,
		Args:    cobra.ExactArgs(3),
		Example: fmt.Sprintf("  tradinggame %s CHPT 26 10.7845 --time '12:35 PM'", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, err := buildIntent(app, side, args, execTime, commission, cmd.Flags().Changed("commission"))
			if err != nil {
				return err
			}

			state, l, t, err := app.loadState()
			if err != nil {
				return err
			}

			effects, rejected := app.applyIntents(l, t, []models.TradeIntent{intent})
			if len(effects) > 0 {
				if err := app.saveState(state, l, t); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Applied(effects, rejected, nil))
			if len(rejected) > 0 {
				return fmt.Errorf("trade not applied")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&execTime, "time", parser.MarketOpen, "execution time, e.g. '09:35 AM'")
	cmd.Flags().Float64Var(&commission, "commission", 0, "commission for this trade (default: account setting)")
	return cmd
}

func buildIntent(app *App, side models.Side, args []string, execTime string, commission float64, commissionSet bool) (models.TradeIntent, error) {
	symbol := strings.ToUpper(args[0])

	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || qty <= 0 {
		return models.TradeIntent{}, fmt.Errorf("quantity must be a positive integer, got %q", args[1])
	}

	price, err := decimal.NewFromString(args[2])
	if err != nil || !price.IsPositive() {
		return models.TradeIntent{}, fmt.Errorf("price must be a positive number, got %q", args[2])
	}

	fee := app.Config.DefaultCommission
	if commissionSet {
		fee = decimal.NewFromFloat(commission)
		if fee.IsNegative() {
			return models.TradeIntent{}, fmt.Errorf("commission must not be negative")
		}
	}

	executedAt, err := executionTimestamp(execTime)
	if err != nil {
		return models.TradeIntent{}, fmt.Errorf("invalid --time %q: want e.g. '09:35 AM'", execTime)
	}

	return models.TradeIntent{
		Symbol:     symbol,
		Side:       side,
		Quantity:   qty,
		Price:      price,
		Commission: fee,
		ExecutedAt: executedAt,
	}, nil
}

func executionTimestamp(clockTok string) (time.Time, error) {
	clock, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(clockTok)))
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now().In(config.EasternTime)
	return time.Date(now.Year(), now.Month(), now.Day(),
		clock.Hour(), clock.Minute(), 0, 0, config.EasternTime), nil
}
