package cli

import (
	"github.com/spf13/cobra"

	"github.com/SteppieD/tradinggame/internal/config"
	"github.com/SteppieD/tradinggame/internal/logging"
)

// Execute loads configuration, sets up logging, and runs the command tree.
func Execute() error {
	cfg := config.Load()

	app := &App{
		Config: cfg,
		Log: logging.New(logging.Options{
			Level:      cfg.LogLevel,
			FilePath:   cfg.LogFile,
			MaxSizeMB:  cfg.MaxLogSizeMB,
			MaxBackups: cfg.MaxLogBackups,
		}),
	}

	root := &cobra.Command{
		Use:   "tradinggame",
		Short: "Single-account position ledger and protective-order advisor",
		Long: `tradinggame tracks one trading account: paste broker fills in free text,
keep cash, positions, and realized P&L consistent, and get risk-tiered
stop-limit recommendations plus an IWM/SPY benchmark comparison.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCmd(app),
		newPasteCmd(app),
		newTradeCmd(app, "buy"),
		newTradeCmd(app, "sell"),
		newStopsCmd(app),
		newStatusCmd(app),
		newBenchmarkCmd(app),
	)

	return root.Execute()
}
