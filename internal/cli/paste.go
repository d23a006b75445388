package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SteppieD/tradinggame/internal/parser"
	"github.com/SteppieD/tradinggame/internal/report"
	"github.com/SteppieD/tradinggame/internal/storage"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a fresh portfolio state file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := storage.Init(app.Config.StateFile, app.Config.StartingCash)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s with $%s cash\n",
				app.Config.StateFile, s.CashBalance.StringFixed(2))
			return nil
		},
	}
}

func newPasteCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Parse pasted trade text and apply it to the ledger",
		Long: `Reads free-form trade lines from stdin (or --file) and books them.

Recognized formats include:
  BUY 50 AAPL @ 150.25
  AAPL 50 shares bought at $150.25
  50 AAPL 150.25 BUY
  Filled Buy 50 AAPL @ $150.25 at 09:35 AM
  AAPL BUY 50 150.25

Lines that match no format are reported and skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			state, l, t, err := app.loadState()
			if err != nil {
				return err
			}

			intents, skipped := parser.New(app.Config.DefaultCommission).Parse(text)
			effects, rejected := app.applyIntents(l, t, intents)

			if len(effects) > 0 {
				if err := app.saveState(state, l, t); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Applied(effects, rejected, skipped))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read trade text from a file instead of stdin")
	return cmd
}

func readInput(stdin io.Reader, file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading trade text: %w", err)
		}
		return string(b), nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}
