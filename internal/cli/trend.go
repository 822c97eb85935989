package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/models"
)

func addTrendCommand(rootCmd *cobra.Command, app *App) {
	var ticker string

	cmd := &cobra.Command{
		Use:   "trend [key...]",
		Short: "Check trend consistency across archived results",
		Long: `Run a consistency check over a same-ticker subset of the archive.
Select entries by key, or pass --ticker to use every archived result for
that ticker. At least two results are required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAnalyzer(); err != nil {
				return err
			}

			var history []models.AnalysisResult
			switch {
			case ticker != "":
				ticker = strings.ToUpper(strings.TrimSpace(ticker))
				for _, e := range app.Archive.List() {
					if e.Ticker == ticker {
						history = append(history, e)
					}
				}
			case len(args) > 0:
				keys := make([]string, len(args))
				for i, arg := range args {
					keys[i] = app.resolveKey(arg)
				}
				subset, err := app.Archive.SelectSubset(keys)
				if err != nil {
					return err
				}
				history = subset
			default:
				return apperrors.NewSelectionError("pass archive keys or --ticker")
			}

			app.Output.Info("checking consistency across %d result(s) ...", len(history))
			result, err := app.Checker.Run(context.Background(), history)
			if err != nil {
				return err
			}

			if app.jsonMode {
				return app.Output.JSON(result)
			}

			app.Output.Header("═══ TREND: " + result.Ticker + " ═══")
			app.Output.Plain("  verdict:     %s", app.Output.Verdict(result.TrendVerdict))
			app.Output.Plain("  consistency: %d/100", result.ConsistencyScore)
			app.Output.Plain("  data points: %d", result.DataPoints)
			app.Output.Plain("")
			app.Output.Plain("  %s", result.Analysis)
			if result.ActionItem != "" {
				app.Output.Plain("")
				app.Output.Info("next: %s", result.ActionItem)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&ticker, "ticker", "t", "", "Use all archived results for this ticker")
	rootCmd.AddCommand(cmd)
}
