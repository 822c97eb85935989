package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	apperrors "saham-workbench/internal/errors"
)

func addArchiveCommands(rootCmd *cobra.Command, app *App) {
	archiveCmd := &cobra.Command{
		Use:     "archive",
		Aliases: []string{"vault"},
		Short:   "Manage archived analysis results",
	}

	archiveCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived results, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := app.Archive.List()
			if app.jsonMode {
				return app.Output.JSON(entries)
			}
			if len(entries) == 0 {
				app.Output.Info("archive is empty")
				return nil
			}

			dateFormat := app.Config.UI.DateFormat
			if dateFormat == "" {
				dateFormat = "2006-01-02 15:04"
			}

			table := NewTable("KEY", "TICKER", "DATE", "DIRECTION", "BEST TF")
			for _, e := range entries {
				when := "-"
				if e.Timestamp > 0 {
					when = time.UnixMilli(e.Timestamp).Format(dateFormat)
				}
				table.AddRow(
					shortKey(e.IdentityKey()),
					e.Ticker,
					when,
					app.Output.Direction(e.Prediction.Direction),
					string(e.Strategy.BestTimeframe),
				)
			}
			table.Render()
			app.Output.Plain("\n%d result(s)", len(entries))
			return nil
		},
	})

	archiveCmd.AddCommand(&cobra.Command{
		Use:   "remove <key>",
		Short: "Remove an archived result by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := app.resolveKey(args[0])
			if app.Archive.Remove(key) {
				app.Output.Success("removed %s", key)
			} else {
				app.Output.Warning("no entry with key %s", key)
			}
			return nil
		},
	})

	var exportFile string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the archive as a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Archive.Export()
			if err != nil {
				return err
			}
			if exportFile == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(exportFile, data, 0o644); err != nil {
				return apperrors.Wrap(err, "writing snapshot")
			}
			app.Output.Success("exported %d result(s) to %s", app.Archive.Len(), exportFile)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Write snapshot to a file instead of stdout")
	archiveCmd.AddCommand(exportCmd)

	archiveCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON snapshot into the archive",
		Long: `Import appends every result from the snapshot to the archive. The
snapshot is validated first: a single malformed entry rejects the whole
import and leaves the archive unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return apperrors.Wrap(err, "reading snapshot")
			}
			count, err := app.Archive.Import(data)
			if err != nil {
				return err
			}
			app.Output.Success("imported %d result(s)", count)
			return nil
		},
	})

	rootCmd.AddCommand(archiveCmd)
}

// resolveKey expands a key prefix to the full identity key when it matches
// exactly one archived entry.
func (app *App) resolveKey(prefix string) string {
	var match string
	count := 0
	for _, e := range app.Archive.List() {
		key := e.IdentityKey()
		if key == prefix {
			return key
		}
		if len(prefix) >= 4 && len(key) > len(prefix) && key[:len(prefix)] == prefix {
			match = key
			count++
		}
	}
	if count == 1 {
		return match
	}
	return prefix
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
