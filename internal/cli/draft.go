package cli

import (
	"context"

	"github.com/spf13/cobra"

	apperrors "saham-workbench/internal/errors"
)

func addDraftCommands(rootCmd *cobra.Command, app *App) {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage the saved input draft",
	}

	draftCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := app.loadDraft(context.Background())
			if err != nil {
				if apperrors.Is(err, apperrors.ErrDraftNotFound) {
					app.Output.Info("no draft saved")
					return nil
				}
				return err
			}
			return app.Output.JSON(draft)
		},
	})

	draftCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Discard the saved draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			if err := app.Store.ClearDraft(context.Background()); err != nil {
				return err
			}
			app.Output.Success("draft cleared")
			return nil
		},
	})

	rootCmd.AddCommand(draftCmd)
}
