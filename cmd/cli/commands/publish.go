package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [run_id]",
		Short: "Publish a stored run to the roster spreadsheet (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}

			app.Logger.Debug("publish command", zap.String("run_id", runID))

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			roster, stored, err := services.PublishRoster(app.Ctx, app.Database, client, app.Cfg, app.Logger, runID)
			if err != nil {
				return fmt.Errorf("failed to publish roster: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✅ Published run %s to tab %q (%d role lists)\n\n", stored.Run.ID, roster.TabTitle, len(roster.Tables))

			return nil
		},
	}
}
