package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/services"
	"github.com/oivas000/duty-roster/pkg/stats"
)

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "Show how often each member holds each role (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}
			top, _ := cmd.Flags().GetInt("top")

			app.Logger.Debug("stats command", zap.String("run_id", runID), zap.Int("top", top))

			report, stored, err := services.RunStats(app.Ctx, app.Database, app.Cfg, app.Logger, runID, top)
			if err != nil {
				return fmt.Errorf("failed to compute stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nRun %s (%s %d)\n", stored.Run.ID, stored.Schedule.Month, stored.Schedule.Year)
			printReport(out, report)

			return nil
		},
	}

	cmd.Flags().Int("top", stats.DefaultTopN, "Members to show at each end of the ranking")

	return cmd
}
