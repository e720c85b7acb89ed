package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oivas000/duty-roster/pkg/core/services"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List stored generation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := services.ListRuns(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "\nNo runs stored yet.")
				return nil
			}

			fmt.Fprintf(out, "\n%-38s %-8s %-20s %-10s %6s %10s\n", "Run ID", "Month", "Created", "Order", "Swaps", "Conflicts")
			for _, run := range runs {
				fmt.Fprintf(out, "%-38s %02d/%04d  %-20s %-10s %6d %10d\n",
					run.ID,
					run.Month,
					run.Year,
					run.CreatedAt.Local().Format("2006-01-02 15:04"),
					run.FillOrder,
					run.Swaps,
					run.UnresolvedConflicts,
				)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
