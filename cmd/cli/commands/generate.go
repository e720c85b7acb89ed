package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <month> <year>",
		Short: "Generate the duty roster of a month",
		Long: `Generate the duty roster of a month, remove repetitions and write the per-role lists.

The run and the updated weights are stored together. A month that already has a
stored run needs --force, since generating again penalises the weights twice.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("month must be a number: %w", err)
			}
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}

			seed, _ := cmd.Flags().GetInt64("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")
			quiet, _ := cmd.Flags().GetBool("quiet")

			app.Logger.Debug("generate command",
				zap.Int("month", month),
				zap.Int("year", year),
				zap.Int64("seed", seed),
				zap.Bool("dry_run", dryRun),
				zap.Bool("force", force))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nFilling slots...")

			result, err := services.RunAssignment(app.Ctx, app.Database, app.Metrics, app.Cfg, app.Logger, services.RunAssignmentOptions{
				Year:     year,
				Month:    month,
				Seed:     seed,
				DryRun:   dryRun,
				Force:    force,
				Progress: progressPrinter(out),
			})
			if err != nil {
				return fmt.Errorf("failed to generate roster: %w", err)
			}

			if !quiet {
				printSchedule(out, result.Schedule, result.Roles, app.Cfg.Timeslots, result.Names)
			}
			printConflicts(out, result.Repair.Unresolved, result.Schedule, app.Cfg.Timeslots, result.Names)

			paths, err := services.ExportSchedule(result.Schedule, result.Roles, result.Names, app.Cfg, app.Logger, nil)
			if err != nil {
				return err
			}

			if result.Committed {
				fmt.Fprintf(out, "%s✅ Roster generated and stored%s\n\n", colorGreen, colorReset)
			} else {
				fmt.Fprintf(out, "%s🔍 Dry run: weights and run history were not changed%s\n\n", colorYellow, colorReset)
			}
			fmt.Fprintf(out, "Run ID:       %s\n", result.Run.ID)
			fmt.Fprintf(out, "Seed:         %d\n", result.Run.Seed)
			fmt.Fprintf(out, "Repair:       %d passes, %d swaps\n", result.Repair.Passes, result.Repair.Swaps)
			fmt.Fprintln(out, "Files:")
			for _, path := range paths {
				fmt.Fprintf(out, "  %s\n", path)
			}
			fmt.Fprintln(out)

			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for random decisions (0 picks one)")
	cmd.Flags().Bool("dry-run", false, "Generate without storing the run or the weights")
	cmd.Flags().Bool("force", false, "Generate again for a month that already has a stored run")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print the roster")

	return cmd
}
