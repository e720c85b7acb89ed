package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "Write the per-role lists of a stored run (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}
			formats, _ := cmd.Flags().GetStringSlice("format")

			app.Logger.Debug("export command", zap.String("run_id", runID), zap.Strings("formats", formats))

			paths, err := services.ExportRun(app.Ctx, app.Database, app.Cfg, app.Logger, runID, formats)
			if err != nil {
				return fmt.Errorf("failed to export run: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✅ Wrote %d files:\n", len(paths))
			for _, path := range paths {
				fmt.Fprintf(out, "  %s\n", path)
			}
			fmt.Fprintln(out)

			return nil
		},
	}

	cmd.Flags().StringSlice("format", nil, "Output formats, csv and/or pdf (defaults to output.formats)")

	return cmd
}
