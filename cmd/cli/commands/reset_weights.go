package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/services"
)

// ResetWeightsCmd creates the resetWeights command
func ResetWeightsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resetWeights",
		Short: "Reset every weight to the default, keeping zero pins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, _ := cmd.Flags().GetInt("value")

			app.Logger.Debug("resetWeights command", zap.Int("value", value))

			result, err := services.ResetWeights(app.Ctx, app.Database, app.Cfg, app.Logger, value)
			if err != nil {
				return fmt.Errorf("failed to reset weights: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✅ Weights reset to %d\n\n", result.Value)
			fmt.Fprintf(out, "Changed: %d\n", result.Changed)
			fmt.Fprintf(out, "Pinned:  %d (left at 0)\n\n", result.Pinned)

			return nil
		},
	}

	cmd.Flags().Int("value", 0, "Weight to reset to (defaults to weights.default)")

	return cmd
}
