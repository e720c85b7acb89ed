package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/core/services"
)

// ListMembersCmd creates the listMembers command
func ListMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List all members with their slots and weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := services.ListMembers(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to list members: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d members:\n\n", len(members))
			for _, m := range members {
				slots := make([]string, len(m.Slots))
				for i, kind := range m.Slots {
					slots[i] = kind.Code()
				}

				weights := make([]string, 0, len(app.Cfg.Roles))
				for _, role := range app.Cfg.Roles {
					weights = append(weights, fmt.Sprintf("%s=%d", role.Code, m.Weights[model.Role(role.Code)]))
				}

				slotInfo := strings.Join(slots, " ")
				if slotInfo == "" {
					slotInfo = colorDim + "no slots" + colorReset
				}

				fmt.Fprintf(out, "- %4d %-24s %s  [%s]\n",
					m.Member.ID,
					m.Member.Name,
					strings.Join(weights, " "),
					slotInfo,
				)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
