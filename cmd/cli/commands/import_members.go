package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/services"
)

// ImportMembersCmd creates the importMembers command
func ImportMembersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importMembers [file]",
		Short: "Import the member table from a CSV file or a Google Sheet range",
		Long: `Import the member table from a CSV file or, with --sheet, from a range of the
configured spreadsheet.

The header row needs "id" and "name". Slot columns (m1 to u3) mark the slots a
member can serve, and role code columns set the starting weight of new cells.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetRange, _ := cmd.Flags().GetString("sheet")

			var records [][]string
			switch {
			case sheetRange != "" && len(args) > 0:
				return fmt.Errorf("give either a file or --sheet, not both")

			case sheetRange != "":
				if app.Cfg.Sheets.SpreadsheetID == "" {
					return fmt.Errorf("sheets.spreadsheetID is not configured")
				}
				client, err := app.SheetsClient()
				if err != nil {
					return err
				}
				app.Logger.Debug("importMembers command", zap.String("range", sheetRange))
				records, err = client.ReadMemberRecords(app.Ctx, app.Cfg.Sheets.SpreadsheetID, sheetRange)
				if err != nil {
					return fmt.Errorf("failed to read member sheet: %w", err)
				}

			case len(args) == 1:
				app.Logger.Debug("importMembers command", zap.String("file", args[0]))
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open member file: %w", err)
				}
				defer file.Close()

				records, err = services.ReadMemberRecords(file)
				if err != nil {
					return err
				}

			default:
				return fmt.Errorf("give a CSV file or --sheet <range>")
			}

			result, err := services.ImportMembers(app.Ctx, app.Database, app.Cfg, app.Logger, records)
			if err != nil {
				return fmt.Errorf("failed to import members: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✅ Imported %d members (%d slot entries)\n\n", result.Members, result.Availability)

			return nil
		},
	}

	cmd.Flags().String("sheet", "", "Read from this range of the configured spreadsheet, e.g. Members!A1:Z")

	return cmd
}
