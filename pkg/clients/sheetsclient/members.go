package sheetsclient

import (
	"context"
	"fmt"
	"strings"
)

// ReadMemberRecords reads a member table from a sheet range, header row first
func (c *Client) ReadMemberRecords(ctx context.Context, spreadsheetID, sheetRange string) ([][]string, error) {
	values, err := c.GetValues(ctx, spreadsheetID, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to get member data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("member range %s is empty", sheetRange)
	}

	return toRecords(values), nil
}

// toRecords converts sheet cells to trimmed strings, dropping blank rows
func toRecords(values [][]interface{}) [][]string {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, len(row))
		blank := true
		for i, cell := range row {
			record[i] = strings.TrimSpace(fmt.Sprint(cell))
			if record[i] != "" {
				blank = false
			}
		}
		if !blank {
			records = append(records, record)
		}
	}
	return records
}
