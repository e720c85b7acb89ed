package sheetsclient

import (
	"context"
	"fmt"
)

// RosterTable is one titled table of a published roster
type RosterTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// PublishedRoster represents the complete published roster of a month
type PublishedRoster struct {
	TabTitle string // e.g. "March 2025"
	Tables   []RosterTable
}

// PublishRoster writes a roster to its own tab. A missing tab is created; an
// existing tab is cleared first so a shorter roster leaves no stale rows.
func (c *Client) PublishRoster(ctx context.Context, spreadsheetID string, roster *PublishedRoster) error {
	if roster.TabTitle == "" {
		return fmt.Errorf("roster has no tab title")
	}

	exists, err := c.SheetExists(ctx, spreadsheetID, roster.TabTitle)
	if err != nil {
		return err
	}

	fullRange := fmt.Sprintf("'%s'!A1:ZZ", roster.TabTitle)
	if exists {
		if err := c.ClearValues(ctx, spreadsheetID, fullRange); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(ctx, spreadsheetID, roster.TabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := c.UpdateValues(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1", roster.TabTitle), rosterValues(roster)); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}

	return nil
}

// rosterValues stacks the tables vertically, each as a title row, a header
// row and its data, separated by one empty row
func rosterValues(roster *PublishedRoster) [][]interface{} {
	var values [][]interface{}
	for i, table := range roster.Tables {
		if i > 0 {
			values = append(values, []interface{}{})
		}
		values = append(values, []interface{}{table.Title})
		values = append(values, toRow(table.Headers))
		for _, row := range table.Rows {
			values = append(values, toRow(row))
		}
	}
	return values
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
