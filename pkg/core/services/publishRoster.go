package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/clients/sheetsclient"
	"github.com/oivas000/duty-roster/pkg/export"
)

// RosterPublisher writes a roster to a spreadsheet
type RosterPublisher interface {
	PublishRoster(ctx context.Context, spreadsheetID string, roster *sheetsclient.PublishedRoster) error
}

// PublishRoster publishes a stored run to Google Sheets, one tab per month.
// If runID is empty, it defaults to the latest run.
func PublishRoster(
	ctx context.Context,
	database LoadRunStore,
	publisher RosterPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	runID string,
) (*sheetsclient.PublishedRoster, *StoredRun, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, nil, fmt.Errorf("sheets.spreadsheetID is not configured")
	}

	logger.Debug("Starting publishRoster", zap.String("run_id", runID))

	stored, err := LoadRun(ctx, database, cfg, logger, runID)
	if err != nil {
		return nil, nil, err
	}

	listings, err := export.RoleListings(stored.Schedule, stored.Roles, cfg.Timeslots, stored.Names)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build role listings: %w", err)
	}

	roster := &sheetsclient.PublishedRoster{
		TabTitle: fmt.Sprintf("%s %d", stored.Schedule.Month, stored.Schedule.Year),
		Tables:   make([]sheetsclient.RosterTable, len(listings)),
	}
	for i, listing := range listings {
		roster.Tables[i] = sheetsclient.RosterTable{
			Title:   listing.Title,
			Headers: listing.Headers,
			Rows:    listing.Rows,
		}
	}

	logger.Debug("Publishing roster",
		zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID),
		zap.String("tab", roster.TabTitle))

	if err := publisher.PublishRoster(ctx, cfg.Sheets.SpreadsheetID, roster); err != nil {
		return nil, nil, fmt.Errorf("failed to publish roster: %w", err)
	}

	logger.Info("Roster published",
		zap.String("run_id", stored.Run.ID),
		zap.String("tab", roster.TabTitle))

	return roster, stored, nil
}
