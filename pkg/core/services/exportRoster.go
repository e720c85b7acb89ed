package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/export"
	"github.com/oivas000/duty-roster/pkg/stats"
)

// ExportSchedule writes the per-role lists of a schedule to the configured
// output directory. An empty formats list uses the configured formats.
func ExportSchedule(
	s *model.Schedule,
	roles []model.RoleDefinition,
	names map[model.MemberID]string,
	cfg *config.Config,
	logger *zap.Logger,
	formats []string,
) ([]string, error) {
	if len(formats) == 0 {
		formats = cfg.Output.Formats
	}

	listings, err := export.RoleListings(s, roles, cfg.Timeslots, names)
	if err != nil {
		return nil, fmt.Errorf("failed to build role listings: %w", err)
	}

	paths, err := export.WriteFiles(cfg.Output.Directory, export.RosterTitle(s), listings, formats)
	if err != nil {
		return nil, fmt.Errorf("failed to write exports: %w", err)
	}

	logger.Debug("Exported schedule",
		zap.String("directory", cfg.Output.Directory),
		zap.Strings("files", paths))

	return paths, nil
}

// ExportRun writes the lists of a stored run. If runID is empty, it defaults to the latest run.
func ExportRun(ctx context.Context, database LoadRunStore, cfg *config.Config, logger *zap.Logger, runID string, formats []string) ([]string, error) {
	stored, err := LoadRun(ctx, database, cfg, logger, runID)
	if err != nil {
		return nil, err
	}
	return ExportSchedule(stored.Schedule, stored.Roles, stored.Names, cfg, logger, formats)
}

// RunStats summarises how often each member holds each role in a stored run.
// If runID is empty, it defaults to the latest run.
func RunStats(ctx context.Context, database LoadRunStore, cfg *config.Config, logger *zap.Logger, runID string, topN int) (*stats.Report, *StoredRun, error) {
	stored, err := LoadRun(ctx, database, cfg, logger, runID)
	if err != nil {
		return nil, nil, err
	}

	report := stats.Frequencies(stored.Schedule, stored.Roles, stored.Members, topN)
	logger.Debug("Built frequency report", zap.String("run_id", stored.Run.ID), zap.Int("roles", len(report.Roles)))

	return report, stored, nil
}
