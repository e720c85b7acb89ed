package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/db"
)

// StoredRun is a committed run rebuilt from the store
type StoredRun struct {
	Run      *db.Run
	Schedule *model.Schedule
	Roles    []model.RoleDefinition
	Members  []model.Member
	Names    map[model.MemberID]string
}

// LoadRunStore defines the database operations needed to read a stored run
type LoadRunStore interface {
	ListMembers(ctx context.Context) ([]db.Member, error)
	GetRuns(ctx context.Context) ([]db.Run, error)
	GetRunAssignments(ctx context.Context, runID string) ([]db.RunAssignment, error)
}

// LoadRun rebuilds a committed run. If runID is empty, it defaults to the latest run.
func LoadRun(ctx context.Context, database LoadRunStore, cfg *config.Config, logger *zap.Logger, runID string) (*StoredRun, error) {
	logger.Debug("Loading run", zap.String("run_id", runID))

	// Step 1: Find the target run
	runs, err := database.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	run, err := findRun(runs, runID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found target run",
		zap.String("id", run.ID),
		zap.Int("year", run.Year),
		zap.Int("month", run.Month))

	// Step 2: Rebuild the schedule
	assignments, err := database.GetRunAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run assignments: %w", err)
	}

	roles := roleDefinitions(cfg)
	schedule, err := scheduleFromAssignments(run, assignments, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild schedule: %w", err)
	}

	// Step 3: Resolve names
	members, err := database.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	directory := newMemberDirectory(members, nil, logger)

	logger.Debug("Run loaded", zap.Int("assignments", len(assignments)))

	return &StoredRun{
		Run:      run,
		Schedule: schedule,
		Roles:    roles,
		Members:  directory.members,
		Names:    directory.names,
	}, nil
}

// ListRunsStore defines the database operations needed to list runs
type ListRunsStore interface {
	GetRuns(ctx context.Context) ([]db.Run, error)
}

// ListRuns returns the committed runs, most recent first
func ListRuns(ctx context.Context, database ListRunsStore, logger *zap.Logger) ([]db.Run, error) {
	runs, err := database.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	logger.Debug("Listed runs", zap.Int("count", len(runs)))
	return runs, nil
}
