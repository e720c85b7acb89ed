package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/db"
)

// committedStore returns a store holding one committed run for April 2025
func committedStore(t *testing.T) (*mockStore, *RunAssignmentResult) {
	store := newTestStore(6)
	result, err := RunAssignment(context.Background(), store, &mockRecorder{}, testConfig(t), zap.NewNop(), RunAssignmentOptions{
		Year:  2025,
		Month: 4,
		Seed:  2025,
	})
	require.NoError(t, err)
	return store, result
}

func TestLoadRun_RebuildsCommittedSchedule(t *testing.T) {
	store, generated := committedStore(t)

	stored, err := LoadRun(context.Background(), store, testConfig(t), zap.NewNop(), "")
	require.NoError(t, err)

	assert.Equal(t, generated.Run.ID, stored.Run.ID)
	assert.Equal(t, generated.Schedule, stored.Schedule)
	assert.Equal(t, "Anna", stored.Names[1])
	assert.Len(t, stored.Members, 6)

	byID, err := LoadRun(context.Background(), store, testConfig(t), zap.NewNop(), generated.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Schedule, byID.Schedule)
}

func TestLoadRun_Errors(t *testing.T) {
	_, err := LoadRun(context.Background(), &mockStore{}, testConfig(t), zap.NewNop(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no runs found")

	store, _ := committedStore(t)
	_, err = LoadRun(context.Background(), store, testConfig(t), zap.NewNop(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found: missing")

	// Drop one assignment so the schedule has a hole
	runID := store.runs[0].ID
	store.assignments[runID] = store.assignments[runID][1:]
	_, err = LoadRun(context.Background(), store, testConfig(t), zap.NewNop(), runID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unfilled positions")
}

func TestFindRun_Latest(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	runs := []db.Run{
		{ID: "a", CreatedAt: base},
		{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
	}

	run, err := findRun(runs, "")
	require.NoError(t, err)
	assert.Equal(t, "c", run.ID)

	run, err = findRun(runs, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", run.ID)
}

func TestExportRun(t *testing.T) {
	store, _ := committedStore(t)
	cfg := testConfig(t)

	paths, err := ExportRun(context.Background(), store, cfg, zap.NewNop(), "", []string{"csv", "pdf"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(cfg.Output.Directory, "DAILY BIBLE READING LIST APRIL 2025.csv"),
		filepath.Join(cfg.Output.Directory, "DAILY READING LIST APRIL 2025.csv"),
		filepath.Join(cfg.Output.Directory, "DAILY INCENSE LIST APRIL 2025.csv"),
		filepath.Join(cfg.Output.Directory, "DUTY ROSTER APRIL 2025.pdf"),
	}, paths)
	for _, path := range paths {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestRunStats(t *testing.T) {
	store, generated := committedStore(t)

	report, stored, err := RunStats(context.Background(), store, testConfig(t), zap.NewNop(), "", 3)
	require.NoError(t, err)

	assert.Equal(t, generated.Run.ID, stored.Run.ID)
	require.Len(t, report.Roles, 3)
	for _, role := range report.Roles {
		assert.Len(t, role.Most, 3)
		assert.Len(t, role.Least, 3)

		total := 0
		for _, count := range generated.Schedule.Counts()[role.Role] {
			total += count
		}
		// 30 days x 3 timeslots
		assert.Equal(t, 90, total)
	}
}

func TestPublishRoster(t *testing.T) {
	store, _ := committedStore(t)
	cfg := testConfig(t)
	cfg.Sheets.SpreadsheetID = "sheet-123"
	publisher := &mockPublisher{}

	roster, _, err := PublishRoster(context.Background(), store, publisher, cfg, zap.NewNop(), "")
	require.NoError(t, err)

	assert.Equal(t, "sheet-123", publisher.spreadsheetID)
	assert.Same(t, roster, publisher.roster)
	assert.Equal(t, "April 2025", roster.TabTitle)
	require.Len(t, roster.Tables, 3)
	assert.Equal(t, "DAILY INCENSE LIST APRIL 2025", roster.Tables[2].Title)
	assert.Equal(t, []string{"DATE", "6:00 am", "7:30 am", "5:00 pm"}, roster.Tables[0].Headers)
	assert.Len(t, roster.Tables[0].Rows, 30)
}

func TestPublishRoster_Errors(t *testing.T) {
	store, _ := committedStore(t)

	_, _, err := PublishRoster(context.Background(), store, &mockPublisher{}, testConfig(t), zap.NewNop(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheetID is not configured")

	cfg := testConfig(t)
	cfg.Sheets.SpreadsheetID = "sheet-123"
	_, _, err = PublishRoster(context.Background(), store, &mockPublisher{err: errors.New("quota")}, cfg, zap.NewNop(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish roster")
}
