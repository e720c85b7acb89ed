package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/oivas000/duty-roster/pkg/db"
)

// GetRuns retrieves all runs, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	var runs []db.Run
	if err := d.conn.SelectContext(ctx, &runs, `
		SELECT id, year, month, seed, fill_order, swaps, unresolved_conflicts, created_at
		FROM runs
		ORDER BY created_at DESC
	`); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// GetRunAssignments retrieves the assignments of a run in date and timeslot order
func (d *DB) GetRunAssignments(ctx context.Context, runID string) ([]db.RunAssignment, error) {
	var assignments []db.RunAssignment
	if err := d.conn.SelectContext(ctx, &assignments, `
		SELECT run_id, date, timeslot, role, member_id
		FROM run_assignments
		WHERE run_id = ?
		ORDER BY date, timeslot
	`, runID); err != nil {
		return nil, fmt.Errorf("failed to query run assignments: %w", err)
	}
	return assignments, nil
}

// CommitRun stores the run, its assignments and the updated weights atomically
func (d *DB) CommitRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, weights []db.Weight) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO runs (id, year, month, seed, fill_order, swaps, unresolved_conflicts, created_at)
			VALUES (:id, :year, :month, :seed, :fill_order, :swaps, :unresolved_conflicts, :created_at)
		`, run); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareNamedContext(ctx, `
			INSERT INTO run_assignments (run_id, date, timeslot, role, member_id)
			VALUES (:run_id, :date, :timeslot, :role, :member_id)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare assignment insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range assignments {
			if _, err := stmt.ExecContext(ctx, a); err != nil {
				return fmt.Errorf("failed to insert assignment for %s: %w", a.Date, err)
			}
		}

		return saveWeights(ctx, tx, weights)
	})
}
