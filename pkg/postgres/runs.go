package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oivas000/duty-roster/pkg/db"
)

// GetRuns retrieves all runs, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, year, month, seed, fill_order, swaps, unresolved_conflicts, created_at
		FROM runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		if err := rows.Scan(&r.ID, &r.Year, &r.Month, &r.Seed, &r.FillOrder, &r.Swaps, &r.UnresolvedConflicts, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRunAssignments retrieves the assignments of a run in date and timeslot order
func (d *DB) GetRunAssignments(ctx context.Context, runID string) ([]db.RunAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, date, timeslot, role, member_id
		FROM run_assignments
		WHERE run_id = $1
		ORDER BY date, timeslot
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.RunAssignment
	for rows.Next() {
		var a db.RunAssignment
		var date time.Time
		if err := rows.Scan(&a.RunID, &date, &a.Timeslot, &a.Role, &a.MemberID); err != nil {
			return nil, fmt.Errorf("failed to scan run assignment: %w", err)
		}
		a.Date = date.Format("2006-01-02")
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run assignments: %w", err)
	}

	return assignments, nil
}

// CommitRun stores the run, its assignments and the updated weights atomically
func (d *DB) CommitRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, weights []db.Weight) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO runs (id, year, month, seed, fill_order, swaps, unresolved_conflicts, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, run.Year, run.Month, run.Seed, run.FillOrder, run.Swaps, run.UnresolvedConflicts, run.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		batch := &pgx.Batch{}
		for _, a := range assignments {
			batch.Queue(`
				INSERT INTO run_assignments (run_id, date, timeslot, role, member_id)
				VALUES ($1, $2, $3, $4, $5)
			`, a.RunID, a.Date, a.Timeslot, a.Role, a.MemberID)
		}
		queueWeights(batch, weights)

		if err := sendBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to store run %s: %w", run.ID, err)
		}
		return nil
	})
}
