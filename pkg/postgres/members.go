package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oivas000/duty-roster/pkg/db"
)

// ListMembers retrieves all members ordered by id
func (d *DB) ListMembers(ctx context.Context) ([]db.Member, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []db.Member
	for rows.Next() {
		var m db.Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// ListAvailability retrieves every member/slot eligibility record
func (d *DB) ListAvailability(ctx context.Context) ([]db.Availability, error) {
	rows, err := d.pool.Query(ctx, `SELECT member_id, slot FROM availability ORDER BY member_id, slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var availability []db.Availability
	for rows.Next() {
		var a db.Availability
		if err := rows.Scan(&a.MemberID, &a.Slot); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		availability = append(availability, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability: %w", err)
	}

	return availability, nil
}

// UpsertMembers inserts or renames members, replaces their availability and
// seeds weights that do not exist yet
func (d *DB) UpsertMembers(ctx context.Context, members []db.Member, availability []db.Availability, weights []db.Weight) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range members {
			batch.Queue(`
				INSERT INTO members (id, name) VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
			`, m.ID, m.Name)
			batch.Queue(`DELETE FROM availability WHERE member_id = $1`, m.ID)
		}
		for _, a := range availability {
			batch.Queue(`INSERT INTO availability (member_id, slot) VALUES ($1, $2)`, a.MemberID, a.Slot)
		}
		for _, w := range weights {
			batch.Queue(`
				INSERT INTO weights (member_id, role, weight) VALUES ($1, $2, $3)
				ON CONFLICT (member_id, role) DO NOTHING
			`, w.MemberID, w.Role, w.Weight)
		}

		if err := sendBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to upsert members: %w", err)
		}
		return nil
	})
}

// sendBatch executes every queued statement, stopping at the first error
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	return results.Close()
}
