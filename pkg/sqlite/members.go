package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/oivas000/duty-roster/pkg/db"
)

// ListMembers retrieves all members ordered by id
func (d *DB) ListMembers(ctx context.Context) ([]db.Member, error) {
	var members []db.Member
	if err := d.conn.SelectContext(ctx, &members, `SELECT id, name FROM members ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	return members, nil
}

// ListAvailability retrieves every member/slot eligibility record
func (d *DB) ListAvailability(ctx context.Context) ([]db.Availability, error) {
	var availability []db.Availability
	if err := d.conn.SelectContext(ctx, &availability, `SELECT member_id, slot FROM availability ORDER BY member_id, slot`); err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	return availability, nil
}

// UpsertMembers inserts or renames members, replaces their availability and
// seeds weights that do not exist yet. Existing weights are left untouched.
func (d *DB) UpsertMembers(ctx context.Context, members []db.Member, availability []db.Availability, weights []db.Weight) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, m := range members {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO members (id, name) VALUES (:id, :name)
				ON CONFLICT (id) DO UPDATE SET name = excluded.name
			`, m); err != nil {
				return fmt.Errorf("failed to upsert member %d: %w", m.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM availability WHERE member_id = ?`, m.ID); err != nil {
				return fmt.Errorf("failed to clear availability for member %d: %w", m.ID, err)
			}
		}

		for _, a := range availability {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO availability (member_id, slot) VALUES (:member_id, :slot)
			`, a); err != nil {
				return fmt.Errorf("failed to insert availability %s for member %d: %w", a.Slot, a.MemberID, err)
			}
		}

		for _, w := range weights {
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO weights (member_id, role, weight) VALUES (:member_id, :role, :weight)
				ON CONFLICT (member_id, role) DO NOTHING
			`, w); err != nil {
				return fmt.Errorf("failed to seed weight %s for member %d: %w", w.Role, w.MemberID, err)
			}
		}

		return nil
	})
}
