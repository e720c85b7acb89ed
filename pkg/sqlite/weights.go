package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/oivas000/duty-roster/pkg/db"
)

const upsertWeightQuery = `
	INSERT INTO weights (member_id, role, weight) VALUES (:member_id, :role, :weight)
	ON CONFLICT (member_id, role) DO UPDATE SET weight = excluded.weight
`

// GetWeights retrieves every stored weight
func (d *DB) GetWeights(ctx context.Context) ([]db.Weight, error) {
	var weights []db.Weight
	if err := d.conn.SelectContext(ctx, &weights, `SELECT member_id, role, weight FROM weights ORDER BY member_id, role`); err != nil {
		return nil, fmt.Errorf("failed to query weights: %w", err)
	}
	return weights, nil
}

// SaveWeights overwrites the given weights in one transaction
func (d *DB) SaveWeights(ctx context.Context, weights []db.Weight) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		return saveWeights(ctx, tx, weights)
	})
}

func saveWeights(ctx context.Context, tx *sqlx.Tx, weights []db.Weight) error {
	stmt, err := tx.PrepareNamedContext(ctx, upsertWeightQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare weight upsert: %w", err)
	}
	defer stmt.Close()

	for _, w := range weights {
		if _, err := stmt.ExecContext(ctx, w); err != nil {
			return fmt.Errorf("failed to save weight %s for member %d: %w", w.Role, w.MemberID, err)
		}
	}
	return nil
}
