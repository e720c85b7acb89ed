package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oivas000/duty-roster/pkg/db"
)

// GetWeights retrieves every stored weight
func (d *DB) GetWeights(ctx context.Context) ([]db.Weight, error) {
	rows, err := d.pool.Query(ctx, `SELECT member_id, role, weight FROM weights ORDER BY member_id, role`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weights: %w", err)
	}
	defer rows.Close()

	var weights []db.Weight
	for rows.Next() {
		var w db.Weight
		if err := rows.Scan(&w.MemberID, &w.Role, &w.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan weight: %w", err)
		}
		weights = append(weights, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weights: %w", err)
	}

	return weights, nil
}

// SaveWeights overwrites the given weights in one transaction
func (d *DB) SaveWeights(ctx context.Context, weights []db.Weight) error {
	if len(weights) == 0 {
		return nil
	}

	return d.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		queueWeights(batch, weights)
		if err := sendBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to save weights: %w", err)
		}
		return nil
	})
}

func queueWeights(batch *pgx.Batch, weights []db.Weight) {
	for _, w := range weights {
		batch.Queue(`
			INSERT INTO weights (member_id, role, weight) VALUES ($1, $2, $3)
			ON CONFLICT (member_id, role) DO UPDATE SET weight = EXCLUDED.weight
		`, w.MemberID, w.Role, w.Weight)
	}
}
