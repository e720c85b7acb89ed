package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/db"
)

// ResetWeightsStore defines the database operations needed to reset weights
type ResetWeightsStore interface {
	ListMembers(ctx context.Context) ([]db.Member, error)
	GetWeights(ctx context.Context) ([]db.Weight, error)
	SaveWeights(ctx context.Context, weights []db.Weight) error
}

// ResetWeightsResult reports what a reset touched
type ResetWeightsResult struct {
	Value   int
	Changed int
	Pinned  int
}

// ResetWeights sets every weight to value, except zero pins which stay zero.
// A non-positive value uses the configured default.
func ResetWeights(ctx context.Context, database ResetWeightsStore, cfg *config.Config, logger *zap.Logger, value int) (*ResetWeightsResult, error) {
	if value <= 0 {
		value = cfg.Weights.Default
	}

	logger.Debug("Resetting weights", zap.Int("value", value))

	members, err := database.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	weights, err := database.GetWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weights: %w", err)
	}

	directory := newMemberDirectory(members, nil, logger)
	l, seeded := buildLedger(roleDefinitions(cfg), directory.members, weights, value)
	logger.Debug("Loaded weight ledger", zap.Int("stored", len(weights)), zap.Int("seeded", seeded))

	l.ResetAll(value)

	result := &ResetWeightsResult{Value: value, Changed: len(l.Changes()) + seeded}
	entries := l.Entries()
	for _, e := range entries {
		if e.Weight == 0 {
			result.Pinned++
		}
	}

	if err := database.SaveWeights(ctx, toDBWeights(entries)); err != nil {
		return nil, fmt.Errorf("failed to save weights: %w", err)
	}

	logger.Info("Weights reset",
		zap.Int("value", value),
		zap.Int("changed", result.Changed),
		zap.Int("pinned", result.Pinned))

	return result, nil
}
