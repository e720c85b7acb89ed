package db

import "context"

// MemberStore defines the interface for member directory operations
type MemberStore interface {
	ListMembers(ctx context.Context) ([]Member, error)
	ListAvailability(ctx context.Context) ([]Availability, error)
	UpsertMembers(ctx context.Context, members []Member, availability []Availability, weights []Weight) error
}

// WeightStore defines the interface for weight ledger persistence
type WeightStore interface {
	GetWeights(ctx context.Context) ([]Weight, error)
	SaveWeights(ctx context.Context, weights []Weight) error
}

// RunStore defines the interface for run history operations
type RunStore interface {
	GetRuns(ctx context.Context) ([]Run, error)
	GetRunAssignments(ctx context.Context, runID string) ([]RunAssignment, error)
	// CommitRun stores the run, its assignments and the updated weights atomically
	CommitRun(ctx context.Context, run *Run, assignments []RunAssignment, weights []Weight) error
}

// Database defines the interface for all database operations.
// Both sqlite.DB and postgres.DB implement this interface.
type Database interface {
	MemberStore
	WeightStore
	RunStore
	RunMigrations(ctx context.Context) error
	Close() error
}
