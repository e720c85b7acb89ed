package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/core/allocator"
	"github.com/oivas000/duty-roster/pkg/core/calendar"
	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/core/repair"
	"github.com/oivas000/duty-roster/pkg/db"
	"github.com/oivas000/duty-roster/pkg/metrics"
)

// ErrMonthAlreadyGenerated is returned when a committed run exists for the
// requested month and the run was not forced
var ErrMonthAlreadyGenerated = errors.New("a roster for this month has already been generated")

// RunAssignmentOptions controls a single generation run
type RunAssignmentOptions struct {
	Year  int
	Month int

	// Seed drives every random decision. Zero picks a time based seed.
	Seed int64

	// DryRun computes the roster without storing the run or the weights
	DryRun bool

	// Force allows a second committed run for a month that already has one
	Force bool

	// Progress is called after each slot kind has been filled
	Progress func(done, total int, kind model.SlotKind)
}

// RunAssignmentResult contains the generated roster
type RunAssignmentResult struct {
	Run       *db.Run
	Schedule  *model.Schedule
	Roles     []model.RoleDefinition
	Members   []model.Member
	Names     map[model.MemberID]string
	Repair    repair.Result
	Committed bool
}

// RunAssignmentStore defines the database operations needed for a generation run
type RunAssignmentStore interface {
	ListMembers(ctx context.Context) ([]db.Member, error)
	ListAvailability(ctx context.Context) ([]db.Availability, error)
	GetWeights(ctx context.Context) ([]db.Weight, error)
	GetRuns(ctx context.Context) ([]db.Run, error)
	CommitRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, weights []db.Weight) error
}

// RunAssignment generates the roster of one month.
//
// Weights are loaded once, penalised by every pick, replenished at the end and
// flushed together with the run in a single transaction. Nothing is written
// when the run fails or is a dry run.
func RunAssignment(
	ctx context.Context,
	database RunAssignmentStore,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *zap.Logger,
	opts RunAssignmentOptions,
) (*RunAssignmentResult, error) {
	started := time.Now()

	result, err := runAssignment(ctx, database, recorder, cfg, logger, opts)

	outcome := metrics.OutcomeCommitted
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case !result.Committed:
		outcome = metrics.OutcomeDryRun
	}
	recorder.RunFinished(outcome, time.Since(started))

	return result, err
}

func runAssignment(
	ctx context.Context,
	database RunAssignmentStore,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *zap.Logger,
	opts RunAssignmentOptions,
) (*RunAssignmentResult, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	logger.Debug("Starting runAssignment",
		zap.Int("year", opts.Year),
		zap.Int("month", opts.Month),
		zap.Int64("seed", opts.Seed),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force", opts.Force))

	// Step 1: Validate the month before touching the store
	grid, err := calendar.BuildGrid(opts.Year, opts.Month)
	if err != nil {
		return nil, err
	}
	logger.Debug("Built calendar grid", zap.Int("days", len(grid.Days)), zap.Int("slots", grid.TotalSlots()))

	// Step 2: Refuse to penalise the same month twice
	if !opts.DryRun {
		logger.Debug("Fetching runs")
		runs, err := database.GetRuns(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch runs: %w", err)
		}
		if existing := findMonthRun(runs, opts.Year, opts.Month); existing != nil {
			if !opts.Force {
				return nil, fmt.Errorf("%w: run %s (use --force to generate again)", ErrMonthAlreadyGenerated, existing.ID)
			}
			logger.Warn("Generating again for a month with a committed run", zap.String("existing_run_id", existing.ID))
		}
	}

	// Step 3: Load the member directory
	logger.Debug("Fetching members")
	members, err := database.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	logger.Debug("Found members", zap.Int("count", len(members)))

	logger.Debug("Fetching availability")
	availability, err := database.ListAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	logger.Debug("Found availability", zap.Int("count", len(availability)))

	directory := newMemberDirectory(members, availability, logger)

	// Step 4: Load the weight ledger
	logger.Debug("Fetching weights")
	weights, err := database.GetWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weights: %w", err)
	}

	roles := roleDefinitions(cfg)
	l, seeded := buildLedger(roles, directory.members, weights, cfg.Weights.Default)
	logger.Debug("Loaded weight ledger", zap.Int("stored", len(weights)), zap.Int("seeded", seeded))

	// Step 5: Fill every slot
	rng := rand.New(rand.NewSource(opts.Seed))
	penalties := allocator.Penalties{
		Primary:   cfg.Weights.PrimaryPenalty,
		Cross:     cfg.Weights.CrossPenalty,
		Collision: cfg.Weights.CollisionPenalty,
	}
	selector := allocator.NewSelector(roles, l, rng, penalties)
	builder := allocator.NewBuilder(grid, directory, selector, roles, rng, allocator.FillOrder(cfg.FillOrder), logger)
	builder.OnKindFilled = opts.Progress

	schedule, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}
	recorder.SlotsFilled(grid.TotalSlots())
	for _, role := range schedule.Roles {
		recorder.RoleAssigned(string(role), grid.TotalSlots())
	}
	logger.Debug("Schedule built", zap.Int("days", len(schedule.Days)))

	// Step 6: Repair repetitions
	engine := repair.NewEngine(cfg.Repair.MaxPasses, cfg.Repair.AdjacencyWeeks, logger)
	repaired := engine.Repair(schedule)
	recorder.RepairFinished(repaired.Passes, repaired.Swaps, len(repaired.Unresolved))
	logger.Debug("Repair finished",
		zap.Int("passes", repaired.Passes),
		zap.Int("swaps", repaired.Swaps),
		zap.Int("unresolved", len(repaired.Unresolved)))

	for _, c := range repaired.Unresolved {
		logger.Warn("Unresolved conflict",
			zap.String("kind", string(c.Kind)),
			zap.String("member", directory.Name(c.Member)),
			zap.String("first", schedule.Date(c.First).Format(dateLayout)),
			zap.String("second", schedule.Date(c.Second).Format(dateLayout)))
	}

	// Step 7: Replenish once per full run
	l.ReplenishAll(cfg.Weights.Replenish)
	logger.Debug("Weights replenished", zap.Int("changed", len(l.Changes())))

	run := &db.Run{
		ID:                  uuid.New().String(),
		Year:                opts.Year,
		Month:               opts.Month,
		Seed:                opts.Seed,
		FillOrder:           cfg.FillOrder,
		Swaps:               repaired.Swaps,
		UnresolvedConflicts: len(repaired.Unresolved),
		CreatedAt:           time.Now().UTC(),
	}

	result := &RunAssignmentResult{
		Run:      run,
		Schedule: schedule,
		Roles:    roles,
		Members:  directory.members,
		Names:    directory.names,
		Repair:   repaired,
	}

	if opts.DryRun {
		logger.Info("Dry run complete, nothing stored", zap.String("run_id", run.ID))
		return result, nil
	}

	// Step 8: Store the run and the weights together
	logger.Debug("Committing run", zap.String("run_id", run.ID))
	if err := database.CommitRun(ctx, run, toRunAssignments(run.ID, schedule), toDBWeights(l.Entries())); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	result.Committed = true

	logger.Info("Run committed",
		zap.String("run_id", run.ID),
		zap.Int("year", run.Year),
		zap.Int("month", run.Month),
		zap.Int("unresolved_conflicts", run.UnresolvedConflicts))

	return result, nil
}
