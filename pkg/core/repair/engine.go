package repair

import (
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

const (
	// DefaultMaxPasses bounds the number of repair passes
	DefaultMaxPasses = 20

	// DefaultAdjacencyWeeks treats every repeat of a slot kind within the
	// month (±7 to ±28 days) as adjacent
	DefaultAdjacencyWeeks = maxDonorWeeks

	// maxDonorWeeks is how far (in weeks) a donor may be from the conflict
	maxDonorWeeks = 4
)

// Engine removes same-day and adjacency conflicts by swapping members between
// positions of the same slot kind and role.
//
// A swap is committed only when both touched assignments stay distinct and the
// conflicts touching the two swapped days afterwards are a strict subset of
// those before. Every committed swap therefore removes at least one conflict
// and introduces none.
type Engine struct {
	maxPasses      int
	adjacencyWeeks int
	logger         *zap.Logger
}

// Result summarises a repair run
type Result struct {
	Passes     int
	Swaps      int
	Unresolved []Conflict
}

// NewEngine creates an engine. Non-positive arguments fall back to defaults and
// a nil logger disables logging.
func NewEngine(maxPasses, adjacencyWeeks int, logger *zap.Logger) *Engine {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	if adjacencyWeeks <= 0 {
		adjacencyWeeks = DefaultAdjacencyWeeks
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		maxPasses:      maxPasses,
		adjacencyWeeks: adjacencyWeeks,
		logger:         logger,
	}
}

// Repair rewrites s in place and reports the conflicts left over
func (e *Engine) Repair(s *model.Schedule) Result {
	var result Result
	offsets := adjacencyOffsets(e.adjacencyWeeks)

	for result.Passes < e.maxPasses {
		result.Passes++
		swaps := 0

		for d := range s.Days {
			for e.resolveDay(s, d, offsets) {
				swaps++
			}
		}

		result.Swaps += swaps
		e.logger.Debug("Repair pass complete",
			zap.Int("pass", result.Passes),
			zap.Int("swaps", swaps))

		if swaps == 0 {
			break
		}
	}

	result.Unresolved = Detect(s, e.adjacencyWeeks)
	return result
}

// resolveDay commits at most one swap for a conflict touching the day and
// reports whether it did
func (e *Engine) resolveDay(s *model.Schedule, dayIndex int, offsets []int) bool {
	current := make(conflictSet)
	conflictsAt(s, dayIndex, offsets, current)

	for _, c := range sortedConflicts(current) {
		// Prefer moving the later position
		for _, p := range []model.Position{c.Second, c.First} {
			if e.relocate(s, p, offsets) {
				e.logger.Debug("Resolved conflict",
					zap.String("kind", string(c.Kind)),
					zap.Int("member", int(c.Member)),
					zap.String("date", s.Date(p).Format("2006-01-02")),
					zap.Int("timeslot", p.Timeslot.Number()))
				return true
			}
		}
	}

	return false
}

// relocate swaps the member at p with the first acceptable donor
func (e *Engine) relocate(s *model.Schedule, p model.Position, offsets []int) bool {
	for _, q := range donors(s, p) {
		if e.trySwap(s, p, q, offsets) {
			return true
		}
	}
	return false
}

// donors lists the same timeslot and role on the same weekday ±1..4 weeks,
// nearest offset first, then earliest date
func donors(s *model.Schedule, p model.Position) []model.Position {
	var positions []model.Position
	for k := 1; k <= maxDonorWeeks; k++ {
		for _, d := range []int{p.DayIndex - 7*k, p.DayIndex + 7*k} {
			if d < 0 || d >= len(s.Days) {
				continue
			}
			positions = append(positions, model.Position{DayIndex: d, Timeslot: p.Timeslot, RoleIndex: p.RoleIndex})
		}
	}
	return positions
}

func (e *Engine) trySwap(s *model.Schedule, p, q model.Position, offsets []int) bool {
	a, b := s.At(p), s.At(q)
	if a == b {
		return false
	}
	if s.Assignment(p).HasExcept(b, p.RoleIndex) || s.Assignment(q).HasExcept(a, q.RoleIndex) {
		return false
	}

	before := make(conflictSet)
	conflictsAt(s, p.DayIndex, offsets, before)
	conflictsAt(s, q.DayIndex, offsets, before)

	s.Set(p, b)
	s.Set(q, a)

	after := make(conflictSet)
	conflictsAt(s, p.DayIndex, offsets, after)
	conflictsAt(s, q.DayIndex, offsets, after)

	if isStrictSubset(after, before) {
		return true
	}

	s.Set(p, a)
	s.Set(q, b)
	return false
}

func isStrictSubset(sub, super conflictSet) bool {
	if len(sub) >= len(super) {
		return false
	}
	for c := range sub {
		if _, ok := super[c]; !ok {
			return false
		}
	}
	return true
}
