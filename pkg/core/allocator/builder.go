package allocator

import (
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/calendar"
	"github.com/oivas000/duty-roster/pkg/core/model"
)

// FillOrder controls the order in which slot kinds are filled. Order matters
// because every pick penalises weights seen by later picks.
type FillOrder string

const (
	// FillOrderCalendar fills kinds weekday first, then timeslot
	FillOrderCalendar FillOrder = "calendar"

	// FillOrderScarcity fills the kinds with the fewest eligible members first
	FillOrderScarcity FillOrder = "scarcity"
)

// Directory supplies the eligible members of each slot kind
type Directory interface {
	ListEligible(kind model.SlotKind) []model.MemberID
}

// slotQueues holds one FIFO queue of picks per slot kind
type slotQueues [model.NumSlotKinds][]model.Assignment

func (q *slotQueues) push(kind model.SlotKind, a model.Assignment) {
	q[kind.Index()] = append(q[kind.Index()], a)
}

func (q *slotQueues) pop(kind model.SlotKind) (model.Assignment, bool) {
	queue := q[kind.Index()]
	if len(queue) == 0 {
		return nil, false
	}
	q[kind.Index()] = queue[1:]
	return queue[0], true
}

// Builder fills every slot of a month
type Builder struct {
	grid      *calendar.Grid
	directory Directory
	selector  *Selector
	roles     []model.RoleDefinition
	rng       *rand.Rand
	order     FillOrder
	logger    *zap.Logger

	// OnKindFilled is called after each slot kind has been filled
	OnKindFilled func(done, total int, kind model.SlotKind)
}

// NewBuilder creates a builder. A nil logger disables logging.
func NewBuilder(grid *calendar.Grid, directory Directory, selector *Selector, roles []model.RoleDefinition, rng *rand.Rand, order FillOrder, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if order == "" {
		order = FillOrderCalendar
	}
	return &Builder{
		grid:      grid,
		directory: directory,
		selector:  selector,
		roles:     roles,
		rng:       rng,
		order:     order,
		logger:    logger,
	}
}

// Build runs the selector for every occurrence of every slot kind, shuffles
// each kind's queue and drains the queues into calendar order.
//
// All pools are checked before the first pick, so a ConfigurationError for
// an unstaffable kind leaves the ledger untouched.
func (b *Builder) Build() (*model.Schedule, error) {
	pools, err := b.loadPools()
	if err != nil {
		return nil, err
	}

	var queues slotQueues
	kinds := b.fillOrder(pools)

	for i, kind := range kinds {
		pool := pools[kind.Index()]
		count := b.grid.SlotCount(kind)

		for n := 0; n < count; n++ {
			assignment, err := b.selector.Select(kind, pool)
			if err != nil {
				return nil, err
			}
			queues.push(kind, assignment)
		}

		b.logger.Debug("Filled slot kind",
			zap.String("kind", kind.Code()),
			zap.Int("occurrences", count),
			zap.Int("pool_size", len(pool)))

		if b.OnKindFilled != nil {
			b.OnKindFilled(i+1, len(kinds), kind)
		}
	}

	for i := range queues {
		queue := queues[i]
		b.rng.Shuffle(len(queue), func(x, y int) {
			queue[x], queue[y] = queue[y], queue[x]
		})
	}

	return b.drain(&queues)
}

// loadPools reads and validates the eligible pool of every kind
func (b *Builder) loadPools() ([model.NumSlotKinds][]model.MemberID, error) {
	var pools [model.NumSlotKinds][]model.MemberID

	for _, kind := range model.AllSlotKinds() {
		pool := b.directory.ListEligible(kind)
		if b.grid.SlotCount(kind) == 0 {
			pools[kind.Index()] = pool
			continue
		}
		if len(pool) == 0 {
			return pools, &model.ConfigurationError{Kind: kind, Reason: "no eligible members"}
		}
		if len(pool) < len(b.roles) {
			return pools, &model.ConfigurationError{
				Kind:   kind,
				Reason: fmt.Sprintf("%d eligible members cannot fill %d distinct roles", len(pool), len(b.roles)),
			}
		}
		for _, def := range b.roles {
			if !b.hasUnpinned(def.Role, pool) {
				return pools, &model.ConfigurationError{
					Kind:   kind,
					Role:   def.Role,
					Reason: "every eligible member is pinned at zero weight",
				}
			}
		}
		pools[kind.Index()] = pool
	}

	return pools, nil
}

func (b *Builder) hasUnpinned(role model.Role, pool []model.MemberID) bool {
	for _, id := range pool {
		if !b.selector.ledger.IsPinned(role, id) {
			return true
		}
	}
	return false
}

// fillOrder returns the kinds in the configured fill order
func (b *Builder) fillOrder(pools [model.NumSlotKinds][]model.MemberID) []model.SlotKind {
	kinds := model.AllSlotKinds()
	if b.order == FillOrderScarcity {
		sort.SliceStable(kinds, func(i, j int) bool {
			return len(pools[kinds[i].Index()]) < len(pools[kinds[j].Index()])
		})
	}
	return kinds
}

// drain assigns queue heads to calendar occurrences in date order
func (b *Builder) drain(queues *slotQueues) (*model.Schedule, error) {
	schedule := &model.Schedule{
		Year:  b.grid.Year,
		Month: b.grid.Month,
		Roles: model.RoleCodes(b.roles),
		Days:  make([]model.DaySchedule, len(b.grid.Days)),
	}

	for i, day := range b.grid.Days {
		schedule.Days[i].Day = day
		for t := model.Timeslot(0); t < model.NumTimeslots; t++ {
			kind := model.SlotKind{Weekday: day.Weekday, Timeslot: t}
			assignment, ok := queues.pop(kind)
			if !ok {
				return nil, fmt.Errorf("queue for slot %s exhausted on %s", kind.Code(), day.Date.Format("2006-01-02"))
			}
			schedule.Days[i].Slots[t] = assignment
		}
	}

	return schedule, nil
}
