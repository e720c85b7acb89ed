package allocator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oivas000/duty-roster/pkg/core/ledger"
	"github.com/oivas000/duty-roster/pkg/core/model"
)

var monday1 = model.SlotKind{Weekday: model.Monday, Timeslot: model.TimeslotEarly}

func newLedger(members []model.MemberID, weight int) *ledger.Ledger {
	roles := model.RoleCodes(model.DefaultRoles())
	l := ledger.New(roles)
	for _, id := range members {
		for _, role := range roles {
			l.Set(role, id, weight)
		}
	}
	return l
}

func TestSelector_AppliesPrimaryAndCrossPenalties(t *testing.T) {
	pool := []model.MemberID{1, 2, 3, 4, 5}
	l := newLedger(pool, 100)
	s := NewSelector(model.DefaultRoles(), l, rand.New(rand.NewSource(7)), DefaultPenalties())

	picks, err := s.Select(monday1, pool)
	require.NoError(t, err)
	require.Len(t, picks, 3)
	assert.True(t, picks.IsDistinct())

	reader, second, incense := picks[0], picks[1], picks[2]

	assert.Equal(t, 90, l.Weight(model.RoleReader, reader))
	assert.Equal(t, 95, l.Weight(model.RoleSecondReader, reader))
	assert.Equal(t, 100, l.Weight(model.RoleIncenseBearer, reader))

	assert.Equal(t, 90, l.Weight(model.RoleSecondReader, second))
	assert.Equal(t, 95, l.Weight(model.RoleReader, second))
	assert.Equal(t, 100, l.Weight(model.RoleIncenseBearer, second))

	assert.Equal(t, 90, l.Weight(model.RoleIncenseBearer, incense))
	assert.Equal(t, 100, l.Weight(model.RoleReader, incense))
	assert.Equal(t, 100, l.Weight(model.RoleSecondReader, incense))

	for _, id := range pool {
		if picks.Has(id) {
			continue
		}
		for _, role := range l.Roles() {
			assert.Equal(t, 100, l.Weight(role, id), "unpicked member %d role %s", id, role)
		}
	}
}

func TestSelector_AlwaysPicksFromMaxTier(t *testing.T) {
	pool := []model.MemberID{1, 2, 3, 4}
	l := newLedger(pool, 100)
	l.Set(model.RoleReader, 3, 150)
	l.Set(model.RoleIncenseBearer, 2, 120)
	s := NewSelector(model.DefaultRoles(), l, rand.New(rand.NewSource(1)), DefaultPenalties())

	picks, err := s.Select(monday1, pool)
	require.NoError(t, err)

	assert.Equal(t, model.MemberID(3), picks[0])
	assert.Equal(t, model.MemberID(2), picks[2])
}

func TestSelector_TiesAreBrokenUniformly(t *testing.T) {
	roles := []model.RoleDefinition{{Role: model.RoleReader}}
	l := ledger.New(model.RoleCodes(roles))
	s := NewSelector(roles, l, rand.New(rand.NewSource(42)), DefaultPenalties())
	pool := []model.MemberID{1, 2}

	counts := map[model.MemberID]int{}
	for i := 0; i < 1000; i++ {
		l.Set(model.RoleReader, 1, 100)
		l.Set(model.RoleReader, 2, 100)

		picks, err := s.Select(monday1, pool)
		require.NoError(t, err)
		counts[picks[0]]++
	}

	assert.InDelta(t, 500, counts[1], 100)
	assert.InDelta(t, 500, counts[2], 100)
}

// A penalty equal to the weight would pin the member, so the weight stops at
// -1 instead of moving by the exact penalty
func TestSelector_PenaltyStopsShortOfPin(t *testing.T) {
	roles := model.DefaultRoles()[:2]
	l := newLedger([]model.MemberID{1, 2}, 0)
	l.Set(model.RoleReader, 1, 10)
	l.Set(model.RoleSecondReader, 1, 5)
	l.Set(model.RoleReader, 2, 5)
	l.Set(model.RoleSecondReader, 2, 10)
	s := NewSelector(roles, l, rand.New(rand.NewSource(3)), DefaultPenalties())

	picks, err := s.Select(monday1, []model.MemberID{1, 2})
	require.NoError(t, err)
	assert.Equal(t, model.Assignment{1, 2}, picks)

	// Primary 10 -> -1 and cross 5 -> -1 for both members
	for _, id := range []model.MemberID{1, 2} {
		for _, role := range []model.Role{model.RoleReader, model.RoleSecondReader} {
			assert.Equal(t, -1, l.Weight(role, id), "member %d role %s", id, role)
			assert.False(t, l.IsPinned(role, id))
		}
	}
}

func TestSelector_CollisionRedrawsDistinctMember(t *testing.T) {
	pool := []model.MemberID{1, 2, 3}
	l := newLedger(pool, 100)
	// Member 1 dominates every role, so later roles must collide and redraw
	for _, role := range l.Roles() {
		l.Set(role, 1, 200)
	}
	s := NewSelector(model.DefaultRoles(), l, rand.New(rand.NewSource(3)), DefaultPenalties())

	picks, err := s.Select(monday1, pool)
	require.NoError(t, err)

	assert.Equal(t, model.MemberID(1), picks[0])
	assert.True(t, picks.IsDistinct())
	assert.ElementsMatch(t, pool, []model.MemberID(picks))

	// Collision demotions are draw-local
	assert.Equal(t, 195, l.Weight(model.RoleSecondReader, 1))
	assert.Equal(t, 200, l.Weight(model.RoleIncenseBearer, 1))
}

func TestSelector_SkipsPinnedMembers(t *testing.T) {
	pool := []model.MemberID{1, 2, 3, 4}
	l := newLedger(pool, 100)
	l.Set(model.RoleIncenseBearer, 1, 0)
	l.Set(model.RoleIncenseBearer, 2, 0)
	l.Set(model.RoleIncenseBearer, 3, 0)
	l.Set(model.RoleReader, 4, 0)
	l.Set(model.RoleSecondReader, 4, 0)
	s := NewSelector(model.DefaultRoles(), l, rand.New(rand.NewSource(5)), DefaultPenalties())

	for i := 0; i < 20; i++ {
		picks, err := s.Select(monday1, pool)
		require.NoError(t, err)
		assert.Equal(t, model.MemberID(4), picks[2])
		assert.NotEqual(t, model.MemberID(4), picks[0])
		assert.NotEqual(t, model.MemberID(4), picks[1])
	}
	assert.Equal(t, 0, l.Weight(model.RoleIncenseBearer, 1))
}

func TestSelector_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		pool     []model.MemberID
		pin      []model.MemberID
		wantRole model.Role
	}{
		{
			name: "empty pool",
			pool: nil,
		},
		{
			name:     "every member pinned for a role",
			pool:     []model.MemberID{1, 2, 3},
			pin:      []model.MemberID{1, 2, 3},
			wantRole: model.RoleIncenseBearer,
		},
		{
			name:     "pool smaller than role count",
			pool:     []model.MemberID{1, 2},
			wantRole: model.RoleIncenseBearer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger([]model.MemberID{1, 2, 3}, 100)
			for _, id := range tt.pin {
				l.Set(model.RoleIncenseBearer, id, 0)
			}
			before := l.Entries()
			s := NewSelector(model.DefaultRoles(), l, rand.New(rand.NewSource(1)), DefaultPenalties())

			picks, err := s.Select(monday1, tt.pool)
			require.Error(t, err)
			assert.Nil(t, picks)

			var cfgErr *model.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, monday1, cfgErr.Kind)
			assert.Equal(t, tt.wantRole, cfgErr.Role)

			// Nothing is committed for a failed slot
			assert.Equal(t, before, l.Entries())
		})
	}
}

func TestMaxTier(t *testing.T) {
	tier := maxTier(map[model.MemberID]int{4: 50, 2: 80, 9: 80, 1: -10, 3: 80})
	assert.Equal(t, []model.MemberID{2, 3, 9}, tier)

	tier = maxTier(map[model.MemberID]int{5: -30, 6: -20})
	assert.Equal(t, []model.MemberID{6}, tier)

	assert.Empty(t, maxTier(nil))
}
