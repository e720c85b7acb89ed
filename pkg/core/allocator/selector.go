package allocator

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/mroth/weightedrand/v2"

	"github.com/oivas000/duty-roster/pkg/core/ledger"
	"github.com/oivas000/duty-roster/pkg/core/model"
)

// Penalties are the weight deltas applied by the selector. They are constant
// for a whole run.
type Penalties struct {
	// Primary is subtracted from a member's weight in the role they were picked for
	Primary int

	// Cross is subtracted from the picked member's weight in each of the role's
	// CrossPenalize roles
	Cross int

	// Collision is subtracted from a member's draw-local weight when a later
	// role draws a member already picked in the same slot. Never committed.
	Collision int
}

// DefaultPenalties returns the standard -10 / -5 / -10 penalties
func DefaultPenalties() Penalties {
	return Penalties{Primary: 10, Cross: 5, Collision: 10}
}

// Selector picks one member per role for a single slot
type Selector struct {
	roles     []model.RoleDefinition
	ledger    *ledger.Ledger
	rng       *rand.Rand
	penalties Penalties
}

// NewSelector creates a selector drawing from rng and committing to l
func NewSelector(roles []model.RoleDefinition, l *ledger.Ledger, rng *rand.Rand, penalties Penalties) *Selector {
	return &Selector{
		roles:     roles,
		ledger:    l,
		rng:       rng,
		penalties: penalties,
	}
}

// Select fills one slot of the given kind from pool and commits the weight
// penalties for the picks.
//
// For each role only the members at the maximum current weight are drawn
// from, uniformly. When a later role draws a member already picked for an
// earlier role, only that member is demoted (draw-local) and the draw repeats.
func (s *Selector) Select(kind model.SlotKind, pool []model.MemberID) (model.Assignment, error) {
	if len(pool) == 0 {
		return nil, &model.ConfigurationError{Kind: kind, Reason: "no eligible members"}
	}

	picks := make(model.Assignment, 0, len(s.roles))

	for _, def := range s.roles {
		local := make(map[model.MemberID]int, len(pool))
		fresh := 0
		for _, id := range pool {
			if s.ledger.IsPinned(def.Role, id) {
				continue
			}
			local[id] = s.ledger.Weight(def.Role, id)
			if !picks.Has(id) {
				fresh++
			}
		}
		if fresh == 0 {
			return nil, &model.ConfigurationError{
				Kind:   kind,
				Role:   def.Role,
				Reason: "no eligible member distinct from the other roles of the slot",
			}
		}

		for {
			choice, err := s.draw(maxTier(local))
			if err != nil {
				return nil, fmt.Errorf("failed to draw %s for slot %s: %w", def.Role, kind.Code(), err)
			}
			if !picks.Has(choice) {
				picks = append(picks, choice)
				break
			}
			local[choice] -= s.penalties.Collision
		}
	}

	s.commit(picks)

	return picks, nil
}

// commit applies the primary and cross penalties for a filled slot
func (s *Selector) commit(picks model.Assignment) {
	for i, def := range s.roles {
		member := picks[i]
		s.ledger.Adjust(def.Role, member, -s.penalties.Primary)
		for _, other := range def.CrossPenalize {
			s.ledger.Adjust(other, member, -s.penalties.Cross)
		}
	}
}

// draw picks uniformly among the tier
func (s *Selector) draw(tier []model.MemberID) (model.MemberID, error) {
	if len(tier) == 1 {
		return tier[0], nil
	}

	choices := make([]weightedrand.Choice[model.MemberID, int], len(tier))
	for i, id := range tier {
		choices[i] = weightedrand.NewChoice(id, 1)
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return model.NoMember, err
	}

	return chooser.PickSource(s.rng), nil
}

// maxTier returns the members sharing the highest weight, in ascending id order
func maxTier(weights map[model.MemberID]int) []model.MemberID {
	var tier []model.MemberID
	best := 0
	for id, w := range weights {
		switch {
		case len(tier) == 0 || w > best:
			best = w
			tier = append(tier[:0], id)
		case w == best:
			tier = append(tier, id)
		}
	}
	slices.Sort(tier)
	return tier
}
