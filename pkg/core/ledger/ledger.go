package ledger

import (
	"slices"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

// Entry is one member/role weight cell
type Entry struct {
	MemberID model.MemberID
	Role     model.Role
	Weight   int
}

// Ledger holds the per-member, per-role weights for one run.
//
// A weight of exactly zero is a pin: the member is not eligible for that role,
// is skipped by ResetAll and ReplenishAll, and is never moved by Adjust.
// Adjust never lands an unpinned weight on zero; it steps one past instead.
//
// A Ledger is not safe for concurrent use. Penalties are order dependent, so
// only one run may hold it at a time.
type Ledger struct {
	roles   []model.Role
	weights map[model.MemberID]map[model.Role]int
	changed map[cell]struct{}
}

type cell struct {
	member model.MemberID
	role   model.Role
}

// New creates an empty ledger for the given roles
func New(roles []model.Role) *Ledger {
	return &Ledger{
		roles:   slices.Clone(roles),
		weights: make(map[model.MemberID]map[model.Role]int),
		changed: make(map[cell]struct{}),
	}
}

// FromEntries builds a ledger from stored weights
func FromEntries(roles []model.Role, entries []Entry) *Ledger {
	l := New(roles)
	for _, e := range entries {
		l.Set(e.Role, e.MemberID, e.Weight)
	}
	return l
}

// Roles returns the roles tracked by the ledger
func (l *Ledger) Roles() []model.Role {
	return l.roles
}

// Set stores a weight verbatim, including zero pins. Used when loading.
func (l *Ledger) Set(role model.Role, member model.MemberID, weight int) {
	row, ok := l.weights[member]
	if !ok {
		row = make(map[model.Role]int, len(l.roles))
		l.weights[member] = row
	}
	row[role] = weight
}

// Weight returns the current weight. Unknown cells read as zero (not eligible).
func (l *Ledger) Weight(role model.Role, member model.MemberID) int {
	return l.weights[member][role]
}

// IsPinned reports whether the member is pinned at zero for the role
func (l *Ledger) IsPinned(role model.Role, member model.MemberID) bool {
	return l.Weight(role, member) == 0
}

// Adjust applies delta immediately. Pinned (zero) weights are left alone.
//
// The weight moves by exactly delta except when the result would be 0: a
// zero weight means "never pick", so the weight stops at -1 (or 1 for a
// positive delta) instead. A weight of 10 penalised by 10 ends at -1.
func (l *Ledger) Adjust(role model.Role, member model.MemberID, delta int) {
	current := l.Weight(role, member)
	if current == 0 || delta == 0 {
		return
	}
	next := current + delta
	if next == 0 {
		if delta < 0 {
			next = -1
		} else {
			next = 1
		}
	}
	l.Set(role, member, next)
	l.changed[cell{member, role}] = struct{}{}
}

// ResetAll sets every unpinned weight to defaultValue
func (l *Ledger) ResetAll(defaultValue int) {
	for member, row := range l.weights {
		for role, weight := range row {
			if weight != 0 && weight != defaultValue {
				row[role] = defaultValue
				l.changed[cell{member, role}] = struct{}{}
			}
		}
	}
}

// ReplenishAll adds delta to every unpinned weight
func (l *Ledger) ReplenishAll(delta int) {
	for member, row := range l.weights {
		for role := range row {
			l.Adjust(role, member, delta)
		}
	}
}

// Members returns the member ids known to the ledger in ascending order
func (l *Ledger) Members() []model.MemberID {
	members := make([]model.MemberID, 0, len(l.weights))
	for id := range l.weights {
		members = append(members, id)
	}
	slices.Sort(members)
	return members
}

// Entries returns a snapshot ordered by member then role order
func (l *Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(l.weights)*len(l.roles))
	for _, member := range l.Members() {
		row := l.weights[member]
		for _, role := range l.roles {
			weight, ok := row[role]
			if !ok {
				continue
			}
			entries = append(entries, Entry{MemberID: member, Role: role, Weight: weight})
		}
	}
	return entries
}

// Changes returns the cells moved by Adjust or ResetAll since the ledger was
// built, in Entries order
func (l *Ledger) Changes() []Entry {
	var changes []Entry
	for _, e := range l.Entries() {
		if _, ok := l.changed[cell{e.MemberID, e.Role}]; ok {
			changes = append(changes, e)
		}
	}
	return changes
}

// Clone returns an independent copy with no recorded changes
func (l *Ledger) Clone() *Ledger {
	return FromEntries(l.roles, l.Entries())
}
