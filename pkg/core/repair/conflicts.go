package repair

import (
	"sort"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

// ConflictKind names a repetition pattern
type ConflictKind string

const (
	// ConflictSameDay is one member holding positions in two timeslots of one day
	ConflictSameDay ConflictKind = "same-day"

	// ConflictAdjacency is one member holding the same role and timeslot on
	// calendar-adjacent dates or in consecutive weeks of the same slot kind
	ConflictAdjacency ConflictKind = "adjacency"
)

// Conflict is a pair of positions held by the same member. First always
// precedes Second.
type Conflict struct {
	Kind   ConflictKind
	Member model.MemberID
	First  model.Position
	Second model.Position
}

type conflictSet map[Conflict]struct{}

func newConflict(kind ConflictKind, member model.MemberID, a, b model.Position) Conflict {
	if b.Less(a) {
		a, b = b, a
	}
	return Conflict{Kind: kind, Member: member, First: a, Second: b}
}

// adjacencyOffsets returns the day distances that count as adjacency
func adjacencyOffsets(weeks int) []int {
	offsets := []int{1}
	for k := 1; k <= weeks; k++ {
		offsets = append(offsets, 7*k)
	}
	return offsets
}

// conflictsAt collects every conflict with at least one position on the day
func conflictsAt(s *model.Schedule, dayIndex int, offsets []int, into conflictSet) {
	day := s.Days[dayIndex]

	for t1 := model.Timeslot(0); t1 < model.NumTimeslots; t1++ {
		for r1, member := range day.Slots[t1] {
			if member == model.NoMember {
				continue
			}
			p1 := model.Position{DayIndex: dayIndex, Timeslot: t1, RoleIndex: r1}

			for t2 := t1 + 1; t2 < model.NumTimeslots; t2++ {
				for r2, other := range day.Slots[t2] {
					if other == member {
						p2 := model.Position{DayIndex: dayIndex, Timeslot: t2, RoleIndex: r2}
						into[newConflict(ConflictSameDay, member, p1, p2)] = struct{}{}
					}
				}
			}

			for _, offset := range offsets {
				for _, neighbour := range []int{dayIndex - offset, dayIndex + offset} {
					if neighbour < 0 || neighbour >= len(s.Days) {
						continue
					}
					p2 := model.Position{DayIndex: neighbour, Timeslot: t1, RoleIndex: r1}
					if s.At(p2) == member {
						into[newConflict(ConflictAdjacency, member, p1, p2)] = struct{}{}
					}
				}
			}
		}
	}
}

// Detect returns every conflict in the schedule in position order
func Detect(s *model.Schedule, adjacencyWeeks int) []Conflict {
	set := make(conflictSet)
	offsets := adjacencyOffsets(adjacencyWeeks)
	for d := range s.Days {
		conflictsAt(s, d, offsets, set)
	}
	return sortedConflicts(set)
}

func sortedConflicts(set conflictSet) []Conflict {
	conflicts := make([]Conflict, 0, len(set))
	for c := range set {
		conflicts = append(conflicts, c)
	}
	sort.Slice(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.First != b.First {
			return a.First.Less(b.First)
		}
		if a.Second != b.Second {
			return a.Second.Less(b.Second)
		}
		return a.Kind < b.Kind
	})
	return conflicts
}
