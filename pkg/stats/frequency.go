package stats

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

// DefaultTopN is the number of names listed at each end of a role's ranking
const DefaultTopN = 10

// Count is how often one member holds a role within a schedule
type Count struct {
	MemberID model.MemberID
	Name     string
	Count    int
}

// RoleReport ranks the members assigned to one role
type RoleReport struct {
	Role     model.Role
	RoleName string

	// Most lists the most assigned members, highest count first
	Most []Count

	// Least lists the least assigned members that hold the role at least once, lowest count first
	Least []Count

	// NeverAssigned holds the names of members with no position in the role, sorted
	NeverAssigned []string
}

// Report is the frequency summary of a schedule
type Report struct {
	Year  int
	Month int
	Roles []RoleReport
}

// Frequencies counts role positions per member. Members unknown to the
// directory are reported by id. A non-positive topN uses DefaultTopN.
func Frequencies(s *model.Schedule, roles []model.RoleDefinition, members []model.Member, topN int) *Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	names := make(map[model.MemberID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	counts := s.Counts()
	report := &Report{Year: s.Year, Month: int(s.Month)}

	for _, def := range roles {
		roleCounts := counts[def.Role]

		ranked := make([]Count, 0, len(roleCounts))
		for id, n := range roleCounts {
			ranked = append(ranked, Count{MemberID: id, Name: nameOf(names, id), Count: n})
		}

		slices.SortFunc(ranked, func(a, b Count) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		most := slices.Clone(ranked[:min(topN, len(ranked))])

		slices.SortFunc(ranked, func(a, b Count) int {
			if c := cmp.Compare(a.Count, b.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		least := slices.Clone(ranked[:min(topN, len(ranked))])

		var never []string
		for _, m := range members {
			if roleCounts[m.ID] == 0 {
				never = append(never, m.Name)
			}
		}
		slices.Sort(never)

		report.Roles = append(report.Roles, RoleReport{
			Role:          def.Role,
			RoleName:      def.Name,
			Most:          most,
			Least:         least,
			NeverAssigned: never,
		})
	}

	return report
}

func nameOf(names map[model.MemberID]string, id model.MemberID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "#" + strconv.Itoa(int(id))
}
