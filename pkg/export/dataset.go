package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Listing is the daily list of one role
type Listing struct {
	Role model.Role
	Dataset
}

// ListingTitle returns e.g. "DAILY BIBLE READING LIST MARCH 2025"
func ListingTitle(roleName string, s *model.Schedule) string {
	return strings.ToUpper(fmt.Sprintf("DAILY %s LIST %s %d", roleName, s.Month, s.Year))
}

// RoleListings builds one listing per role: a DATE column holding the day of
// the month followed by one column per timeslot label.
func RoleListings(s *model.Schedule, roles []model.RoleDefinition, timeslots []string, names map[model.MemberID]string) ([]Listing, error) {
	if len(timeslots) != model.NumTimeslots {
		return nil, fmt.Errorf("expected %d timeslot labels, got %d", model.NumTimeslots, len(timeslots))
	}
	if len(roles) != len(s.Roles) {
		return nil, fmt.Errorf("schedule has %d roles, %d role definitions given", len(s.Roles), len(roles))
	}

	headers := append([]string{"DATE"}, timeslots...)

	listings := make([]Listing, len(roles))
	for ri, def := range roles {
		if s.Roles[ri] != def.Role {
			return nil, fmt.Errorf("role %d is %s in the schedule, %s in the definitions", ri, s.Roles[ri], def.Role)
		}

		rows := make([][]string, 0, len(s.Days))
		for _, ds := range s.Days {
			row := []string{strconv.Itoa(ds.Day.Number())}
			for _, a := range ds.Slots {
				row = append(row, memberName(names, a[ri]))
			}
			rows = append(rows, row)
		}

		listings[ri] = Listing{
			Role: def.Role,
			Dataset: Dataset{
				Title:   ListingTitle(def.Name, s),
				Headers: headers,
				Rows:    rows,
			},
		}
	}

	return listings, nil
}

func memberName(names map[model.MemberID]string, id model.MemberID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "#" + strconv.Itoa(int(id))
}
