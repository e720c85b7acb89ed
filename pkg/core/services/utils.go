package services

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/core/calendar"
	"github.com/oivas000/duty-roster/pkg/core/ledger"
	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/db"
)

const dateLayout = "2006-01-02"

// roleDefinitions converts the configured roles into core role definitions
func roleDefinitions(cfg *config.Config) []model.RoleDefinition {
	defs := make([]model.RoleDefinition, len(cfg.Roles))
	for i, rc := range cfg.Roles {
		cross := make([]model.Role, len(rc.CrossPenalize))
		for j, code := range rc.CrossPenalize {
			cross[j] = model.Role(code)
		}
		defs[i] = model.RoleDefinition{Role: model.Role(rc.Code), Name: rc.Name, CrossPenalize: cross}
	}
	return defs
}

// memberDirectory answers eligibility and name lookups from stored records
type memberDirectory struct {
	members  []model.Member
	names    map[model.MemberID]string
	eligible [model.NumSlotKinds][]model.MemberID
}

// newMemberDirectory indexes availability by slot kind. Rows naming an unknown
// member or slot are skipped with a warning.
func newMemberDirectory(members []db.Member, availability []db.Availability, logger *zap.Logger) *memberDirectory {
	dir := &memberDirectory{
		members: make([]model.Member, len(members)),
		names:   make(map[model.MemberID]string, len(members)),
	}
	for i, m := range members {
		dir.members[i] = model.Member{ID: model.MemberID(m.ID), Name: m.Name}
		dir.names[model.MemberID(m.ID)] = m.Name
	}

	for _, a := range availability {
		id := model.MemberID(a.MemberID)
		if _, ok := dir.names[id]; !ok {
			logger.Warn("Skipping availability for unknown member", zap.Int("member_id", a.MemberID))
			continue
		}
		kind, err := model.ParseSlotKind(a.Slot)
		if err != nil {
			logger.Warn("Skipping invalid availability slot", zap.Int("member_id", a.MemberID), zap.String("slot", a.Slot))
			continue
		}
		dir.eligible[kind.Index()] = append(dir.eligible[kind.Index()], id)
	}

	for i := range dir.eligible {
		slices.Sort(dir.eligible[i])
		dir.eligible[i] = slices.Compact(dir.eligible[i])
	}

	return dir
}

func (d *memberDirectory) ListEligible(kind model.SlotKind) []model.MemberID {
	return d.eligible[kind.Index()]
}

// Name returns the display name of a member, or "#<id>" when unknown
func (d *memberDirectory) Name(id model.MemberID) string {
	if name, ok := d.names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// buildLedger loads stored weights and gives every member/role cell without a
// stored weight the default, returning how many cells were seeded
func buildLedger(roles []model.RoleDefinition, members []model.Member, weights []db.Weight, defaultWeight int) (*ledger.Ledger, int) {
	l := ledger.New(model.RoleCodes(roles))

	stored := make(map[model.MemberID]map[model.Role]bool, len(members))
	for _, w := range weights {
		id, role := model.MemberID(w.MemberID), model.Role(w.Role)
		l.Set(role, id, w.Weight)
		if stored[id] == nil {
			stored[id] = make(map[model.Role]bool)
		}
		stored[id][role] = true
	}

	seeded := 0
	for _, m := range members {
		for _, def := range roles {
			if !stored[m.ID][def.Role] {
				l.Set(def.Role, m.ID, defaultWeight)
				seeded++
			}
		}
	}

	return l, seeded
}

// toDBWeights converts ledger entries into store records
func toDBWeights(entries []ledger.Entry) []db.Weight {
	weights := make([]db.Weight, len(entries))
	for i, e := range entries {
		weights[i] = db.Weight{MemberID: int(e.MemberID), Role: string(e.Role), Weight: e.Weight}
	}
	return weights
}

// toRunAssignments flattens a schedule into one record per role position
func toRunAssignments(runID string, s *model.Schedule) []db.RunAssignment {
	assignments := make([]db.RunAssignment, 0, len(s.Days)*model.NumTimeslots*len(s.Roles))
	for _, ds := range s.Days {
		date := ds.Day.Date.Format(dateLayout)
		for ts, a := range ds.Slots {
			for ri, id := range a {
				assignments = append(assignments, db.RunAssignment{
					RunID:    runID,
					Date:     date,
					Timeslot: model.Timeslot(ts).Number(),
					Role:     string(s.Roles[ri]),
					MemberID: int(id),
				})
			}
		}
	}
	return assignments
}

// scheduleFromAssignments rebuilds the schedule of a stored run
func scheduleFromAssignments(run *db.Run, assignments []db.RunAssignment, roles []model.RoleDefinition) (*model.Schedule, error) {
	grid, err := calendar.BuildGrid(run.Year, run.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar grid: %w", err)
	}

	codes := model.RoleCodes(roles)
	s := &model.Schedule{
		Year:  run.Year,
		Month: time.Month(run.Month),
		Roles: codes,
		Days:  make([]model.DaySchedule, len(grid.Days)),
	}
	for i, day := range grid.Days {
		s.Days[i].Day = day
		for ts := range s.Days[i].Slots {
			s.Days[i].Slots[ts] = make(model.Assignment, len(codes))
		}
	}

	for _, a := range assignments {
		date, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid assignment date %q: %w", a.Date, err)
		}
		dayIndex := date.Day() - 1
		if date.Year() != run.Year || int(date.Month()) != run.Month || dayIndex >= len(s.Days) {
			return nil, fmt.Errorf("assignment date %s outside run month", a.Date)
		}
		ts := model.Timeslot(a.Timeslot - 1)
		if !ts.IsValid() {
			return nil, fmt.Errorf("invalid assignment timeslot %d on %s", a.Timeslot, a.Date)
		}
		ri := slices.Index(codes, model.Role(a.Role))
		if ri < 0 {
			return nil, fmt.Errorf("run %s uses role %s which is not configured", run.ID, a.Role)
		}
		s.Days[dayIndex].Slots[ts][ri] = model.MemberID(a.MemberID)
	}

	if !s.IsDense() {
		return nil, fmt.Errorf("run %s has unfilled positions", run.ID)
	}

	return s, nil
}

// findRun returns the run with the given id, or the most recent run when runID is empty
func findRun(runs []db.Run, runID string) (*db.Run, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs found - generate a roster first")
	}

	if runID == "" {
		latest := &runs[0]
		for i := range runs {
			if runs[i].CreatedAt.After(latest.CreatedAt) {
				latest = &runs[i]
			}
		}
		return latest, nil
	}

	for i := range runs {
		if runs[i].ID == runID {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("run not found: %s", runID)
}

// findMonthRun returns a stored run for the month, if any
func findMonthRun(runs []db.Run, year, month int) *db.Run {
	for i := range runs {
		if runs[i].Year == year && runs[i].Month == month {
			return &runs[i]
		}
	}
	return nil
}
