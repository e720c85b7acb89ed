package model

import (
	"fmt"
	"slices"
	"time"
)

// MemberID is the stable identifier of a member in the member directory
type MemberID int

// NoMember marks an unfilled role position
const NoMember MemberID = 0

// Member is immutable reference data from the member directory
type Member struct {
	ID   MemberID
	Name string
}

// Role is the short code of a duty type within a slot (e.g. "B", "R", "I")
type Role string

const (
	RoleReader        Role = "B"
	RoleSecondReader  Role = "R"
	RoleIncenseBearer Role = "I"
)

// RoleDefinition describes a role and which other roles receive a cross-penalty
// when a member is picked for it
type RoleDefinition struct {
	Role          Role
	Name          string
	CrossPenalize []Role
}

// DefaultRoles returns the three-role layout: Reader and SecondReader penalise
// each other, IncenseBearer stands alone
func DefaultRoles() []RoleDefinition {
	return []RoleDefinition{
		{Role: RoleReader, Name: "Bible Reading", CrossPenalize: []Role{RoleSecondReader}},
		{Role: RoleSecondReader, Name: "Reading", CrossPenalize: []Role{RoleReader}},
		{Role: RoleIncenseBearer, Name: "Incense"},
	}
}

// RoleCodes returns the role codes in order
func RoleCodes(defs []RoleDefinition) []Role {
	roles := make([]Role, len(defs))
	for i, def := range defs {
		roles[i] = def.Role
	}
	return roles
}

// Weekday is a day-of-week code with Monday as 0
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// NumWeekdays is the number of weekday codes
const NumWeekdays = 7

var weekdayCodes = [NumWeekdays]string{"m", "t", "w", "h", "f", "s", "u"}

// WeekdayOf converts a time.Weekday (Sunday = 0) into a Weekday (Monday = 0)
func WeekdayOf(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

// Code returns the single-letter code used by the availability columns
func (w Weekday) Code() string {
	return weekdayCodes[w]
}

func (w Weekday) String() string {
	return time.Weekday((int(w) + 1) % 7).String()
}

// IsValid reports whether w is one of the seven weekday codes
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// Timeslot is one of the three fixed duty times of a day
type Timeslot int

const (
	TimeslotEarly Timeslot = iota
	TimeslotLate
	TimeslotEvening
)

// NumTimeslots is the number of duty times per day
const NumTimeslots = 3

// IsValid reports whether t is one of the three timeslots
func (t Timeslot) IsValid() bool {
	return t >= TimeslotEarly && t <= TimeslotEvening
}

// Number returns the 1-based timeslot number
func (t Timeslot) Number() int {
	return int(t) + 1
}

// SlotKind is a (weekday, timeslot) pair recurring once per week
type SlotKind struct {
	Weekday  Weekday
	Timeslot Timeslot
}

// NumSlotKinds is the number of distinct slot kinds
const NumSlotKinds = NumWeekdays * NumTimeslots

// Index returns the dense 0..20 table index of the kind (weekday major)
func (k SlotKind) Index() int {
	return int(k.Weekday)*NumTimeslots + int(k.Timeslot)
}

// Code returns the availability column name, e.g. "m1" for Monday early
func (k SlotKind) Code() string {
	return fmt.Sprintf("%s%d", k.Weekday.Code(), k.Timeslot.Number())
}

func (k SlotKind) String() string {
	return fmt.Sprintf("%s/%d", k.Weekday, k.Timeslot.Number())
}

// ParseSlotKind parses an availability column name such as "u3"
func ParseSlotKind(code string) (SlotKind, error) {
	if len(code) != 2 {
		return SlotKind{}, fmt.Errorf("invalid slot kind %q", code)
	}
	day := slices.Index(weekdayCodes[:], code[:1])
	slot := int(code[1] - '1')
	if day < 0 || slot < 0 || slot >= NumTimeslots {
		return SlotKind{}, fmt.Errorf("invalid slot kind %q", code)
	}
	return SlotKind{Weekday: Weekday(day), Timeslot: Timeslot(slot)}, nil
}

// SlotKindAt returns the kind stored at a table index
func SlotKindAt(index int) SlotKind {
	return SlotKind{Weekday: Weekday(index / NumTimeslots), Timeslot: Timeslot(index % NumTimeslots)}
}

// AllSlotKinds returns the 21 kinds in weekday then timeslot order
func AllSlotKinds() []SlotKind {
	kinds := make([]SlotKind, NumSlotKinds)
	for i := range kinds {
		kinds[i] = SlotKindAt(i)
	}
	return kinds
}

// Day is a real calendar date within the target month
type Day struct {
	Date    time.Time
	Weekday Weekday
}

// Number returns the day of the month
func (d Day) Number() int {
	return d.Date.Day()
}

// Assignment maps each role (by position in the run's role order) to a member
type Assignment []MemberID

// Has reports whether the member holds any role in the assignment
func (a Assignment) Has(id MemberID) bool {
	return slices.Contains(a, id)
}

// HasExcept reports whether the member holds any role other than the one at skip
func (a Assignment) HasExcept(id MemberID, skip int) bool {
	for i, m := range a {
		if i != skip && m == id {
			return true
		}
	}
	return false
}

// IsDistinct reports whether no member holds two roles
func (a Assignment) IsDistinct() bool {
	seen := make(map[MemberID]bool, len(a))
	for _, m := range a {
		if seen[m] {
			return false
		}
		seen[m] = true
	}
	return true
}

// Clone returns an independent copy
func (a Assignment) Clone() Assignment {
	return slices.Clone(a)
}

// DaySchedule holds the assignments of one day, indexed by timeslot
type DaySchedule struct {
	Day   Day
	Slots [NumTimeslots]Assignment
}

// Position addresses one role cell of the schedule
type Position struct {
	DayIndex  int
	Timeslot  Timeslot
	RoleIndex int
}

// Less orders positions by day, then timeslot, then role
func (p Position) Less(o Position) bool {
	if p.DayIndex != o.DayIndex {
		return p.DayIndex < o.DayIndex
	}
	if p.Timeslot != o.Timeslot {
		return p.Timeslot < o.Timeslot
	}
	return p.RoleIndex < o.RoleIndex
}

// Schedule is the month roster in date order
type Schedule struct {
	Year  int
	Month time.Month
	Roles []Role
	Days  []DaySchedule
}

// At returns the member at a position
func (s *Schedule) At(p Position) MemberID {
	return s.Days[p.DayIndex].Slots[p.Timeslot][p.RoleIndex]
}

// Set replaces the member at a position
func (s *Schedule) Set(p Position, id MemberID) {
	s.Days[p.DayIndex].Slots[p.Timeslot][p.RoleIndex] = id
}

// Assignment returns the assignment containing a position
func (s *Schedule) Assignment(p Position) Assignment {
	return s.Days[p.DayIndex].Slots[p.Timeslot]
}

// Date returns the date of a position
func (s *Schedule) Date(p Position) time.Time {
	return s.Days[p.DayIndex].Day.Date
}

// Clone returns a deep copy
func (s *Schedule) Clone() *Schedule {
	clone := &Schedule{
		Year:  s.Year,
		Month: s.Month,
		Roles: slices.Clone(s.Roles),
		Days:  make([]DaySchedule, len(s.Days)),
	}
	for i, ds := range s.Days {
		clone.Days[i].Day = ds.Day
		for t, a := range ds.Slots {
			clone.Days[i].Slots[t] = a.Clone()
		}
	}
	return clone
}

// IsDense reports whether every day has a fully filled assignment per timeslot
func (s *Schedule) IsDense() bool {
	for _, ds := range s.Days {
		for _, a := range ds.Slots {
			if len(a) != len(s.Roles) || a.Has(NoMember) {
				return false
			}
		}
	}
	return true
}

// Counts returns how often each member holds each role
func (s *Schedule) Counts() map[Role]map[MemberID]int {
	counts := make(map[Role]map[MemberID]int, len(s.Roles))
	for _, role := range s.Roles {
		counts[role] = make(map[MemberID]int)
	}
	for _, ds := range s.Days {
		for _, a := range ds.Slots {
			for ri, m := range a {
				counts[s.Roles[ri]][m]++
			}
		}
	}
	return counts
}
