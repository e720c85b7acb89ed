package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

// Grid is the calendar of one month: its real days in date order and how
// often each weekday occurs
type Grid struct {
	Year        int
	Month       time.Month
	Days        []model.Day
	occurrences [model.NumWeekdays]int
}

// BuildGrid enumerates the days of a month using a daily recurrence bounded
// to the month
func BuildGrid(year, month int) (*Grid, error) {
	if month < 1 || month > 12 {
		return nil, &model.InputError{Field: "month", Value: month}
	}
	if year < 1 || year > 9999 {
		return nil, &model.InputError{Field: "year", Value: year}
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first,
		Until:   last,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build daily recurrence: %w", err)
	}

	grid := &Grid{
		Year:  year,
		Month: time.Month(month),
	}
	for _, date := range rule.All() {
		weekday := model.WeekdayOf(date.Weekday())
		grid.Days = append(grid.Days, model.Day{Date: date, Weekday: weekday})
		grid.occurrences[weekday]++
	}

	return grid, nil
}

// Occurrences returns how many times the weekday falls within the month
func (g *Grid) Occurrences(w model.Weekday) int {
	return g.occurrences[w]
}

// SlotCount returns how many times a slot kind must be filled this month
func (g *Grid) SlotCount(kind model.SlotKind) int {
	return g.occurrences[kind.Weekday]
}

// TotalSlots returns the number of concrete slots in the month
func (g *Grid) TotalSlots() int {
	return len(g.Days) * model.NumTimeslots
}
