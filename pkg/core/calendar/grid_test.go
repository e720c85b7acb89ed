package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

func TestBuildGrid_February2027(t *testing.T) {
	grid, err := BuildGrid(2027, 2)
	require.NoError(t, err)

	require.Len(t, grid.Days, 28)
	assert.Equal(t, 1, grid.Days[0].Number())
	assert.Equal(t, 28, grid.Days[27].Number())

	// 1 Feb 2027 is a Monday
	assert.Equal(t, model.Monday, grid.Days[0].Weekday)
	assert.Equal(t, model.Sunday, grid.Days[6].Weekday)

	for w := model.Monday; w <= model.Sunday; w++ {
		assert.Equal(t, 4, grid.Occurrences(w), "weekday %s", w)
	}
	assert.Equal(t, 84, grid.TotalSlots())
}

func TestBuildGrid_LeapFebruary(t *testing.T) {
	grid, err := BuildGrid(2028, 2)
	require.NoError(t, err)

	require.Len(t, grid.Days, 29)
	// 29 Feb 2028 is a Tuesday, so Tuesday occurs five times
	assert.Equal(t, model.Tuesday, grid.Days[28].Weekday)
	assert.Equal(t, 5, grid.Occurrences(model.Tuesday))
	assert.Equal(t, 4, grid.Occurrences(model.Monday))
}

func TestBuildGrid_ThirtyOneDayMonth(t *testing.T) {
	grid, err := BuildGrid(2025, 1)
	require.NoError(t, err)

	require.Len(t, grid.Days, 31)
	// January 2025 starts on Wednesday: Wed, Thu and Fri occur five times
	assert.Equal(t, model.Wednesday, grid.Days[0].Weekday)
	assert.Equal(t, 5, grid.Occurrences(model.Wednesday))
	assert.Equal(t, 5, grid.Occurrences(model.Thursday))
	assert.Equal(t, 5, grid.Occurrences(model.Friday))
	assert.Equal(t, 4, grid.Occurrences(model.Saturday))

	total := 0
	for w := model.Monday; w <= model.Sunday; w++ {
		total += grid.Occurrences(w)
	}
	assert.Equal(t, 31, total)
}

func TestBuildGrid_DaysMatchWeekdays(t *testing.T) {
	grid, err := BuildGrid(2024, 12)
	require.NoError(t, err)

	for i, day := range grid.Days {
		assert.Equal(t, i+1, day.Number())
		assert.Equal(t, time.December, day.Date.Month())
		assert.Equal(t, model.WeekdayOf(day.Date.Weekday()), day.Weekday)
	}
}

func TestBuildGrid_SlotCount(t *testing.T) {
	grid, err := BuildGrid(2025, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, grid.SlotCount(model.SlotKind{Weekday: model.Friday, Timeslot: model.TimeslotEvening}))
	assert.Equal(t, 4, grid.SlotCount(model.SlotKind{Weekday: model.Monday, Timeslot: model.TimeslotEarly}))
}

func TestBuildGrid_InvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := BuildGrid(2025, month)
		require.Error(t, err)

		var inputErr *model.InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, "month", inputErr.Field)
		assert.Equal(t, month, inputErr.Value)
	}
}

func TestBuildGrid_InvalidYear(t *testing.T) {
	_, err := BuildGrid(0, 5)
	require.Error(t, err)

	var inputErr *model.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "year", inputErr.Field)
}
