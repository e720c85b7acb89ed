package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

var testTimeslots = []string{"6:00 am", "7:30 am", "5:00 pm"}

func testRoles() []model.RoleDefinition {
	return []model.RoleDefinition{
		{Role: model.RoleReader, Name: "Bible Reading"},
		{Role: model.RoleSecondReader, Name: "Reading"},
	}
}

func testSchedule() *model.Schedule {
	day := func(d int) model.Day {
		date := time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
		return model.Day{Date: date, Weekday: model.WeekdayOf(date.Weekday())}
	}
	return &model.Schedule{
		Year:  2025,
		Month: time.March,
		Roles: []model.Role{model.RoleReader, model.RoleSecondReader},
		Days: []model.DaySchedule{
			{Day: day(1), Slots: [model.NumTimeslots]model.Assignment{{1, 2}, {3, 4}, {2, 1}}},
			{Day: day(2), Slots: [model.NumTimeslots]model.Assignment{{4, 3}, {1, 2}, {3, 5}}},
		},
	}
}

func testNames() map[model.MemberID]string {
	return map[model.MemberID]string{1: "Anna", 2: "Binu", 3: "Cyril", 4: "Deepa"}
}

func TestRoleListings(t *testing.T) {
	listings, err := RoleListings(testSchedule(), testRoles(), testTimeslots, testNames())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	reader := listings[0]
	assert.Equal(t, model.RoleReader, reader.Role)
	assert.Equal(t, "DAILY BIBLE READING LIST MARCH 2025", reader.Title)
	assert.Equal(t, []string{"DATE", "6:00 am", "7:30 am", "5:00 pm"}, reader.Headers)
	assert.Equal(t, [][]string{
		{"1", "Anna", "Cyril", "Binu"},
		{"2", "Deepa", "Anna", "Cyril"},
	}, reader.Rows)

	second := listings[1]
	assert.Equal(t, "DAILY READING LIST MARCH 2025", second.Title)
	assert.Equal(t, []string{"2", "Cyril", "Binu", "#5"}, second.Rows[1])
}

func TestRoleListings_Mismatch(t *testing.T) {
	_, err := RoleListings(testSchedule(), testRoles(), testTimeslots[:2], testNames())
	assert.Error(t, err)

	_, err = RoleListings(testSchedule(), testRoles()[:1], testTimeslots, testNames())
	assert.Error(t, err)

	swapped := []model.RoleDefinition{testRoles()[1], testRoles()[0]}
	_, err = RoleListings(testSchedule(), swapped, testTimeslots, testNames())
	assert.Error(t, err)
}

func TestCSVExporter_Render(t *testing.T) {
	listings, err := RoleListings(testSchedule(), testRoles(), testTimeslots, testNames())
	require.NoError(t, err)

	content, err := NewCSVExporter().Render(listings[0].Dataset)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"DAILY BIBLE READING LIST MARCH 2025", "", "", ""},
		{"DATE", "6:00 am", "7:30 am", "5:00 pm"},
		{"1", "Anna", "Cyril", "Binu"},
		{"2", "Deepa", "Anna", "Cyril"},
	}, records)
}

func TestCSVExporter_RequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporter_Render(t *testing.T) {
	listings, err := RoleListings(testSchedule(), testRoles(), testTimeslots, testNames())
	require.NoError(t, err)

	content, err := NewPDFExporter().Render(listings[0].Dataset, listings[1].Dataset)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))

	_, err = NewPDFExporter().Render()
	assert.Error(t, err)
}

func TestWriteFiles(t *testing.T) {
	s := testSchedule()
	listings, err := RoleListings(s, testRoles(), testTimeslots, testNames())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(dir, RosterTitle(s), listings, []string{FormatCSV, FormatPDF})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "DAILY BIBLE READING LIST MARCH 2025.csv"),
		filepath.Join(dir, "DAILY READING LIST MARCH 2025.csv"),
		filepath.Join(dir, "DUTY ROSTER MARCH 2025.pdf"),
	}, paths)
	for _, path := range paths {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}

	_, err = WriteFiles(dir, RosterTitle(s), listings, []string{"xlsx"})
	assert.Error(t, err)
}
