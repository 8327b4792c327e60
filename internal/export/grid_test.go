package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable-export/internal/domain"
)

func defaultLayout() LayoutConfig {
	var cfg LayoutConfig
	cfg.SetDefaults()
	return cfg
}

func lecture(courseID, sectionID, day, start, end string) domain.Assignment {
	return domain.Assignment{
		CourseID: courseID, CourseName: courseID + " Name", SectionID: sectionID,
		Session: "Lecture", Day: day, StartTime: start, EndTime: end,
		Room: "R1", Instructor: "Dr. X",
	}
}

func lab(courseID, sectionID, day, start, end string) domain.Assignment {
	rec := lecture(courseID, sectionID, day, start, end)
	rec.Session = "Lab"
	return rec
}

func TestBuildGroupsYearBuckets(t *testing.T) {
	var records []domain.Assignment
	for _, section := range []string{"1/3", "1/1", "1/5", "1/2", "1/4"} {
		records = append(records, lecture("CS101", section, "Sunday", "9:00 AM", "10:00 AM"))
	}

	groups := BuildGroups(records, defaultLayout())
	require.Len(t, groups, 2)

	assert.Equal(t, "Year 1", groups[0].YearTitle)
	assert.Equal(t, "Year 1 - Group 1", groups[0].Name)
	assert.Equal(t, []string{"1/1", "1/2", "1/3", "1/4"}, groups[0].Sections)

	assert.Empty(t, groups[1].YearTitle)
	assert.Equal(t, []string{"1/5"}, groups[1].Sections)
}

func TestBuildGroupsYear2BucketsOfThree(t *testing.T) {
	var records []domain.Assignment
	for _, section := range []string{"2/1", "2/2", "2/3", "2/4"} {
		records = append(records, lecture("CS201", section, "Sunday", "9:00 AM", "10:00 AM"))
	}

	groups := BuildGroups(records, defaultLayout())
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"2/1", "2/2", "2/3"}, groups[0].Sections)
	assert.Equal(t, []string{"2/4"}, groups[1].Sections)
}

func TestBuildGroupsDepartments(t *testing.T) {
	records := []domain.Assignment{
		lecture("CS301", "3/CSC/1", "Sunday", "9:00 AM", "10:00 AM"),
		lecture("CS302", "3/AID/2", "Sunday", "9:00 AM", "10:00 AM"),
		lecture("CS303", "3/AID/1", "Sunday", "9:00 AM", "10:00 AM"),
	}

	groups := BuildGroups(records, defaultLayout())
	require.Len(t, groups, 2)

	// Department order follows the configured set; BIF and CNC have
	// no sections and are not emitted.
	assert.Equal(t, "Year 3 - AID", groups[0].Name)
	assert.Equal(t, []string{"3/AID/1", "3/AID/2"}, groups[0].Sections)
	assert.Equal(t, "Year 3", groups[0].YearTitle)
	assert.Equal(t, "Year 3 - CSC", groups[1].Name)
	assert.Empty(t, groups[1].YearTitle)
}

func TestBuildGridLectureMerge(t *testing.T) {
	// Two lecture records for the same course, slot and day but
	// different sections collapse into one entry.
	records := []domain.Assignment{
		lecture("CS101", "1/1", "Sunday", "9:00 AM", "10:00 AM"),
		lecture("CS101", "1/2", "Sunday", "9:00 AM", "10:00 AM"),
	}

	grids := BuildGrid(records, defaultLayout())
	require.Len(t, grids, 1)
	require.Len(t, grids[0].Blocks, 1)

	block := grids[0].Blocks[0]
	assert.Equal(t, 1, block.Rows)
	require.Len(t, block.Columns[0], 1) // Sunday column
	assert.Equal(t, domain.CategoryLecture, block.Columns[0][0].Category)
}

func TestBuildGridLabsStayDistinct(t *testing.T) {
	records := []domain.Assignment{
		lab("CS102", "1/1", "Monday", "1:00 PM", "2:00 PM"),
		lab("CS102", "1/2", "Monday", "1:00 PM", "2:00 PM"),
	}

	grids := BuildGrid(records, defaultLayout())
	require.Len(t, grids, 1)

	block := grids[0].Blocks[0]
	assert.Equal(t, 2, block.Rows)
	require.Len(t, block.Columns[1], 2) // Monday column
	assert.NotEqual(t, block.Columns[1][0].Text, block.Columns[1][1].Text)
}

func TestBuildGridSlotOrderAndStacking(t *testing.T) {
	records := []domain.Assignment{
		lab("CS2", "1/1", "Sunday", "1:00 PM", "2:00 PM"),
		lecture("CS1", "1/1", "Sunday", "9:00 AM", "10:00 AM"),
		lab("CS3", "1/2", "Sunday", "1:00 PM", "2:00 PM"),
		lecture("CS4", "1/1", "Monday", "bad time", "worse time"),
	}

	grids := BuildGrid(records, defaultLayout())
	require.Len(t, grids, 1)
	require.Len(t, grids[0].Blocks, 3)

	// Grid-sort variant: the unparseable slot sorts first.
	assert.Equal(t, "bad time", grids[0].Blocks[0].Slot.Start)
	assert.Equal(t, "9:00 AM", grids[0].Blocks[1].Slot.Start)
	assert.Equal(t, "1:00 PM", grids[0].Blocks[2].Slot.Start)

	// Two distinct labs in the 1:00 PM Sunday cell stack to two rows.
	assert.Equal(t, 2, grids[0].Blocks[2].Rows)
}

func TestBuildGridExcludesFridayFromColumns(t *testing.T) {
	// Friday is outside the visible week: its records produce no cell
	// in any day column.
	records := []domain.Assignment{
		lecture("CS101", "1/1", "Friday", "9:00 AM", "10:00 AM"),
		lecture("CS102", "1/1", "Sunday", "9:00 AM", "10:00 AM"),
	}

	grids := BuildGrid(records, defaultLayout())
	require.Len(t, grids, 1)

	for _, block := range grids[0].Blocks {
		for d, column := range block.Columns {
			for _, entry := range column {
				assert.NotContains(t, entry.Text, "CS101", "Friday record leaked into day column %d", d)
			}
		}
	}
}

func TestEntryTextFourLines(t *testing.T) {
	records := []domain.Assignment{
		lab("CS102", "1/1", "Monday", "1:00 PM", "2:00 PM"),
	}
	grids := BuildGrid(records, defaultLayout())
	require.Len(t, grids, 1)

	entry := grids[0].Blocks[0].Columns[1][0]
	assert.Equal(t, "CS102 CS102 Name\nDr. X\nLab (1/1)\nR1", entry.Text)
}
