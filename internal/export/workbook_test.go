package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"timetable-export/internal/schedule"
)

func TestEmitFlatHeaderAndRows(t *testing.T) {
	records := schedule.SortCanonical(endToEndRecords())
	emitter := NewEmitter(defaultLayout())

	data, err := emitter.EmitFlat(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	for col, want := range flatHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		got, err := f.GetCellValue("Timetable", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "header column %d", col)
	}

	// Sunday rows first, then the Monday lab.
	a2, _ := f.GetCellValue("Timetable", "A2")
	a3, _ := f.GetCellValue("Timetable", "A3")
	a4, _ := f.GetCellValue("Timetable", "A4")
	assert.Equal(t, "CS101", a2)
	assert.Equal(t, "CS101", a3)
	assert.Equal(t, "CS102", a4)

	room, _ := f.GetCellValue("Timetable", "H4")
	assert.Equal(t, "Room B", room)

	// No fourth data row.
	a5, _ := f.GetCellValue("Timetable", "A5")
	assert.Empty(t, a5)
}

func TestEmitGridSheetShape(t *testing.T) {
	records := schedule.SortCanonical(endToEndRecords())
	emitter := NewEmitter(defaultLayout())

	data, err := emitter.EmitGrid(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// Row 1: year title. Row 2: group header. Row 3: day header.
	title, _ := f.GetCellValue("Timetable", "A1")
	assert.Equal(t, "Year 1", title)

	header, _ := f.GetCellValue("Timetable", "A2")
	assert.Contains(t, header, "Year 1 - Group 1")
	assert.Contains(t, header, "1/1, 1/2")

	timeHead, _ := f.GetCellValue("Timetable", "A3")
	assert.Equal(t, "Time", timeHead)
	sunday, _ := f.GetCellValue("Timetable", "B3")
	assert.Equal(t, "Sunday", sunday)
	thursday, _ := f.GetCellValue("Timetable", "F3")
	assert.Equal(t, "Thursday", thursday)

	// First slot row: the merged lecture appears once in the Sunday
	// column; its cell text carries the course line.
	slot, _ := f.GetCellValue("Timetable", "A4")
	assert.Equal(t, "9:00 AM - 10:00 AM", slot)
	cell, _ := f.GetCellValue("Timetable", "B4")
	assert.Contains(t, cell, "CS101 Intro")

	// Second slot row: the lab sits in the Monday column with its
	// section spelled out.
	labSlot, _ := f.GetCellValue("Timetable", "A5")
	assert.Equal(t, "1:00 PM - 2:00 PM", labSlot)
	labCell, _ := f.GetCellValue("Timetable", "C5")
	assert.Contains(t, labCell, "Lab (1/1)")
}

func TestEmitUnknownLayoutKind(t *testing.T) {
	emitter := NewEmitter(defaultLayout())
	_, err := emitter.Emit(nil, "spiral")
	require.Error(t, err)
}
