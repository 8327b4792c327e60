package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"timetable-export/internal/domain"
	"timetable-export/internal/schedule"
)

// Flat-listing column order. The archive consumers depend on it.
var flatHeaders = []string{
	"CourseID", "CourseName", "SectionID", "Session",
	"Day", "StartTime", "EndTime", "Room", "Instructor",
}

var flatColumnWidths = []float64{12, 30, 12, 12, 12, 12, 12, 10, 25}

// Fill colors carried over from the original export styling: grey
// headers, yellow lectures, blue labs, green tutorials.
const (
	headerFill   = "D9D9D9"
	lectureFill  = "FFD966"
	labFill      = "9FC5E8"
	tutorialFill = "B6D7A8"
)

// Emitter renders record sets into spreadsheet documents.
type Emitter struct {
	layout LayoutConfig
}

func NewEmitter(layout LayoutConfig) *Emitter {
	return &Emitter{layout: layout}
}

// Emit renders the record set with the requested layout kind.
func (e *Emitter) Emit(records []domain.Assignment, kind string) ([]byte, error) {
	switch kind {
	case LayoutFlat:
		return e.EmitFlat(records)
	case LayoutGrid:
		return e.EmitGrid(records)
	default:
		return nil, fmt.Errorf("emit: unknown layout kind %q", kind)
	}
}

type workbookStyles struct {
	header   int
	cell     int
	lecture  int
	lab      int
	tutorial int
	title    int
}

func newStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	borders := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Border:    borders,
		Alignment: centered,
	}); err != nil {
		return s, err
	}
	if s.cell, err = f.NewStyle(&excelize.Style{Border: borders, Alignment: centered}); err != nil {
		return s, err
	}
	fills := []struct {
		color string
		out   *int
	}{
		{lectureFill, &s.lecture},
		{labFill, &s.lab},
		{tutorialFill, &s.tutorial},
	}
	for _, fill := range fills {
		*fill.out, err = f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill.color}, Pattern: 1},
			Border:    borders,
			Alignment: centered,
		})
		if err != nil {
			return s, err
		}
	}
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	return s, nil
}

func (s workbookStyles) forCategory(category domain.Category) int {
	switch category {
	case domain.CategoryLab:
		return s.lab
	case domain.CategoryTutorial:
		return s.tutorial
	default:
		return s.lecture
	}
}

// EmitFlat renders the listing layout: one header row and one row per
// record, in the order the records arrived (callers pass them in
// canonical order). The session cell carries the category fill; the
// coloring is cosmetic and never changes column content.
func (e *Emitter) EmitFlat(records []domain.Assignment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timetable"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	for col, header := range flatHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return nil, err
		}
	}

	for idx, rec := range records {
		row := idx + 2
		values := []string{
			rec.CourseID, rec.CourseName, rec.SectionID, rec.Session,
			rec.Day, rec.StartTime, rec.EndTime, rec.Room, rec.Instructor,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
			style := styles.cell
			if flatHeaders[col] == "Session" {
				style = styles.forCategory(schedule.Classify(rec.Session))
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return nil, err
			}
		}
	}

	for col, width := range flatColumnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EmitGrid renders the two-dimensional timetable layout: one block of
// rows per display group, a time column followed by one column per
// visible day, concurrent entries stacked as extra sub-rows.
func (e *Emitter) EmitGrid(records []domain.Assignment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timetable"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	grids := BuildGrid(records, e.layout)
	lastCol := len(e.layout.GridDays) + 1

	row := 1
	for _, grid := range grids {
		if grid.Group.YearTitle != "" {
			if err := writeMergedRow(f, sheet, row, lastCol, grid.Group.YearTitle, styles.title); err != nil {
				return nil, err
			}
			row++
		}

		header := grid.Group.Name + " (Sections: " + joinSections(grid.Group.Sections) + ")"
		if err := writeMergedRow(f, sheet, row, lastCol, header, styles.header); err != nil {
			return nil, err
		}
		row++

		if err := setCellWithStyle(f, sheet, 1, row, "Time", styles.header); err != nil {
			return nil, err
		}
		for d, day := range grid.Days {
			if err := setCellWithStyle(f, sheet, d+2, row, day, styles.header); err != nil {
				return nil, err
			}
		}
		row++

		for _, block := range grid.Blocks {
			if err := writeSlotBlock(f, sheet, row, block, styles); err != nil {
				return nil, err
			}
			row += block.Rows
		}

		// Blank separator row between groups.
		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return nil, err
	}
	last, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", last, 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSlotBlock(f *excelize.File, sheet string, row int, block SlotBlock, styles workbookStyles) error {
	label := block.Slot.Start + " - " + block.Slot.End
	if err := setCellWithStyle(f, sheet, 1, row, label, styles.header); err != nil {
		return err
	}
	if block.Rows > 1 {
		top, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(1, row+block.Rows-1)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, top, bottom); err != nil {
			return err
		}
	}

	for d, column := range block.Columns {
		for sub := 0; sub < block.Rows; sub++ {
			text := ""
			style := styles.cell
			if sub < len(column) {
				text = column[sub].Text
				style = styles.forCategory(column[sub].Category)
			}
			if err := setCellWithStyle(f, sheet, d+2, row+sub, text, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMergedRow(f *excelize.File, sheet string, row, lastCol int, value string, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(lastCol, row)
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, first, last); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, first, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func setCellWithStyle(f *excelize.File, sheet string, col, row int, value string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func joinSections(sections []string) string {
	out := ""
	for i, s := range sections {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
