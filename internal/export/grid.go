package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"timetable-export/internal/domain"
	"timetable-export/internal/schedule"
)

// Group is one display unit of the grid layout: a cohort of sections
// shown side by side under a shared header.
type Group struct {
	// YearTitle is set only on the first group of a year and emitted
	// once as a title row above it.
	YearTitle string
	Name      string
	Sections  []string
}

// CellEntry is one rendered item inside a (timeslot, day) cell. Text
// holds the four display lines joined by newlines.
type CellEntry struct {
	Category domain.Category
	Text     string
}

// SlotBlock is the row band of one timeslot: Rows sub-rows, one
// column per visible day. Columns[d] holds at most Rows entries;
// missing entries render as empty cells.
type SlotBlock struct {
	Slot    domain.TimeSlot
	Rows    int
	Columns [][]CellEntry
}

// GroupGrid is the fully laid out grid of one group.
type GroupGrid struct {
	Group  Group
	Days   []string
	Blocks []SlotBlock
}

// BuildGroups enumerates the display groups present in the record
// set, in emission order: year 1 buckets, year 2 buckets, then years
// 3 and 4 by department. Only departments with at least one section
// are emitted.
func BuildGroups(records []domain.Assignment, cfg LayoutConfig) []Group {
	byYear := make(map[int][]string)
	seen := make(map[string]bool)
	for _, rec := range records {
		if seen[rec.SectionID] {
			continue
		}
		seen[rec.SectionID] = true
		key := schedule.ParseSection(rec.SectionID)
		byYear[key.Year] = append(byYear[key.Year], rec.SectionID)
	}

	var groups []Group
	groups = append(groups, bucketGroups(1, byYear[1], cfg.Year1GroupSize)...)
	groups = append(groups, bucketGroups(2, byYear[2], cfg.Year2GroupSize)...)
	for _, year := range []int{3, 4} {
		groups = append(groups, departmentGroups(year, byYear[year], cfg.Departments)...)
	}
	return groups
}

func bucketGroups(year int, sections []string, size int) []Group {
	sortSectionsNumeric(sections)

	var groups []Group
	for start := 0; start < len(sections); start += size {
		end := start + size
		if end > len(sections) {
			end = len(sections)
		}
		group := Group{
			Name:     fmt.Sprintf("Year %d - Group %d", year, len(groups)+1),
			Sections: sections[start:end],
		}
		if len(groups) == 0 {
			group.YearTitle = fmt.Sprintf("Year %d", year)
		}
		groups = append(groups, group)
	}
	return groups
}

func departmentGroups(year int, sections []string, departments []string) []Group {
	byDept := make(map[string][]string)
	for _, sectionID := range sections {
		key := schedule.ParseSection(sectionID)
		byDept[key.Department] = append(byDept[key.Department], sectionID)
	}

	var groups []Group
	for _, dept := range departments {
		members := byDept[dept]
		if len(members) == 0 {
			continue
		}
		sortSectionsNumeric(members)
		group := Group{
			Name:     fmt.Sprintf("Year %d - %s", year, dept),
			Sections: members,
		}
		if len(groups) == 0 {
			group.YearTitle = fmt.Sprintf("Year %d", year)
		}
		groups = append(groups, group)
	}
	return groups
}

// sortSectionsNumeric orders section ids by their numeric section
// number, falling back to the raw id for ids whose number does not
// parse.
func sortSectionsNumeric(sections []string) {
	sort.SliceStable(sections, func(i, j int) bool {
		ni, oki := sectionNumber(sections[i])
		nj, okj := sectionNumber(sections[j])
		if oki && okj && ni != nj {
			return ni < nj
		}
		if oki != okj {
			return oki
		}
		return sections[i] < sections[j]
	})
}

func sectionNumber(sectionID string) (int, bool) {
	key := schedule.ParseSection(sectionID)
	n, err := strconv.Atoi(key.SectionNum)
	if err != nil {
		return 0, false
	}
	return n, true
}

// BuildGrid lays out every non-empty group. Groups whose filtered
// record set is empty are skipped entirely.
func BuildGrid(records []domain.Assignment, cfg LayoutConfig) []GroupGrid {
	var grids []GroupGrid
	for _, group := range BuildGroups(records, cfg) {
		grid, ok := buildGroupGrid(records, group, cfg.GridDays)
		if !ok {
			continue
		}
		grids = append(grids, grid)
	}
	return grids
}

func buildGroupGrid(records []domain.Assignment, group Group, days []string) (GroupGrid, bool) {
	members := make(map[string]bool, len(group.Sections))
	for _, sectionID := range group.Sections {
		members[sectionID] = true
	}

	var filtered []domain.Assignment
	for _, rec := range records {
		if members[rec.SectionID] {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) == 0 {
		return GroupGrid{}, false
	}

	grid := GroupGrid{Group: group, Days: days}
	for _, slot := range sortedSlots(filtered) {
		block := SlotBlock{Slot: slot, Rows: 1, Columns: make([][]CellEntry, len(days))}
		for d, day := range days {
			block.Columns[d] = cellEntries(filtered, slot, day)
			if n := len(block.Columns[d]); n > block.Rows {
				block.Rows = n
			}
		}
		grid.Blocks = append(grid.Blocks, block)
	}
	return grid, true
}

// sortedSlots enumerates the distinct timeslots of the filtered
// records ascending by (start, end) minutes, grid-sort variant:
// unparseable times sort first.
func sortedSlots(records []domain.Assignment) []domain.TimeSlot {
	seen := make(map[domain.TimeSlot]bool)
	var slots []domain.TimeSlot
	for _, rec := range records {
		slot := rec.Slot()
		if seen[slot] {
			continue
		}
		seen[slot] = true
		slots = append(slots, slot)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		si, sj := schedule.ParseMinutesGrid(slots[i].Start), schedule.ParseMinutesGrid(slots[j].Start)
		if si != sj {
			return si < sj
		}
		return schedule.ParseMinutesGrid(slots[i].End) < schedule.ParseMinutesGrid(slots[j].End)
	})
	return slots
}

// cellEntries collects the distinct entries of one (timeslot, day)
// cell. Lectures are shared across sections: records for the same
// course collapse into one entry regardless of section. Labs and
// tutorials stay distinct per section.
func cellEntries(records []domain.Assignment, slot domain.TimeSlot, day string) []CellEntry {
	seen := make(map[string]bool)
	var entries []CellEntry
	for _, rec := range records {
		if rec.Day != day || rec.Slot() != slot {
			continue
		}
		category := schedule.Classify(rec.Session)
		key := rec.CourseID + "\x00" + rec.SectionID
		if category == domain.CategoryLecture {
			key = rec.CourseID + "\x00LEC"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, CellEntry{Category: category, Text: entryText(rec, category)})
	}
	return entries
}

func entryText(rec domain.Assignment, category domain.Category) string {
	session := rec.Session
	if category != domain.CategoryLecture {
		session = rec.Session + " (" + rec.SectionID + ")"
	}
	lines := []string{
		rec.CourseID + " " + rec.CourseName,
		rec.Instructor,
		session,
		rec.Room,
	}
	return strings.Join(lines, "\n")
}
