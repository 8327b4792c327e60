package export

import (
	"sort"

	"timetable-export/internal/domain"
	"timetable-export/internal/schedule"
)

// Partitions are the per-dimension slices of the full record set that
// become their own documents in the archive. Records stay in the
// canonical order they arrived in.
type Partitions struct {
	// Years maps year value to its records; YearOrder lists the years
	// present, ascending.
	Years     map[int][]domain.Assignment
	YearOrder []int

	// Instructors and Rooms keep first-encounter order.
	Instructors     map[string][]domain.Assignment
	InstructorOrder []string
	Rooms           map[string][]domain.Assignment
	RoomOrder       []string
}

// Partition slices the canonically sorted record set by year,
// instructor and room. Records with an unparseable year, or a blank
// instructor or room, are left out of that dimension only; they stay
// in the master listing untouched.
func Partition(records []domain.Assignment) Partitions {
	p := Partitions{
		Years:       make(map[int][]domain.Assignment),
		Instructors: make(map[string][]domain.Assignment),
		Rooms:       make(map[string][]domain.Assignment),
	}

	for _, rec := range records {
		if year := schedule.ParseSection(rec.SectionID).Year; year != 0 {
			if _, ok := p.Years[year]; !ok {
				p.YearOrder = append(p.YearOrder, year)
			}
			p.Years[year] = append(p.Years[year], rec)
		}
		if rec.Instructor != "" {
			if _, ok := p.Instructors[rec.Instructor]; !ok {
				p.InstructorOrder = append(p.InstructorOrder, rec.Instructor)
			}
			p.Instructors[rec.Instructor] = append(p.Instructors[rec.Instructor], rec)
		}
		if rec.Room != "" {
			if _, ok := p.Rooms[rec.Room]; !ok {
				p.RoomOrder = append(p.RoomOrder, rec.Room)
			}
			p.Rooms[rec.Room] = append(p.Rooms[rec.Room], rec)
		}
	}

	sort.Ints(p.YearOrder)
	return p
}

// FileCount is the number of documents an archive built from these
// partitions must contain: the master plus one per partition.
func (p Partitions) FileCount() int {
	return 1 + len(p.YearOrder) + len(p.InstructorOrder) + len(p.RoomOrder)
}
