package schedule

import (
	"sort"

	"timetable-export/internal/domain"
)

// Weekdays in the institutional week order. Sunday opens the week.
var weekdayIndex = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
}

const unknownDayOrder = 999

// DayOrder returns the sort index of a weekday name. Unknown names
// sort after every real day.
func DayOrder(day string) int {
	if idx, ok := weekdayIndex[day]; ok {
		return idx
	}
	return unknownDayOrder
}

// SortCanonical returns a new slice holding the records in listing
// order: day of week, then start time, then course id. The sort is
// stable so ties keep their original relative order.
func SortCanonical(records []domain.Assignment) []domain.Assignment {
	sorted := make([]domain.Assignment, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := DayOrder(sorted[i].Day), DayOrder(sorted[j].Day)
		if di != dj {
			return di < dj
		}
		ti, tj := ParseMinutesListing(sorted[i].StartTime), ParseMinutesListing(sorted[j].StartTime)
		if ti != tj {
			return ti < tj
		}
		return sorted[i].CourseID < sorted[j].CourseID
	})

	return sorted
}
