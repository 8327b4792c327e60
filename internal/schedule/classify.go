package schedule

import (
	"strings"

	"timetable-export/internal/domain"
)

// Classify maps free-text session labels onto a visual category.
// Precedence: "lab" wins over "tut"; anything else, including empty
// text, is a lecture.
func Classify(session string) domain.Category {
	lowered := strings.ToLower(session)
	switch {
	case strings.Contains(lowered, "lab"):
		return domain.CategoryLab
	case strings.Contains(lowered, "tut"):
		return domain.CategoryTutorial
	default:
		return domain.CategoryLecture
	}
}
