package schedule

import (
	"testing"

	"timetable-export/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Category
	}{
		{"Lecture", domain.CategoryLecture},
		{"Lab", domain.CategoryLab},
		{"LAB 2", domain.CategoryLab},
		{"Tutorial", domain.CategoryTutorial},
		{"tut group B", domain.CategoryTutorial},
		// "lab" wins when both hints are present.
		{"Lab Tutorial", domain.CategoryLab},
		{"", domain.CategoryLecture},
		{"Seminar", domain.CategoryLecture},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
