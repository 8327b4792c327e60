package domain

// SectionKey is the decomposed form of a section identifier such as
// "1/5" (year/section) or "3/AID/2" (year/department/section).
type SectionKey struct {
	Year       int
	Department string
	SectionNum string
}

// Category is the derived classification of an assignment's session
// text. It is recomputed wherever needed, never stored on the record.
type Category int

const (
	CategoryLecture Category = iota
	CategoryLab
	CategoryTutorial
)

func (c Category) String() string {
	switch c {
	case CategoryLab:
		return "Lab"
	case CategoryTutorial:
		return "Tutorial"
	default:
		return "Lecture"
	}
}
