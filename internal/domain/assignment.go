package domain

// Assignment is one scheduled occurrence of a course section at a
// time/place with an instructor. Records are produced by the external
// solver and are read-only inside the export pipeline.
type Assignment struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	SectionID  string `json:"section_id"`
	Session    string `json:"session"`
	Day        string `json:"day"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

// TimeSlot is the (start, end) pair used as a grid row key.
type TimeSlot struct {
	Start string
	End   string
}

// Slot returns the record's timeslot key.
func (a Assignment) Slot() TimeSlot {
	return TimeSlot{Start: a.StartTime, End: a.EndTime}
}
