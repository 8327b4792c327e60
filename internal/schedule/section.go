package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"timetable-export/internal/domain"
)

// ParseSection decomposes a section identifier into its key. Two
// segments yield (year, "", section); three yield (year, department,
// section). Anything unparseable collapses to the zero key so the
// pipeline keeps going on malformed upstream data.
func ParseSection(sectionID string) domain.SectionKey {
	key, err := ParseSectionStrict(sectionID)
	if err != nil {
		return domain.SectionKey{}
	}
	return key
}

// ParseSectionStrict is the validated variant. Callers that want to
// surface malformed section identifiers instead of coercing them to
// the zero key use this one.
func ParseSectionStrict(sectionID string) (domain.SectionKey, error) {
	parts := strings.Split(sectionID, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.SectionKey{}, fmt.Errorf("section id %q: want 2 or 3 segments, got %d", sectionID, len(parts))
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.SectionKey{}, fmt.Errorf("section id %q: year: %w", sectionID, err)
	}

	if len(parts) == 2 {
		return domain.SectionKey{Year: year, SectionNum: parts[1]}, nil
	}
	return domain.SectionKey{Year: year, Department: parts[1], SectionNum: parts[2]}, nil
}
