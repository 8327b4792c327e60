package schedule

import (
	"strconv"
	"strings"
)

// Sentinels returned for unparseable time strings. The listing sort
// pushes unknown times to the end, while the grid slot sort treats
// them as earliest; both call sites exist upstream and both orderings
// are preserved.
const (
	ListingTimeSentinel = 9999
	GridTimeSentinel    = 0
)

// ParseMinutesListing converts a clock string to minutes since
// midnight for listing-order sorting. Accepted forms: "H:MM AM/PM",
// "HH:MM" (24-hour), or a bare hour. Malformed input yields
// ListingTimeSentinel; the function never fails.
func ParseMinutesListing(timeStr string) int {
	return parseMinutes(timeStr, ListingTimeSentinel)
}

// ParseMinutesGrid is the grid-sort variant: malformed input yields
// GridTimeSentinel so unknown slots sort first.
func ParseMinutesGrid(timeStr string) int {
	return parseMinutes(timeStr, GridTimeSentinel)
}

func parseMinutes(timeStr string, sentinel int) int {
	value := strings.TrimSpace(timeStr)
	if value == "" {
		return sentinel
	}

	period := ""
	if fields := strings.Fields(value); len(fields) == 2 {
		period = strings.ToUpper(fields[1])
		if period != "AM" && period != "PM" {
			return sentinel
		}
		value = fields[0]
	} else if len(fields) != 1 {
		return sentinel
	}

	hourPart := value
	minutes := 0
	if idx := strings.Index(value, ":"); idx >= 0 {
		hourPart = value[:idx]
		parsed, err := strconv.Atoi(value[idx+1:])
		if err != nil {
			return sentinel
		}
		minutes = parsed
	}

	hours, err := strconv.Atoi(hourPart)
	if err != nil {
		return sentinel
	}

	switch period {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}

	return hours*60 + minutes
}
