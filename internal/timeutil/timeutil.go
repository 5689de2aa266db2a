package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar API's all-day date layout.
const DateLayout = "2006-01-02"

// naiveLayouts are accepted when a timestamp carries no offset. They are
// anchored in the caller's zone so the result is never floating.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadLocation resolves an IANA zone name. Unlike time.LoadLocation it rejects
// the empty string, which would otherwise silently mean UTC.
func LoadLocation(timezone string) (*time.Location, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return nil, fmt.Errorf("timezone is required")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ParseTimestamp parses an ISO 8601 timestamp. Values with an explicit offset
// keep it; naive date-times and bare dates are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("time value is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	if d, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return d, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse time: %s", value)
}

// Offset renders t's UTC offset as "+HH:MM".
func Offset(t time.Time) string {
	return t.Format("-07:00")
}
