package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/omriShneor/quickcal/internal/timeutil"
)

// Event is a validated event ready for submission. Start and End always carry
// an explicit offset and End is strictly after Start.
type Event struct {
	Summary     string    `json:"summary"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	AllDay      bool      `json:"all_day"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Boundary mirrors the calendar API's start/end object: exactly one of Date
// (all-day) or DateTime is set.
type Boundary struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

// Normalize validates parsed fields and builds an Event. Naive timestamps are
// interpreted in loc.
func Normalize(f Fields, loc *time.Location) (Event, error) {
	if f.Start == "" || f.End == "" {
		return Event{}, ErrMissingTemporalField
	}

	start, err := timeutil.ParseTimestamp(f.Start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("%w: start %q", ErrMalformedTimestamp, f.Start)
	}
	end, err := timeutil.ParseTimestamp(f.End, loc)
	if err != nil {
		return Event{}, fmt.Errorf("%w: end %q", ErrMalformedTimestamp, f.End)
	}

	if !end.After(start) {
		return Event{}, fmt.Errorf("%w (start %s, end %s)", ErrInvalidTimeRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return Event{
		Summary:     f.Summary,
		Location:    f.Location,
		Description: f.Description,
		AllDay:      ResolveAllDay(f.AllDay),
		Start:       start,
		End:         end,
	}, nil
}

// ResolveAllDay is true only for a case-insensitive "true".
func ResolveAllDay(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

// Boundaries shapes the event for submission. All-day events drop the time
// of day; since the calendar treats an all-day end date as exclusive, an end
// date that is not after the start date is moved to the following day.
// Timed events keep the offset they were parsed with.
func (e Event) Boundaries() (start, end Boundary) {
	if !e.AllDay {
		return Boundary{DateTime: e.Start.Format(time.RFC3339)},
			Boundary{DateTime: e.End.Format(time.RFC3339)}
	}

	startDay := civilDate(e.Start)
	endDay := civilDate(e.End)
	if !endDay.After(startDay) {
		endDay = startDay.AddDate(0, 0, 1)
	}
	return Boundary{Date: startDay.Format(timeutil.DateLayout)},
		Boundary{Date: endDay.Format(timeutil.DateLayout)}
}

// civilDate keeps the calendar date t shows in its own offset.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
