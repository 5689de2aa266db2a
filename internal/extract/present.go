package extract

import (
	"time"

	"github.com/omriShneor/quickcal/internal/timeutil"
)

const displayLayout = "2006-01-02 03:04 PM MST"

// Display is an event's boundaries rendered for a human in their own zone.
type Display struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Present converts the event into loc for display. All-day events show the
// first and last day they cover.
func Present(e Event, loc *time.Location) Display {
	if loc == nil {
		loc = time.UTC
	}

	if e.AllDay {
		start, end := e.Boundaries()
		lastDay := end.Date
		if d, err := time.Parse(timeutil.DateLayout, end.Date); err == nil {
			lastDay = d.AddDate(0, 0, -1).Format(timeutil.DateLayout)
		}
		return Display{
			Start: start.Date + " (all day)",
			End:   lastDay + " (all day)",
		}
	}

	return Display{
		Start: e.Start.In(loc).Format(displayLayout),
		End:   e.End.In(loc).Format(displayLayout),
	}
}
