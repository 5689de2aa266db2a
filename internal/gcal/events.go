package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/omriShneor/quickcal/internal/extract"
	"google.golang.org/api/calendar/v3"
)

// Session is an authorized handle on one calendar. It is created per request
// by Client.Authorize and passed explicitly to whatever needs it.
type Session struct {
	service    *calendar.Service
	calendarID string
}

// CreatedEvent is what the calendar returned for an inserted event.
type CreatedEvent struct {
	ID          string           `json:"id"`
	HTMLLink    string           `json:"html_link,omitempty"`
	Summary     string           `json:"summary"`
	Description string           `json:"description"`
	Start       extract.Boundary `json:"start"`
	End         extract.Boundary `json:"end"`
}

// NewSession wraps an authenticated Calendar service.
func NewSession(service *calendar.Service, calendarID string) *Session {
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	return &Session{service: service, calendarID: calendarID}
}

// BuildEvent converts a normalized event into the API's event object. All-day
// events are keyed by Date, timed events by DateTime with their own offset.
func BuildEvent(e extract.Event) *calendar.Event {
	start, end := e.Boundaries()
	return &calendar.Event{
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       &calendar.EventDateTime{Date: start.Date, DateTime: start.DateTime},
		End:         &calendar.EventDateTime{Date: end.Date, DateTime: end.DateTime},
	}
}

// InsertEvent creates the event and returns the calendar's record of it.
func (s *Session) InsertEvent(ctx context.Context, e extract.Event) (*CreatedEvent, error) {
	created, err := s.service.Events.Insert(s.calendarID, BuildEvent(e)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	start, end := e.Boundaries()
	return &CreatedEvent{
		ID:          created.Id,
		HTMLLink:    created.HtmlLink,
		Summary:     created.Summary,
		Description: created.Description,
		Start:       start,
		End:         end,
	}, nil
}

// ListUpcoming returns single (expanded) events starting between from and
// from+days, ordered by start time.
func (s *Session) ListUpcoming(ctx context.Context, from time.Time, days int) ([]*calendar.Event, error) {
	if days <= 0 {
		return nil, fmt.Errorf("invalid range: days must be positive")
	}

	timeMin := from.UTC().Truncate(time.Second)
	timeMax := timeMin.AddDate(0, 0, days)

	result := make([]*calendar.Event, 0)
	pageToken := ""
	for {
		call := s.service.Events.List(s.calendarID).
			Context(ctx).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		result = append(result, events.Items...)

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	return result, nil
}

// eventTimes parses an API event's boundaries. All-day events use Date and
// are interpreted in loc.
func eventTimes(item *calendar.Event, loc *time.Location) (time.Time, time.Time, bool, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event is missing start or end")
	}

	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, true, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, false, nil
}
