package gcal

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"google.golang.org/api/calendar/v3"
)

const icsProductID = "-//quickcal//EN"

// EncodeICS writes events as an iCalendar feed. Events whose times cannot be
// parsed are skipped. All-day dates are read in loc.
func EncodeICS(w io.Writer, events []*calendar.Event, loc *time.Location, now time.Time) error {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, item := range events {
		if item == nil || item.Status == "cancelled" {
			continue
		}
		start, end, allDay, err := eventTimes(item, loc)
		if err != nil {
			continue
		}
		cal.Children = append(cal.Children, toVEvent(item, start, end, allDay, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func toVEvent(item *calendar.Event, start, end time.Time, allDay bool, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)

	uid := item.ICalUID
	if uid == "" {
		uid = item.Id + "@google.com"
	}
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

	if allDay {
		ve.Props.Set(dateProp(ical.PropDateTimeStart, start))
		ve.Props.Set(dateProp(ical.PropDateTimeEnd, end))
	} else {
		ve.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	}

	if item.Summary != "" {
		ve.Props.SetText(ical.PropSummary, item.Summary)
	}
	if item.Description != "" {
		ve.Props.SetText(ical.PropDescription, item.Description)
	}
	if item.Location != "" {
		ve.Props.SetText(ical.PropLocation, item.Location)
	}
	return ve
}

func dateProp(name string, t time.Time) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetDate(t)
	return prop
}
