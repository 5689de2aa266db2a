package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/timeutil"
)

// handleListEvents returns upcoming events and refreshes the snapshot file.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, session *gcal.Session) {
	events, err := session.ListUpcoming(r.Context(), s.now(), s.upcomingDays)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.eventsFile != "" {
		if err := gcal.WriteSnapshot(s.eventsFile, events); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.logger.Debug("Listed upcoming events", "count", len(events))
	respondJSON(w, http.StatusOK, events)
}

// handleEventsICS returns upcoming events as an iCalendar feed. The optional
// tz query parameter sets the zone used for all-day dates.
func (s *Server) handleEventsICS(w http.ResponseWriter, r *http.Request, session *gcal.Session) {
	var loc *time.Location
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := timeutil.LoadLocation(tz)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		loc = l
	}

	events, err := session.ListUpcoming(r.Context(), s.now(), s.upcomingDays)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := gcal.EncodeICS(&buf, events, loc, s.now()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "events.ics"))
	w.Write(buf.Bytes())
}
