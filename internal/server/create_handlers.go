package server

import (
	"fmt"
	"net/http"

	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/notify"
)

type createEventResponse struct {
	Message  string `json:"message"`
	EventID  string `json:"event_id"`
	Timezone string `json:"Timezone"`
}

func (s *Server) handleCreateEventForm(w http.ResponseWriter, r *http.Request, session *gcal.Session) {
	s.renderTemplate(w, "form.html", map[string]string{
		"CSRFToken": s.issueCSRFToken(w, r),
	})
}

// handleCreateEvent runs the description through the model, inserts the
// resulting event and reports it back in the user's zone.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request, session *gcal.Session) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form submission")
		return
	}
	if !s.validCSRF(r) {
		respondError(w, http.StatusForbidden, "Invalid or missing CSRF token")
		return
	}

	ctx := r.Context()
	description := r.PostFormValue("description")
	timezone := r.PostFormValue("timezone")

	result, err := s.extractor.Extract(ctx, description, timezone)
	if err != nil {
		if extract.IsClientError(err) {
			s.logger.Info("Rejected event suggestion", "error", err)
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Event extraction failed", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	created, err := session.InsertEvent(ctx, result.Event)
	if err != nil {
		s.logger.Error("Event insert failed", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	display := extract.Present(result.Event, result.Location)
	s.logger.Debug("Converted to local time", "start", display.Start, "end", display.End, "timezone", result.Timezone)

	s.notifyService.NotifyCreated(ctx, &notify.Confirmation{
		EventID:     created.ID,
		HTMLLink:    created.HTMLLink,
		Summary:     result.Event.Summary,
		Description: result.Event.Description,
		Location:    result.Event.Location,
		Start:       display.Start,
		End:         display.End,
		Timezone:    result.Timezone,
	})

	respondJSON(w, http.StatusCreated, createEventResponse{
		Message: fmt.Sprintf("Event created successfully!<br>Summary: %s<br>Description: %s<br>Start Time: %s<br>End Time: %s",
			result.Event.Summary, result.Event.Description, display.Start, display.End),
		EventID:  created.ID,
		Timezone: fmt.Sprintf("Collected user timezone is %s", result.Timezone),
	})
}
