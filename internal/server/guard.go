package server

import (
	"net/http"

	"github.com/omriShneor/quickcal/internal/gcal"
)

// sessionHandler is a handler that needs an authorized calendar session.
type sessionHandler func(w http.ResponseWriter, r *http.Request, session *gcal.Session)

// requireCalendar opens a calendar session for the request and passes it to
// next. Without a usable credential the client is sent to /authorize.
func (s *Server) requireCalendar(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.calendar.Authorize(r.Context())
		if err != nil {
			if !gcal.IsNotAuthorized(err) {
				s.logger.Warn("Calendar session unavailable", "path", r.URL.Path, "error", err)
			}
			http.Redirect(w, r, "/authorize", http.StatusFound)
			return
		}
		next(w, r, session)
	}
}
