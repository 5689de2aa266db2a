package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const oauthStateCookie = "quickcal_oauth_state"

// handleAuthorize starts the Google consent flow.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.calendar.AuthCodeURL(state), http.StatusFound)
}

// handleOAuthCallback finishes the consent flow. The new credential replaces
// any stored one.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if reason := query.Get("error"); reason != "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Authorization denied: %s", reason))
		return
	}

	code := query.Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "No authorization code received")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		respondError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	if err := s.calendar.Exchange(r.Context(), code); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to exchange code: %v", err))
		return
	}

	http.Redirect(w, r, "/create_event", http.StatusFound)
}
