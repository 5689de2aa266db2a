package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// WriteToken stores a credential blob in a temp dir and returns its path.
func WriteToken(t *testing.T, token *oauth2.Token) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	if token == nil {
		return path
	}
	data, err := json.Marshal(token)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// ValidToken is an unexpired token with a refresh token.
func ValidToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "access-valid",
		TokenType:    "Bearer",
		RefreshToken: "refresh-valid",
		Expiry:       time.Now().Add(time.Hour),
	}
}

// OAuthConfig returns a client config whose token endpoint is tokenURL.
func OAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5002/oauth/callback",
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example/o/oauth2/auth",
			TokenURL: tokenURL,
		},
	}
}

// NewTokenServer serves a fixed token from its token endpoint; status other
// than 200 makes every exchange fail.
func NewTokenServer(t *testing.T, status int, accessToken string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh-" + accessToken,
			"expires_in":    3600,
		})
	}))
	t.Cleanup(server.Close)
	return server
}
