package gcal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// ErrNotAuthorized means there is no usable stored credential and the user has
// to go through the consent flow again.
var ErrNotAuthorized = errors.New("calendar authorization missing or invalid")

// IsNotAuthorized returns true when err means the consent flow must be rerun.
func IsNotAuthorized(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// OAuthScopes lets the app list upcoming events and create new ones.
var OAuthScopes = []string{
	calendar.CalendarReadonlyScope,
	calendar.CalendarEventsScope,
}

// LoadOAuthConfig loads the OAuth client from GOOGLE_CREDENTIALS_JSON or,
// failing that, from credentialsFile.
func LoadOAuthConfig(credentialsFile, redirectURL string) (*oauth2.Config, error) {
	// Try environment variable first (useful for container deployments)
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		config, err := google.ConfigFromJSON([]byte(credJSON), OAuthScopes...)
		if err == nil {
			config.RedirectURL = redirectURL
			return config, nil
		}
	}

	if credentialsFile == "" {
		return nil, fmt.Errorf("no credentials file configured - provide credentials.json or set GOOGLE_CREDENTIALS_JSON")
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(data, OAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = redirectURL
	return config, nil
}

// SaveToken writes the credential blob, replacing whatever was there.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("unable to write token file: %w", err)
	}
	return nil
}

// loadToken reads the credential blob written by SaveToken.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("unable to decode token file: %w", err)
	}
	return token, nil
}
