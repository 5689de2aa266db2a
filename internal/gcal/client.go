package gcal

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const defaultCalendarID = "primary"

// Client owns the OAuth configuration and the stored credential. It hands out
// a Session per request once the credential checks out.
type Client struct {
	config         *oauth2.Config
	tokenFile      string
	calendarID     string
	logger         *slog.Logger
	serviceOptions []option.ClientOption
}

// ClientConfig configures a Client.
type ClientConfig struct {
	OAuth      *oauth2.Config
	TokenFile  string
	CalendarID string
	Logger     *slog.Logger
	// ServiceOptions are appended when building the Calendar service, e.g. an
	// endpoint override for a fake API.
	ServiceOptions []option.ClientOption
}

// NewClient creates a new Google Calendar client
func NewClient(cfg ClientConfig) *Client {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:         cfg.OAuth,
		tokenFile:      cfg.TokenFile,
		calendarID:     calendarID,
		logger:         logger,
		serviceOptions: cfg.ServiceOptions,
	}
}

// AuthCodeURL returns the consent URL. Consent is forced and offline access
// requested so Google always issues a refresh token.
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and overwrites the stored
// credential.
func (c *Client) Exchange(ctx context.Context, code string) error {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if err := SaveToken(c.tokenFile, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	c.logger.Info("Calendar authorization saved", "file", c.tokenFile)
	return nil
}

// Authorize loads the stored credential and opens a Session. A missing or
// unreadable credential, one without a refresh token, or one that cannot be
// refreshed yields ErrNotAuthorized.
func (c *Client) Authorize(ctx context.Context) (*Session, error) {
	token, err := loadToken(c.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthorized, err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: stored token has no refresh token", ErrNotAuthorized)
	}

	if !token.Valid() {
		fresh, err := c.config.TokenSource(ctx, token).Token()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to refresh token: %v", ErrNotAuthorized, err)
		}
		token = fresh
		if err := SaveToken(c.tokenFile, token); err != nil {
			c.logger.Warn("Could not save refreshed token", "error", err)
		}
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(c.config.Client(ctx, token))}, c.serviceOptions...)
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return NewSession(service, c.calendarID), nil
}

// IsAuthorized reports whether Authorize would currently succeed.
func (c *Client) IsAuthorized(ctx context.Context) bool {
	_, err := c.Authorize(ctx)
	return err == nil
}
