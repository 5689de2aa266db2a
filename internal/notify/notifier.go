package notify

import (
	"context"
)

// Confirmation describes an event that was just created, with times already
// rendered for the user's timezone.
type Confirmation struct {
	EventID     string
	HTMLLink    string
	Summary     string
	Description string
	Location    string
	Start       string
	End         string
	Timezone    string
}

// Notifier sends event confirmations to a specific recipient
type Notifier interface {
	// Send sends a confirmation for an event to the specified recipient
	Send(ctx context.Context, confirmation *Confirmation, recipient string) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
