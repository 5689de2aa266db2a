package notify

import (
	"context"
	"log/slog"
)

// Service sends confirmations to the configured recipient. Failures are
// logged and never reach the caller.
type Service struct {
	emailNotifier Notifier
	recipient     string
	logger        *slog.Logger
}

// NewService creates a notification service
func NewService(emailNotifier Notifier, recipient string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		emailNotifier: emailNotifier,
		recipient:     recipient,
		logger:        logger,
	}
}

// NotifyCreated sends a confirmation for a newly created event if email is
// available.
func (s *Service) NotifyCreated(ctx context.Context, confirmation *Confirmation) {
	if s == nil {
		return
	}
	if !s.IsEmailAvailable() {
		s.logger.Debug("Notification: email not configured, skipping", "event_id", confirmation.EventID)
		return
	}

	if err := s.emailNotifier.Send(ctx, confirmation, s.recipient); err != nil {
		s.logger.Warn("Notification: email failed",
			"notifier", s.emailNotifier.Name(),
			"event_id", confirmation.EventID,
			"error", err)
		return
	}
	s.logger.Debug("Notification: email sent", "event_id", confirmation.EventID)
}

// IsEmailAvailable returns true if email notifications can be used
func (s *Service) IsEmailAvailable() bool {
	return s != nil && s.emailNotifier != nil && s.emailNotifier.IsConfigured() && s.recipient != ""
}
