package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends email confirmations via Resend API
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
	appURL      string
	logger      *slog.Logger
	now         func() time.Time
}

// NewResendNotifier creates a new Resend email notifier. It returns nil when
// no API key is configured.
func NewResendNotifier(apiKey, from, appURL string, logger *slog.Logger) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
		appURL:      appURL,
		logger:      logger,
		now:         time.Now,
	}
}

// IsConfigured returns true if the notifier has server-side config
func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.client != nil && r.fromAddress != ""
}

// Send emails a confirmation for a created event to the specified recipient
func (r *ResendNotifier) Send(ctx context.Context, confirmation *Confirmation, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("no recipient specified")
	}
	if confirmation == nil {
		return fmt.Errorf("no confirmation to send")
	}

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{recipient},
		Subject: fmt.Sprintf("Event created: %s", confirmation.Summary),
		Html:    r.formatEmailHTML(confirmation),
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	r.logger.Info("Confirmation email sent", "recipient", recipient, "event_id", confirmation.EventID)
	return nil
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// formatEmailHTML creates the HTML email body. Event text comes from the model
// and is escaped.
func (r *ResendNotifier) formatEmailHTML(c *Confirmation) string {
	locationHTML := ""
	if c.Location != "" && c.Location != "unspecified" {
		locationHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Location:</strong> %s</p>`, html.EscapeString(c.Location))
	}

	descriptionHTML := ""
	if c.Description != "" {
		descriptionHTML = fmt.Sprintf(`<p style="margin: 16px 0;">%s</p>`, html.EscapeString(c.Description))
	}

	link := c.HTMLLink
	if link == "" {
		link = r.appURL + "/events"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="margin-bottom: 16px;">
      <span style="background-color: #28a745; color: white; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600;">Event Created</span>
    </div>

    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #007bff;">
      <p style="margin: 8px 0;"><strong>Start:</strong> %s</p>
      <p style="margin: 8px 0;"><strong>End:</strong> %s</p>
      %s
      <p style="margin: 8px 0;"><strong>Timezone:</strong> %s</p>
    </div>

    %s

    <a href="%s" style="display: inline-block; background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 16px; font-weight: 500;">
      Open in Calendar
    </a>

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      QuickCal<br>
      <span style="color: #ccc;">Sent at %s</span>
    </p>
  </div>
</body>
</html>`,
		html.EscapeString(c.Summary),
		html.EscapeString(c.Start),
		html.EscapeString(c.End),
		locationHTML,
		html.EscapeString(c.Timezone),
		descriptionHTML,
		html.EscapeString(link),
		r.now().Format("Jan 2, 2006 3:04 PM"),
	)
}
