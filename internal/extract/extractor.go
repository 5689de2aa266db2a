package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omriShneor/quickcal/internal/timeutil"
)

// Completer turns a system instruction and a user prompt into free text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config configures an Extractor.
type Config struct {
	Completer Completer
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Extractor runs the prompt, completion, parse and normalize steps for one
// description.
type Extractor struct {
	completer Completer
	now       func() time.Time
	logger    *slog.Logger
}

// Result is the outcome of a successful extraction.
type Result struct {
	Raw      string
	Fields   Fields
	Event    Event
	Timezone string
	Location *time.Location
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		completer: cfg.Completer,
		now:       now,
		logger:    logger,
	}
}

// Extract turns a free-form description into a validated Event. Parse and
// validation failures are returned as *SuggestionError so callers can show
// the raw completion; completion failures are returned wrapped as-is.
func (x *Extractor) Extract(ctx context.Context, description, timezone string) (*Result, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	timezone = strings.TrimSpace(timezone)
	loc, err := timeutil.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, timezone)
	}

	prompt := BuildPrompt(description, x.now().In(loc), timezone)

	raw, err := x.completer.Complete(ctx, SystemInstruction(), prompt)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	raw = strings.TrimSpace(raw)
	x.logger.Debug("AI suggestion received", "raw", raw)

	fields, err := ParseSuggestion(raw)
	if err != nil {
		return nil, &SuggestionError{Raw: raw, Err: err}
	}
	x.logger.Debug("AI suggestion parsed", "start", fields.Start, "end", fields.End, "all_day", fields.AllDay)

	event, err := Normalize(fields, loc)
	if err != nil {
		return nil, &SuggestionError{Raw: raw, Err: err}
	}

	return &Result{
		Raw:      raw,
		Fields:   fields,
		Event:    event,
		Timezone: timezone,
		Location: loc,
	}, nil
}
