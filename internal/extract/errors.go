package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTemporalField means the reply had no usable Start or End line.
	ErrMissingTemporalField = errors.New("could not find start or end time in AI suggestion")
	// ErrMalformedTimestamp means a Start or End value is not an ISO 8601 timestamp.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrInvalidTimeRange means the end does not come strictly after the start.
	ErrInvalidTimeRange = errors.New("invalid time range: end time must be after start time")
	// ErrUnknownTimezone means the caller supplied a zone name that cannot be loaded.
	ErrUnknownTimezone = errors.New("unknown timezone")
	// ErrEmptyDescription means there was nothing to schedule.
	ErrEmptyDescription = errors.New("description is required")
)

// SuggestionError wraps a parse or validation failure together with the raw
// completion text that caused it.
type SuggestionError struct {
	Raw string
	Err error
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("Could not parse AI suggestion: %v. AI response: %s", e.Err, e.Raw)
}

func (e *SuggestionError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err can be fixed by the caller rephrasing the
// request, as opposed to an upstream or system failure.
func IsClientError(err error) bool {
	var suggestionErr *SuggestionError
	if errors.As(err, &suggestionErr) {
		return true
	}
	return errors.Is(err, ErrMissingTemporalField) ||
		errors.Is(err, ErrMalformedTimestamp) ||
		errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrUnknownTimezone) ||
		errors.Is(err, ErrEmptyDescription)
}
