package gcal

import (
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/api/calendar/v3"
)

// WriteSnapshot replaces the file at path with events as an indented JSON
// array. Nothing is merged; concurrent writers race and the last one wins.
func WriteSnapshot(path string, events []*calendar.Event) error {
	if events == nil {
		events = []*calendar.Event{}
	}

	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode events snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write events snapshot: %w", err)
	}
	return nil
}
