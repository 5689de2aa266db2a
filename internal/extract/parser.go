package extract

import (
	"bufio"
	"fmt"
	"strings"
)

// Fields holds the raw values extracted from a reply. Empty means absent.
type Fields struct {
	Summary     string `json:"summary"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      string `json:"all_day"`
}

func (f *Fields) set(key FieldKey, value string) {
	switch key {
	case FieldSummary:
		f.Summary = value
	case FieldLocation:
		f.Location = value
	case FieldDescription:
		f.Description = value
	case FieldStart:
		f.Start = value
	case FieldEnd:
		f.End = value
	case FieldAllDay:
		f.AllDay = value
	}
}

// ParseSuggestion extracts labeled fields from a completion using SchemaV1.
func ParseSuggestion(raw string) (Fields, error) {
	return SchemaV1.Parse(raw)
}

// Parse scans raw line by line. A repeated label overwrites the earlier value.
// Only Start and End are required.
func (s LabelSchema) Parse(raw string) (Fields, error) {
	var fields Fields

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		label, value, ok := s.match(scanner.Text())
		if !ok {
			continue
		}
		fields.set(label.Field, value)
	}
	if err := scanner.Err(); err != nil {
		return Fields{}, fmt.Errorf("failed to scan AI suggestion: %w", err)
	}

	if fields.Start == "" || fields.End == "" {
		return fields, ErrMissingTemporalField
	}
	return fields, nil
}
