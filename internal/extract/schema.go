package extract

import "strings"

// FieldKey identifies one of the six fields a reply can carry.
type FieldKey int

const (
	FieldSummary FieldKey = iota
	FieldLocation
	FieldDescription
	FieldStart
	FieldEnd
	FieldAllDay
)

// Label is a single "Name: value" line in the model's reply.
type Label struct {
	Name  string
	Field FieldKey
	Hint  string
}

// LabelSchema is the declared reply grammar. The version is bumped whenever a
// label is added, removed or renamed so prompts and parser stay in step.
type LabelSchema struct {
	Version int
	Labels  []Label
}

// SchemaV1 is the reply format the prompt asks for.
var SchemaV1 = LabelSchema{
	Version: 1,
	Labels: []Label{
		{Name: "Summary", Field: FieldSummary, Hint: "short title"},
		{Name: "Location", Field: FieldLocation, Hint: "location or unspecified"},
		{Name: "Description", Field: FieldDescription, Hint: "brief description"},
		{Name: "Start", Field: FieldStart, Hint: "ISO 8601 start time"},
		{Name: "End", Field: FieldEnd, Hint: "ISO 8601 end time"},
		{Name: "All Day Event", Field: FieldAllDay, Hint: "true or false"},
	},
}

// Template renders the schema as the literal block the model must reproduce.
func (s LabelSchema) Template() string {
	var b strings.Builder
	for i, label := range s.Labels {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label.Name)
		b.WriteString(": [")
		b.WriteString(label.Hint)
		b.WriteString("]")
	}
	return b.String()
}

// match returns the label a line starts with and the value after the colon.
// Labels are anchored at the start of the line, so a label word appearing
// inside another field's text is not treated as a new field.
func (s LabelSchema) match(line string) (Label, string, bool) {
	line = cleanLine(line)
	for _, label := range s.Labels {
		prefix := label.Name + ":"
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return label, strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return Label{}, "", false
}

var emphasis = strings.NewReplacer("**", "")

// cleanLine drops list bullets, headings and bold markers models like to add.
func cleanLine(line string) string {
	line = emphasis.Replace(line)
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•# \t")
	return strings.TrimSpace(line)
}
