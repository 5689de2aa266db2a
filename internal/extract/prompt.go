package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/omriShneor/quickcal/internal/timeutil"
)

// SystemInstruction is sent as the system message of every completion.
func SystemInstruction() string {
	return "You are a helpful calendar assistant. Reply with exactly these lines and nothing else, " +
		"one label per line:\n" + SchemaV1.Template()
}

// BuildPrompt renders the user prompt. today must already be in the user's
// zone; the output depends only on the arguments.
func BuildPrompt(description string, today time.Time, timezone string) string {
	var b strings.Builder

	weekday := today.Weekday().String()
	fmt.Fprintf(&b, "Today is %s, %s. Schedule an event using the following information: '%s'.\n",
		weekday, today.Format(timeutil.DateLayout), strings.TrimSpace(description))
	fmt.Fprintf(&b, "The user's timezone is %s (UTC offset %s today).\n\n", timezone, timeutil.Offset(today))

	b.WriteString("Instructions:\n")
	instructions := []string{
		"Provide a short, clear summary title.",
		"Provide a brief description.",
		"Extract any location information from the description. If there is no explicit location, answer 'unspecified' on the Location line.",
		"Always suggest a start date and time *and* an end date and time.",
		fmt.Sprintf("Return the start and end in ISO 8601 format with the user's UTC offset (YYYY-MM-DDTHH:MM:SS%s).", timeutil.Offset(today)),
		"Be specific with times. 'noon' means 12:00 p.m., 'midnight' means 12:00 a.m., and a bare '6' means 6:00.",
		"The end time *must* be scheduled after the start time. For example, 'from 8 to 6' means 8 a.m. to 6 p.m.",
		"If the description implies a duration, use it. If not, default to 1 hour.",
		"If no time is given, schedule it for the entire day and answer 'true' on the All Day Event line; otherwise answer 'false'.",
		"'Next Tuesday' means the *first* Tuesday after today; do not use today even if it is a Tuesday. Interpret other relative day names ('next Wednesday', 'last Friday') the same way.",
	}
	for i, instruction := range instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, instruction)
	}

	return b.String()
}
