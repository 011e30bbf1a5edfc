package journal

import (
	"fmt"
	"strings"
)

// NoContext is the context block used when nothing was retrieved.
const NoContext = "No relevant journal entries found."

// DateLayout formats entry dates inside the context block.
const DateLayout = "Jan 2, 2006"

// Excerpt is a retrieved entry as it appears in the context block.
type Excerpt struct {
	Text     string
	Metadata Metadata
}

// BuildContext renders excerpts in rank order:
//
//	Entry 1 (Mar 4, 2025 (Mood: happy)):
//	text
//
// Entries are separated by a blank line.
func BuildContext(excerpts []Excerpt) string {
	if len(excerpts) == 0 {
		return NoContext
	}

	var b strings.Builder
	for i, e := range excerpts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		date := "Unknown date"
		if !e.Metadata.Date.IsZero() {
			date = e.Metadata.Date.Format(DateLayout)
		}
		mood := ""
		if e.Metadata.Mood != "" {
			mood = fmt.Sprintf(" (Mood: %s)", e.Metadata.Mood)
		}
		fmt.Fprintf(&b, "Entry %d (%s%s):\n%s", i+1, date, mood, e.Text)
	}
	return b.String()
}
