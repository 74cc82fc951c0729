package summary

import (
	"fmt"
	"strings"

	"newsbrief/internal/news"
)

// BuildContext renders items into the textual block both generation steps
// consume: an indexed title line, then optional source, published, summary
// and link lines, items separated by a blank line.
func BuildContext(items []news.Item) string {
	blocks := make([]string, 0, len(items))

	for i, item := range items {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s", i+1, item.Title)
		if item.Source != "" {
			b.WriteString("\nSource: " + item.Source)
		}
		if item.PublishedAt != "" {
			b.WriteString("\nPublished: " + item.PublishedAt)
		}
		if item.Summary != "" {
			b.WriteString("\nSummary: " + Truncate(item.Summary, maxSummaryChars))
		}
		if item.URL != "" {
			b.WriteString("\nLink: " + item.URL)
		}
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n")
}

// Truncate cuts s to at most max characters including the appended ellipsis
// marker, trimming trailing whitespace at the cut point. Strings within the
// budget pass through unchanged.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := strings.TrimRight(string(runes[:max-3]), " \t\n")
	return cut + "..."
}
