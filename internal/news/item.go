// Package news turns arbitrary upstream feed payloads into canonical items.
package news

import "errors"

var (
	// ErrNoItems means normalization produced zero usable items; a briefing
	// cannot be built from an empty source list.
	ErrNoItems = errors.New("no news items")

	// ErrBadPayload means the payload could not be parsed at all.
	ErrBadPayload = errors.New("unrecognized feed payload")
)

// Item is the canonical news record. Empty optional fields are omitted on
// the wire; an Item never carries a present-but-empty string.
type Item struct {
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}
