package news

import (
	"bytes"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsbrief/internal/logger"
)

// ParseFeed handles the case where the upstream answers with RSS/Atom
// instead of JSON. Same contract as Normalize: truncate first, drop
// titleless entries, fail on an empty result.
func ParseFeed(raw []byte, limit int) ([]Item, error) {
	parser := gofeed.NewParser()
	feed, err := parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrBadPayload
	}

	entries := feed.Items
	if len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		published := ""
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.Format(time.RFC3339)
		}

		items = append(items, Item{
			Title:       title,
			Summary:     stripHTML(entry.Description),
			URL:         strings.TrimSpace(entry.Link),
			Source:      strings.TrimSpace(feed.Title),
			PublishedAt: published,
		})
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	logger.Debug("parsed feed fallback", "format", feed.FeedType, "items", len(items))
	return items, nil
}
