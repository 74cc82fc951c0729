package news

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"newsbrief/internal/logger"
)

// containerKeys are tried in order when the payload is an object rather
// than a bare array. The first array-typed value wins.
var containerKeys = []string{"items", "articles", "data", "results"}

// Normalize maps an untrusted JSON payload to canonical items, keeping at
// most limit of them. The candidate list is truncated before per-item
// mapping so a huge feed cannot inflate normalization cost.
func Normalize(raw []byte, limit int) ([]Item, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrBadPayload
	}

	entries := locateEntries(doc)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		title := strings.TrimSpace(firstString(m, "title", "headline", "name"))
		if title == "" {
			// No usable title: dropped silently, not an error.
			continue
		}

		items = append(items, Item{
			Title:       title,
			Summary:     stripHTML(firstString(m, "summary", "description", "content")),
			URL:         strings.TrimSpace(firstString(m, "url", "link", "href")),
			Source:      sourceName(m),
			PublishedAt: normalizeDate(firstString(m, "publishedAt", "published_at", "published", "pubDate", "date")),
		})
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	logger.Debug("normalized feed payload", "entries", len(entries), "items", len(items))
	return items, nil
}

// locateEntries finds the first plausible item array: the payload itself if
// it is an array, otherwise the first conventional container key that holds
// one. No match means an empty collection, not an error.
func locateEntries(doc interface{}) []interface{} {
	if arr, ok := doc.([]interface{}); ok {
		return arr
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, key := range containerKeys {
		if arr, ok := obj[key].([]interface{}); ok {
			return arr
		}
	}
	return nil
}

// firstString returns the first key whose value is a non-empty string.
func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// sourceName accepts both plain-string and {"name": ...} source shapes,
// which feed APIs use interchangeably.
func sourceName(m map[string]interface{}) string {
	for _, key := range []string{"source", "publisher", "author"} {
		switch v := m[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]interface{}:
			if s, ok := v["name"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// normalizeDate returns an RFC3339 timestamp only when the raw value parses
// as a real date. Garbage date strings become absent, never pass through.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// stripHTML flattens markup that feeds routinely embed in summary fields
// down to plain text, collapsing whitespace runs.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
