package news

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbrief/internal/logger"
)

func init() {
	logger.Init()
}

func TestNormalize_ContainerPriority(t *testing.T) {
	item := func(title string) map[string]string {
		return map[string]string{"title": title}
	}

	tests := []struct {
		name    string
		payload interface{}
		want    string
	}{
		{
			name:    "bare array wins",
			payload: []interface{}{item("from-array")},
			want:    "from-array",
		},
		{
			name: "items beats articles",
			payload: map[string]interface{}{
				"items":    []interface{}{item("from-items")},
				"articles": []interface{}{item("from-articles")},
			},
			want: "from-items",
		},
		{
			name: "articles beats data",
			payload: map[string]interface{}{
				"articles": []interface{}{item("from-articles")},
				"data":     []interface{}{item("from-data")},
			},
			want: "from-articles",
		},
		{
			name: "data beats results",
			payload: map[string]interface{}{
				"data":    []interface{}{item("from-data")},
				"results": []interface{}{item("from-results")},
			},
			want: "from-data",
		},
		{
			name: "results as last resort",
			payload: map[string]interface{}{
				"results": []interface{}{item("from-results")},
			},
			want: "from-results",
		},
		{
			name: "non-array container keys are skipped",
			payload: map[string]interface{}{
				"items":   "not an array",
				"results": []interface{}{item("from-results")},
			},
			want: "from-results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			items, err := Normalize(raw, 10)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Title)
		})
	}
}

func TestNormalize_TitleFallbackChain(t *testing.T) {
	raw := []byte(`{"items": [
		{"title": "has title"},
		{"headline": "has headline"},
		{"name": "has name"},
		{"summary": "no usable title"},
		{"title": "   "}
	]}`)

	items, err := Normalize(raw, 10)
	require.NoError(t, err)

	// Titleless entries are dropped silently: output = input - dropped.
	require.Len(t, items, 3)
	assert.Equal(t, "has title", items[0].Title)
	assert.Equal(t, "has headline", items[1].Title)
	assert.Equal(t, "has name", items[2].Title)
}

func TestNormalize_LimitCapsResult(t *testing.T) {
	entries := make([]map[string]string, 20)
	for i := range entries {
		entries[i] = map[string]string{"title": fmt.Sprintf("item %d", i)}
	}
	raw, err := json.Marshal(map[string]interface{}{"articles": entries})
	require.NoError(t, err)

	for limit := 1; limit <= 10; limit++ {
		items, err := Normalize(raw, limit)
		require.NoError(t, err)
		assert.Len(t, items, limit, "limit %d", limit)
	}
}

func TestNormalize_PublishedAt(t *testing.T) {
	raw := []byte(`{"items": [
		{"title": "a", "publishedAt": "2024-01-02T10:30:00Z"},
		{"title": "b", "pubDate": "Tue, 02 Jan 2024 10:30:00 +0000"},
		{"title": "c", "date": "definitely not a date"},
		{"title": "d"}
	]}`)

	items, err := Normalize(raw, 10)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "2024-01-02T10:30:00Z", items[0].PublishedAt)
	assert.NotEmpty(t, items[1].PublishedAt)
	// Garbage dates become absent, never pass through as free text.
	assert.Empty(t, items[2].PublishedAt)
	assert.Empty(t, items[3].PublishedAt)
}

func TestNormalize_SourceShapes(t *testing.T) {
	raw := []byte(`{"items": [
		{"title": "a", "source": "Wire Service"},
		{"title": "b", "source": {"name": "Feed API", "url": "https://feed.example.com"}},
		{"title": "c", "publisher": "The Paper"},
		{"title": "d", "source": {"url": "https://nameless.example.com"}}
	]}`)

	items, err := Normalize(raw, 10)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "Wire Service", items[0].Source)
	assert.Equal(t, "Feed API", items[1].Source)
	assert.Equal(t, "The Paper", items[2].Source)
	assert.Empty(t, items[3].Source)
}

func TestNormalize_StripsHTMLFromSummary(t *testing.T) {
	raw := []byte(`{"items": [
		{"title": "a", "description": "<p>Lead paragraph.</p>\n<img src=\"x\"> More  text."}
	]}`)

	items, err := Normalize(raw, 10)
	require.NoError(t, err)
	assert.Equal(t, "Lead paragraph. More text.", items[0].Summary)
}

func TestNormalize_NoItems(t *testing.T) {
	for _, raw := range []string{
		`{"results": []}`,
		`{"unrelated": true}`,
		`[]`,
		`{"items": [{"summary": "titleless"}]}`,
	} {
		_, err := Normalize([]byte(raw), 5)
		assert.ErrorIs(t, err, ErrNoItems, "payload: %s", raw)
	}
}

func TestNormalize_BadPayload(t *testing.T) {
	_, err := Normalize([]byte(`<rss version="2.0"></rss>`), 5)
	assert.ErrorIs(t, err, ErrBadPayload)
}
