// Package summary turns canonical news items into a two-sentence summary
// plus highlights, via the Gemini capability when configured and a
// deterministic fallback when not.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsbrief/internal/logger"
	"newsbrief/internal/news"
)

// ErrGeneration means the configured text-generation capability failed at
// runtime. The entry handler sanitizes it like any other upstream failure.
var ErrGeneration = errors.New("text generation failed")

// maxSummaryChars caps each item's summary inside the context block.
const maxSummaryChars = 600

// maxHighlights caps the generated path only; the fallback deliberately
// returns one highlight per item regardless of count.
const maxHighlights = 5

// TextGenerator is the external capability: given text, produce text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is what the entry handler assembles into the response.
type Result struct {
	Summary    string
	Highlights []string
	Generated  bool
}

// Summarizer runs the two-step generation pipeline. A nil generator selects
// the fallback path.
type Summarizer struct {
	gen TextGenerator
}

func New(gen TextGenerator) *Summarizer {
	return &Summarizer{gen: gen}
}

// Summarize produces the briefing text for the given items.
func (s *Summarizer) Summarize(ctx context.Context, items []news.Item) (*Result, error) {
	if s.gen == nil {
		logger.Debug("no text generator configured, using fallback summary")
		return fallback(items), nil
	}

	contextBlock := BuildContext(items)

	summaryText, err := s.gen.Generate(ctx, summaryPrompt(contextBlock))
	if err != nil {
		logger.Error("summary generation failed", "err", err)
		return nil, fmt.Errorf("%w: summary step", ErrGeneration)
	}
	summaryText = strings.TrimSpace(summaryText)

	// Step two receives step one's output explicitly; the pipeline shares
	// no other state between steps.
	highlightText, err := s.gen.Generate(ctx, highlightPrompt(contextBlock, summaryText))
	if err != nil {
		logger.Error("highlight generation failed", "err", err)
		return nil, fmt.Errorf("%w: highlight step", ErrGeneration)
	}

	highlights := parseHighlights(highlightText)
	if len(highlights) == 0 {
		highlights = titleHighlights(items, maxHighlights)
	}

	return &Result{Summary: summaryText, Highlights: highlights, Generated: true}, nil
}

func summaryPrompt(contextBlock string) string {
	return "Summarize the following news items in exactly two sentences. " +
		"Be concrete and neutral; no preamble, no markdown.\n\n" + contextBlock
}

func highlightPrompt(contextBlock, summaryText string) string {
	return "Given the news context and the summary below, list up to five short highlights. " +
		"Each highlight must reference a distinct item. One highlight per line, plain text, " +
		"no numbering or bullets.\n\nCONTEXT:\n" + contextBlock + "\n\nSUMMARY:\n" + summaryText
}

// parseHighlights extracts one highlight per line, stripping list markers
// the model tends to add anyway, capped at five.
func parseHighlights(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = trimNumberPrefix(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) >= maxHighlights {
			break
		}
	}
	return out
}

// trimNumberPrefix removes a leading "3." / "3)" list index.
func trimNumberPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return s[i+1:]
	}
	return s
}

// fallback builds a deterministic briefing: all titles joined into one
// templated sentence, every title as a highlight.
func fallback(items []news.Item) *Result {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}

	return &Result{
		Summary:    fmt.Sprintf("Here are the latest news headlines: %s.", strings.Join(titles, "; ")),
		Highlights: titleHighlights(items, 0),
		Generated:  false,
	}
}

// titleHighlights returns item titles in order; max 0 means uncapped.
func titleHighlights(items []news.Item, max int) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Title)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
