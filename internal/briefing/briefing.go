// Package briefing composes gate-passed requests into briefing responses:
// fetch the feed, normalize it, summarize it, and make sure no internal
// error detail ever crosses the process boundary.
package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"newsbrief/internal/fetcher"
	"newsbrief/internal/logger"
	"newsbrief/internal/metrics"
	"newsbrief/internal/news"
	"newsbrief/internal/summary"
)

const (
	defaultLimit = 5
	minLimit     = 1
	maxLimit     = 10
)

// FeedFetcher is satisfied by fetcher.Client.
type FeedFetcher interface {
	FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// Handler is the entry handler for the paid news-briefing operation.
type Handler struct {
	Feed            FeedFetcher
	FeedURL         string
	FeedAuthToken   string
	Summarizer      *summary.Summarizer
	GenerateTimeout time.Duration
	Price           string
	MaxBodyBytes    int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := logger.WithRequest(requestID)
	start := time.Now()

	// The boundary contract: whatever goes wrong below, the caller sees
	// one of a handful of generic messages and nothing else.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in briefing handler", "panic", rec)
			metrics.Global.SetError("panic in briefing handler")
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}()

	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := h.parseLimit(r)
	log.Info("briefing requested", "limit", limit)

	items, err := h.loadItems(r.Context(), limit)
	if err != nil {
		status, msg := sanitize(err)
		log.Warn("briefing failed", "stage", "fetch/normalize", "err", err)
		metrics.Global.SetError(msg)
		writeError(w, status, msg)
		return
	}

	// Generation gets its own deadline; a hung model call must not pin the
	// request past the configured bound.
	genCtx := r.Context()
	if h.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(genCtx, h.GenerateTimeout)
		defer cancel()
	}

	result, err := h.Summarizer.Summarize(genCtx, items)
	if err != nil {
		status, msg := sanitize(err)
		log.Warn("briefing failed", "stage", "summarize", "err", err)
		metrics.Global.SetError(msg)
		writeError(w, status, msg)
		return
	}

	if result.Generated {
		metrics.Global.IncrementGeneratedSummaries()
	} else {
		metrics.Global.IncrementFallbackSummaries()
	}
	metrics.Global.IncrementRequestsServed()
	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.SetLastRun()

	log.Info("briefing served", "sources", len(items), "generated", result.Generated, "took", time.Since(start))
	writeJSON(w, http.StatusOK, Response{
		Summary:    result.Summary,
		Highlights: result.Highlights,
		Sources:    items,
		Generated:  result.Generated,
	})
}

// loadItems fetches the configured feed and normalizes it, falling back to
// RSS/Atom parsing when the payload is not JSON.
func (h *Handler) loadItems(ctx context.Context, limit int) ([]news.Item, error) {
	headers := map[string]string{}
	if h.FeedAuthToken != "" {
		headers["Authorization"] = "Bearer " + h.FeedAuthToken
	}

	raw, err := h.Feed.FetchJSON(ctx, h.FeedURL, headers)
	if err != nil {
		metrics.Global.IncrementFetchFailures()
		return nil, err
	}

	items, err := news.Normalize(raw, limit)
	if errors.Is(err, news.ErrBadPayload) {
		items, err = news.ParseFeed(raw, limit)
	}
	if err != nil {
		metrics.Global.IncrementNormalizeFailures()
		return nil, err
	}
	return items, nil
}

// parseLimit reads the optional limit from the JSON body or the query
// string. Anything malformed or out of range coerces silently to the
// default; validation detail is never surfaced to the caller.
func (h *Handler) parseLimit(r *http.Request) int {
	if r.Method == http.MethodPost && r.Body != nil {
		maxBytes := h.MaxBodyBytes
		if maxBytes <= 0 {
			maxBytes = 1 << 20
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
		if err == nil && len(body) > 0 {
			var input map[string]interface{}
			if json.Unmarshal(body, &input) == nil {
				if v, ok := input["limit"]; ok {
					if n, ok := asLimit(v); ok {
						return n
					}
					return defaultLimit
				}
			}
		}
	}

	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n >= minLimit && n <= maxLimit {
			return n
		}
		return defaultLimit
	}

	return defaultLimit
}

// asLimit accepts only a finite integer-valued number within range.
func asLimit(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	n := int(f)
	if n < minLimit || n > maxLimit {
		return 0, false
	}
	return n, true
}

// sanitize collapses internal failure kinds to generic, non-identifying
// messages. Upstream hostnames, status codes and raw error text stay in the
// logs.
func sanitize(err error) (int, string) {
	switch {
	case errors.Is(err, fetcher.ErrInvalidTarget),
		errors.Is(err, fetcher.ErrTimeout),
		errors.Is(err, fetcher.ErrUnavailable),
		errors.Is(err, summary.ErrGeneration):
		return http.StatusBadGateway, "external service unavailable"
	case errors.Is(err, news.ErrBadPayload):
		return http.StatusBadGateway, "invalid response format"
	case errors.Is(err, news.ErrNoItems):
		return http.StatusBadGateway, "no news entries available"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
