// Package fetcher performs the single outbound HTTP call of a briefing
// request. Target validation runs before any dial so the service cannot be
// pointed at internal infrastructure through the feed endpoint setting.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"newsbrief/internal/logger"
)

// Failure kinds. Callers match with errors.Is; the raw transport error never
// travels past this package's log lines.
var (
	ErrInvalidTarget = errors.New("invalid fetch target")
	ErrUnavailable   = errors.New("upstream unavailable")
	ErrTimeout       = errors.New("upstream timeout")
)

// Client fetches raw feed bytes with a bounded timeout and body size.
type Client struct {
	Timeout      time.Duration
	MaxBodyBytes int64

	httpClient *http.Client
}

func NewClient(timeout time.Duration, maxBodyBytes int64) *Client {
	return &Client{
		Timeout:      timeout,
		MaxBodyBytes: maxBodyBytes,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// ValidateTarget rejects non-https schemes and hosts that point at loopback,
// unspecified or private address space.
func ValidateTarget(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: unparseable url", ErrInvalidTarget)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be https", ErrInvalidTarget)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidTarget)
	}
	if host == "localhost" {
		return fmt.Errorf("%w: loopback host", ErrInvalidTarget)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsUnspecified() || ip.IsPrivate() {
			return fmt.Errorf("%w: private or loopback address", ErrInvalidTarget)
		}
	}
	return nil
}

// FetchJSON validates the target and performs one bounded GET. There is no
// retry here; a failed fetch fails the request.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	if err := ValidateTarget(rawURL); err != nil {
		return nil, err
	}
	return c.fetch(ctx, rawURL, headers)
}

func (c *Client) fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: bad request", ErrUnavailable)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			logger.Warn("feed fetch timed out", "timeout", c.Timeout)
			return nil, ErrTimeout
		}
		logger.Warn("feed fetch failed", "err", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("feed returned non-success status", "status", resp.StatusCode)
		return nil, ErrUnavailable
	}

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = 1 << 20
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, ErrUnavailable
	}
	if int64(len(body)) > limit {
		logger.Warn("feed body exceeded size ceiling", "limit", limit)
		return nil, ErrUnavailable
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
