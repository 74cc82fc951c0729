package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsbrief/internal/logger"
)

func init() {
	logger.Init()
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https public host", "https://api.example.com/v1/news", false},
		{"http scheme", "http://api.example.com/v1/news", true},
		{"loopback ip", "https://127.0.0.1/feed", true},
		{"loopback name", "https://localhost/feed", true},
		{"unspecified", "https://0.0.0.0/feed", true},
		{"private 10/8", "https://10.0.0.5/feed", true},
		{"private 172.16/12", "https://172.16.1.1/feed", true},
		{"private 192.168/16", "https://192.168.0.10/feed", true},
		{"missing host", "https:///feed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFetchJSON_RejectsBeforeDialing(t *testing.T) {
	c := NewClient(time.Second, 1<<20)

	// No listener exists at these addresses; an attempted dial would
	// produce a different error kind than ErrInvalidTarget.
	_, err := c.FetchJSON(context.Background(), "http://127.0.0.1:1/feed", nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = c.FetchJSON(context.Background(), "https://10.0.0.5/feed", nil)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(2*time.Second, 1<<20)
	body, err := c.fetch(context.Background(), srv.URL, map[string]string{"Authorization": "Bearer token-123"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded with secret detail", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(2*time.Second, 1<<20)
	_, err := c.fetch(context.Background(), srv.URL, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotContains(t, err.Error(), "secret")
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(50*time.Millisecond, 1<<20)
	_, err := c.fetch(context.Background(), srv.URL, nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	c := NewClient(2*time.Second, 1024)
	_, err := c.fetch(context.Background(), srv.URL, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
