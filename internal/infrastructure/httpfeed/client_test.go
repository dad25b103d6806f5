package httpfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsNavigator/internal/ports"
)

func TestClientFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "NewsNavigator-test" {
			t.Errorf("unexpected user agent: %s", got)
		}
		if got := r.Header.Get("Accept"); got != "application/rss+xml" {
			t.Errorf("unexpected accept: %s", got)
		}
		_, _ = w.Write([]byte("<rss/>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "NewsNavigator-test")
	body, err := client.Fetch(context.Background(), ports.FeedRequest{
		URL:     server.URL,
		Headers: map[string]string{"Accept": "application/rss+xml"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<rss/>" {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestClientFetchStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewClient(server.Client(), "").Fetch(context.Background(), ports.FeedRequest{URL: server.URL})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusTooManyRequests || statusErr.Body != "rate limited" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestClientFetchTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.Client(), "").Fetch(context.Background(), ports.FeedRequest{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
