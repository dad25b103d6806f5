package httpfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsNavigator/internal/ports"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "NewsNavigator/1.0"
	maxBodyBytes     = 8 << 20
)

// StatusError reports a non-2xx answer from a feed.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Client implements ports.FeedClient over net/http.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

var _ ports.FeedClient = (*Client)(nil)

// NewClient wires an HTTP client; timeouts are applied per request.
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &Client{httpClient: httpClient, userAgent: userAgent}
}

// Fetch performs the request and returns the body of a 2xx response.
func (c *Client) Fetch(ctx context.Context, req ports.FeedRequest) ([]byte, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: req.URL, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return body, nil
}
