package parser

import (
	"context"
	"fmt"
	"log/slog"

	"NewsNavigator/internal/ports"
	"NewsNavigator/internal/reader"
)

// FeedSource implements ports.EntrySource by fetching a payload and running
// the named reader over it.
type FeedSource struct {
	client   ports.FeedClient
	registry *reader.Registry
	logger   *slog.Logger
}

var _ ports.EntrySource = (*FeedSource)(nil)

// NewFeedSource wires the HTTP client with the reader registry.
func NewFeedSource(client ports.FeedClient, reg *reader.Registry, log *slog.Logger) *FeedSource {
	if reg == nil {
		reg = NewRegistry()
	}
	return &FeedSource{client: client, registry: reg, logger: log}
}

// Entries fetches req.URL and decodes it. A decode error after some entries
// were read is logged and the partial result returned.
func (s *FeedSource) Entries(ctx context.Context, req ports.FeedRequest, format string) ([]reader.Entry, error) {
	if s.client == nil {
		return nil, fmt.Errorf("feed client is not configured")
	}

	rd, err := s.registry.Resolve(format)
	if err != nil {
		return nil, err
	}

	payload, err := s.client.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
	}

	entries, err := rd.Read(payload)
	if err != nil {
		if len(entries) == 0 {
			return nil, fmt.Errorf("read %s: %w", req.URL, err)
		}
		s.debug("partial feed", "url", req.URL, "entries", len(entries), "error", err)
	}

	s.debug("feed decoded", "url", req.URL, "reader", rd.Name(), "entries", len(entries))
	return entries, nil
}

func (s *FeedSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
