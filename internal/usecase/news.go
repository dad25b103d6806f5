package usecase

import (
	"context"
	"fmt"
	"strings"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/enrichment"
	"NewsNavigator/internal/ports"
	"NewsNavigator/internal/reader"
)

var feedAcceptHeader = map[string]string{
	"Accept": "application/rss+xml, application/xml, text/xml",
}

// NewsFetcher reads the configured news feeds and keeps AI-relevant items.
type NewsFetcher struct {
	cfg      config.NewsConfig
	repo     ports.NewsRepository
	deps     FetcherDeps
	keywords []string
	seq      int
}

// NewNewsFetcher wires the news feeds with the news store.
func NewNewsFetcher(cfg config.NewsConfig, repo ports.NewsRepository, deps FetcherDeps) *NewsFetcher {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = config.DefaultKeywords()
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &NewsFetcher{cfg: cfg, repo: repo, deps: deps.withDefaults("fetcher.news"), keywords: lowered}
}

// Fetch processes up to PerFeed relevant entries from every feed and returns
// how many news items were saved.
func (f *NewsFetcher) Fetch(ctx context.Context) (saved int) {
	log := f.deps.Logger
	defer recoverFetch(log, "news")

	var stats fetchStats
	for i, feed := range f.cfg.Feeds {
		if i > 0 {
			if err := f.deps.Sleep(ctx, f.cfg.Delay); err != nil {
				log.Warn("news fetch interrupted", "error", err)
				break
			}
		}

		entries, err := f.deps.Source.Entries(ctx, ports.FeedRequest{
			URL:     feed.URL,
			Headers: feedAcceptHeader,
			Timeout: f.cfg.Timeout,
		}, feed.Reader)
		if err != nil {
			log.Warn("news feed failed", "feed", feed.Name, "error", err)
			continue
		}

		relevant := f.relevant(entries)
		if len(relevant) > f.cfg.PerFeed {
			relevant = relevant[:f.cfg.PerFeed]
		}
		log.Debug("news feed read", "feed", feed.Name, "entries", len(entries), "relevant", len(relevant))

		for _, entry := range relevant {
			fellBack, err := f.processEntry(ctx, feed, entry)
			if err != nil {
				stats.skipped++
				log.Warn("news entry skipped", "feed", feed.Name, "title", entry.Title, "error", err)
				continue
			}
			if fellBack {
				stats.fallbacks++
			}
			stats.saved++
			saved = stats.saved
		}
	}

	log.Info("news fetch done", "saved", stats.saved, "skipped", stats.skipped, "fallbacks", stats.fallbacks)
	return stats.saved
}

// IsRelevant reports whether title or description mentions any keyword,
// case-insensitively.
func (f *NewsFetcher) IsRelevant(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	for _, k := range f.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func (f *NewsFetcher) relevant(entries []reader.Entry) []reader.Entry {
	out := make([]reader.Entry, 0, len(entries))
	for _, e := range entries {
		if f.IsRelevant(e.Title, e.Body) {
			out = append(out, e)
		}
	}
	return out
}

func (f *NewsFetcher) processEntry(ctx context.Context, feed config.FeedConfig, entry reader.Entry) (bool, error) {
	now := f.deps.Now()
	published := now
	if strings.TrimSpace(entry.Published) != "" {
		t, err := reader.ParseDate(entry.Published)
		if err != nil {
			return false, err
		}
		published = t
	}

	res := f.deps.Enricher.News(ctx, enrichment.NewsInput{
		Headline:    entry.Title,
		Description: entry.Body,
		Source:      feed.Name,
	})

	f.seq++
	key := fmt.Sprintf("news-%d-%d", now.UnixMilli(), f.seq)
	item := domain.NewsItem{
		NewsID:            key,
		Headline:          entry.Title,
		HeadlineLocalized: res.Fields.HeadlineLocalized,
		Tag:               res.Fields.Tag,
		Source:            feed.Name,
		URL:               firstNonBlank(entry.Link, entry.ID),
		Time:              published.UTC().Format(dayLayout),
		Urgency:           res.Fields.Urgency,
		Summary:           res.Fields.Summary,
		BusinessInsight:   res.Fields.BusinessInsight,
		CaseStudy:         res.Fields.CaseStudy,
		PublishedAt:       published.UTC(),
	}
	if err := f.repo.UpsertNews(ctx, item); err != nil {
		return false, fmt.Errorf("save news %s: %w", key, err)
	}
	return res.Fallback, nil
}
