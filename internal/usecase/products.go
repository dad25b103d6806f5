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

const taglineFallbackLen = 100

// ProductFetcher reads product launch feeds.
type ProductFetcher struct {
	cfg  config.ProductsConfig
	repo ports.ProductRepository
	deps FetcherDeps
	seq  int
}

// NewProductFetcher wires the launch feeds with the product store.
func NewProductFetcher(cfg config.ProductsConfig, repo ports.ProductRepository, deps FetcherDeps) *ProductFetcher {
	return &ProductFetcher{cfg: cfg, repo: repo, deps: deps.withDefaults("fetcher.products")}
}

// Fetch saves at most MaxItems products across all feeds.
func (f *ProductFetcher) Fetch(ctx context.Context) (saved int) {
	log := f.deps.Logger
	defer recoverFetch(log, "products")

	var stats fetchStats
	for i, feed := range f.cfg.Feeds {
		if stats.saved+stats.skipped >= f.cfg.MaxItems {
			break
		}
		if i > 0 {
			if err := f.deps.Sleep(ctx, f.cfg.Delay); err != nil {
				log.Warn("product fetch interrupted", "error", err)
				break
			}
		}

		entries, err := f.deps.Source.Entries(ctx, ports.FeedRequest{
			URL:     feed.URL,
			Headers: feedAcceptHeader,
			Timeout: f.cfg.Timeout,
		}, feed.Reader)
		if err != nil {
			log.Warn("product feed failed", "feed", feed.Name, "error", err)
			continue
		}

		for _, entry := range entries {
			if stats.saved+stats.skipped >= f.cfg.MaxItems {
				break
			}
			fellBack, err := f.processEntry(ctx, feed, entry)
			if err != nil {
				stats.skipped++
				log.Warn("product entry skipped", "feed", feed.Name, "title", entry.Title, "error", err)
				continue
			}
			if fellBack {
				stats.fallbacks++
			}
			stats.saved++
			saved = stats.saved
		}
	}

	log.Info("product fetch done", "saved", stats.saved, "skipped", stats.skipped, "fallbacks", stats.fallbacks)
	return stats.saved
}

func (f *ProductFetcher) processEntry(ctx context.Context, feed config.FeedConfig, entry reader.Entry) (bool, error) {
	name, tagline := SplitLaunchTitle(entry.Title)
	if tagline == "" {
		tagline = enrichment.Truncate(entry.Body, taglineFallbackLen)
	}

	res := f.deps.Enricher.Product(ctx, enrichment.ProductInput{
		Name:        name,
		Tagline:     tagline,
		Description: entry.Body,
	})

	now := f.deps.Now()
	f.seq++
	key := fmt.Sprintf("ph-%d-%d", now.UnixMilli(), f.seq)
	product := domain.Product{
		ProductID:         key,
		Name:              name,
		Tagline:           tagline,
		Tag:               res.Fields.Tag,
		Source:            feed.Name,
		URL:               firstNonBlank(entry.Link, entry.ID),
		Verdict:           res.Fields.Verdict,
		PainPointAnalysis: res.Fields.PainPointAnalysis,
		BusinessModel:     res.Fields.BusinessModel,
		PublishedAt:       now.UTC(),
	}
	if err := f.repo.UpsertProduct(ctx, product); err != nil {
		return false, fmt.Errorf("save product %s: %w", key, err)
	}
	return res.Fallback, nil
}

// SplitLaunchTitle splits "Name - tagline" on the first separator.
func SplitLaunchTitle(title string) (name, tagline string) {
	name, tagline, _ = strings.Cut(title, " - ")
	return strings.TrimSpace(name), strings.TrimSpace(tagline)
}
