package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/enrichment"
	"NewsNavigator/internal/ports"
	"NewsNavigator/internal/reader"
)

// ArxivFetcher pulls the newest submissions for each configured query.
type ArxivFetcher struct {
	cfg  config.ArxivConfig
	repo ports.PaperRepository
	deps FetcherDeps
}

// NewArxivFetcher wires the arXiv source with the paper store.
func NewArxivFetcher(cfg config.ArxivConfig, repo ports.PaperRepository, deps FetcherDeps) *ArxivFetcher {
	return &ArxivFetcher{cfg: cfg, repo: repo, deps: deps.withDefaults("fetcher.arxiv")}
}

// Fetch processes up to PerQuery entries of every query and returns how many
// papers were saved. Failures are logged per query or per entry.
func (f *ArxivFetcher) Fetch(ctx context.Context) (saved int) {
	log := f.deps.Logger
	defer recoverFetch(log, "arxiv")

	var stats fetchStats
	for i, query := range f.cfg.Queries {
		if i > 0 {
			if err := f.deps.Sleep(ctx, f.cfg.Delay); err != nil {
				log.Warn("arxiv fetch interrupted", "error", err)
				break
			}
		}

		entries, err := f.deps.Source.Entries(ctx, ports.FeedRequest{
			URL:     f.queryURL(query),
			Timeout: f.cfg.Timeout,
		}, "atom")
		if err != nil {
			log.Warn("arxiv query failed", "query", query, "error", err)
			continue
		}
		if len(entries) > f.cfg.PerQuery {
			entries = entries[:f.cfg.PerQuery]
		}

		for _, entry := range entries {
			fellBack, err := f.processEntry(ctx, entry)
			if err != nil {
				stats.skipped++
				log.Warn("arxiv entry skipped", "query", query, "title", entry.Title, "error", err)
				continue
			}
			if fellBack {
				stats.fallbacks++
			}
			stats.saved++
			saved = stats.saved
		}
	}

	log.Info("arxiv fetch done", "saved", stats.saved, "skipped", stats.skipped, "fallbacks", stats.fallbacks)
	return stats.saved
}

func (f *ArxivFetcher) processEntry(ctx context.Context, entry reader.Entry) (bool, error) {
	key, err := paperKey(entry)
	if err != nil {
		return false, err
	}
	published, err := reader.ParseDate(entry.Published)
	if err != nil {
		return false, err
	}

	res := f.deps.Enricher.Paper(ctx, enrichment.PaperInput{
		Title:      entry.Title,
		Summary:    entry.Body,
		Categories: entry.Categories,
	})

	link := entry.LinkOfType("text/html")
	if link == "" {
		link = firstNonBlank(entry.Link, entry.ID)
	}

	paper := domain.Paper{
		PaperID:            key,
		Title:              entry.Title,
		TitleLocalized:     res.Fields.TitleLocalized,
		Tag:                res.Fields.Tag,
		Source:             "arXiv",
		URL:                link,
		Submitted:          published.UTC().Format(dayLayout),
		ImpactScore:        res.Fields.ImpactScore,
		CorePrinciple:      res.Fields.CorePrinciple,
		BottomLogic:        res.Fields.BottomLogic,
		ProductImagination: res.Fields.ProductImagination,
		PublishedAt:        published.UTC(),
	}
	if err := f.repo.UpsertPaper(ctx, paper); err != nil {
		return false, fmt.Errorf("save paper %s: %w", key, err)
	}
	return res.Fallback, nil
}

func (f *ArxivFetcher) queryURL(query string) string {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(f.cfg.MaxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	return f.cfg.Endpoint + "?" + params.Encode()
}

// paperKey derives "arxiv-2502-01234v1" from "http://arxiv.org/abs/2502.01234v1".
func paperKey(entry reader.Entry) (string, error) {
	_, id, found := strings.Cut(entry.ID, "/abs/")
	id = strings.TrimSpace(id)
	if !found || id == "" {
		return "", fmt.Errorf("cannot derive arXiv id from %q", entry.ID)
	}
	return "arxiv-" + strings.NewReplacer(".", "-", "/", "-").Replace(id), nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
