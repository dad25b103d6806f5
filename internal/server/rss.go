package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/usecase"
)

const feedDescriptionLen = 500

// GenerateRSSFeed renders news items as RSS 2.0.
func GenerateRSSFeed(items []domain.NewsItem, cfg config.ServerConfig, now time.Time) (string, error) {
	feed := &feeds.Feed{
		Title:       cfg.FeedTitle,
		Link:        &feeds.Link{Href: cfg.FeedLink},
		Description: "Daily AI papers, news and products",
		Created:     now,
	}

	feed.Items = make([]*feeds.Item, 0, len(items))
	for _, n := range items {
		description := n.Summary
		if n.BusinessInsight != "" {
			description += "\n\n" + n.BusinessInsight
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       n.DisplayTitle(),
			Link:        &feeds.Link{Href: n.URL},
			Id:          n.NewsID,
			Author:      &feeds.Author{Name: n.Source},
			Description: truncateRunes(description, feedDescriptionLen),
			Created:     n.PublishedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("generate rss: %w", err)
	}
	return rss, nil
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.News(r.Context(), usecase.FilterWeek)
	if err != nil {
		s.fail(w, err)
		return
	}

	rss, err := GenerateRSSFeed(items, s.cfg, time.Now())
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
