package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/ports"
)

// Filter selects the time window of a catalog listing.
type Filter string

const (
	FilterToday Filter = "today"
	FilterWeek  Filter = "week"
)

// ParseFilter maps a query value to a Filter; anything unknown means week.
func ParseFilter(raw string) Filter {
	if Filter(strings.ToLower(strings.TrimSpace(raw))) == FilterToday {
		return FilterToday
	}
	return FilterWeek
}

// DateRange returns [from, to] for filter, with midnight taken in loc.
// A nil loc means the process-local zone; the app passes the scheduler
// timezone so listings and daily runs share one notion of a day.
func DateRange(filter Filter, now time.Time, loc *time.Location) (from, to time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if filter == FilterToday {
		return midnight, now
	}
	return midnight.AddDate(0, 0, -7), now
}

// Catalog serves read-only listings of stored records.
type Catalog struct {
	repo ports.Repository
	loc  *time.Location
	now  func() time.Time
}

// NewCatalog builds a catalog whose day boundaries follow loc, or the
// process-local zone when loc is nil.
func NewCatalog(repo ports.Repository, loc *time.Location) *Catalog {
	if loc == nil {
		loc = time.Local
	}
	return &Catalog{repo: repo, loc: loc, now: time.Now}
}

func (c *Catalog) window(filter Filter) (time.Time, time.Time) {
	return DateRange(filter, c.now(), c.loc)
}

// Papers lists papers published within filter.
func (c *Catalog) Papers(ctx context.Context, filter Filter) ([]domain.Paper, error) {
	from, to := c.window(filter)
	papers, err := c.repo.ListPapers(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return papers, nil
}

// News lists news items published within filter.
func (c *Catalog) News(ctx context.Context, filter Filter) ([]domain.NewsItem, error) {
	from, to := c.window(filter)
	items, err := c.repo.ListNews(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// Products lists products seen within filter.
func (c *Catalog) Products(ctx context.Context, filter Filter) ([]domain.Product, error) {
	from, to := c.window(filter)
	products, err := c.repo.ListProducts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Insights lists insights synthesized within filter.
func (c *Catalog) Insights(ctx context.Context, filter Filter) ([]domain.Insight, error) {
	from, to := c.window(filter)
	insights, err := c.repo.ListInsights(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return insights, nil
}

// LatestInsight returns the newest insight, or nil when none exists.
func (c *Catalog) LatestInsight(ctx context.Context) (*domain.Insight, error) {
	insight, err := c.repo.LatestInsight(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest insight: %w", err)
	}
	return insight, nil
}
