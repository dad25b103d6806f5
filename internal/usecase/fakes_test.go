package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/ports"
	"NewsNavigator/internal/reader"
)

// memRepo is an in-memory ports.Repository keyed like the SQL store.
type memRepo struct {
	mu        sync.Mutex
	nextID    int64
	papers    []domain.Paper
	news      []domain.NewsItem
	products  []domain.Product
	insights  []domain.Insight
	recentErr error
	appendErr error
}

var _ ports.Repository = (*memRepo)(nil)

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) UpsertPaper(_ context.Context, p domain.Paper) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.papers {
		if r.papers[i].PaperID == p.PaperID {
			p.Meta = r.papers[i].Meta
			r.papers[i] = p
			return nil
		}
	}
	p.ID = r.id()
	r.papers = append(r.papers, p)
	return nil
}

func (r *memRepo) RecentPapers(_ context.Context, limit int) ([]domain.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	return recent(r.papers, limit, func(p domain.Paper) int64 { return p.ID }), nil
}

func (r *memRepo) ListPapers(_ context.Context, from, to time.Time) ([]domain.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return between(r.papers, from, to, func(p domain.Paper) time.Time { return p.PublishedAt }), nil
}

func (r *memRepo) UpsertNews(_ context.Context, n domain.NewsItem) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.news {
		if r.news[i].NewsID == n.NewsID {
			n.Meta = r.news[i].Meta
			r.news[i] = n
			return nil
		}
	}
	n.ID = r.id()
	r.news = append(r.news, n)
	return nil
}

func (r *memRepo) RecentNews(_ context.Context, limit int) ([]domain.NewsItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	return recent(r.news, limit, func(n domain.NewsItem) int64 { return n.ID }), nil
}

func (r *memRepo) ListNews(_ context.Context, from, to time.Time) ([]domain.NewsItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return between(r.news, from, to, func(n domain.NewsItem) time.Time { return n.PublishedAt }), nil
}

func (r *memRepo) UpsertProduct(_ context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ProductID == p.ProductID {
			p.Meta = r.products[i].Meta
			r.products[i] = p
			return nil
		}
	}
	p.ID = r.id()
	r.products = append(r.products, p)
	return nil
}

func (r *memRepo) RecentProducts(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	return recent(r.products, limit, func(p domain.Product) int64 { return p.ID }), nil
}

func (r *memRepo) ListProducts(_ context.Context, from, to time.Time) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return between(r.products, from, to, func(p domain.Product) time.Time { return p.PublishedAt }), nil
}

func (r *memRepo) AppendInsight(_ context.Context, in domain.Insight) error {
	if err := in.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	in.ID = r.id()
	r.insights = append(r.insights, in)
	return nil
}

func (r *memRepo) LatestInsight(_ context.Context) (*domain.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.insights) == 0 {
		return nil, nil
	}
	latest := r.insights[len(r.insights)-1]
	return &latest, nil
}

func (r *memRepo) ListInsights(_ context.Context, from, to time.Time) ([]domain.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return between(r.insights, from, to, func(in domain.Insight) time.Time { return in.PublishedAt }), nil
}

func (r *memRepo) counts() (papers, news, products, insights int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.papers), len(r.news), len(r.products), len(r.insights)
}

func recent[T any](items []T, limit int, id func(T) int64) []T {
	out := append([]T(nil), items...)
	sort.Slice(out, func(i, j int) bool { return id(out[i]) > id(out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func between[T any](items []T, from, to time.Time, at func(T) time.Time) []T {
	var out []T
	for _, it := range items {
		ts := at(it)
		if !ts.Before(from) && !ts.After(to) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	return out
}

// fakeSource answers EntrySource calls from a URL-keyed table.
type fakeSource struct {
	mu       sync.Mutex
	entries  map[string][]reader.Entry
	failures map[string]error
	requests []ports.FeedRequest
	formats  []string
}

func (s *fakeSource) Entries(_ context.Context, req ports.FeedRequest, format string) ([]reader.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	s.formats = append(s.formats, format)
	for prefix, err := range s.failures {
		if strings.HasPrefix(req.URL, prefix) {
			return nil, err
		}
	}
	for prefix, entries := range s.entries {
		if strings.HasPrefix(req.URL, prefix) {
			return entries, nil
		}
	}
	return nil, errors.New("no such feed")
}

type fakeGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages [][]ports.Message
}

func (g *fakeGenerator) Generate(_ context.Context, messages []ports.Message, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.messages = append(g.messages, messages)
	return g.reply, g.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type recordingSleep struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *recordingSleep) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	return ctx.Err()
}

func fixedNow(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
