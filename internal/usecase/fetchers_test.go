package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/enrichment"
	"NewsNavigator/internal/infrastructure/httpfeed"
	"NewsNavigator/internal/infrastructure/parser"
	"NewsNavigator/internal/ports"
	"NewsNavigator/internal/reader"
)

var fetchClock = time.Date(2026, time.March, 2, 0, 0, 5, 0, time.UTC)

func failingEnricher() *enrichment.Client {
	return enrichment.NewClient(&fakeGenerator{err: errors.New("model unavailable")}, "", nil)
}

func arxivEntry(id, title string) reader.Entry {
	return reader.Entry{
		ID:         "http://arxiv.org/abs/" + id,
		Title:      title,
		Link:       "http://arxiv.org/abs/" + id,
		Published:  "2026-02-26T18:00:00Z",
		Body:       "We study " + title + " in depth and report strong results.",
		Categories: []string{"cs.AI"},
		Links: []reader.Link{
			{Href: "http://arxiv.org/abs/" + id, Type: "text/html", Rel: "alternate"},
			{Href: "http://arxiv.org/pdf/" + id, Type: "application/pdf", Rel: "related"},
		},
	}
}

func newsEntry(title string) reader.Entry {
	return reader.Entry{
		Title:     title,
		Link:      "https://news.test/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Published: "Mon, 02 Mar 2026 10:00:00 +0000",
		Body:      "Read more.",
	}
}

func TestArxivFetcherPersistsFallbackPapers(t *testing.T) {
	t.Parallel()

	source := &fakeSource{entries: map[string][]reader.Entry{
		"https://arxiv.test/api/query": {
			arxivEntry("2502.01234v1", "Sparse attention"),
			arxivEntry("2502.05678v2", "Agent planning"),
			arxivEntry("2502.09999v1", "Beyond the limit"),
		},
	}}
	sleep := &recordingSleep{}
	repo := &memRepo{}
	cfg := config.ArxivConfig{
		Endpoint:   "https://arxiv.test/api/query",
		Queries:    []string{"cat:cs.AI", "cat:cs.LG"},
		MaxResults: 5,
		PerQuery:   2,
		Delay:      3 * time.Second,
	}

	fetcher := NewArxivFetcher(cfg, repo, FetcherDeps{
		Source:   source,
		Enricher: failingEnricher(),
		Now:      fixedNow(fetchClock),
		Sleep:    sleep.Sleep,
	})

	if saved := fetcher.Fetch(context.Background()); saved != 4 {
		t.Fatalf("expected 4 saves (2 per query), got %d", saved)
	}
	// Both queries return the same ids, so the upsert keeps two rows.
	if papers, _, _, _ := repo.counts(); papers != 2 {
		t.Fatalf("expected 2 stored papers, got %d", papers)
	}
	if len(sleep.calls) != 1 || sleep.calls[0] != 3*time.Second {
		t.Fatalf("expected one 3s delay between queries, got %v", sleep.calls)
	}
	if source.formats[0] != "atom" {
		t.Fatalf("arXiv must be read as atom, got %q", source.formats[0])
	}
	if !strings.Contains(source.requests[0].URL, "sortBy=submittedDate") ||
		!strings.Contains(source.requests[0].URL, "search_query=cat%3Acs.AI") {
		t.Fatalf("unexpected query url %s", source.requests[0].URL)
	}

	p := repo.papers[0]
	if p.PaperID != "arxiv-2502-01234v1" {
		t.Fatalf("unexpected key %q", p.PaperID)
	}
	if p.ImpactScore != 5 || p.Tag != "AI" || p.Source != "arXiv" {
		t.Fatalf("unexpected fallback fields: %+v", p)
	}
	if p.Submitted != "2026-02-26" || p.URL != "http://arxiv.org/abs/2502.01234v1" {
		t.Fatalf("unexpected submitted/url: %q %q", p.Submitted, p.URL)
	}
	if p.CorePrinciple == "" {
		t.Fatalf("fallback core principle should come from the abstract")
	}
}

func TestArxivFetcherSkipsEntriesWithoutAbsID(t *testing.T) {
	t.Parallel()

	bad := arxivEntry("x", "No id")
	bad.ID = "urn:uuid:1234"
	undated := arxivEntry("2502.00001v1", "Undated")
	undated.Published = "??"

	source := &fakeSource{entries: map[string][]reader.Entry{
		"https://arxiv.test": {bad, undated, arxivEntry("2502.00002v1", "Good one")},
	}}
	repo := &memRepo{}
	fetcher := NewArxivFetcher(config.ArxivConfig{
		Endpoint: "https://arxiv.test",
		Queries:  []string{"cat:cs.AI"},
		PerQuery: 3,
	}, repo, FetcherDeps{Source: source, Sleep: (&recordingSleep{}).Sleep})

	if saved := fetcher.Fetch(context.Background()); saved != 1 {
		t.Fatalf("expected 1 saved paper, got %d", saved)
	}
	if repo.papers[0].PaperID != "arxiv-2502-00002v1" {
		t.Fatalf("unexpected paper %q", repo.papers[0].PaperID)
	}
}

func TestNewsFetcherKeepsOnlyRelevantItems(t *testing.T) {
	t.Parallel()

	titles := []string{
		"Stock markets close higher",
		"OpenAI ships ChatGPT update",
		"New bakery opens downtown",
		"Football season begins",
		"人工智能 startup raises funds",
		"City council votes on budget",
		"Weather: sunny week ahead",
		"Claude gets longer context",
		"Local museum expands hours",
		"Electric scooters get new rules",
	}
	entries := make([]reader.Entry, 0, len(titles))
	for _, title := range titles {
		entries = append(entries, newsEntry(title))
	}

	source := &fakeSource{entries: map[string][]reader.Entry{"https://feed.test/": entries}}
	repo := &memRepo{}
	fetcher := NewNewsFetcher(config.NewsConfig{
		Feeds:    []config.FeedConfig{{Name: "Test Wire", URL: "https://feed.test/", Reader: "rss"}},
		PerFeed:  10,
		Keywords: config.DefaultKeywords(),
	}, repo, FetcherDeps{Source: source, Now: fixedNow(fetchClock)})

	if saved := fetcher.Fetch(context.Background()); saved != 3 {
		t.Fatalf("expected 3 relevant items, got %d", saved)
	}

	want := map[string]bool{}
	for _, title := range []string{"OpenAI ships ChatGPT update", "人工智能 startup raises funds", "Claude gets longer context"} {
		want[title] = true
	}
	seen := map[string]bool{}
	for _, n := range repo.news {
		if !want[n.Headline] {
			t.Fatalf("irrelevant item stored: %q", n.Headline)
		}
		if seen[n.NewsID] {
			t.Fatalf("duplicate news key %q", n.NewsID)
		}
		seen[n.NewsID] = true
		if n.Source != "Test Wire" || n.Urgency != domain.UrgencyMedium || n.Time != "2026-03-02" {
			t.Fatalf("unexpected news fields: %+v", n)
		}
	}
	if got := source.requests[0].Headers["Accept"]; !strings.Contains(got, "application/rss+xml") {
		t.Fatalf("missing Accept header, got %q", got)
	}
}

func TestNewsFetcherCapsPerFeed(t *testing.T) {
	t.Parallel()

	entries := []reader.Entry{
		newsEntry("AI one"), newsEntry("AI two"), newsEntry("AI three"), newsEntry("AI four"),
	}
	undated := newsEntry("AI undated")
	undated.Published = ""

	source := &fakeSource{entries: map[string][]reader.Entry{
		"https://a.test/": entries,
		"https://b.test/": {undated},
	}}
	repo := &memRepo{}
	fetcher := NewNewsFetcher(config.NewsConfig{
		Feeds: []config.FeedConfig{
			{Name: "A", URL: "https://a.test/", Reader: "rss"},
			{Name: "B", URL: "https://b.test/", Reader: "auto"},
		},
		PerFeed: 3,
	}, repo, FetcherDeps{Source: source, Now: fixedNow(fetchClock), Sleep: (&recordingSleep{}).Sleep})

	if saved := fetcher.Fetch(context.Background()); saved != 4 {
		t.Fatalf("expected 3 + 1 items, got %d", saved)
	}
	last := repo.news[len(repo.news)-1]
	if !last.PublishedAt.Equal(fetchClock) {
		t.Fatalf("undated item should use the fetch time, got %v", last.PublishedAt)
	}
}

func TestProductFetcherSplitsTitlesAndCapsTotal(t *testing.T) {
	t.Parallel()

	entries := []reader.Entry{
		{Title: "Acme - Ship agents faster", Link: "https://ph.test/acme", Body: "Acme builds agents."},
		{Title: "Solo", Link: "https://ph.test/solo", Body: "A tool without a tagline"},
		{Title: "Third - Extra", Link: "https://ph.test/third"},
	}
	source := &fakeSource{entries: map[string][]reader.Entry{"https://ph.test/feed": entries}}
	repo := &memRepo{}
	fetcher := NewProductFetcher(config.ProductsConfig{
		Feeds:    []config.FeedConfig{{Name: "Product Hunt", URL: "https://ph.test/feed", Reader: "auto"}},
		MaxItems: 2,
	}, repo, FetcherDeps{Source: source, Enricher: failingEnricher(), Now: fixedNow(fetchClock)})

	if saved := fetcher.Fetch(context.Background()); saved != 2 {
		t.Fatalf("expected 2 products, got %d", saved)
	}
	first, second := repo.products[0], repo.products[1]
	if first.Name != "Acme" || first.Tagline != "Ship agents faster" {
		t.Fatalf("unexpected split: %+v", first)
	}
	if second.Name != "Solo" || second.Tagline == "" {
		t.Fatalf("tagline should fall back to the body: %+v", second)
	}
	if first.Verdict != domain.VerdictWatch || first.Tag != "AI Tool" || first.PainPointAnalysis != "Ship agents faster" {
		t.Fatalf("unexpected fallback fields: %+v", first)
	}
	if first.ProductID == second.ProductID || !strings.HasPrefix(first.ProductID, "ph-") {
		t.Fatalf("unexpected keys %q %q", first.ProductID, second.ProductID)
	}
}

func TestSplitLaunchTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, name, tagline string
	}{
		{"Acme - Agents - for teams", "Acme", "Agents - for teams"},
		{"Solo", "Solo", ""},
		{"  Spaced  -  out ", "Spaced", "out"},
	}
	for _, tc := range cases {
		name, tagline := SplitLaunchTitle(tc.in)
		if name != tc.name || tagline != tc.tagline {
			t.Fatalf("SplitLaunchTitle(%q) = %q, %q", tc.in, name, tagline)
		}
	}
}

const wireRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Wire</title>
<item><title>Anthropic releases a new Claude model</title><link>https://wire.test/claude</link>
<pubDate>Mon, 02 Mar 2026 09:00:00 +0000</pubDate><description>&lt;p&gt;Details inside.&lt;/p&gt;</description></item>
</channel></rss>`

func TestFetchersIsolateFailingSources(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(wireRSS))
		default:
			http.Error(w, "upstream down", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	source := parser.NewFeedSource(httpfeed.NewClient(srv.Client(), ""), nil, nil)
	repo := &memRepo{}
	deps := FetcherDeps{Source: source, Now: fixedNow(fetchClock), Sleep: (&recordingSleep{}).Sleep}

	arxiv := NewArxivFetcher(config.ArxivConfig{
		Endpoint: srv.URL + "/arxiv",
		Queries:  []string{"cat:cs.AI"},
		PerQuery: 3,
		Timeout:  time.Second,
	}, repo, deps)
	if saved := arxiv.Fetch(context.Background()); saved != 0 {
		t.Fatalf("failing arXiv should save nothing, got %d", saved)
	}

	news := NewNewsFetcher(config.NewsConfig{
		Feeds: []config.FeedConfig{
			{Name: "Down", URL: srv.URL + "/down", Reader: "rss"},
			{Name: "Up", URL: srv.URL + "/ok", Reader: "auto"},
		},
		PerFeed: 3,
		Timeout: time.Second,
	}, repo, deps)
	if saved := news.Fetch(context.Background()); saved != 1 {
		t.Fatalf("healthy feed should still be processed, got %d", saved)
	}
	if repo.news[0].Source != "Up" || repo.news[0].URL != "https://wire.test/claude" {
		t.Fatalf("unexpected item %+v", repo.news[0])
	}
}

func TestFetchStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	source := &fakeSource{entries: map[string][]reader.Entry{"https://a.test/": {newsEntry("AI one")}}}
	repo := &memRepo{}
	fetcher := NewNewsFetcher(config.NewsConfig{
		Feeds: []config.FeedConfig{
			{Name: "A", URL: "https://a.test/", Reader: "rss"},
			{Name: "A again", URL: "https://a.test/", Reader: "rss"},
		},
		PerFeed: 3,
		Delay:   time.Hour,
	}, repo, FetcherDeps{Source: source, Now: fixedNow(fetchClock)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	fetcher.Fetch(ctx)
	if time.Since(start) > 5*time.Second {
		t.Fatalf("cancelled fetch should not wait for the delay")
	}
	if len(source.requests) != 1 {
		t.Fatalf("second feed should not be requested, got %d requests", len(source.requests))
	}
}

type panickingSource struct{}

func (panickingSource) Entries(context.Context, ports.FeedRequest, string) ([]reader.Entry, error) {
	panic("decoder exploded")
}

func TestFetchRecoversFromPanic(t *testing.T) {
	t.Parallel()

	fetcher := NewProductFetcher(config.ProductsConfig{
		Feeds:    []config.FeedConfig{{Name: "PH", URL: "https://ph.test", Reader: "auto"}},
		MaxItems: 5,
	}, &memRepo{}, FetcherDeps{Source: panickingSource{}})

	if saved := fetcher.Fetch(context.Background()); saved != 0 {
		t.Fatalf("expected 0 after panic, got %d", saved)
	}
}
