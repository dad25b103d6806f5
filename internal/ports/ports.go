package ports

import (
	"context"
	"time"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/reader"
)

// Message is a single chat turn sent to a text generator.
type Message struct {
	Role    string
	Content string
}

// ResponseFormatJSON asks the generator for a JSON object reply.
const ResponseFormatJSON = "json_object"

// TextGenerator issues one stateless request to an LLM (e.g., ChatGPT).
type TextGenerator interface {
	Generate(ctx context.Context, messages []Message, responseFormat string) (string, error)
}

// FeedRequest describes one outbound call to an external feed.
type FeedRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

// FeedClient fetches raw feed payloads.
type FeedClient interface {
	Fetch(ctx context.Context, req FeedRequest) ([]byte, error)
}

// Notification is a short summary pushed to the owner.
type Notification struct {
	Title   string
	Content string
}

// Notifier streams run summaries to Telegram or other channels.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// PaperRepository persists arXiv papers.
type PaperRepository interface {
	UpsertPaper(ctx context.Context, paper domain.Paper) error
	RecentPapers(ctx context.Context, limit int) ([]domain.Paper, error)
	ListPapers(ctx context.Context, from, to time.Time) ([]domain.Paper, error)
}

// NewsRepository persists news items.
type NewsRepository interface {
	UpsertNews(ctx context.Context, item domain.NewsItem) error
	RecentNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
	ListNews(ctx context.Context, from, to time.Time) ([]domain.NewsItem, error)
}

// ProductRepository persists product listings.
type ProductRepository interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
	RecentProducts(ctx context.Context, limit int) ([]domain.Product, error)
	ListProducts(ctx context.Context, from, to time.Time) ([]domain.Product, error)
}

// InsightRepository stores daily insights; rows are never updated.
type InsightRepository interface {
	AppendInsight(ctx context.Context, insight domain.Insight) error
	LatestInsight(ctx context.Context) (*domain.Insight, error)
	ListInsights(ctx context.Context, from, to time.Time) ([]domain.Insight, error)
}

// Repository bundles every store the pipeline and the query surface need.
type Repository interface {
	PaperRepository
	NewsRepository
	ProductRepository
	InsightRepository
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// EntrySource fetches a feed and decodes it with the named reader format.
type EntrySource interface {
	Entries(ctx context.Context, req FeedRequest, format string) ([]reader.Entry, error)
}
