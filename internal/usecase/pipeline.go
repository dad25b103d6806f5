package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/logging"
	"NewsNavigator/internal/ports"
)

const (
	insightPaperLimit   = 6
	insightNewsLimit    = 6
	insightProductLimit = 5
)

// ErrAlreadyRunning is reported when a run is requested while another is in progress.
var ErrAlreadyRunning = errors.New("already running")

// Producer fetches one source and persists what it read.
type Producer interface {
	Fetch(ctx context.Context) int
}

// Synthesizer builds the daily insight from item titles.
type Synthesizer interface {
	Synthesize(ctx context.Context, papers, news, products []string) (*domain.Insight, error)
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Papers      Producer
	News        Producer
	Products    Producer
	Synthesizer Synthesizer
	Repository  ports.Repository
	Notifier    ports.Notifier
	Logger      *slog.Logger
	Now         func() time.Time
}

// Outcome reports one daily run.
type Outcome struct {
	RunID      string    `json:"runId"`
	Success    bool      `json:"success"`
	Skipped    bool      `json:"skipped,omitempty"`
	Papers     int       `json:"papers"`
	News       int       `json:"news"`
	Products   int       `json:"products"`
	Insight    bool      `json:"insight"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Summary renders the outcome as a one-line notification body.
func (o Outcome) Summary() string {
	insight := "not generated"
	if o.Insight {
		insight = "generated"
	}
	line := fmt.Sprintf("Daily update: %d papers, %d news, %d products, insight %s",
		o.Papers, o.News, o.Products, insight)
	if o.Error != "" {
		line += "\nError: " + o.Error
	}
	return line
}

// Pipeline runs the daily ingestion: papers, news, products, then the insight.
type Pipeline struct {
	papers      Producer
	news        Producer
	products    Producer
	synthesizer Synthesizer
	repository  ports.Repository
	notifier    ports.Notifier
	logger      *slog.Logger
	now         func() time.Time
	guard       Guard
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		papers:      deps.Papers,
		news:        deps.News,
		products:    deps.Products,
		synthesizer: deps.Synthesizer,
		repository:  deps.Repository,
		notifier:    deps.Notifier,
		logger:      logger.With("component", "pipeline"),
		now:         now,
	}
}

// IsRunning reports whether a run is in progress.
func (p *Pipeline) IsRunning() bool {
	return p.guard.IsRunning()
}

// RunDaily executes one full run unless another one is in progress.
// It never returns an error; failures are reported in the Outcome.
func (p *Pipeline) RunDaily(ctx context.Context) (out Outcome) {
	out = Outcome{RunID: uuid.NewString(), StartedAt: p.now().UTC()}
	log := p.logger.With("run_id", out.RunID)

	release, ok := p.guard.TryAcquire()
	if !ok {
		log.Info("daily run skipped, another run is in progress")
		out.Skipped = true
		out.Error = ErrAlreadyRunning.Error()
		out.FinishedAt = p.now().UTC()
		return out
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			log.Error("daily run panicked", "panic", r)
			out.Success = false
			out.Error = fmt.Sprintf("panic: %v", r)
		}
		out.FinishedAt = p.now().UTC()
		p.notify(ctx, log, out)
	}()

	log.Info("daily run started")

	out.Papers = p.runProducer(ctx, log, "papers", p.papers)
	out.News = p.runProducer(ctx, log, "news", p.news)
	out.Products = p.runProducer(ctx, log, "products", p.products)

	saved, err := p.buildInsight(ctx, log)
	out.Insight = saved
	if err != nil {
		log.Error("daily run failed", "error", err)
		out.Error = err.Error()
		return out
	}

	out.Success = true
	log.Info("daily run finished",
		"papers", out.Papers, "news", out.News, "products", out.Products, "insight", out.Insight)
	return out
}

func (p *Pipeline) runProducer(ctx context.Context, log *slog.Logger, name string, producer Producer) (count int) {
	if producer == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("producer panicked", "producer", name, "panic", r)
			count = 0
		}
	}()

	log.Info("producer started", "producer", name)
	return producer.Fetch(ctx)
}

// buildInsight gathers the latest titles and appends a synthesized insight.
// Synthesis failures are logged; storage failures fail the run.
func (p *Pipeline) buildInsight(ctx context.Context, log *slog.Logger) (bool, error) {
	if p.synthesizer == nil || p.repository == nil {
		return false, nil
	}

	papers, err := p.repository.RecentPapers(ctx, insightPaperLimit)
	if err != nil {
		return false, fmt.Errorf("load recent papers: %w", err)
	}
	news, err := p.repository.RecentNews(ctx, insightNewsLimit)
	if err != nil {
		return false, fmt.Errorf("load recent news: %w", err)
	}
	products, err := p.repository.RecentProducts(ctx, insightProductLimit)
	if err != nil {
		return false, fmt.Errorf("load recent products: %w", err)
	}

	insight, err := p.synthesizer.Synthesize(ctx, paperTitles(papers), newsTitles(news), productLabels(products))
	if err != nil {
		log.Warn("insight synthesis failed", "error", err)
		return false, nil
	}
	if insight == nil {
		return false, nil
	}

	if err := p.repository.AppendInsight(ctx, *insight); err != nil {
		return false, fmt.Errorf("append insight: %w", err)
	}
	return true, nil
}

func (p *Pipeline) notify(ctx context.Context, log *slog.Logger, out Outcome) {
	if p.notifier == nil {
		return
	}
	title := "AI News Navigator daily update finished"
	if !out.Success {
		title = "AI News Navigator daily update failed"
	}
	if err := p.notifier.Notify(ctx, ports.Notification{Title: title, Content: out.Summary()}); err != nil {
		log.Warn("notification failed", "error", err)
	}
}

func paperTitles(papers []domain.Paper) []string {
	out := make([]string, 0, len(papers))
	for _, p := range papers {
		out = append(out, p.DisplayTitle())
	}
	return out
}

func newsTitles(items []domain.NewsItem) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.DisplayTitle())
	}
	return out
}

func productLabels(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Label())
	}
	return out
}
