package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/enrichment"
	"NewsNavigator/internal/logging"
)

const (
	defaultInsightSource  = "AI News Navigator"
	defaultInsightUrgency = "Must read today"
)

// ErrIncompleteInsight means the generator answered without a headline or content.
var ErrIncompleteInsight = errors.New("insight reply lacks headline or content")

// InsightSynthesizer turns the day's titles into one cross-source insight.
type InsightSynthesizer struct {
	enricher *enrichment.Client
	logger   *slog.Logger
	now      func() time.Time
}

// NewInsightSynthesizer builds a synthesizer on top of the enrichment client.
func NewInsightSynthesizer(enricher *enrichment.Client, logger *slog.Logger) *InsightSynthesizer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InsightSynthesizer{enricher: enricher, logger: logger.With("component", "insight"), now: time.Now}
}

// Synthesize returns nil without error when there is nothing to synthesize,
// and nil with an error when the generator fails or answers incompletely.
func (s *InsightSynthesizer) Synthesize(ctx context.Context, papers, news, products []string) (*domain.Insight, error) {
	if len(papers) == 0 && len(news) == 0 {
		s.logger.Info("insight skipped, no papers or news")
		return nil, nil
	}

	reply, err := s.enricher.Insight(ctx, enrichment.InsightInput{
		Papers:   papers,
		News:     news,
		Products: products,
	})
	if err != nil {
		return nil, err
	}

	headline := strings.TrimSpace(reply.Headline)
	content := strings.TrimSpace(reply.Content)
	if headline == "" || content == "" {
		return nil, ErrIncompleteInsight
	}

	insight := &domain.Insight{
		Headline:    headline,
		Subheadline: strings.TrimSpace(reply.Subheadline),
		Content:     content,
		Source:      orDefault(reply.Source, defaultInsightSource),
		Urgency:     orDefault(reply.Urgency, defaultInsightUrgency),
		PublishedAt: s.now().UTC(),
	}
	return insight, nil
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
