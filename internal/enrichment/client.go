package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/ports"
)

const (
	defaultLanguage   = "Simplified Chinese"
	defaultPaperTag   = "AI"
	defaultNewsTag    = "AI"
	defaultProductTag = "AI Tool"
	defaultImpact     = 5
	fallbackTextLen   = 100
)

// ErrNoGenerator is reported when no text generator is configured.
var ErrNoGenerator = errors.New("text generator is not configured")

// Client turns raw items into analysed fields with one generator call each.
// It never retries and never returns transport or parse errors for items;
// those are folded into a fallback Result.
type Client struct {
	generator ports.TextGenerator
	language  string
	logger    *slog.Logger
}

// NewClient wires a generator; a nil generator makes every call fall back.
func NewClient(generator ports.TextGenerator, language string, logger *slog.Logger) *Client {
	if strings.TrimSpace(language) == "" {
		language = defaultLanguage
	}
	return &Client{generator: generator, language: language, logger: logger}
}

// PaperInput is the raw arXiv data sent for analysis.
type PaperInput struct {
	Title      string
	Summary    string
	Categories []string
}

// PaperFields are the enrichment-derived paper columns.
type PaperFields struct {
	TitleLocalized     string
	Tag                string
	ImpactScore        int
	CorePrinciple      string
	BottomLogic        string
	ProductImagination string
}

type paperReply struct {
	TitleLocalized     string `json:"titleLocalized"`
	Tag                string `json:"tag"`
	ImpactScore        score  `json:"impactScore"`
	CorePrinciple      string `json:"corePrinciple"`
	BottomLogic        string `json:"bottomLogic"`
	ProductImagination string `json:"productImagination"`
}

// Paper analyses one paper.
func (c *Client) Paper(ctx context.Context, in PaperInput) Result[PaperFields] {
	var reply paperReply
	if err := c.complete(ctx, c.paperPrompt(in), &reply); err != nil {
		c.debug("paper enrichment fell back", "title", in.Title, "error", err)
		return fallback(PaperFields{
			Tag:           defaultPaperTag,
			ImpactScore:   defaultImpact,
			CorePrinciple: Truncate(in.Summary, fallbackTextLen),
		}, err)
	}

	return enriched(PaperFields{
		TitleLocalized:     strings.TrimSpace(reply.TitleLocalized),
		Tag:                orDefault(reply.Tag, defaultPaperTag),
		ImpactScore:        reply.ImpactScore.clamped(),
		CorePrinciple:      strings.TrimSpace(reply.CorePrinciple),
		BottomLogic:        strings.TrimSpace(reply.BottomLogic),
		ProductImagination: strings.TrimSpace(reply.ProductImagination),
	})
}

// NewsInput is the raw feed item sent for analysis.
type NewsInput struct {
	Headline    string
	Description string
	Source      string
}

// NewsFields are the enrichment-derived news columns.
type NewsFields struct {
	HeadlineLocalized string
	Tag               string
	Urgency           domain.Urgency
	Summary           string
	BusinessInsight   string
	CaseStudy         string
}

type newsReply struct {
	HeadlineLocalized string `json:"headlineLocalized"`
	Tag               string `json:"tag"`
	Urgency           string `json:"urgency"`
	Summary           string `json:"summary"`
	BusinessInsight   string `json:"businessInsight"`
	CaseStudy         string `json:"caseStudy"`
}

// News analyses one news item.
func (c *Client) News(ctx context.Context, in NewsInput) Result[NewsFields] {
	var reply newsReply
	if err := c.complete(ctx, c.newsPrompt(in), &reply); err != nil {
		c.debug("news enrichment fell back", "headline", in.Headline, "error", err)
		return fallback(NewsFields{
			HeadlineLocalized: in.Headline,
			Tag:               defaultNewsTag,
			Urgency:           domain.UrgencyMedium,
			Summary:           Truncate(in.Description, fallbackTextLen),
		}, err)
	}

	return enriched(NewsFields{
		HeadlineLocalized: orDefault(reply.HeadlineLocalized, in.Headline),
		Tag:               orDefault(reply.Tag, defaultNewsTag),
		Urgency:           domain.ParseUrgency(reply.Urgency),
		Summary:           strings.TrimSpace(reply.Summary),
		BusinessInsight:   strings.TrimSpace(reply.BusinessInsight),
		CaseStudy:         strings.TrimSpace(reply.CaseStudy),
	})
}

// ProductInput is the raw launch listing sent for analysis.
type ProductInput struct {
	Name        string
	Tagline     string
	Description string
}

// ProductFields are the enrichment-derived product columns.
type ProductFields struct {
	Tag               string
	Verdict           domain.Verdict
	PainPointAnalysis string
	BusinessModel     string
}

type productReply struct {
	Tag               string `json:"tag"`
	Verdict           string `json:"verdict"`
	PainPointAnalysis string `json:"painPointAnalysis"`
	BusinessModel     string `json:"businessModel"`
}

// Product analyses one product listing.
func (c *Client) Product(ctx context.Context, in ProductInput) Result[ProductFields] {
	var reply productReply
	if err := c.complete(ctx, c.productPrompt(in), &reply); err != nil {
		c.debug("product enrichment fell back", "name", in.Name, "error", err)
		return fallback(ProductFields{
			Tag:               defaultProductTag,
			Verdict:           domain.VerdictWatch,
			PainPointAnalysis: Truncate(in.Tagline, fallbackTextLen),
		}, err)
	}

	return enriched(ProductFields{
		Tag:               orDefault(reply.Tag, defaultProductTag),
		Verdict:           domain.ParseVerdict(reply.Verdict),
		PainPointAnalysis: strings.TrimSpace(reply.PainPointAnalysis),
		BusinessModel:     strings.TrimSpace(reply.BusinessModel),
	})
}

// InsightInput lists the titles a synthesis is built from.
type InsightInput struct {
	Papers   []string
	News     []string
	Products []string
}

// InsightFields is the raw synthesis reply; fields the model omitted are empty.
type InsightFields struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	Urgency     string `json:"urgency"`
}

// Insight asks for one cross-source synthesis. Unlike the per-item calls it
// reports failures, because a degraded insight is worse than none.
func (c *Client) Insight(ctx context.Context, in InsightInput) (InsightFields, error) {
	var reply InsightFields
	if err := c.complete(ctx, c.insightPrompt(in), &reply); err != nil {
		return InsightFields{}, err
	}
	return reply, nil
}

func (c *Client) complete(ctx context.Context, prompt string, out any) error {
	if c == nil || c.generator == nil {
		return ErrNoGenerator
	}

	raw, err := c.generator.Generate(ctx, []ports.Message{{Role: "user", Content: prompt}}, ports.ResponseFormatJSON)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), out); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

func (c *Client) debug(msg string, args ...interface{}) {
	if c != nil && c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// score accepts a JSON number or a numeric string.
type score struct {
	value int
	set   bool
}

func (s *score) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	s.value = int(math.Round(f))
	s.set = true
	return nil
}

func (s score) clamped() int {
	switch {
	case !s.set:
		return defaultImpact
	case s.value < 1:
		return 1
	case s.value > 10:
		return 10
	default:
		return s.value
	}
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
		raw = raw[nl+1:]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

// Truncate cuts s to at most n runes after trimming spaces.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
