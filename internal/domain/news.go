package domain

import "time"

// NewsItem is an industry news article taken from an RSS feed.
type NewsItem struct {
	Meta
	NewsID            string    `json:"newsId"`
	Headline          string    `json:"headline"`
	HeadlineLocalized string    `json:"headlineLocalized"`
	Tag               string    `json:"tag"`
	Source            string    `json:"source"`
	URL               string    `json:"url"`
	Time              string    `json:"time"`
	Urgency           Urgency   `json:"urgency"`
	Summary           string    `json:"summary"`
	BusinessInsight   string    `json:"businessInsight"`
	CaseStudy         string    `json:"caseStudy"`
	PublishedAt       time.Time `json:"publishedAt"`
}

// Validate reports whether the news item can be persisted.
func (n NewsItem) Validate() error {
	return validate("news", n.NewsID, n.Headline, n.PublishedAt, true)
}

// DisplayTitle prefers the localized headline.
func (n NewsItem) DisplayTitle() string {
	if n.HeadlineLocalized != "" {
		return n.HeadlineLocalized
	}
	return n.Headline
}
