package domain

import "time"

// Insight is the cross-source synthesis of one run. Insights are append-only.
type Insight struct {
	Meta
	Headline    string    `json:"headline"`
	Subheadline string    `json:"subheadline"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Urgency     string    `json:"urgency"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Validate reports whether the insight can be persisted.
func (i Insight) Validate() error {
	return validate("insight", "", i.Headline, i.PublishedAt, false)
}
