package domain

import "time"

// Paper is an arXiv submission with its enrichment.
type Paper struct {
	Meta
	PaperID            string    `json:"paperId"`
	Title              string    `json:"title"`
	TitleLocalized     string    `json:"titleLocalized"`
	Tag                string    `json:"tag"`
	Source             string    `json:"source"`
	URL                string    `json:"url"`
	Submitted          string    `json:"submitted"`
	ImpactScore        int       `json:"impactScore"`
	CorePrinciple      string    `json:"corePrinciple"`
	BottomLogic        string    `json:"bottomLogic"`
	ProductImagination string    `json:"productImagination"`
	PublishedAt        time.Time `json:"publishedAt"`
}

// Validate reports whether the paper can be persisted.
func (p Paper) Validate() error {
	return validate("paper", p.PaperID, p.Title, p.PublishedAt, true)
}

// DisplayTitle prefers the localized title.
func (p Paper) DisplayTitle() string {
	if p.TitleLocalized != "" {
		return p.TitleLocalized
	}
	return p.Title
}
