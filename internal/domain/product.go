package domain

import "time"

// Product is a launch listing with a demand verdict.
type Product struct {
	Meta
	ProductID         string    `json:"productId"`
	Name              string    `json:"name"`
	Tagline           string    `json:"tagline"`
	Tag               string    `json:"tag"`
	Source            string    `json:"source"`
	URL               string    `json:"url"`
	Upvotes           *int      `json:"upvotes,omitempty"`
	Verdict           Verdict   `json:"verdict"`
	PainPointAnalysis string    `json:"painPointAnalysis"`
	BusinessModel     string    `json:"businessModel"`
	PublishedAt       time.Time `json:"publishedAt"`
}

// Validate reports whether the product can be persisted.
func (p Product) Validate() error {
	return validate("product", p.ProductID, p.Name, p.PublishedAt, true)
}

// Label renders the product as "name: tagline".
func (p Product) Label() string {
	if p.Tagline == "" {
		return p.Name
	}
	return p.Name + ": " + p.Tagline
}
