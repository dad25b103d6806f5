package parser

import (
	"encoding/xml"

	"NewsNavigator/internal/reader"
)

// AtomReader decodes Atom 1.0 feeds such as the arXiv API and Product Hunt.
type AtomReader struct{}

var _ reader.Reader = AtomReader{}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type atomEntry struct {
	ID         string     `xml:"id"`
	Title      textBlock  `xml:"title"`
	Summary    textBlock  `xml:"summary"`
	Content    textBlock  `xml:"content"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	Links      []atomLink `xml:"link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Name identifies the reader inside the registry.
func (AtomReader) Name() string {
	return "atom"
}

// Read returns every usable <entry> in document order.
func (AtomReader) Read(payload []byte) ([]reader.Entry, error) {
	return streamEntries(payload, "entry", decodeAtomEntry)
}

func decodeAtomEntry(d *xml.Decoder, start *xml.StartElement) (reader.Entry, error) {
	var raw atomEntry
	if err := d.DecodeElement(&raw, start); err != nil {
		return reader.Entry{}, err
	}

	entry := reader.Entry{
		ID:        firstNonEmpty(raw.ID),
		Title:     raw.Title.plain(),
		Published: firstNonEmpty(raw.Published, raw.Updated),
		Body:      firstNonEmpty(raw.Summary.plain(), raw.Content.plain()),
	}

	var fallback string
	for _, l := range raw.Links {
		if l.Href == "" {
			continue
		}
		entry.Links = append(entry.Links, reader.Link{Href: l.Href, Type: l.Type, Rel: l.Rel})
		if fallback == "" {
			fallback = l.Href
		}
		if entry.Link == "" && (l.Rel == "" || l.Rel == "alternate") {
			entry.Link = l.Href
		}
	}
	if entry.Link == "" {
		entry.Link = fallback
	}

	for _, c := range raw.Categories {
		if c.Term != "" {
			entry.Categories = append(entry.Categories, c.Term)
		}
	}

	return entry, nil
}
