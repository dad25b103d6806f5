package parser

import (
	"encoding/xml"

	"NewsNavigator/internal/reader"
)

// RSSReader decodes RSS 2.0 and RSS 1.0 (RDF) channels.
type RSSReader struct{}

var _ reader.Reader = RSSReader{}

// Links is a slice because channels often mix <link> with <atom:link/>,
// which share the local name.
type rssItem struct {
	Title       textBlock `xml:"title"`
	Links       []string  `xml:"link"`
	GUID        string    `xml:"guid"`
	Description textBlock `xml:"description"`
	Encoded     textBlock `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	PubDate     string    `xml:"pubDate"`
	DCDate      string    `xml:"http://purl.org/dc/elements/1.1/ date"`
	Categories  []string  `xml:"category"`
}

// Name identifies the reader inside the registry.
func (RSSReader) Name() string {
	return "rss"
}

// Read returns every usable <item> in document order.
func (RSSReader) Read(payload []byte) ([]reader.Entry, error) {
	return streamEntries(payload, "item", decodeRSSItem)
}

func decodeRSSItem(d *xml.Decoder, start *xml.StartElement) (reader.Entry, error) {
	var raw rssItem
	if err := d.DecodeElement(&raw, start); err != nil {
		return reader.Entry{}, err
	}

	entry := reader.Entry{
		ID:        firstNonEmpty(raw.GUID),
		Title:     raw.Title.plain(),
		Link:      firstNonEmpty(raw.Links...),
		Published: firstNonEmpty(raw.PubDate, raw.DCDate),
		Body:      firstNonEmpty(raw.Description.plain(), raw.Encoded.plain()),
	}
	for _, c := range raw.Categories {
		if c = collapseSpace(c); c != "" {
			entry.Categories = append(entry.Categories, c)
		}
	}

	return entry, nil
}
