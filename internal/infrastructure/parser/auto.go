package parser

import (
	"encoding/xml"
	"fmt"

	"NewsNavigator/internal/reader"
)

// AutoReader picks Atom or RSS by looking at the root element.
type AutoReader struct {
	atom AtomReader
	rss  RSSReader
}

var _ reader.Reader = AutoReader{}

// Name identifies the reader inside the registry.
func (AutoReader) Name() string {
	return "auto"
}

// Read sniffs the document root and delegates.
func (a AutoReader) Read(payload []byte) ([]reader.Entry, error) {
	d := newDecoder(payload)
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("sniff feed root: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "feed":
			return a.atom.Read(payload)
		case "rss", "RDF":
			return a.rss.Read(payload)
		default:
			return nil, fmt.Errorf("unsupported feed root <%s>", start.Name.Local)
		}
	}
}

// NewRegistry returns a registry holding the Atom, RSS and auto readers.
func NewRegistry() *reader.Registry {
	return reader.NewRegistry(AtomReader{}, RSSReader{}, AutoReader{})
}
