package reader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnknownReader is returned when no reader is registered under a name.
var ErrUnknownReader = errors.New("reader is not registered")

// Link is an alternate location advertised by an entry.
type Link struct {
	Href string
	Type string
	Rel  string
}

// Entry is one item decoded from a feed payload, in document order.
type Entry struct {
	ID         string
	Title      string
	Link       string
	Published  string
	Body       string
	Categories []string
	Links      []Link
}

// LinkOfType returns the first link with the given MIME type.
func (e Entry) LinkOfType(mime string) string {
	for _, l := range e.Links {
		if strings.EqualFold(l.Type, mime) && l.Href != "" {
			return l.Href
		}
	}
	return ""
}

// Reader captures a single payload format (Atom, RSS, etc.).
type Reader interface {
	Name() string
	Read(payload []byte) ([]Entry, error)
}

// Registry keeps a mapping from reader names to their implementations.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry builds a registry pre-filled with the given readers.
func NewRegistry(readers ...Reader) *Registry {
	r := &Registry{readers: map[string]Reader{}}
	for _, rd := range readers {
		r.Register(rd)
	}
	return r
}

// Register adds or replaces a reader implementation.
func (r *Registry) Register(rd Reader) {
	if r.readers == nil {
		r.readers = map[string]Reader{}
	}
	r.readers[rd.Name()] = rd
}

// Resolve returns a reader by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Reader, error) {
	if rd, ok := r.readers[name]; ok {
		return rd, nil
	}
	return nil, fmt.Errorf("reader %q: %w", name, ErrUnknownReader)
}

// ParseDate understands the RFC 1123, RFC 3339 and looser layouts feeds use.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}
