package reader

import (
	"errors"
	"testing"
	"time"
)

type stubReader struct{ name string }

func (s stubReader) Name() string                 { return s.name }
func (s stubReader) Read([]byte) ([]Entry, error) { return nil, nil }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(stubReader{name: "atom"})
	reg.Register(stubReader{name: "rss"})

	if _, err := reg.Resolve("rss"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reg.Resolve("json"); !errors.Is(err, ErrUnknownReader) {
		t.Fatalf("expected ErrUnknownReader, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, time.February, 27, 18, 4, 5, 0, time.UTC)
	for _, in := range []string{
		"2026-02-27T18:04:05Z",
		"Fri, 27 Feb 2026 18:04:05 +0000",
	} {
		got, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseDate("   "); err == nil {
		t.Fatalf("expected error for empty date")
	}
	if _, err := ParseDate("??"); err == nil {
		t.Fatalf("expected error for garbage")
	}
}

func TestLinkOfType(t *testing.T) {
	t.Parallel()

	e := Entry{Links: []Link{
		{Href: "https://arxiv.org/pdf/1", Type: "application/pdf"},
		{Href: "https://arxiv.org/abs/1", Type: "text/html", Rel: "alternate"},
	}}
	if got := e.LinkOfType("text/html"); got != "https://arxiv.org/abs/1" {
		t.Fatalf("unexpected link: %s", got)
	}
	if got := e.LinkOfType("image/png"); got != "" {
		t.Fatalf("expected empty link, got %s", got)
	}
}
