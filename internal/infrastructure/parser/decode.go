package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"NewsNavigator/internal/reader"
)

// textBlock keeps both decoded character data and the raw markup so that
// escaped HTML, CDATA and inline XHTML all end up as plain text.
type textBlock struct {
	Text  string `xml:",chardata"`
	Inner string `xml:",innerxml"`
}

func (b textBlock) plain() string {
	if strings.TrimSpace(b.Text) != "" {
		return plainText(b.Text)
	}
	return plainText(b.Inner)
}

func newDecoder(payload []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(payload))
	d.Strict = false
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// streamEntries walks the document token by token and converts every element
// named element. Entries lacking a title or both link and id are dropped.
// A syntax error inside an entry skips it and the walk resumes at the next
// entry start tag. A syntax error with no entry left to resume at stops the
// walk; whatever was decoded before it is returned alongside the error.
func streamEntries(payload []byte, element string, convert func(*xml.Decoder, *xml.StartElement) (reader.Entry, error)) ([]reader.Entry, error) {
	payload = toUTF8(payload)

	// prefix is everything before the first entry. A restarted decoder reads
	// it again so namespaces and enclosing elements stay in scope.
	var prefix []byte
	var entries []reader.Entry
	chunk := payload
	var shift int64
	lastTag, resumedAt := -1, -1

	// resume rebuilds chunk at the entry after the one starting at lastTag.
	resume := func() bool {
		if lastTag < 0 {
			return false
		}
		next := nextStartTag(payload, element, lastTag)
		if next <= resumedAt {
			return false
		}
		resumedAt = next
		chunk = append(append(make([]byte, 0, len(prefix)+len(payload)-next), prefix...), payload[next:]...)
		shift = int64(next - len(prefix))
		return true
	}

restart:
	for {
		d := newDecoder(chunk)
		for {
			before := d.InputOffset()
			tok, err := d.Token()
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			if err != nil {
				if resume() {
					continue restart
				}
				return entries, fmt.Errorf("decode %s: %w", element, err)
			}

			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != element {
				continue
			}
			if prefix == nil {
				prefix = payload[:before+shift]
			}
			lastTag = int(d.InputOffset() + shift)

			entry, err := convert(d, &start)
			if err != nil {
				if resume() {
					continue restart
				}
				return entries, fmt.Errorf("decode %s %d: %w", element, len(entries)+1, err)
			}
			if entry.Title == "" || (entry.Link == "" && entry.ID == "") {
				continue
			}
			entries = append(entries, entry)
		}
	}
}

// toUTF8 converts a payload whose XML declaration names another charset and
// drops that declaration, so decoder offsets index the returned bytes.
func toUTF8(payload []byte) []byte {
	trimmed := bytes.TrimLeft(payload, "\ufeff \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return payload
	}
	end := bytes.Index(trimmed, []byte("?>"))
	if end < 0 {
		return payload
	}
	enc := declaredEncoding(string(trimmed[:end]))
	if enc == "" || strings.EqualFold(enc, "utf-8") || strings.EqualFold(enc, "utf8") {
		return payload
	}
	r, err := charset.NewReaderLabel(enc, bytes.NewReader(trimmed[end+2:]))
	if err != nil {
		return payload
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return payload
	}
	return out
}

func declaredEncoding(decl string) string {
	_, rest, ok := strings.Cut(decl, "encoding=")
	if !ok || rest == "" {
		return ""
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return ""
	}
	value, _, ok := strings.Cut(rest[1:], string(quote))
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// nextStartTag returns the offset of the first <element ...> or <element>
// at or after from, or -1.
func nextStartTag(payload []byte, element string, from int) int {
	open := []byte("<" + element)
	for from < len(payload) {
		i := bytes.Index(payload[from:], open)
		if i < 0 {
			return -1
		}
		at := from + i
		after := at + len(open)
		if after < len(payload) {
			switch payload[after] {
			case '>', ' ', '\t', '\n', '\r', '/':
				return at
			}
		}
		from = after
	}
	return -1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func collapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
