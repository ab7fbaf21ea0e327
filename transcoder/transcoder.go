// Package transcoder converts between a document tree and the flat text the
// host stores and transmits.
//
// Inline marks render as delimiter pairs, quotes as "> " prefixed lines.
// Deserialize does not parse delimiters back into marks: restored text keeps
// its delimiters as plain characters.
package transcoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/burntcarrot/chatpad/document"
)

// QuotePrefix starts every quoted line.
const QuotePrefix = "> "

// ErrMalformedInput indicates that the host handed over something that is not
// a string. The caller still receives the default document.
var ErrMalformedInput = errors.New("malformed input")

// Serialize renders the document as text.
//
// Lines that render blank are left out, so a quote holding only empty lines
// renders nothing. So is a paragraph reading "> " plus blanks, which would
// come back as an empty quote line. The result is trimmed of trailing
// whitespace.
func Serialize(d *document.Document) string {
	var b strings.Builder
	for _, n := range d.Children {
		switch n := n.(type) {
		case *document.Paragraph:
			writeLine(&b, "", renderParagraph(n))
		case *document.Quote:
			b.WriteString(renderQuote(n))
		case *document.Inline:
			writeLine(&b, "", renderInline(n))
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func writeLine(b *strings.Builder, prefix, line string) {
	if isBlank(line) || emptyQuoteLine(line) {
		return
	}
	b.WriteString(prefix)
	b.WriteString(line)
	b.WriteByte('\n')
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// emptyQuoteLine reports whether a top-level line would read back as a blank
// quote line, which Deserialize keeps and Serialize then drops.
func emptyQuoteLine(line string) bool {
	return strings.HasPrefix(line, QuotePrefix) && isBlank(strings.TrimPrefix(line, QuotePrefix))
}

func renderQuote(q *document.Quote) string {
	var lines []string
	for _, child := range q.Children {
		var line string
		switch child := child.(type) {
		case *document.Paragraph:
			line = renderParagraph(child)
		case *document.Inline:
			line = renderInline(child)
		case *document.Quote:
			line = strings.TrimRight(renderQuote(child), "\n")
		}
		if isBlank(line) {
			continue
		}
		lines = append(lines, QuotePrefix+line)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderParagraph(p *document.Paragraph) string {
	var b strings.Builder
	for _, in := range p.Children {
		b.WriteString(renderInline(in))
	}
	return b.String()
}

// renderInline wraps the run text in its delimiters, code outermost and
// spoiler innermost. Empty runs render nothing.
func renderInline(in *document.Inline) string {
	if in.Text == "" {
		return ""
	}
	marks := in.Marks.List()
	var b strings.Builder
	for _, m := range marks {
		b.WriteString(m.Delimiter())
	}
	b.WriteString(in.Text)
	for i := len(marks) - 1; i >= 0; i-- {
		b.WriteString(marks[i].Delimiter())
	}
	return b.String()
}

// Deserialize parses text into a document. A maximal run of "> " lines
// becomes one quote, every other non-blank line a paragraph. Blank lines are
// dropped; empty input gives the default document.
func Deserialize(text string) *document.Document {
	if text == "" {
		return document.New()
	}

	d := &document.Document{}
	var q *document.Quote

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, QuotePrefix) {
			if q == nil {
				q = &document.Quote{}
				d.Children = append(d.Children, q)
			}
			q.Children = append(q.Children, document.NewTextParagraph(strings.TrimPrefix(line, QuotePrefix)))
			continue
		}
		q = nil
		if isBlank(line) {
			continue
		}
		d.Children = append(d.Children, document.NewTextParagraph(line))
	}

	if len(d.Children) == 0 {
		return document.New()
	}
	return d
}

// DeserializeValue parses an untyped host value. A nil value gives the
// default document; anything other than a string gives the default document
// and ErrMalformedInput.
func DeserializeValue(v interface{}) (*document.Document, error) {
	switch v := v.(type) {
	case nil:
		return document.New(), nil
	case string:
		return Deserialize(v), nil
	case *string:
		if v == nil {
			return document.New(), nil
		}
		return Deserialize(*v), nil
	}
	return document.New(), fmt.Errorf("%w: got %T", ErrMalformedInput, v)
}

// DeserializeJSON parses a JSON value received from the host with the same
// policy as DeserializeValue.
func DeserializeJSON(raw json.RawMessage) (*document.Document, error) {
	if len(raw) == 0 {
		return document.New(), nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return document.New(), fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return DeserializeValue(v)
}
