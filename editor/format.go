package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/burntcarrot/chatpad/document"
)

// Format is a formatting command the host can apply.
type Format int

const (
	FormatBold Format = iota
	FormatItalic
	FormatStrikethrough
	FormatCode
	FormatSpoiler
	FormatBlockquote
)

// ErrUnknownFormat is returned by ParseFormat for names it does not know.
var ErrUnknownFormat = errors.New("unknown format")

var formatNames = []string{
	FormatBold:          "bold",
	FormatItalic:        "italic",
	FormatStrikethrough: "strikethrough",
	FormatCode:          "code",
	FormatSpoiler:       "spoiler",
	FormatBlockquote:    "blockquote",
}

var formatMarks = map[Format]document.Mark{
	FormatBold:          document.Bold,
	FormatItalic:        document.Italic,
	FormatStrikethrough: document.Strikethrough,
	FormatCode:          document.Code,
	FormatSpoiler:       document.Spoiler,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ApplyFormat toggles f on the selection. It reports whether the document
// changed.
func (e *Editor) ApplyFormat(f Format) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyFormat(f)
}

func (e *Editor) applyFormat(f Format) bool {
	if e.closed {
		return false
	}
	if f == FormatBlockquote {
		return e.mutate(e.toggleQuote)
	}
	m, ok := formatMarks[f]
	if !ok {
		return false
	}
	if e.markToggle {
		return e.mutate(func() (string, span, bool) { return e.toggleMark(m) })
	}
	return e.mutate(func() (string, span, bool) { return e.toggleDelimiters(m) })
}

func (e *Editor) toggleMark(m document.Mark) (string, span, bool) {
	if e.sel.Collapsed() {
		return "", span{}, false
	}
	sel := span{anchor: e.pinAt(e.sel.Anchor), focus: e.pinAt(e.sel.Focus)}
	_, err := e.doc.ToggleMark(e.sel.Start(), e.sel.End(), m)
	e.assert(err)
	return "mark", sel, true
}

// toggleDelimiters wraps or unwraps the selection in m's delimiter pair. A
// selection spanning paragraphs is toggled one paragraph segment at a time.
func (e *Editor) toggleDelimiters(m document.Mark) (string, span, bool) {
	delim := []rune(m.Delimiter())
	start, end := e.sel.Start(), e.sel.End()

	if e.sel.Collapsed() {
		_, err := e.doc.InsertText(start, string(delim)+string(delim))
		e.assert(err)
		caret := document.Position{Path: start.Path, Offset: start.Offset + len(delim)}
		return "format-pair", e.caretSpan(caret), true
	}

	var first, last pin
	for _, path := range e.doc.Paragraphs() {
		if document.ComparePaths(path, start.Path) < 0 || document.ComparePaths(path, end.Path) > 0 {
			continue
		}
		p, _ := e.doc.Paragraph(path)
		s, t := 0, p.Len()
		if path.Equal(start.Path) {
			s = start.Offset
		}
		if path.Equal(end.Path) {
			t = end.Offset
		}
		if s < t {
			s, t = e.toggleSegment(path, p, s, t, delim, m)
		}
		if path.Equal(start.Path) {
			first = pin{p: p, offset: s}
		}
		if path.Equal(end.Path) {
			last = pin{p: p, offset: t}
		}
	}
	return "format", span{anchor: first, focus: last}, true
}

// toggleSegment toggles the pair around [s, t) of p and returns the new bounds
// of the segment. Selected text that already carries the pair is unwrapped,
// as is a selection the pair immediately surrounds; anything else is wrapped.
func (e *Editor) toggleSegment(path document.Path, p *document.Paragraph, s, t int, delim []rune, m document.Mark) (int, int) {
	text := []rune(p.Text())
	w := len(delim)
	pos := func(offset int) document.Position {
		return document.Position{Path: path, Offset: offset}
	}
	remove := func(from, to int) {
		_, err := e.doc.DeleteRange(pos(from), pos(to))
		e.assert(err)
	}
	insert := func(offset int) {
		_, err := e.doc.InsertText(pos(offset), string(delim))
		e.assert(err)
	}

	switch {
	case wrapped(text[s:t], delim, m):
		remove(t-w, t)
		remove(s, s+w)
		return s, t - 2*w

	case surrounded(text, s, t, delim, m):
		remove(t, t+w)
		remove(s-w, s)
		return s - w, t - w
	}

	insert(t)
	insert(s)
	return s, t + 2*w
}

// wrapped reports whether seg starts and ends with the pair. Bold and italic
// share the asterisk, so bold needs a run of at least two and italic an odd
// run: "**x**" is bold, not italic.
func wrapped(seg, delim []rune, m document.Mark) bool {
	w := len(delim)
	if len(seg) < 2*w {
		return false
	}
	if m == document.Bold || m == document.Italic {
		return asteriskRun(m, leadingRun(seg, '*')) && asteriskRun(m, trailingRun(seg, '*'))
	}
	return string(seg[:w]) == string(delim) && string(seg[len(seg)-w:]) == string(delim)
}

// surrounded reports whether the pair sits right outside [s, t) of text.
func surrounded(text []rune, s, t int, delim []rune, m document.Mark) bool {
	w := len(delim)
	if s < w || t+w > len(text) {
		return false
	}
	if m == document.Bold || m == document.Italic {
		return asteriskRun(m, trailingRun(text[:s], '*')) && asteriskRun(m, leadingRun(text[t:], '*'))
	}
	return string(text[s-w:s]) == string(delim) && string(text[t:t+w]) == string(delim)
}

func asteriskRun(m document.Mark, n int) bool {
	if m == document.Bold {
		return n >= 2
	}
	return n%2 == 1
}

func leadingRun(r []rune, c rune) int {
	n := 0
	for n < len(r) && r[n] == c {
		n++
	}
	return n
}

func trailingRun(r []rune, c rune) int {
	n := 0
	for n < len(r) && r[len(r)-1-n] == c {
		n++
	}
	return n
}
