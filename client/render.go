package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/burntcarrot/chatpad/decorator"
	"github.com/burntcarrot/chatpad/document"
	"github.com/burntcarrot/chatpad/editor"
)

var (
	markStyles = map[document.Mark]lipgloss.Style{
		document.Bold:          lipgloss.NewStyle().Bold(true),
		document.Italic:        lipgloss.NewStyle().Italic(true),
		document.Strikethrough: lipgloss.NewStyle().Strikethrough(true),
		document.Code:          lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		document.Spoiler:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("240")),
	}

	delimStyle  = lipgloss.NewStyle().Faint(true)
	quoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	ownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

const quoteBar = "┃ "

// attrs is how one rune of composer text is drawn.
type attrs struct {
	marks    document.MarkSet
	delim    bool
	cursor   bool
	selected bool
}

// span is a stretch of runes sharing the same attrs.
type span struct {
	attrs
	text string
}

// decorations looks up the decorator ranges of a run.
type decorations func(in *document.Inline) []decorator.Range

// lineSpans splits a paragraph into spans. cursor is the caret offset in the
// paragraph, or -1 when the caret is elsewhere. Runes in [selFrom, selTo) are
// selected. A caret at the end of the line gets a trailing blank span.
func lineSpans(p *document.Paragraph, cursor, selFrom, selTo int, decorate decorations) []span {
	var out []span
	push := func(a attrs, r rune) {
		if n := len(out); n > 0 && out[n-1].attrs == a {
			out[n-1].text += string(r)
			return
		}
		out = append(out, span{attrs: a, text: string(r)})
	}

	base := 0
	for _, in := range p.Children {
		ranges := decorate(in)
		for i, r := range []rune(in.Text) {
			a := attrs{marks: in.Marks}
			for _, rg := range ranges {
				from, to := rg.Outer()
				switch {
				case i >= rg.Start && i < rg.End:
					a.marks = a.marks.With(rg.Mark)
				case i >= from && i < to:
					a.delim = true
				}
			}
			off := base + i
			a.cursor = off == cursor
			a.selected = off >= selFrom && off < selTo
			push(a, r)
		}
		base += len([]rune(in.Text))
	}

	if cursor == base {
		out = append(out, span{attrs: attrs{cursor: true}, text: " "})
	}
	return out
}

// paint renders spans with lipgloss.
func paint(spans []span) string {
	var b strings.Builder
	for _, s := range spans {
		style := lipgloss.NewStyle()
		for _, m := range s.marks.List() {
			style = style.Inherit(markStyles[m])
		}
		if s.delim {
			style = style.Inherit(delimStyle)
		}
		if s.selected {
			style = style.Underline(true)
		}
		if s.cursor {
			style = style.Reverse(true)
		}
		b.WriteString(style.Render(s.text))
	}
	return b.String()
}

// composerLines returns one rendered line per paragraph of d, with the
// selection sel drawn in.
func composerLines(d *document.Document, sel editor.Selection, decorate decorations) []string {
	start, end := sel.Start(), sel.End()

	var lines []string
	for _, path := range d.Paragraphs() {
		p, err := d.Paragraph(path)
		if err != nil {
			continue
		}

		cursor := -1
		if sel.Focus.Path.Equal(path) {
			cursor = sel.Focus.Offset
		}
		selFrom, selTo := selectedRange(path, p.Len(), start, end)

		line := paint(lineSpans(p, cursor, selFrom, selTo, decorate))
		if _, ok := d.ParentQuote(path); ok {
			line = quoteStyle.Render(quoteBar) + line
		}
		lines = append(lines, line)
	}
	return lines
}

// selectedRange returns the part of the paragraph at path, of length n, that
// falls between start and end.
func selectedRange(path document.Path, n int, start, end document.Position) (int, int) {
	if document.Compare(start, end) == 0 {
		return 0, 0
	}
	from, to := 0, n
	switch c := document.ComparePaths(path, start.Path); {
	case c < 0:
		return 0, 0
	case c == 0:
		from = start.Offset
	}
	switch c := document.ComparePaths(path, end.Path); {
	case c > 0:
		return 0, 0
	case c == 0:
		to = end.Offset
	}
	return from, to
}

// chatLine renders a transcript entry. Lines wider than width are truncated
// before styling so escape sequences are never cut.
func chatLine(name string, own bool, text string, width int) string {
	prefix := nameStyle.Render(name + ": ")
	if own {
		prefix = ownStyle.Render(name + ": ")
	}

	var out []string
	for i, line := range strings.Split(text, "\n") {
		avail := width - runewidth.StringWidth(name) - 2
		if width <= 0 || avail <= 0 {
			avail = 0
		}
		quoted := strings.HasPrefix(line, "> ")
		if quoted {
			line = strings.TrimPrefix(line, "> ")
			avail -= runewidth.StringWidth(quoteBar)
		}
		if avail > 0 {
			line = runewidth.Truncate(line, avail, "…")
		}

		rendered := paint(lineSpans(document.NewTextParagraph(line), -1, 0, 0, decorateText))
		if quoted {
			rendered = quoteStyle.Render(quoteBar) + rendered
		}
		if i == 0 {
			out = append(out, prefix+rendered)
			continue
		}
		out = append(out, strings.Repeat(" ", runewidth.StringWidth(name)+2)+rendered)
	}
	return strings.Join(out, "\n")
}

func decorateText(in *document.Inline) []decorator.Range {
	return decorator.Decorate(in.Text)
}

// caretColumn returns the display column of the caret within its line.
func caretColumn(d *document.Document, sel editor.Selection) int {
	text, err := d.Text(sel.Focus.Path)
	if err != nil {
		return 0
	}
	r := []rune(text)
	if sel.Focus.Offset < len(r) {
		r = r[:sel.Focus.Offset]
	}
	return runewidth.StringWidth(string(r))
}
