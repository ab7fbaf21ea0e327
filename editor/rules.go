package editor

import (
	"strings"

	"github.com/burntcarrot/chatpad/document"
	"github.com/burntcarrot/chatpad/transcoder"
)

// caretSpan pins a collapsed selection at pos.
func (e *Editor) caretSpan(pos document.Position) span {
	return at(e.pinAt(pos))
}

// deleteSelection removes a non-collapsed selection and returns the caret.
func (e *Editor) deleteSelection() document.Position {
	start := e.sel.Start()
	if e.sel.Collapsed() {
		return start
	}
	pos, err := e.doc.DeleteRange(start, e.sel.End())
	e.assert(err)
	return pos
}

func (e *Editor) typeText(text string) (string, span, bool) {
	pos := e.deleteSelection()
	pos, err := e.doc.InsertText(pos, text)
	e.assert(err)
	return "type", e.caretSpan(pos), true
}

// paste inserts text that may span several lines. Each line after the first
// starts a new paragraph.
func (e *Editor) paste(text string) span {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	pos := e.deleteSelection()
	var err error
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			pos, err = e.doc.SplitBlock(pos)
			e.assert(err)
		}
		pos, err = e.doc.InsertText(pos, line)
		e.assert(err)
	}
	return e.caretSpan(pos)
}

// atQuoteMarker reports whether a space typed now would start a quote: the
// caret is collapsed in a top-level paragraph right after a leading ">".
func (e *Editor) atQuoteMarker() bool {
	if !e.sel.Collapsed() {
		return false
	}
	pos := e.sel.Focus
	if len(pos.Path) != 1 || pos.Offset != 1 {
		return false
	}
	text, err := e.doc.Text(pos.Path)
	return err == nil && strings.HasPrefix(text, ">")
}

// quoteMarker turns "> " typed at the start of a paragraph into a quote,
// joining a quote right before it.
func (e *Editor) quoteMarker() (string, span, bool) {
	pos := e.sel.Focus
	path := pos.Path.Clone()

	_, err := e.doc.DeleteRange(document.Position{Path: path}, pos)
	e.assert(err)

	p, err := e.doc.Paragraph(path)
	e.assert(err)
	runs := append([]*document.Inline(nil), p.Children...)

	_, err = e.doc.SetBlockType(path, document.QuoteType)
	e.assert(err)

	if i := path.Last(); i > 0 {
		if _, ok := e.doc.Children[i-1].(*document.Quote); ok {
			_, err = e.doc.MergeBlocks(document.Path{i - 1}, path)
			e.assert(err)
		}
	}

	// The runs now sit directly in the quote; normalizing wraps them in a
	// fresh paragraph, which is where the caret goes.
	document.Normalize(e.doc)
	return "quote-marker", at(pin{p: e.paragraphOfRuns(runs)}), true
}

func (e *Editor) paragraphOfRuns(runs []*document.Inline) *document.Paragraph {
	for _, in := range runs {
		if _, path, err := e.doc.InlineByID(in.ID); err == nil {
			p, _ := e.doc.Paragraph(path)
			return p
		}
	}
	return nil
}

func (e *Editor) backspace() (string, span, bool) {
	if !e.sel.Collapsed() {
		return "delete-selection", e.caretSpan(e.deleteSelection()), true
	}

	pos := e.sel.Focus
	if pos.Offset > 0 {
		prev := document.Position{Path: pos.Path, Offset: pos.Offset - 1}
		pos, err := e.doc.DeleteRange(prev, pos)
		e.assert(err)
		return "backspace", e.caretSpan(pos), true
	}

	p, err := e.doc.Paragraph(pos.Path)
	e.assert(err)

	if _, ok := e.doc.ParentQuote(pos.Path); ok {
		rule := "quote-lift"
		if pos.Path.Last() == 0 {
			rule = "quote-unwrap"
		}
		_, err := e.doc.LiftBlock(pos.Path)
		e.assert(err)
		return rule, at(pin{p: p}), true
	}

	idx := pos.Path.Last()
	if idx == 0 {
		return "", span{}, false
	}
	target := document.Path{idx - 1}
	if q, ok := e.doc.Children[idx-1].(*document.Quote); ok {
		target = target.Child(len(q.Children) - 1)
	}
	junction, err := e.doc.MergeBlocks(target, pos.Path)
	e.assert(err)
	return "merge-backward", e.caretSpan(junction), true
}

func (e *Editor) deleteForward() (string, span, bool) {
	if !e.sel.Collapsed() {
		return "delete-selection", e.caretSpan(e.deleteSelection()), true
	}

	pos := e.sel.Focus
	p, err := e.doc.Paragraph(pos.Path)
	e.assert(err)
	if pos.Offset < p.Len() {
		next := document.Position{Path: pos.Path, Offset: pos.Offset + 1}
		pos, err := e.doc.DeleteRange(pos, next)
		e.assert(err)
		return "delete", e.caretSpan(pos), true
	}

	paths := e.doc.Paragraphs()
	k := indexOf(paths, pos.Path)
	if k < 0 || k == len(paths)-1 {
		return "", span{}, false
	}
	junction, err := e.doc.MergeBlocks(pos.Path, paths[k+1])
	e.assert(err)
	return "merge-forward", e.caretSpan(junction), true
}

// shiftEnter breaks the line. Inside a quote, a second blank line in a row
// leaves the quote with both blank lines.
func (e *Editor) shiftEnter() (string, span, bool) {
	pos := e.deleteSelection()
	p, err := e.doc.Paragraph(pos.Path)
	e.assert(err)

	if _, ok := e.doc.ParentQuote(pos.Path); ok {
		if j := pos.Path.Last(); blank(p) && j > 0 {
			prev, err := e.doc.Paragraph(pos.Path.Parent().Child(j - 1))
			e.assert(err)
			if blank(prev) {
				_, err = e.doc.LiftBlock(pos.Path)
				e.assert(err)
				prevPath, _ := e.doc.PathOf(prev)
				_, err = e.doc.LiftBlock(prevPath)
				e.assert(err)
				return "quote-exit", at(pin{p: p}), true
			}
		}
		next, err := e.doc.SplitBlock(pos)
		e.assert(err)
		return "quote-split", e.caretSpan(next), true
	}

	next, err := e.doc.SplitBlock(pos)
	e.assert(err)
	return "split", e.caretSpan(next), true
}

// submit hands the document to the host and starts over.
func (e *Editor) submit() {
	e.deb.Flush()
	text := transcoder.Serialize(e.doc)
	e.log.WithField("length", len(text)).Debug("submitting")
	if e.onSubmit != nil {
		e.onSubmit(text)
	}
	e.reset()
}

// toggleQuote lifts the selected lines out of their quote, or quotes the
// selected top-level lines when the selection starts outside one.
func (e *Editor) toggleQuote() (string, span, bool) {
	start, end := e.sel.Start(), e.sel.End()
	sel := span{anchor: e.pinAt(e.sel.Anchor), focus: e.pinAt(e.sel.Focus)}

	var selected []*document.Paragraph
	for _, path := range e.doc.Paragraphs() {
		if document.ComparePaths(path, start.Path) < 0 || document.ComparePaths(path, end.Path) > 0 {
			continue
		}
		p, _ := e.doc.Paragraph(path)
		selected = append(selected, p)
	}

	_, quoted := e.doc.ParentQuote(start.Path)
	for _, p := range selected {
		path, ok := e.doc.PathOf(p)
		if !ok {
			continue
		}
		var err error
		switch {
		case quoted && len(path) == 2:
			_, err = e.doc.LiftBlock(path)
		case !quoted && len(path) == 1:
			_, err = e.doc.WrapBlock(path, document.QuoteType)
		}
		e.assert(err)
	}

	if quoted {
		return "unquote", sel, true
	}
	return "quote", sel, true
}

func indexOf(paths []document.Path, path document.Path) int {
	for i, p := range paths {
		if p.Equal(path) {
			return i
		}
	}
	return -1
}

// blank reports whether p holds nothing but whitespace.
func blank(p *document.Paragraph) bool {
	return strings.TrimSpace(p.Text()) == ""
}
