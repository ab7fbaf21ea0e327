package editor

import "github.com/burntcarrot/chatpad/document"

// Selection is a range between an anchor and a focus. The focus is where the
// caret is drawn; it may come before the anchor.
type Selection struct {
	Anchor document.Position
	Focus  document.Position
}

// Caret returns a collapsed selection at pos.
func Caret(pos document.Position) Selection {
	return Selection{Anchor: pos.Clone(), Focus: pos.Clone()}
}

// Collapsed reports whether the selection is a bare caret.
func (s Selection) Collapsed() bool {
	return document.Compare(s.Anchor, s.Focus) == 0
}

// Start returns whichever end comes first in document order.
func (s Selection) Start() document.Position {
	if document.Compare(s.Anchor, s.Focus) <= 0 {
		return s.Anchor
	}
	return s.Focus
}

// End returns whichever end comes last in document order.
func (s Selection) End() document.Position {
	if document.Compare(s.Anchor, s.Focus) <= 0 {
		return s.Focus
	}
	return s.Anchor
}

func (s Selection) clone() Selection {
	return Selection{Anchor: s.Anchor.Clone(), Focus: s.Focus.Clone()}
}

// pin holds a position by paragraph identity so it survives structural
// changes that move the paragraph.
type pin struct {
	p      *document.Paragraph
	offset int
}

func (e *Editor) pinAt(pos document.Position) pin {
	p, err := e.doc.Paragraph(pos.Path)
	if err != nil {
		e.assert(err)
	}
	return pin{p: p, offset: pos.Offset}
}

// resolve returns the current position of a pin, clamped to its paragraph.
// A pin whose paragraph is gone resolves to the end of the document.
func (e *Editor) resolve(at pin) document.Position {
	if at.p == nil {
		return e.doc.End()
	}
	path, ok := e.doc.PathOf(at.p)
	if !ok {
		return e.doc.End()
	}
	offset := at.offset
	if n := at.p.Len(); offset > n {
		offset = n
	}
	if offset < 0 {
		offset = 0
	}
	return document.Position{Path: path, Offset: offset}
}
