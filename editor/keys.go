package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/burntcarrot/chatpad/document"
)

// Key names understood by HandleKeydown. Any other single printable
// character is typed as text.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyLeft      = "ArrowLeft"
	KeyRight     = "ArrowRight"
	KeyUp        = "ArrowUp"
	KeyDown      = "ArrowDown"
	KeyHome      = "Home"
	KeyEnd       = "End"
)

// Modifiers is the set of modifier keys held during a keystroke.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// HandleKeydown applies a keystroke and reports whether the editor consumed
// it. Enter without Shift submits the document.
func (e *Editor) HandleKeydown(key string, mods Modifiers) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}

	if mods.Ctrl || mods.Meta {
		return e.shortcut(key, mods)
	}

	switch key {
	case KeyEnter:
		if mods.Shift {
			e.mutate(e.shiftEnter)
		} else {
			e.submit()
		}
		return true
	case KeyBackspace:
		e.mutate(e.backspace)
		return true
	case KeyDelete:
		e.mutate(e.deleteForward)
		return true
	case KeyLeft, KeyRight, KeyUp, KeyDown, KeyHome, KeyEnd:
		e.move(key, mods.Shift)
		return true
	}

	if mods.Alt || !printable(key) {
		return false
	}
	if key == " " && e.atQuoteMarker() {
		e.mutate(e.quoteMarker)
		return true
	}
	e.mutate(func() (string, span, bool) { return e.typeText(key) })
	return true
}

// shortcut handles Ctrl/Meta combinations.
func (e *Editor) shortcut(key string, mods Modifiers) bool {
	switch strings.ToLower(key) {
	case "b":
		e.applyFormat(FormatBold)
	case "i":
		e.applyFormat(FormatItalic)
	case "e":
		e.applyFormat(FormatCode)
	case "x":
		if !mods.Shift {
			return false
		}
		e.applyFormat(FormatStrikethrough)
	case "h":
		if !mods.Shift {
			return false
		}
		e.applyFormat(FormatSpoiler)
	case "q":
		if !mods.Shift {
			return false
		}
		e.applyFormat(FormatBlockquote)
	case "z":
		if mods.Shift {
			e.redo()
		} else {
			e.undo()
		}
	case "y":
		e.redo()
	default:
		return false
	}
	return true
}

func printable(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsPrint(r)
}

// move moves the focus. Without extend the selection collapses; a plain
// Left or Right on a range collapses to its start or end.
func (e *Editor) move(key string, extend bool) {
	if !extend && !e.sel.Collapsed() {
		switch key {
		case KeyLeft:
			e.sel = Caret(e.sel.Start())
			return
		case KeyRight:
			e.sel = Caret(e.sel.End())
			return
		}
	}

	next := e.step(e.sel.Focus, key)
	if extend {
		e.sel.Focus = next
		return
	}
	e.sel = Caret(next)
}

func (e *Editor) step(pos document.Position, key string) document.Position {
	paths := e.doc.Paragraphs()
	k := indexOf(paths, pos.Path)
	if k < 0 {
		return e.doc.End()
	}
	length := func(path document.Path) int {
		p, _ := e.doc.Paragraph(path)
		return p.Len()
	}
	clamp := func(path document.Path, offset int) document.Position {
		if n := length(path); offset > n {
			offset = n
		}
		return document.Position{Path: path.Clone(), Offset: offset}
	}

	switch key {
	case KeyLeft:
		if pos.Offset > 0 {
			return clamp(pos.Path, pos.Offset-1)
		}
		if k > 0 {
			return clamp(paths[k-1], length(paths[k-1]))
		}
	case KeyRight:
		if pos.Offset < length(pos.Path) {
			return clamp(pos.Path, pos.Offset+1)
		}
		if k < len(paths)-1 {
			return clamp(paths[k+1], 0)
		}
	case KeyUp:
		if k > 0 {
			return clamp(paths[k-1], pos.Offset)
		}
		return clamp(pos.Path, 0)
	case KeyDown:
		if k < len(paths)-1 {
			return clamp(paths[k+1], pos.Offset)
		}
		return clamp(pos.Path, length(pos.Path))
	case KeyHome:
		return clamp(pos.Path, 0)
	case KeyEnd:
		return clamp(pos.Path, length(pos.Path))
	}
	return pos.Clone()
}
