package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burntcarrot/chatpad/editor"
)

// keystroke is a key in the form the editor understands.
type keystroke struct {
	key  string
	mods editor.Modifiers
}

var (
	ctrl      = editor.Modifiers{Ctrl: true}
	ctrlShift = editor.Modifiers{Ctrl: true, Shift: true}
	shift     = editor.Modifiers{Shift: true}
)

// keymap translates terminal keys to editor keys.
//
// Terminals cannot report ctrl+shift or ctrl+i, so those shortcuts get
// their own keys here.
var keymap = map[string]keystroke{
	"enter":     {key: editor.KeyEnter},
	"alt+enter": {key: editor.KeyEnter, mods: shift},
	"ctrl+j":    {key: editor.KeyEnter, mods: shift},
	"backspace": {key: editor.KeyBackspace},
	"delete":    {key: editor.KeyDelete},

	"left":        {key: editor.KeyLeft},
	"right":       {key: editor.KeyRight},
	"up":          {key: editor.KeyUp},
	"down":        {key: editor.KeyDown},
	"home":        {key: editor.KeyHome},
	"end":         {key: editor.KeyEnd},
	"shift+left":  {key: editor.KeyLeft, mods: shift},
	"shift+right": {key: editor.KeyRight, mods: shift},
	"shift+up":    {key: editor.KeyUp, mods: shift},
	"shift+down":  {key: editor.KeyDown, mods: shift},

	"ctrl+b": {key: "b", mods: ctrl},
	"ctrl+t": {key: "i", mods: ctrl},
	"ctrl+e": {key: "e", mods: ctrl},
	"ctrl+x": {key: "x", mods: ctrlShift},
	"ctrl+s": {key: "h", mods: ctrlShift},
	"ctrl+q": {key: "q", mods: ctrlShift},
	"ctrl+z": {key: "z", mods: ctrl},
	"ctrl+y": {key: "y", mods: ctrl},

	" ":     {key: " "},
	"space": {key: " "},
}

// handleKey feeds a terminal key to the editor. It reports whether the
// editor consumed it.
func handleKey(ed *editor.Editor, msg tea.KeyMsg) bool {
	if ks, ok := keymap[msg.String()]; ok {
		return ed.HandleKeydown(ks.key, ks.mods)
	}
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) == 0 {
		return false
	}

	// Several runes in one message are a paste.
	if len(msg.Runes) > 1 {
		ed.InsertText(string(msg.Runes))
		return true
	}
	return ed.HandleKeydown(string(msg.Runes), editor.Modifiers{})
}
