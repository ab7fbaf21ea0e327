package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/burntcarrot/chatpad/editor"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typed returns one key message per rune of s.
func typed(s string) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for _, r := range s {
		keys = append(keys, runes(string(r)))
	}
	return keys
}

func keys(groups ...[]tea.KeyMsg) []tea.KeyMsg {
	var out []tea.KeyMsg
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func key(t tea.KeyType) []tea.KeyMsg { return []tea.KeyMsg{{Type: t}} }

func TestHandleKey(t *testing.T) {
	tests := []struct {
		description string
		keys        []tea.KeyMsg
		expected    string
	}{
		{description: "typing", keys: typed("hi"), expected: "hi"},

		{description: "ctrl+j breaks the line",
			keys:     keys(typed("hi"), key(tea.KeyCtrlJ), typed("x")),
			expected: "hi\nx"},

		{description: "alt+enter breaks the line",
			keys:     keys(typed("a"), []tea.KeyMsg{{Type: tea.KeyEnter, Alt: true}}, typed("b")),
			expected: "a\nb"},

		{description: "pasted runes",
			keys:     []tea.KeyMsg{runes("a\nb")},
			expected: "a\nb"},

		{description: "quote marker",
			keys:     keys(typed("> q")),
			expected: "> q"},

		{description: "bold pair",
			keys:     keys(key(tea.KeyCtrlB), typed("b")),
			expected: "**b**"},

		{description: "ctrl+t is italic",
			keys:     keys(key(tea.KeyCtrlT), typed("i")),
			expected: "*i*"},

		{description: "backspace",
			keys:     keys(typed("abc"), key(tea.KeyBackspace)),
			expected: "ab"},

		{description: "arrows move the caret",
			keys:     keys(typed("ac"), key(tea.KeyLeft), typed("b")),
			expected: "abc"},

		{description: "undo",
			keys:     keys(typed("a"), key(tea.KeyCtrlZ)),
			expected: ""},

		{description: "enter submits and clears",
			keys:     keys(typed("hi"), key(tea.KeyEnter)),
			expected: ""},
	}

	for _, tc := range tests {
		ed := editor.New("", editor.Config{})
		for _, k := range tc.keys {
			if !handleKey(ed, k) {
				t.Errorf("(%s) key %q was not handled", tc.description, k.String())
			}
		}
		if got := ed.FlushAndSerialize(); got != tc.expected {
			t.Errorf("(%s) got %q, expected %q", tc.description, got, tc.expected)
		}
		ed.Close()
	}
}

func TestHandleKey_Unhandled(t *testing.T) {
	ed := editor.New("", editor.Config{})
	defer ed.Close()

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyTab},
		{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true},
		{Type: tea.KeyPgUp},
	} {
		if handleKey(ed, k) {
			t.Errorf("key %q was handled", k.String())
		}
	}
	if got := ed.FlushAndSerialize(); got != "" {
		t.Errorf("got %q, expected an untouched composer", got)
	}
}
