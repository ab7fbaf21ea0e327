package editor

import "github.com/burntcarrot/chatpad/document"

// DefaultHistorySize bounds the undo stack.
const DefaultHistorySize = 100

type snapshot struct {
	doc *document.Document
	sel Selection
}

// history keeps undo and redo stacks of whole-document snapshots.
type history struct {
	size int
	undo []snapshot
	redo []snapshot
}

func newHistory(size int) *history {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &history{size: size}
}

// record stores the state before an edit and forgets anything redoable.
func (h *history) record(s snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > h.size {
		h.undo = append([]snapshot(nil), h.undo[len(h.undo)-h.size:]...)
	}
	h.redo = nil
}

func (h *history) stepBack(current snapshot) (snapshot, bool) {
	if len(h.undo) == 0 {
		return snapshot{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

func (h *history) stepForward(current snapshot) (snapshot, bool) {
	if len(h.redo) == 0 {
		return snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}
