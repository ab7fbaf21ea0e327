// Package editor drives a document from keystrokes and host commands.
//
// An Editor owns one document tree. Every public method takes the editor's
// lock, and the OnChange and OnSubmit callbacks run while it is held, so a
// callback must not call back into the same Editor.
package editor

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/decorator"
	"github.com/burntcarrot/chatpad/document"
	"github.com/burntcarrot/chatpad/transcoder"
)

// Config holds the editor settings. The zero value is usable.
type Config struct {
	// Logger receives rule applications at debug level. Defaults to a
	// discarding logger.
	Logger logrus.FieldLogger

	// Debounce is the quiet period before OnChange fires.
	Debounce time.Duration

	// Scheduler drives the debounce timer. Defaults to the runtime timers.
	Scheduler Scheduler

	// HistorySize bounds the undo stack.
	HistorySize int

	// MarkToggle makes inline formats toggle marks on the tree instead of
	// inserting delimiter text.
	MarkToggle bool
}

// Editor is a handle on one composer document.
type Editor struct {
	mu sync.Mutex

	id   string
	doc  *document.Document
	sel  Selection
	hist *history
	deb  *Debouncer
	log  logrus.FieldLogger

	markToggle bool
	closed     bool

	onChange func(string)
	onSubmit func(string)
}

// New returns an editor holding the document parsed from initialText.
func New(initialText string, conf Config) *Editor {
	return newEditor(transcoder.Deserialize(initialText), conf)
}

// NewFromValue returns an editor for an untyped host value. A value that is
// not text still yields a usable editor on the default document, along with
// transcoder.ErrMalformedInput.
func NewFromValue(v interface{}, conf Config) (*Editor, error) {
	d, err := transcoder.DeserializeValue(v)
	e := newEditor(d, conf)
	if err != nil {
		e.log.WithError(err).Warn("initial value is not text, starting empty")
	}
	return e, err
}

func newEditor(d *document.Document, conf Config) *Editor {
	logger := conf.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	delay := conf.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}

	id := uuid.NewString()
	e := &Editor{
		id:         id,
		doc:        d,
		hist:       newHistory(conf.HistorySize),
		log:        logger.WithField("editor", id),
		markToggle: conf.MarkToggle,
	}
	document.Normalize(e.doc)
	e.sel = Caret(e.doc.End())
	e.deb = NewDebouncer(&e.mu, conf.Scheduler, delay, e.emit)
	return e
}

// ID returns the handle's unique ID.
func (e *Editor) ID() string {
	return e.id
}

// OnChange registers the callback receiving the serialized document once
// edits have settled.
func (e *Editor) OnChange(fn func(text string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// OnSubmit registers the callback receiving the serialized document when
// Enter is pressed.
func (e *Editor) OnSubmit(fn func(text string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSubmit = fn
}

// FlushAndSerialize emits any pending change right away and returns the
// serialized document.
func (e *Editor) FlushAndSerialize() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deb.Flush()
	return transcoder.Serialize(e.doc)
}

// Reset replaces the document with the default empty one and clears the
// edit history.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.reset()
}

// Load replaces the document with the one parsed from text and clears the
// edit history. It does not schedule a change.
func (e *Editor) Load(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.doc = transcoder.Deserialize(text)
	document.Normalize(e.doc)
	e.sel = Caret(e.doc.End())
	e.hist.clear()
}

// Close cancels any pending change. The editor emits nothing afterwards and
// ignores further input.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.deb.Stop()
}

// Snapshot returns a copy of the document.
func (e *Editor) Snapshot() *document.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.clone()
}

// Select moves the selection. Both ends must address a paragraph.
func (e *Editor) Select(anchor, focus document.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, pos := range []document.Position{anchor, focus} {
		p, err := e.doc.Paragraph(pos.Path)
		if err != nil {
			return err
		}
		if pos.Offset < 0 || pos.Offset > p.Len() {
			return fmt.Errorf("%w: offset %d outside [0, %d]", document.ErrInvalidRange, pos.Offset, p.Len())
		}
	}
	e.sel = Selection{Anchor: anchor.Clone(), Focus: focus.Clone()}
	return nil
}

// InsertText replaces the selection with text. Line breaks split paragraphs.
func (e *Editor) InsertText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || text == "" {
		return
	}
	e.mutate(func() (string, span, bool) {
		return "paste", e.paste(text), true
	})
}

// Decorations returns the styled ranges of the run with the given ID.
func (e *Editor) Decorations(inlineID string) ([]decorator.Range, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, _, err := e.doc.InlineByID(inlineID)
	if err != nil {
		return nil, err
	}
	return decorator.Decorate(in.Text), nil
}

// Undo restores the state before the last edit. It reports whether there was
// one.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo()
}

// Redo reapplies the last undone edit. It reports whether there was one.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redo()
}

func (e *Editor) undo() bool {
	if e.closed {
		return false
	}
	prev, ok := e.hist.stepBack(e.current())
	if !ok {
		return false
	}
	e.restore(prev)
	return true
}

func (e *Editor) redo() bool {
	if e.closed {
		return false
	}
	next, ok := e.hist.stepForward(e.current())
	if !ok {
		return false
	}
	e.restore(next)
	return true
}

func (e *Editor) current() snapshot {
	return snapshot{doc: e.doc.Clone(), sel: e.sel.clone()}
}

func (e *Editor) restore(s snapshot) {
	e.doc = s.doc
	e.sel = s.sel
	e.deb.Trigger()
}

func (e *Editor) reset() {
	e.doc = document.New()
	e.sel = Caret(e.doc.Start())
	e.hist.clear()
	e.deb.Trigger()
}

// emit runs with the lock held, either from Flush or from the timer.
func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(transcoder.Serialize(e.doc))
	}
}

// span is a selection held by pins.
type span struct {
	anchor, focus pin
}

func at(p pin) span {
	return span{anchor: p, focus: p}
}

// mutate runs one edit batch. The edit reports the rule it applied, where the
// selection goes and whether anything changed. A change is recorded in the
// history, normalized and scheduled for emission.
func (e *Editor) mutate(edit func() (string, span, bool)) bool {
	before := e.current()
	rule, sel, ok := edit()
	if !ok {
		return false
	}

	passes := document.Normalize(e.doc)
	e.sel = Selection{Anchor: e.resolve(sel.anchor), Focus: e.resolve(sel.focus)}
	e.hist.record(before)

	e.log.WithFields(logrus.Fields{
		"rule":   rule,
		"passes": passes,
	}).Debug("applied edit")

	e.deb.Trigger()
	return true
}
