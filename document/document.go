// Package document implements the composer's in-memory content tree: a root
// holding Paragraph and Quote blocks, Paragraphs holding styled Inline runs,
// and the structural primitives the editing rules mutate it with.
package document

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Mark represents a single inline style.
type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Strikethrough
	Code
	Spoiler
)

// Marks lists every mark in delimiter nesting order, outermost first.
var Marks = []Mark{Code, Strikethrough, Bold, Italic, Spoiler}

func (m Mark) String() string {
	switch m {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Strikethrough:
		return "strikethrough"
	case Code:
		return "code"
	case Spoiler:
		return "spoiler"
	}
	return "unknown"
}

// Delimiter returns the text that brackets a run carrying m, both when it is
// serialized and when it is typed.
func (m Mark) Delimiter() string {
	switch m {
	case Bold:
		return "**"
	case Italic:
		return "*"
	case Strikethrough:
		return "~~"
	case Code:
		return "`"
	case Spoiler:
		return "||"
	}
	return ""
}

// MarkSet is a set of marks.
type MarkSet uint8

// NewMarkSet returns a set holding the given marks.
func NewMarkSet(marks ...Mark) MarkSet {
	var s MarkSet
	for _, m := range marks {
		s = s.With(m)
	}
	return s
}

// Has reports whether m is in the set.
func (s MarkSet) Has(m Mark) bool { return s&MarkSet(m) != 0 }

// With returns the set with m added.
func (s MarkSet) With(m Mark) MarkSet { return s | MarkSet(m) }

// Without returns the set with m removed.
func (s MarkSet) Without(m Mark) MarkSet { return s &^ MarkSet(m) }

// List returns the marks in the set, in delimiter nesting order.
func (s MarkSet) List() []Mark {
	var out []Mark
	for _, m := range Marks {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// BlockType names the two block variants.
type BlockType int

const (
	ParagraphType BlockType = iota
	QuoteType
)

func (t BlockType) String() string {
	switch t {
	case ParagraphType:
		return "paragraph"
	case QuoteType:
		return "quote"
	}
	return "unknown"
}

// Node is implemented by *Paragraph, *Quote and *Inline. The set is closed:
// code dispatching on a Node switches over exactly those three types.
type Node interface {
	node()
}

// Inline is a leaf text run carrying a set of marks.
type Inline struct {
	ID    string
	Text  string
	Marks MarkSet
}

// Paragraph is a line of inline runs.
type Paragraph struct {
	Children []*Inline
}

// Quote is a blockquote. Once normalized its children are all Paragraphs.
type Quote struct {
	Children []Node
}

func (*Inline) node()    {}
func (*Paragraph) node() {}
func (*Quote) node()     {}

// NewInline returns an inline run with a fresh ID.
func NewInline(text string, marks ...Mark) *Inline {
	return &Inline{ID: uuid.NewString(), Text: text, Marks: NewMarkSet(marks...)}
}

// NewParagraph returns a paragraph of the given runs. A paragraph with no runs
// gets a single empty one.
func NewParagraph(children ...*Inline) *Paragraph {
	if len(children) == 0 {
		children = []*Inline{NewInline("")}
	}
	return &Paragraph{Children: children}
}

// NewTextParagraph returns a paragraph with one unmarked run.
func NewTextParagraph(text string) *Paragraph {
	return NewParagraph(NewInline(text))
}

// NewQuote returns a quote holding the given paragraphs.
func NewQuote(children ...*Paragraph) *Quote {
	q := &Quote{}
	for _, p := range children {
		q.Children = append(q.Children, p)
	}
	return q
}

// Text returns the concatenated text of every run.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, in := range p.Children {
		b.WriteString(in.Text)
	}
	return b.String()
}

// Len returns the paragraph length in runes.
func (p *Paragraph) Len() int {
	n := 0
	for _, in := range p.Children {
		n += utf8.RuneCountInString(in.Text)
	}
	return n
}

// Document is the root container. It always holds at least one block.
type Document struct {
	Children []Node
}

// New returns the default document: one empty paragraph.
func New() *Document {
	return &Document{Children: []Node{NewParagraph()}}
}

// NewFrom returns a document holding the given blocks. With no blocks it
// returns the default document.
func NewFrom(blocks ...Node) *Document {
	if len(blocks) == 0 {
		return New()
	}
	return &Document{Children: blocks}
}

// IsEmpty reports whether the document is a single paragraph with no text.
func (d *Document) IsEmpty() bool {
	if len(d.Children) != 1 {
		return false
	}
	p, ok := d.Children[0].(*Paragraph)
	return ok && p.Len() == 0
}

// Clone returns a deep copy of the document. Inline IDs are preserved.
func (d *Document) Clone() *Document {
	c := &Document{Children: make([]Node, len(d.Children))}
	for i, n := range d.Children {
		c.Children[i] = cloneNode(n)
	}
	return c
}

func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *Inline:
		c := *n
		return &c
	case *Paragraph:
		return cloneParagraph(n)
	case *Quote:
		q := &Quote{Children: make([]Node, len(n.Children))}
		for i, child := range n.Children {
			q.Children[i] = cloneNode(child)
		}
		return q
	}
	panic("document: unknown node type")
}

func cloneParagraph(p *Paragraph) *Paragraph {
	c := &Paragraph{Children: make([]*Inline, len(p.Children))}
	for i, in := range p.Children {
		cp := *in
		c.Children[i] = &cp
	}
	return c
}

//////////////////////
// Lookups
//////////////////////

// children returns the child list of the container at path. Only the root and
// Quotes are containers.
func (d *Document) children(path Path) (*[]Node, error) {
	list := &d.Children
	for _, idx := range path {
		if idx < 0 || idx >= len(*list) {
			return nil, pathError(path)
		}
		q, ok := (*list)[idx].(*Quote)
		if !ok {
			return nil, pathError(path)
		}
		list = &q.Children
	}
	return list, nil
}

// Node returns the node at path.
func (d *Document) Node(path Path) (Node, error) {
	if len(path) == 0 {
		return nil, pathError(path)
	}
	list, err := d.children(path.Parent())
	if err != nil {
		return nil, pathError(path)
	}
	idx := path.Last()
	if idx < 0 || idx >= len(*list) {
		return nil, pathError(path)
	}
	return (*list)[idx], nil
}

// Paragraph returns the paragraph at path.
func (d *Document) Paragraph(path Path) (*Paragraph, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, err
	}
	p, ok := n.(*Paragraph)
	if !ok {
		return nil, pathError(path)
	}
	return p, nil
}

// Text returns the text of the paragraph at path.
func (d *Document) Text(path Path) (string, error) {
	p, err := d.Paragraph(path)
	if err != nil {
		return "", err
	}
	return p.Text(), nil
}

// Paragraphs returns the paths of every paragraph in document order.
func (d *Document) Paragraphs() []Path {
	var out []Path
	for i, n := range d.Children {
		switch n := n.(type) {
		case *Paragraph:
			out = append(out, Path{i})
		case *Quote:
			for j, child := range n.Children {
				if _, ok := child.(*Paragraph); ok {
					out = append(out, Path{i, j})
				}
			}
		}
	}
	return out
}

// Start returns the first position of the document.
func (d *Document) Start() Position {
	paths := d.Paragraphs()
	if len(paths) == 0 {
		return Position{Path: Path{0}}
	}
	return Position{Path: paths[0]}
}

// End returns the last position of the document.
func (d *Document) End() Position {
	paths := d.Paragraphs()
	if len(paths) == 0 {
		return Position{Path: Path{0}}
	}
	last := paths[len(paths)-1]
	p, _ := d.Paragraph(last)
	return Position{Path: last, Offset: p.Len()}
}

// ParentQuote returns the path of the Quote enclosing path, if any.
func (d *Document) ParentQuote(path Path) (Path, bool) {
	if len(path) < 2 {
		return nil, false
	}
	n, err := d.Node(path.Parent())
	if err != nil {
		return nil, false
	}
	if _, ok := n.(*Quote); !ok {
		return nil, false
	}
	return path.Parent(), true
}

// InlineByID returns the run with the given ID and the path of its paragraph.
func (d *Document) InlineByID(id string) (*Inline, Path, error) {
	for _, path := range d.Paragraphs() {
		p, _ := d.Paragraph(path)
		for _, in := range p.Children {
			if in.ID == id {
				return in, path, nil
			}
		}
	}
	return nil, nil, idError(id)
}

// LocateInline returns the position where the run with the given ID starts.
func (d *Document) LocateInline(id string) (Position, error) {
	for _, path := range d.Paragraphs() {
		p, _ := d.Paragraph(path)
		offset := 0
		for _, in := range p.Children {
			if in.ID == id {
				return Position{Path: path, Offset: offset}, nil
			}
			offset += utf8.RuneCountInString(in.Text)
		}
	}
	return Position{}, idError(id)
}

// PathOf returns the current path of n, found by identity.
func (d *Document) PathOf(n Node) (Path, bool) {
	for i, child := range d.Children {
		if child == n {
			return Path{i}, true
		}
		if q, ok := child.(*Quote); ok {
			for j, grandchild := range q.Children {
				if grandchild == n {
					return Path{i, j}, true
				}
			}
		}
	}
	return nil, false
}
