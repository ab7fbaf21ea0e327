package document

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

func pathError(path Path) error {
	return fmt.Errorf("%w: %v", ErrInvalidPath, path)
}

func idError(id string) error {
	return fmt.Errorf("%w: no inline with id %q", ErrInvalidPath, id)
}

func rangeError(start, end Position) error {
	return fmt.Errorf("%w: %v is not before %v", ErrInvalidRange, start, end)
}

func offsetError(pos Position, length int) error {
	return fmt.Errorf("%w: offset %d outside [0, %d] at %v", ErrInvalidRange, pos.Offset, length, pos.Path)
}

// checkPosition resolves the paragraph pos points into and validates its offset.
func (d *Document) checkPosition(pos Position) (*Paragraph, error) {
	p, err := d.Paragraph(pos.Path)
	if err != nil {
		return nil, err
	}
	if n := p.Len(); pos.Offset < 0 || pos.Offset > n {
		return nil, offsetError(pos, n)
	}
	return p, nil
}

///////////////
// Run helpers
///////////////

// splitRuns divides runs at a rune offset. A run straddling the offset is cut
// in two; the right piece gets a fresh ID. The returned slices never alias runs.
func splitRuns(runs []*Inline, offset int) (left, right []*Inline) {
	pos := 0
	for i, in := range runs {
		if offset <= pos {
			return append([]*Inline(nil), runs[:i]...), append([]*Inline(nil), runs[i:]...)
		}
		n := utf8.RuneCountInString(in.Text)
		if offset < pos+n {
			r := []rune(in.Text)
			cut := offset - pos
			l := &Inline{ID: in.ID, Text: string(r[:cut]), Marks: in.Marks}
			rr := &Inline{ID: uuid.NewString(), Text: string(r[cut:]), Marks: in.Marks}
			left = append(append([]*Inline(nil), runs[:i]...), l)
			right = append([]*Inline{rr}, runs[i+1:]...)
			return left, right
		}
		pos += n
	}
	return append([]*Inline(nil), runs...), nil
}

// ensureRuns gives a paragraph without runs a single empty one.
func (p *Paragraph) ensureRuns() {
	if len(p.Children) == 0 {
		p.Children = []*Inline{NewInline("")}
	}
}

// insert places text at offset. At a run boundary the left run receives it.
func (p *Paragraph) insert(offset int, text string) {
	pos := 0
	for _, in := range p.Children {
		n := utf8.RuneCountInString(in.Text)
		if offset <= pos+n {
			r := []rune(in.Text)
			cut := offset - pos
			in.Text = string(r[:cut]) + text + string(r[cut:])
			return
		}
		pos += n
	}
	p.Children = append(p.Children, NewInline(text))
}

func (p *Paragraph) deleteSpan(start, end int) {
	left, rest := splitRuns(p.Children, start)
	_, right := splitRuns(rest, end-start)
	p.Children = append(left, right...)
	p.ensureRuns()
}

// isolate cuts runs so that [start, end) is covered exactly by whole runs and
// returns their index range.
func (p *Paragraph) isolate(start, end int) (int, int) {
	left, rest := splitRuns(p.Children, start)
	mid, right := splitRuns(rest, end-start)
	p.Children = append(append(left, mid...), right...)
	return len(left), len(left) + len(mid)
}

func insertAt(list []Node, idx int, nodes ...Node) []Node {
	out := make([]Node, 0, len(list)+len(nodes))
	out = append(out, list[:idx]...)
	out = append(out, nodes...)
	return append(out, list[idx:]...)
}

func removeAt(list []Node, idx int) []Node {
	out := make([]Node, 0, len(list))
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

// detach removes n from its container. A Quote left without children is
// removed too, and an emptied document gets the default paragraph.
func (d *Document) detach(n Node) {
	path, ok := d.PathOf(n)
	if !ok {
		return
	}
	list, _ := d.children(path.Parent())
	*list = removeAt(*list, path.Last())
	if len(path) == 2 && len(*list) == 0 {
		d.Children = removeAt(d.Children, path[0])
	}
	if len(d.Children) == 0 {
		d.Children = []Node{NewParagraph()}
	}
}

// collectRuns flattens every run reachable from n.
func collectRuns(n Node) []*Inline {
	switch n := n.(type) {
	case *Inline:
		return []*Inline{n}
	case *Paragraph:
		return append([]*Inline(nil), n.Children...)
	case *Quote:
		var out []*Inline
		for _, child := range n.Children {
			out = append(out, collectRuns(child)...)
		}
		return out
	}
	return nil
}

///////////////
// Primitives
///////////////

// InsertText inserts text at pos and returns the position right after it.
func (d *Document) InsertText(pos Position, text string) (Position, error) {
	if strings.ContainsAny(text, "\r\n") {
		return pos, fmt.Errorf("%w: %q", ErrInvalidText, text)
	}
	p, err := d.checkPosition(pos)
	if err != nil {
		return pos, err
	}
	if text == "" {
		return pos.Clone(), nil
	}
	p.insert(pos.Offset, text)
	return Position{Path: pos.Path.Clone(), Offset: pos.Offset + utf8.RuneCountInString(text)}, nil
}

// DeleteRange removes the content between start and end. Across paragraphs,
// the end paragraph's remainder joins the start paragraph and everything in
// between is removed. It returns the collapsed position at start.
func (d *Document) DeleteRange(start, end Position) (Position, error) {
	sp, err := d.checkPosition(start)
	if err != nil {
		return start, err
	}
	ep, err := d.checkPosition(end)
	if err != nil {
		return start, err
	}
	if Compare(start, end) >= 0 {
		return start, rangeError(start, end)
	}

	if start.Path.Equal(end.Path) {
		sp.deleteSpan(start.Offset, end.Offset)
		return start.Clone(), nil
	}

	left, _ := splitRuns(sp.Children, start.Offset)
	_, right := splitRuns(ep.Children, end.Offset)
	sp.Children = append(left, right...)
	sp.ensureRuns()

	var doomed []Node
	for _, path := range d.Paragraphs() {
		if ComparePaths(path, start.Path) > 0 && ComparePaths(path, end.Path) <= 0 {
			p, _ := d.Paragraph(path)
			doomed = append(doomed, p)
		}
	}
	for _, n := range doomed {
		d.detach(n)
	}

	path, _ := d.PathOf(sp)
	return Position{Path: path, Offset: start.Offset}, nil
}

// SplitBlock splits the paragraph at pos into two siblings and returns the
// start of the second one.
func (d *Document) SplitBlock(pos Position) (Position, error) {
	p, err := d.checkPosition(pos)
	if err != nil {
		return pos, err
	}
	left, right := splitRuns(p.Children, pos.Offset)
	p.Children = left
	p.ensureRuns()
	next := &Paragraph{Children: right}
	next.ensureRuns()

	list, _ := d.children(pos.Path.Parent())
	*list = insertAt(*list, pos.Path.Last()+1, next)
	return Position{Path: pos.Path.Next()}, nil
}

// MergeBlocks appends the content of the node at b to the node at a and
// removes b. It returns the junction: the position where b's content starts.
//
// Paragraph+Paragraph joins runs, Quote+Quote joins children, Quote+Paragraph
// makes the paragraph the quote's last line and Paragraph+Quote joins the runs
// of every quoted line.
func (d *Document) MergeBlocks(a, b Path) (Position, error) {
	na, err := d.Node(a)
	if err != nil {
		return Position{}, err
	}
	nb, err := d.Node(b)
	if err != nil {
		return Position{}, err
	}
	if a.Equal(b) {
		return Position{}, fmt.Errorf("%w: cannot merge %v into itself", ErrInvalidRange, a)
	}
	if a.IsAncestorOf(b) || b.IsAncestorOf(a) {
		return Position{}, fmt.Errorf("%w: %v and %v are nested", ErrInvalidPath, a, b)
	}

	switch target := na.(type) {
	case *Paragraph:
		junction := target.Len()
		target.Children = append(target.Children, collectRuns(nb)...)
		d.detach(nb)
		path, _ := d.PathOf(target)
		return Position{Path: path, Offset: junction}, nil

	case *Quote:
		junction := len(target.Children)
		switch source := nb.(type) {
		case *Quote:
			target.Children = append(target.Children, source.Children...)
			d.detach(source)
		default:
			d.detach(nb)
			target.Children = append(target.Children, nb)
		}
		path, _ := d.PathOf(target)
		if junction >= len(target.Children) {
			return Position{Path: path}, nil
		}
		return Position{Path: path.Child(junction)}, nil

	case *Inline:
		junction := utf8.RuneCountInString(target.Text)
		var b strings.Builder
		b.WriteString(target.Text)
		for _, in := range collectRuns(nb) {
			b.WriteString(in.Text)
		}
		target.Text = b.String()
		d.detach(nb)
		path, _ := d.PathOf(target)
		return Position{Path: path, Offset: junction}, nil
	}
	return Position{}, pathError(a)
}

// SetBlockType changes the variant of the block at path.
//
// A Paragraph becoming a Quote keeps its runs as direct children of the new
// Quote until normalization wraps them. A Quote becoming a Paragraph joins the
// runs of all its lines.
func (d *Document) SetBlockType(path Path, t BlockType) (Path, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, err
	}
	var replacement Node
	switch t {
	case ParagraphType:
		switch n := n.(type) {
		case *Paragraph:
			return path.Clone(), nil
		case *Quote, *Inline:
			p := &Paragraph{Children: collectRuns(n)}
			p.ensureRuns()
			replacement = p
		}
	case QuoteType:
		switch n := n.(type) {
		case *Quote:
			return path.Clone(), nil
		case *Paragraph:
			q := &Quote{}
			for _, in := range n.Children {
				q.Children = append(q.Children, in)
			}
			replacement = q
		case *Inline:
			replacement = &Quote{Children: []Node{n}}
		}
	default:
		return nil, fmt.Errorf("%w: unknown block type %d", ErrInvalidPath, t)
	}

	list, _ := d.children(path.Parent())
	(*list)[path.Last()] = replacement
	return path.Clone(), nil
}

// WrapBlock wraps the node at path in a new block of type t and returns the
// path of the wrapped node. Only a stray Inline can be wrapped in a Paragraph.
func (d *Document) WrapBlock(path Path, t BlockType) (Path, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, err
	}
	var wrapper Node
	switch t {
	case QuoteType:
		wrapper = &Quote{Children: []Node{n}}
	case ParagraphType:
		in, ok := n.(*Inline)
		if !ok {
			return nil, fmt.Errorf("%w: %v is not an inline", ErrInvalidPath, path)
		}
		wrapper = &Paragraph{Children: []*Inline{in}}
	default:
		return nil, fmt.Errorf("%w: unknown block type %d", ErrInvalidPath, t)
	}

	list, _ := d.children(path.Parent())
	(*list)[path.Last()] = wrapper
	return path.Child(0), nil
}

// LiftBlock moves the node at path out of its enclosing Quote and returns its
// new path. The first child lands before the Quote, the last child after it,
// and a middle child splits the Quote in two. A Quote left empty disappears.
// Lifting a top-level node does nothing.
func (d *Document) LiftBlock(path Path) (Path, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 {
		return path.Clone(), nil
	}

	parentPath := path.Parent()
	parent, _ := d.Node(parentPath)
	q := parent.(*Quote)
	outer, _ := d.children(parentPath.Parent())
	pIdx, idx := parentPath.Last(), path.Last()

	switch {
	case len(q.Children) == 1:
		(*outer)[pIdx] = n
		return parentPath, nil

	case idx == 0:
		q.Children = append([]Node(nil), q.Children[1:]...)
		*outer = insertAt(*outer, pIdx, n)
		return parentPath, nil

	case idx == len(q.Children)-1:
		q.Children = append([]Node(nil), q.Children[:idx]...)
		*outer = insertAt(*outer, pIdx+1, n)
		return parentPath.Next(), nil

	default:
		tail := &Quote{Children: append([]Node(nil), q.Children[idx+1:]...)}
		q.Children = append([]Node(nil), q.Children[:idx]...)
		*outer = insertAt(*outer, pIdx+1, n, tail)
		return parentPath.Next(), nil
	}
}

// ToggleMark sets m on every run between start and end, or clears it when
// every run in the range already carries it. It reports whether the mark is
// set afterwards.
func (d *Document) ToggleMark(start, end Position, m Mark) (bool, error) {
	if _, err := d.checkPosition(start); err != nil {
		return false, err
	}
	if _, err := d.checkPosition(end); err != nil {
		return false, err
	}
	if Compare(start, end) >= 0 {
		return false, rangeError(start, end)
	}

	type span struct {
		p    *Paragraph
		i, j int
	}
	var spans []span
	all := true
	for _, path := range d.Paragraphs() {
		if ComparePaths(path, start.Path) < 0 || ComparePaths(path, end.Path) > 0 {
			continue
		}
		p, _ := d.Paragraph(path)
		s, e := 0, p.Len()
		if path.Equal(start.Path) {
			s = start.Offset
		}
		if path.Equal(end.Path) {
			e = end.Offset
		}
		if s >= e {
			continue
		}
		i, j := p.isolate(s, e)
		for _, in := range p.Children[i:j] {
			if !in.Marks.Has(m) {
				all = false
			}
		}
		spans = append(spans, span{p: p, i: i, j: j})
	}

	for _, sp := range spans {
		for _, in := range sp.p.Children[sp.i:sp.j] {
			if all {
				in.Marks = in.Marks.Without(m)
			} else {
				in.Marks = in.Marks.With(m)
			}
		}
	}
	return !all, nil
}
