package document

import (
	"fmt"
	"strings"
)

// Path addresses a node by child indices from the document root.
// [i] is the i-th top-level block, [i, j] is the j-th child of the Quote at i.
type Path []int

// Clone returns a copy of the path that shares no memory with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns the path of the enclosing container. The parent of a
// top-level path is the empty (root) path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final index of the path, or -1 for the root.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns the path of the i-th child of p.
func (p Path) Child(i int) Path {
	return append(p.Clone(), i)
}

// Next returns the path of the following sibling.
func (p Path) Next() Path {
	c := p.Clone()
	c[len(c)-1]++
	return c
}

// IsAncestorOf reports whether p is a strict prefix of other.
func (p Path) IsAncestorOf(other Path) bool {
	if len(p) >= len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = fmt.Sprint(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ComparePaths orders paths in document order: lexicographically, with an
// ancestor ordered before its descendants.
func ComparePaths(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Position is a location between two characters of a Paragraph.
// Offset counts runes from the start of the paragraph text.
type Position struct {
	Path   Path
	Offset int
}

// Pos is a shorthand constructor for a Position.
func Pos(offset int, path ...int) Position {
	return Position{Path: Path(path), Offset: offset}
}

// Compare orders positions in document order. It returns -1, 0 or 1.
func Compare(a, b Position) int {
	if c := ComparePaths(a.Path, b.Path); c != 0 {
		return c
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// Clone returns a copy of the position that shares no memory with pos.
func (pos Position) Clone() Position {
	return Position{Path: pos.Path.Clone(), Offset: pos.Offset}
}

func (pos Position) String() string {
	return fmt.Sprintf("%v:%d", pos.Path, pos.Offset)
}
