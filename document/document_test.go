package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ignoreIDs compares trees by content; run IDs are random.
var ignoreIDs = cmpopts.IgnoreFields(Inline{}, "ID")

func para(text string) *Paragraph { return NewTextParagraph(text) }

func quote(lines ...string) *Quote {
	q := &Quote{}
	for _, l := range lines {
		q.Children = append(q.Children, para(l))
	}
	return q
}

func doc(blocks ...Node) *Document { return NewFrom(blocks...) }

func TestNew(t *testing.T) {
	d := New()

	got := d
	want := doc(para(""))

	if !cmp.Equal(got, want, ignoreIDs) {
		t.Errorf("got != want; diff = %v\n", cmp.Diff(got, want, ignoreIDs))
	}
	if !d.IsEmpty() {
		t.Errorf("default document should be empty")
	}
}

func TestMarkSet(t *testing.T) {
	s := NewMarkSet(Bold, Spoiler)

	if !s.Has(Bold) || !s.Has(Spoiler) || s.Has(Italic) {
		t.Errorf("unexpected membership for %08b", s)
	}
	if s.Without(Bold).Has(Bold) {
		t.Errorf("Without did not remove bold")
	}

	got := NewMarkSet(Spoiler, Code, Italic).List()
	want := []Mark{Code, Italic, Spoiler}
	if !cmp.Equal(got, want) {
		t.Errorf("got != want; diff = %v\n", cmp.Diff(got, want))
	}
}

func TestMarkDelimiter(t *testing.T) {
	tests := []struct {
		mark     Mark
		expected string
	}{
		{mark: Bold, expected: "**"},
		{mark: Italic, expected: "*"},
		{mark: Strikethrough, expected: "~~"},
		{mark: Code, expected: "`"},
		{mark: Spoiler, expected: "||"},
		{mark: Mark(0), expected: ""},
	}

	for _, tc := range tests {
		if got := tc.mark.Delimiter(); got != tc.expected {
			t.Errorf("(%s) got %q, expected %q", tc.mark, got, tc.expected)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		description string
		a, b        Position
		expected    int
	}{
		{description: "same position", a: Pos(1, 0), b: Pos(1, 0), expected: 0},
		{description: "offset order", a: Pos(1, 0), b: Pos(2, 0), expected: -1},
		{description: "block order", a: Pos(5, 0), b: Pos(0, 1), expected: -1},
		{description: "quote line after quote start", a: Pos(0, 1, 1), b: Pos(3, 1, 0), expected: 1},
		{description: "ancestor first", a: Pos(0, 1), b: Pos(0, 1, 0), expected: -1},
	}

	for _, tc := range tests {
		got := Compare(tc.a, tc.b)
		if got != tc.expected {
			t.Errorf("(%s) got %d, expected %d", tc.description, got, tc.expected)
		}
	}
}

func TestParagraphs(t *testing.T) {
	d := doc(para("a"), quote("b", "c"), para("d"))

	got := d.Paragraphs()
	want := []Path{{0}, {1, 0}, {1, 1}, {2}}

	if !cmp.Equal(got, want) {
		t.Errorf("got != want; diff = %v\n", cmp.Diff(got, want))
	}

	if got, want := d.End(), Pos(1, 2); Compare(got, want) != 0 {
		t.Errorf("End() = %v, expected %v", got, want)
	}
}

func TestLocateInline(t *testing.T) {
	second := NewInline("world", Bold)
	d := doc(quote("x"), NewParagraph(NewInline("hello "), second))

	got, err := d.LocateInline(second.ID)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if want := Pos(6, 1); Compare(got, want) != 0 {
		t.Errorf("got %v, expected %v", got, want)
	}

	if _, err := d.LocateInline("missing"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

func TestClone(t *testing.T) {
	d := doc(para("a"), quote("b"))
	c := d.Clone()

	if !cmp.Equal(d, c) {
		t.Errorf("clone differs; diff = %v\n", cmp.Diff(d, c))
	}

	c.Children[0].(*Paragraph).Children[0].Text = "changed"
	if got := d.Children[0].(*Paragraph).Text(); got != "a" {
		t.Errorf("clone shares runs with original, got %q", got)
	}
}
