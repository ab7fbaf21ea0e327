package document

import "fmt"

// Normalize restores the tree invariants and returns the number of passes
// that changed something. Each pass sweeps the whole tree once:
//
//   - a run of stray Inlines inside a Quote is wrapped in one Paragraph, and a
//     Quote nested in a Quote is flattened into it;
//   - adjacent Quote siblings are merged;
//   - a run of stray Inlines at the root is wrapped in one Paragraph;
//   - empty Quotes are dropped, Paragraphs without runs get an empty run, and
//     adjacent runs with identical marks are merged;
//   - an empty document gets the default paragraph.
//
// Calling Normalize on a normalized document returns 0.
func Normalize(d *Document) int {
	limit := countNodes(d) + 2
	passes := 0
	for normalizeOnce(d) {
		passes++
		if passes > limit {
			panic(fmt.Sprintf("document: normalization did not settle after %d passes", passes))
		}
	}
	return passes
}

func countNodes(d *Document) int {
	n := 0
	var walk func(Node)
	walk = func(node Node) {
		n++
		switch node := node.(type) {
		case *Paragraph:
			n += len(node.Children)
		case *Quote:
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	for _, child := range d.Children {
		walk(child)
	}
	return n
}

func normalizeOnce(d *Document) bool {
	changed := false
	var out []Node
	var stray []*Inline

	flush := func() {
		if len(stray) > 0 {
			out = append(out, &Paragraph{Children: stray})
			stray = nil
			changed = true
		}
	}

	for _, n := range d.Children {
		switch n := n.(type) {
		case *Inline:
			stray = append(stray, n)
			continue
		case *Paragraph:
			flush()
			if normalizeParagraph(n) {
				changed = true
			}
			out = append(out, n)
		case *Quote:
			flush()
			if normalizeQuote(n) {
				changed = true
			}
			if len(n.Children) == 0 {
				changed = true
				continue
			}
			if prev, ok := lastQuote(out); ok {
				prev.Children = append(prev.Children, n.Children...)
				changed = true
				continue
			}
			out = append(out, n)
		}
	}
	flush()

	if len(out) == 0 {
		out = []Node{NewParagraph()}
		changed = true
	}
	d.Children = out
	return changed
}

func lastQuote(list []Node) (*Quote, bool) {
	if len(list) == 0 {
		return nil, false
	}
	q, ok := list[len(list)-1].(*Quote)
	return q, ok
}

func normalizeQuote(q *Quote) bool {
	changed := false
	var out []Node
	var stray []*Inline

	flush := func() {
		if len(stray) > 0 {
			out = append(out, &Paragraph{Children: stray})
			stray = nil
			changed = true
		}
	}

	for _, n := range q.Children {
		switch n := n.(type) {
		case *Inline:
			stray = append(stray, n)
		case *Paragraph:
			flush()
			if normalizeParagraph(n) {
				changed = true
			}
			out = append(out, n)
		case *Quote:
			flush()
			out = append(out, n.Children...)
			changed = true
		}
	}
	flush()
	q.Children = out
	return changed
}

// normalizeParagraph merges adjacent runs with identical marks and drops
// empty runs, keeping at least one.
func normalizeParagraph(p *Paragraph) bool {
	if len(p.Children) == 0 {
		p.ensureRuns()
		return true
	}
	changed := false
	out := make([]*Inline, 0, len(p.Children))
	for _, in := range p.Children {
		if in.Text == "" && len(p.Children) > 1 {
			changed = true
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == in.Marks {
			out[n-1].Text += in.Text
			changed = true
			continue
		}
		out = append(out, in)
	}
	if len(out) == 0 {
		out = append(out, p.Children[0])
		out[0].Text = ""
	}
	p.Children = out
	return changed
}
