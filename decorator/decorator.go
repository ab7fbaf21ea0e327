// Package decorator derives inline style ranges from raw text without
// touching the document tree.
package decorator

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/burntcarrot/chatpad/document"
)

// Range marks [Start, End) of a text, in runes, as styled by Mark. It covers
// the content only; the delimiters sit just outside it.
type Range struct {
	Mark  document.Mark
	Start int
	End   int
}

// Outer returns the range widened by the mark's delimiters.
func (r Range) Outer() (int, int) {
	w := utf8.RuneCountInString(r.Mark.Delimiter())
	return r.Start - w, r.End + w
}

type rule struct {
	mark document.Mark
	re   *regexp.Regexp
}

// rules in priority order. A later rule only sees text no earlier rule
// matched.
var rules = []rule{
	{document.Strikethrough, regexp.MustCompile(`~~(.+?)~~`)},
	{document.Bold, regexp.MustCompile(`\*\*(.+?)\*\*`)},
	{document.Italic, regexp.MustCompile(`\*([^*]+)\*`)},
	{document.Code, regexp.MustCompile("`([^`]+)`")},
	{document.Spoiler, regexp.MustCompile(`\|\|(.+?)\|\|`)},
}

type segment struct{ start, end int }

// Decorate returns the styled ranges of text sorted by Start. Unmatched
// delimiters are plain text, and a match nested inside a higher priority one
// is not reported.
func Decorate(text string) []Range {
	type match struct {
		mark       document.Mark
		start, end int
	}

	var matches []match
	free := []segment{{0, len(text)}}

	for _, r := range rules {
		var next []segment
		for _, seg := range free {
			at := seg.start
			for _, loc := range r.re.FindAllStringSubmatchIndex(text[seg.start:seg.end], -1) {
				from, to := seg.start+loc[0], seg.start+loc[1]
				matches = append(matches, match{mark: r.mark, start: seg.start + loc[2], end: seg.start + loc[3]})
				if from > at {
					next = append(next, segment{at, from})
				}
				at = to
			}
			if at < seg.end {
				next = append(next, segment{at, seg.end})
			}
		}
		free = next
	}

	if len(matches) == 0 {
		return nil
	}

	ranges := make([]Range, len(matches))
	for i, m := range matches {
		ranges[i] = Range{
			Mark:  m.mark,
			Start: utf8.RuneCountInString(text[:m.start]),
			End:   utf8.RuneCountInString(text[:m.end]),
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	return ranges
}
