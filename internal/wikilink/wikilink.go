// Package wikilink splits inline text into plain-text and [[Name]] /
// [[Name|Display]] reference segments. "Wikilink" is the term Obsidian
// uses for this syntax.
package wikilink

import (
	"iter"
	"regexp"
)

// pattern matches [[Name]] and [[Name|Display]]. Name and display may not
// contain '[', ']', or '|'. Matching is leftmost, non-overlapping; anything
// the pattern does not claim is passed through as plain text.
var pattern = regexp.MustCompile(`\[\[([^|\[\]]+)\|?([^|\[\]]+)?\]\]`)

// Segment is one piece of an inline text run.
//
// Raw always holds the exact input text the segment covers, so concatenating
// Raw over all segments reproduces the input. Name is empty for plain text.
type Segment struct {
	Raw     string
	Name    string
	Display string
}

// IsRef reports whether the segment is a [[...]] reference.
func (s Segment) IsRef() bool { return s.Name != "" }

// DisplayOrName returns the display text if one was given, else the name.
func (s Segment) DisplayOrName() string {
	if s.Display != "" {
		return s.Display
	}
	return s.Name
}

// leading anchors the pattern to the start of the input, for parsers that
// sit on a specific offset.
var leading = regexp.MustCompile(`^\[\[([^|\[\]]+)\|?([^|\[\]]+)?\]\]`)

// Lead matches a reference at the very start of text. It reports false when
// text does not open with a complete [[...]] reference.
func Lead(text string) (Segment, bool) {
	m := leading.FindStringSubmatchIndex(text)
	if m == nil {
		return Segment{}, false
	}
	seg := Segment{Raw: text[m[0]:m[1]], Name: text[m[2]:m[3]]}
	if m[4] >= 0 {
		seg.Display = text[m[4]:m[5]]
	}
	return seg, true
}

// Segments iterates over text as alternating plain-text and reference
// segments. The sequence is recomputed fresh on every call and covers the
// whole input with no gaps or overlaps.
func Segments(text string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		last := 0
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			if m[0] > last {
				if !yield(Segment{Raw: text[last:m[0]]}) {
					return
				}
			}
			seg := Segment{Raw: text[m[0]:m[1]], Name: text[m[2]:m[3]]}
			if m[4] >= 0 {
				seg.Display = text[m[4]:m[5]]
			}
			if !yield(seg) {
				return
			}
			last = m[1]
		}
		if last < len(text) {
			yield(Segment{Raw: text[last:]})
		}
	}
}
