package wikilink

import (
	"strings"
	"testing"
)

func collect(text string) []Segment {
	var out []Segment
	for seg := range Segments(text) {
		out = append(out, seg)
	}
	return out
}

func TestSegmentsExtract(t *testing.T) {
	segs := collect("[[One]] [[Two|TWO]]\n[[Three|THREE]] [[Four Five]]")

	var refs []Segment
	for _, s := range segs {
		if s.IsRef() {
			refs = append(refs, s)
		}
	}
	want := []struct {
		name, display string
	}{
		{"One", ""},
		{"Two", "TWO"},
		{"Three", "THREE"},
		{"Four Five", ""},
	}
	if len(refs) != len(want) {
		t.Fatalf("got %d references, want %d", len(refs), len(want))
	}
	for i, w := range want {
		if refs[i].Name != w.name || refs[i].Display != w.display {
			t.Errorf("ref %d: got (%q, %q), want (%q, %q)",
				i, refs[i].Name, refs[i].Display, w.name, w.display)
		}
	}
}

func TestSegmentsPartition(t *testing.T) {
	inputs := []string{
		"",
		"no references at all",
		"[[Solo]]",
		"before [[A]] middle [[B|Bee]] after",
		"malformed [[ not closed",
		"[[]] empty brackets stay plain",
		"adjacent [[A]][[B]] refs",
		"trailing text [[X|Display Text]]",
	}
	for _, in := range inputs {
		var b strings.Builder
		for seg := range Segments(in) {
			b.WriteString(seg.Raw)
		}
		if b.String() != in {
			t.Errorf("segments of %q concatenate to %q", in, b.String())
		}
	}
}

func TestSegmentsMalformedIsPlain(t *testing.T) {
	for _, in := range []string{"[[ not closed", "]] [[", "[[a|b|c]]"} {
		for seg := range Segments(in) {
			if seg.IsRef() && strings.ContainsAny(seg.Name, "[]|") {
				t.Errorf("input %q produced reference with bracket chars: %+v", in, seg)
			}
		}
	}
}

func TestDisplayOrName(t *testing.T) {
	segs := collect("[[Page]] and [[Page|Shown]]")
	var refs []Segment
	for _, s := range segs {
		if s.IsRef() {
			refs = append(refs, s)
		}
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if got := refs[0].DisplayOrName(); got != "Page" {
		t.Errorf("DisplayOrName without display = %q, want %q", got, "Page")
	}
	if got := refs[1].DisplayOrName(); got != "Shown" {
		t.Errorf("DisplayOrName with display = %q, want %q", got, "Shown")
	}
}

func TestLead(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		display string
		raw     string
		ok      bool
	}{
		{"[[One]] rest", "One", "", "[[One]]", true},
		{"[[Two|TWO]]", "Two", "TWO", "[[Two|TWO]]", true},
		{"x [[One]]", "", "", "", false},
		{"[[ not closed", "", "", "", false},
		{"[regular](link)", "", "", "", false},
		{"[[]]", "", "", "", false},
	}
	for _, c := range cases {
		seg, ok := Lead(c.in)
		if ok != c.ok {
			t.Errorf("Lead(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if seg.Name != c.name || seg.Display != c.display || seg.Raw != c.raw {
			t.Errorf("Lead(%q) = %+v, want (%q, %q, %q)", c.in, seg, c.name, c.display, c.raw)
		}
	}
}

func TestSegmentsRestartable(t *testing.T) {
	const in = "x [[A]] y"
	seq := Segments(in)
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != second {
		t.Errorf("second iteration yielded %d segments, first %d", second, first)
	}
}
