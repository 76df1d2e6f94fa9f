package markdown

import (
	"testing"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// collectKinds walks the parsed tree and returns the kinds of all nodes.
func collectKinds(t *testing.T, source string) map[ast.NodeKind]int {
	t.Helper()
	doc := Parse([]byte(source))
	kinds := make(map[ast.NodeKind]int)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			kinds[n.Kind()]++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return kinds
}

func findNodes(t *testing.T, source string, kind ast.NodeKind) []ast.Node {
	t.Helper()
	doc := Parse([]byte(source))
	var out []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == kind {
			out = append(out, n)
		}
		return ast.WalkContinue, nil
	})
	return out
}

func TestParseBlockMath(t *testing.T) {
	nodes := findNodes(t, "before\n\n$$\nx^2 + y^2\n$$\n\nafter\n", KindMathBlock)
	if len(nodes) != 1 {
		t.Fatalf("got %d math blocks, want 1", len(nodes))
	}
	mb := nodes[0].(*MathBlock)
	if string(mb.Expr) != "x^2 + y^2" {
		t.Errorf("expr = %q", mb.Expr)
	}
}

func TestParseBlockMathSingleLine(t *testing.T) {
	nodes := findNodes(t, "$$e = mc^2$$\n", KindMathBlock)
	if len(nodes) != 1 {
		t.Fatalf("got %d math blocks, want 1", len(nodes))
	}
	if got := string(nodes[0].(*MathBlock).Expr); got != "e = mc^2" {
		t.Errorf("expr = %q", got)
	}
}

func TestParseInlineMath(t *testing.T) {
	nodes := findNodes(t, "the value $x^2$ appears inline\n", KindInlineMath)
	if len(nodes) != 1 {
		t.Fatalf("got %d inline math nodes, want 1", len(nodes))
	}
	if got := string(nodes[0].(*InlineMath).Expr); got != "x^2" {
		t.Errorf("expr = %q", got)
	}
}

func TestParseDollarAmountsStayPlain(t *testing.T) {
	for _, source := range []string{
		"it costs $20 and $30 total\n",
		"a lone $ sign\n",
		"spaces $ x $ around\n",
	} {
		if kinds := collectKinds(t, source); kinds[KindInlineMath] != 0 {
			t.Errorf("source %q produced inline math", source)
		}
	}
}

func TestParseMathInsideCodeSpanIgnored(t *testing.T) {
	kinds := collectKinds(t, "code `$x^2$` stays literal\n")
	if kinds[KindInlineMath] != 0 {
		t.Error("code span content was turned into math")
	}
	if kinds[ast.KindCodeSpan] != 1 {
		t.Errorf("code spans = %d, want 1", kinds[ast.KindCodeSpan])
	}
}

func TestParseWikiLinks(t *testing.T) {
	nodes := findNodes(t, "see [[Real Page]] and [[Other|shown text]] here\n", KindWikiLink)
	if len(nodes) != 2 {
		t.Fatalf("got %d wiki links, want 2", len(nodes))
	}
	first := nodes[0].(*WikiLink)
	if first.Name != "Real Page" || first.Display != "" {
		t.Errorf("first = %+v", first)
	}
	if got := first.DisplayOrName(); got != "Real Page" {
		t.Errorf("DisplayOrName = %q", got)
	}
	second := nodes[1].(*WikiLink)
	if second.Name != "Other" || second.Display != "shown text" {
		t.Errorf("second = %+v", second)
	}
}

func TestParseWikiLinkMalformedStaysText(t *testing.T) {
	for _, source := range []string{
		"open [[ never closed\n",
		"empty [[]] brackets\n",
		"[[a|b|c]] too many pipes\n",
	} {
		if kinds := collectKinds(t, source); kinds[KindWikiLink] != 0 {
			t.Errorf("source %q produced a wiki link", source)
		}
	}
}

func TestParseWikiLinkKeepsRegularLinks(t *testing.T) {
	kinds := collectKinds(t, "a [regular](http://example.com) link and [[Wiki]]\n")
	if kinds[ast.KindLink] != 1 {
		t.Errorf("links = %d, want 1", kinds[ast.KindLink])
	}
	if kinds[KindWikiLink] != 1 {
		t.Errorf("wiki links = %d, want 1", kinds[KindWikiLink])
	}
}

func TestParseFootnotes(t *testing.T) {
	source := "a claim[^1]\n\n[^1]: the evidence\n"
	kinds := collectKinds(t, source)
	if kinds[east.KindFootnoteLink] != 1 {
		t.Errorf("footnote links = %d, want 1", kinds[east.KindFootnoteLink])
	}
	if kinds[east.KindFootnote] != 1 {
		t.Errorf("footnote definitions = %d, want 1", kinds[east.KindFootnote])
	}
}

func TestParseGFMTables(t *testing.T) {
	source := "| a | b |\n| - | - |\n| 1 | 2 |\n"
	kinds := collectKinds(t, source)
	if kinds[east.KindTable] != 1 {
		t.Errorf("tables = %d, want 1", kinds[east.KindTable])
	}
	if kinds[east.KindTableHeader] != 1 {
		t.Errorf("table headers = %d, want 1", kinds[east.KindTableHeader])
	}
}

func TestParseMixedTextAndMath(t *testing.T) {
	doc := Parse([]byte("pre $a$ mid $b$ post\n"))
	var exprs []string
	var plains int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *InlineMath:
			exprs = append(exprs, string(t.Expr))
		case *ast.Text:
			plains++
		}
		return ast.WalkContinue, nil
	})
	if len(exprs) != 2 || exprs[0] != "a" || exprs[1] != "b" {
		t.Errorf("exprs = %v", exprs)
	}
	if plains < 3 {
		t.Errorf("plain text nodes = %d, want at least 3", plains)
	}
}
