package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// InlineMath is a $...$ expression inside a line of text.
type InlineMath struct {
	ast.BaseInline
	Expr []byte
}

// KindInlineMath is the node kind of InlineMath nodes.
var KindInlineMath = ast.NewNodeKind("InlineMath")

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMath }

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Expr": string(n.Expr)}, nil)
}

// MathBlock is a display math expression delimited by $$ lines.
type MathBlock struct {
	ast.BaseBlock
	Expr []byte
}

// KindMathBlock is the node kind of MathBlock nodes.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Expr": string(n.Expr)}, nil)
}

// inlineMathRe matches $...$ spans whose content starts and ends with a
// non-space character, so dollar amounts in prose stay plain text.
var inlineMathRe = regexp.MustCompile(`\$([^\s$](?:[^$\n]*[^\s$])?)\$`)

// mathTransformer rewrites the parsed tree: paragraphs that consist of a
// $$-delimited expression become MathBlock nodes, and $...$ spans inside
// text become InlineMath nodes. Text inside code spans is left alone.
type mathTransformer struct{}

// Transform implements parser.ASTTransformer.
func (mathTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var paragraphs []*ast.Paragraph
	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Paragraph:
			paragraphs = append(paragraphs, t)
		case *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			texts = append(texts, t)
		}
		return ast.WalkContinue, nil
	})

	for _, p := range paragraphs {
		if expr, ok := blockMathExpr(p, source); ok {
			mb := &MathBlock{Expr: expr}
			p.Parent().ReplaceChild(p.Parent(), p, mb)
		}
	}
	for _, t := range texts {
		splitInlineMath(t, source)
	}
}

// blockMathExpr reports whether the paragraph's raw text is a single
// $$...$$ expression and returns the inner expression if so.
func blockMathExpr(p *ast.Paragraph, source []byte) ([]byte, bool) {
	lines := p.Lines()
	var raw bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		raw.Write(line.Value(source))
	}
	s := strings.TrimSpace(raw.String())
	if len(s) < 5 || !strings.HasPrefix(s, "$$") || !strings.HasSuffix(s, "$$") {
		return nil, false
	}
	inner := strings.TrimSpace(s[2 : len(s)-2])
	if inner == "" || strings.Contains(inner, "$$") {
		return nil, false
	}
	return []byte(inner), true
}

// splitInlineMath replaces t with an alternating run of plain text and
// InlineMath nodes. Does nothing when t contains no math span.
func splitInlineMath(t *ast.Text, source []byte) {
	seg := t.Segment
	value := seg.Value(source)
	matches := inlineMathRe.FindAllSubmatchIndex(value, -1)
	if matches == nil {
		return
	}

	parent := t.Parent()
	if parent == nil {
		return
	}
	var nodes []ast.Node
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			nodes = append(nodes, ast.NewTextSegment(text.NewSegment(seg.Start+prev, seg.Start+m[0])))
		}
		nodes = append(nodes, &InlineMath{Expr: value[m[2]:m[3]]})
		prev = m[1]
	}
	if prev < len(value) || t.SoftLineBreak() || t.HardLineBreak() {
		// The tail text node carries the original line-break flags, even
		// when the math span ends the line and the tail is empty.
		tail := ast.NewTextSegment(text.NewSegment(seg.Start+prev, seg.Stop))
		tail.SetSoftLineBreak(t.SoftLineBreak())
		tail.SetHardLineBreak(t.HardLineBreak())
		nodes = append(nodes, tail)
	}

	for _, n := range nodes {
		parent.InsertBefore(parent, t, n)
	}
	parent.RemoveChild(parent, t)
}
