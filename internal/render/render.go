// Package render turns a parsed markdown tree into HTML. The walk is an
// explicit work stack rather than recursion, so arbitrarily deep documents
// render in constant stack space. Footnote bodies are deferred to a
// trailing section, numbered by first reference or definition, whichever
// the walk reaches first.
package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/cronokirby/clog/internal/markdown"
)

// LinkResolver resolves a [[...]] name to the target page's URL.
type LinkResolver interface {
	ResolveLink(name string) (string, bool)
}

// MathRenderer renders one TeX expression to HTML. display selects display
// (block) mode over inline mode.
type MathRenderer interface {
	Render(expr string, display bool) (string, error)
}

// Renderer holds the per-site collaborators shared by every document.
// A nil Links treats every reference as unresolved; a nil Math renders
// every expression verbatim without warning.
type Renderer struct {
	Links LinkResolver
	Math  MathRenderer
	// Warn receives non-fatal diagnostics such as math service failures.
	// Defaults to os.Stderr.
	Warn io.Writer
}

// Log records facts discovered while rendering one document.
type Log struct {
	// HasMath is set when the document contains any math expression,
	// whether or not the math service rendered it.
	HasMath bool
}

// UnsupportedError reports a markdown construct the renderer has no HTML
// form for.
type UnsupportedError struct {
	Kind string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported markdown node %s", e.Kind)
}

// workItem is one pending unit on the render stack: either a node to emit
// or a literal string. Exactly one of the two is set.
type workItem struct {
	node ast.Node
	text string
}

// state is the per-document render state.
type state struct {
	r      *Renderer
	w      *bufio.Writer
	source []byte
	log    *Log

	// Footnotes are numbered by first reference. ordinals maps a footnote's
	// parser index to its slot; slotIndex is the inverse. defs collects the
	// definitions seen in the document, keyed by parser index.
	ordinals  map[int]int
	slotIndex []int
	defs      map[int]*east.Footnote
}

// Render writes doc as HTML to w and returns what it learned along the way.
// source must be the bytes doc was parsed from.
func (r *Renderer) Render(w io.Writer, source []byte, doc ast.Node) (*Log, error) {
	st := &state{
		r:        r,
		w:        bufio.NewWriter(w),
		source:   source,
		log:      &Log{},
		ordinals: make(map[int]int),
		defs:     make(map[int]*east.Footnote),
	}
	if err := st.walk(doc); err != nil {
		return nil, err
	}
	if err := st.emitFootnoteSection(); err != nil {
		return nil, err
	}
	if err := st.w.Flush(); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return st.log, nil
}

func (r *Renderer) warnf(format string, args ...interface{}) {
	w := r.Warn
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}

func (st *state) walk(root ast.Node) error {
	stack := []workItem{{node: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node == nil {
			st.w.WriteString(it.text)
			continue
		}
		if err := st.emit(&stack, it.node); err != nil {
			return err
		}
	}
	return nil
}

// pushChildren schedules n's children followed by a closing literal.
// Children go on in reverse so they pop in document order.
func pushChildren(stack *[]workItem, n ast.Node, closing string) {
	if closing != "" {
		*stack = append(*stack, workItem{text: closing})
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		*stack = append(*stack, workItem{node: c})
	}
}

func (st *state) emit(stack *[]workItem, node ast.Node) error {
	switch n := node.(type) {
	case *ast.Document:
		pushChildren(stack, n, "")

	case *ast.Heading:
		fmt.Fprintf(st.w, "<h%d>", n.Level)
		pushChildren(stack, n, fmt.Sprintf("</h%d>\n", n.Level))

	case *ast.Paragraph:
		st.w.WriteString("<p>")
		pushChildren(stack, n, "</p>\n")

	case *ast.TextBlock:
		// Tight list items wrap their content in a text block instead of a
		// paragraph; the content renders bare.
		pushChildren(stack, n, "")

	case *ast.Text:
		st.emitText(n)

	case *ast.String:
		if n.IsRaw() {
			st.w.Write(n.Value)
		} else {
			st.w.WriteString(html.EscapeString(string(n.Value)))
		}

	case *ast.Emphasis:
		tag := "em"
		if n.Level == 2 {
			tag = "strong"
		}
		fmt.Fprintf(st.w, "<%s>", tag)
		pushChildren(stack, n, fmt.Sprintf("</%s>", tag))

	case *ast.CodeSpan:
		st.w.WriteString("<code>")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				st.w.WriteString(html.EscapeString(string(t.Segment.Value(st.source))))
			}
		}
		st.w.WriteString("</code>")

	case *ast.Link:
		fmt.Fprintf(st.w, "<a href=\"%s\">", html.EscapeString(string(n.Destination)))
		pushChildren(stack, n, "</a>")

	case *ast.AutoLink:
		url := string(n.URL(st.source))
		if n.AutoLinkType == ast.AutoLinkEmail {
			url = "mailto:" + url
		}
		label := html.EscapeString(string(n.Label(st.source)))
		fmt.Fprintf(st.w, "<a href=\"%s\">%s</a>", html.EscapeString(url), label)

	case *ast.Image:
		fmt.Fprintf(st.w, "<img src=\"%s\" alt=\"%s\"/>",
			html.EscapeString(string(n.Destination)),
			html.EscapeString(string(nodeText(n, st.source))))

	case *ast.List:
		tag := "ul"
		if n.IsOrdered() {
			tag = "ol"
		}
		if n.IsOrdered() && n.Start != 1 {
			fmt.Fprintf(st.w, "<ol start=\"%d\">\n", n.Start)
		} else {
			fmt.Fprintf(st.w, "<%s>\n", tag)
		}
		pushChildren(stack, n, fmt.Sprintf("</%s>\n", tag))

	case *ast.ListItem:
		st.w.WriteString("<li>")
		pushChildren(stack, n, "</li>\n")

	case *ast.Blockquote:
		st.w.WriteString("<blockquote>\n")
		pushChildren(stack, n, "</blockquote>\n")

	case *ast.ThematicBreak:
		st.w.WriteString("<hr/>\n")

	case *ast.FencedCodeBlock:
		lang := n.Language(st.source)
		if len(lang) > 0 {
			fmt.Fprintf(st.w, "<pre><code class=\"language-%s\">", html.EscapeString(string(lang)))
		} else {
			st.w.WriteString("<pre><code>")
		}
		st.emitLinesEscaped(n)
		st.w.WriteString("</code></pre>\n")

	case *ast.CodeBlock:
		st.w.WriteString("<pre><code>")
		st.emitLinesEscaped(n)
		st.w.WriteString("</code></pre>\n")

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			st.w.Write(line.Value(st.source))
		}
		if n.HasClosure() {
			st.w.Write(n.ClosureLine.Value(st.source))
		}

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			st.w.Write(seg.Value(st.source))
		}

	case *east.Table:
		st.w.WriteString("<table>\n")
		pushChildren(stack, n, "</table>\n")

	case *east.TableHeader:
		st.w.WriteString("<tr>")
		pushChildren(stack, n, "</tr>\n")

	case *east.TableRow:
		st.w.WriteString("<tr>")
		pushChildren(stack, n, "</tr>\n")

	case *east.TableCell:
		tag := "td"
		if n.Parent() != nil && n.Parent().Kind() == east.KindTableHeader {
			tag = "th"
		}
		fmt.Fprintf(st.w, "<%s>", tag)
		pushChildren(stack, n, fmt.Sprintf("</%s>", tag))

	case *east.Strikethrough:
		st.w.WriteString("<del>")
		pushChildren(stack, n, "</del>")

	case *east.TaskCheckBox:
		if n.IsChecked {
			st.w.WriteString("<input type=\"checkbox\" checked disabled/> ")
		} else {
			st.w.WriteString("<input type=\"checkbox\" disabled/> ")
		}

	case *east.FootnoteLink:
		ord, ok := st.ordinals[n.Index]
		if !ok {
			ord = len(st.slotIndex)
			st.ordinals[n.Index] = ord
			st.slotIndex = append(st.slotIndex, n.Index)
		}
		fmt.Fprintf(st.w, "<sup><a href=\"#fn-%d\">%d</a></sup>", n.Index, ord+1)

	case *east.FootnoteBacklink:
		// No return arrows; the trailing section stands alone.

	case *east.FootnoteList:
		// A definition claims a slot too, so one that was never referenced
		// still appears in the trailing section.
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			fn, ok := c.(*east.Footnote)
			if !ok {
				continue
			}
			st.defs[fn.Index] = fn
			if _, seen := st.ordinals[fn.Index]; !seen {
				st.ordinals[fn.Index] = len(st.slotIndex)
				st.slotIndex = append(st.slotIndex, fn.Index)
			}
		}

	case *markdown.WikiLink:
		st.emitWikiLink(n)

	case *markdown.InlineMath:
		st.emitMath(string(n.Expr), false)

	case *markdown.MathBlock:
		st.emitMath(string(n.Expr), true)

	default:
		return &UnsupportedError{Kind: node.Kind().String()}
	}
	return nil
}

// emitText writes a text node, honoring trailing line breaks.
func (st *state) emitText(n *ast.Text) {
	st.w.WriteString(html.EscapeString(string(n.Segment.Value(st.source))))
	if n.HardLineBreak() {
		st.w.WriteString("<br/>\n")
	} else if n.SoftLineBreak() {
		st.w.WriteString("\n")
	}
}

// emitWikiLink resolves a [[...]] reference against the link resolver. An
// unresolved reference renders as emphasized text.
func (st *state) emitWikiLink(n *markdown.WikiLink) {
	display := html.EscapeString(n.DisplayOrName())
	if st.r.Links != nil {
		if url, ok := st.r.Links.ResolveLink(n.Name); ok {
			fmt.Fprintf(st.w, "<a href=\"%s\">%s</a>", html.EscapeString(url), display)
			return
		}
	}
	fmt.Fprintf(st.w, "<em>%s</em>", display)
}

func (st *state) emitLinesEscaped(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		st.w.WriteString(html.EscapeString(string(line.Value(st.source))))
	}
}

// emitMath writes one math expression, asking the math service when one is
// configured and falling back to verbatim output otherwise.
func (st *state) emitMath(expr string, display bool) {
	st.log.HasMath = true
	if st.r.Math != nil {
		out, err := st.r.Math.Render(expr, display)
		if err == nil {
			if display {
				st.w.WriteString("<span class=\"math math-display\">")
				st.w.WriteString(out)
				st.w.WriteString("</span>\n")
			} else {
				st.w.WriteString("<span class=\"math\">")
				st.w.WriteString(out)
				st.w.WriteString("</span>")
			}
			return
		}
		st.r.warnf("clog: warning: math render failed, keeping expression verbatim: %v\n", err)
	}
	if display {
		st.w.WriteString("<pre>\n<code>\n$$\n")
		st.w.WriteString(html.EscapeString(expr))
		st.w.WriteString("\n$$\n</code>\n</pre>\n")
	} else {
		st.w.WriteString("<code>$")
		st.w.WriteString(html.EscapeString(expr))
		st.w.WriteString("$</code>")
	}
}

// emitFootnoteSection writes the deferred footnote bodies. The section is
// always present, even when the document has no footnotes. A referenced
// footnote with no definition renders as a placeholder item. Footnote
// bodies may themselves reference footnotes; slots discovered while
// emitting are appended to the same list.
func (st *state) emitFootnoteSection() error {
	st.w.WriteString("<section class=\"footnotes\">\n<ol>\n")
	for slot := 0; slot < len(st.slotIndex); slot++ {
		idx := st.slotIndex[slot]
		fn, ok := st.defs[idx]
		if !ok {
			st.w.WriteString("<li>???</li>\n")
			continue
		}
		fmt.Fprintf(st.w, "<li id=\"fn-%d\">", idx)
		for c := fn.FirstChild(); c != nil; c = c.NextSibling() {
			if err := st.walk(c); err != nil {
				return err
			}
		}
		st.w.WriteString("</li>\n")
	}
	st.w.WriteString("</ol>\n</section>\n")
	return nil
}

// nodeText collects the plain text under n.
func nodeText(n ast.Node, source []byte) []byte {
	var out []byte
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				out = append(out, t.Segment.Value(source)...)
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}
