package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/cronokirby/clog/internal/wikilink"
)

// WikiLink is a [[Name]] or [[Name|Display]] reference to another page.
// Display is empty when the reference carries no display text.
type WikiLink struct {
	ast.BaseInline
	Name    string
	Display string
}

// KindWikiLink is the node kind of WikiLink nodes.
var KindWikiLink = ast.NewNodeKind("WikiLink")

// Kind implements ast.Node.
func (n *WikiLink) Kind() ast.NodeKind { return KindWikiLink }

// Dump implements ast.Node.
func (n *WikiLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":    n.Name,
		"Display": n.Display,
	}, nil)
}

// DisplayOrName returns the display text if one was given, else the name.
func (n *WikiLink) DisplayOrName() string {
	if n.Display != "" {
		return n.Display
	}
	return n.Name
}

// wikiLinkParser recognizes [[...]] references during inline parsing. It
// runs before the standard link parser, so a complete reference wins over
// a bare '[' while anything malformed falls through as ordinary text.
type wikiLinkParser struct{}

// Trigger implements parser.InlineParser.
func (wikiLinkParser) Trigger() []byte { return []byte{'['} }

// Parse implements parser.InlineParser. References never span lines.
func (wikiLinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	seg, ok := wikilink.Lead(string(line))
	if !ok {
		return nil
	}
	block.Advance(len(seg.Raw))
	return &WikiLink{Name: seg.Name, Display: seg.Display}
}
