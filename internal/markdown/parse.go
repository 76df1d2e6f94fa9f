// Package markdown assembles the markdown parser: GitHub-flavored
// extensions, footnotes, [[wiki link]] references, and the $-delimited
// math syntax.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
	goldmark.WithParserOptions(
		parser.WithInlineParsers(
			// Ahead of the standard link parser, which also triggers on '['.
			util.Prioritized(wikiLinkParser{}, 150),
		),
		parser.WithASTTransformers(
			util.Prioritized(mathTransformer{}, 100),
		),
	),
)

// Parse parses a document body into its syntax tree. The tree borrows from
// source, so callers must keep source alive while walking it.
func Parse(source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}
