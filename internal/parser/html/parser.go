package html

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/decomment/internal/collections"
	"bennypowers.dev/decomment/internal/parser/common"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser handles parsing HTML to find comments and embedded regions
type Parser struct {
	parser       *sitter.Parser
	commentQuery *sitter.Query
	scriptQuery  *sitter.Query
	styleQuery   *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		commentQuery, qerr := sitter.NewQuery(htmlLang, `(comment) @comment`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile comment query: %v", qerr))
		}

		scriptQuery, qerr := sitter.NewQuery(htmlLang, `(script_element (start_tag) @tag (raw_text) @body)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile script query: %v", qerr))
		}

		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element (start_tag) @tag (raw_text) @body)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}

		return &Parser{
			parser:       parser,
			commentQuery: commentQuery,
			scriptQuery:  scriptQuery,
			styleQuery:   styleQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	for _, q := range []*sitter.Query{p.commentQuery, p.scriptQuery, p.styleQuery} {
		if q != nil {
			q.Close()
		}
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// CommentSpans returns the byte spans of every markup comment in source.
// Comment-like text inside <script>, <style> and attribute values is raw text
// to the grammar and never reported, nor is anything inside an element whose
// content browsers read as text (<textarea>, <title> and the like).
func (p *Parser) CommentSpans(source string) ([]common.Span, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse HTML")
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var spans []common.Span
	matches := cursor.Matches(p.commentQuery, tree.RootNode(), sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			if insideLiteralText(&node, sourceBytes) {
				continue
			}
			spans = append(spans, common.Span{
				Start: capture.Node.StartByte(),
				End:   capture.Node.EndByte(),
			})
		}
	}

	return spans, nil
}

// ParseRegions finds the raw text of every <script> and <style> element at any
// depth, in document order. Elements without content, and elements nested in
// text-only content such as a <textarea>, are not reported.
func (p *Parser) ParseRegions(source string) ([]Region, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse HTML")
	}
	defer tree.Close()

	root := tree.RootNode()
	var regions []Region
	regions = p.runRegionQuery(p.scriptQuery, ScriptTag, root, sourceBytes, regions)
	regions = p.runRegionQuery(p.styleQuery, StyleTag, root, sourceBytes, regions)

	slices.SortFunc(regions, func(a, b Region) int {
		return int(a.StartByte) - int(b.StartByte)
	})

	return regions, nil
}

// runRegionQuery executes a single element query and appends one region per match
func (p *Parser) runRegionQuery(query *sitter.Query, kind RegionKind, root *sitter.Node, sourceBytes []byte, regions []Region) []Region {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		region := Region{Kind: kind}
		foundBody := false

		for _, capture := range match.Captures {
			node := capture.Node
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				region.Type = typeAttribute(&node, sourceBytes)
			case "body":
				region.Content = string(sourceBytes[node.StartByte():node.EndByte()])
				region.StartByte = node.StartByte()
				region.EndByte = node.EndByte()
				region.StartLine = node.StartPosition().Row
				region.StartCol = node.StartPosition().Column
				foundBody = !insideLiteralText(&node, sourceBytes)
			}
		}

		if foundBody {
			regions = append(regions, region)
		}
	}

	return regions
}

// typeAttribute returns the value of the type attribute of a start_tag node
func typeAttribute(startTag *sitter.Node, sourceBytes []byte) string {
	for i := uint(0); i < startTag.ChildCount(); i++ {
		attr := startTag.Child(i)
		if attr == nil || attr.Kind() != "attribute" {
			continue
		}

		var name, value string
		for j := uint(0); j < attr.ChildCount(); j++ {
			child := attr.Child(j)
			switch child.Kind() {
			case "attribute_name":
				name = string(sourceBytes[child.StartByte():child.EndByte()])
			case "attribute_value":
				value = string(sourceBytes[child.StartByte():child.EndByte()])
			case "quoted_attribute_value":
				// The inner attribute_value is absent for type=""
				for k := uint(0); k < child.ChildCount(); k++ {
					if inner := child.Child(k); inner.Kind() == "attribute_value" {
						value = string(sourceBytes[inner.StartByte():inner.EndByte()])
					}
				}
			}
		}

		if strings.EqualFold(name, "type") {
			return value
		}
	}
	return ""
}

// literalTextElements hold content the HTML tokenizer reads as text (RCDATA,
// RAWTEXT or PLAINTEXT), so markup-looking runs inside them are not markup
var literalTextElements = collections.NewSet(
	"iframe",
	"noembed",
	"noframes",
	"plaintext",
	"textarea",
	"title",
	"xmp",
)

// foreignRoots start SVG and MathML content, where <title> is an ordinary element
var foreignRoots = collections.NewSet("svg", "math")

// insideLiteralText reports whether node sits in the content of a text-only
// element. The grammar parses that content as markup; browsers do not. A
// text-only name below <svg> or <math> is a foreign element and does not count.
func insideLiteralText(node *sitter.Node, sourceBytes []byte) bool {
	literal := false
	for n := node.Parent(); n != nil; n = n.Parent() {
		if n.Kind() != "element" {
			continue
		}
		switch name := strings.ToLower(elementName(n, sourceBytes)); {
		case foreignRoots.Has(name):
			literal = false
		case literalTextElements.Has(name):
			literal = true
		}
	}
	return literal
}

// elementName returns the tag name from an element's start tag
func elementName(element *sitter.Node, sourceBytes []byte) string {
	for i := uint(0); i < element.ChildCount(); i++ {
		tag := element.Child(i)
		if tag.Kind() != "start_tag" && tag.Kind() != "self_closing_tag" {
			continue
		}
		for j := uint(0); j < tag.ChildCount(); j++ {
			if name := tag.Child(j); name.Kind() == "tag_name" {
				return string(sourceBytes[name.StartByte():name.EndByte()])
			}
		}
		return ""
	}
	return ""
}
