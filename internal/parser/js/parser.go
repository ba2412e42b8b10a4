package js

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/decomment/internal/parser/common"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// maxNear bounds the source excerpt carried by a SyntaxError
const maxNear = 24

// Parser parses JavaScript module source with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}
		return &Parser{parser: parser}
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
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses source as a module and calls onComment once per comment, in
// source order. It returns a *SyntaxError if the source does not parse cleanly.
func (p *Parser) Parse(source string, onComment func(Comment)) error {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse JavaScript")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return syntaxError(root, sourceBytes)
	}

	if onComment != nil {
		walkComments(root, sourceBytes, onComment)
	}
	return nil
}

// Strip returns source with every comment removed, and the number removed.
// Everything outside comment spans is emitted unchanged.
func (p *Parser) Strip(source string) (string, int, error) {
	var spans []common.Span
	err := p.Parse(source, func(c Comment) {
		spans = append(spans, c.Span)
	})
	if err != nil {
		return "", 0, err
	}
	if len(spans) == 0 {
		return source, 0, nil
	}
	return common.Cut([]byte(source), spans, common.CutSeparate), len(spans), nil
}

// walkComments visits comment extras anywhere in the tree
func walkComments(node *sitter.Node, source []byte, onComment func(Comment)) {
	switch node.Kind() {
	case "comment", "html_comment":
		text := source[node.StartByte():node.EndByte()]
		onComment(Comment{
			Span:   common.Span{Start: node.StartByte(), End: node.EndByte()},
			Line:   node.StartPosition().Row,
			Column: node.StartPosition().Column,
			Block:  bytes.HasPrefix(text, []byte("/*")),
		})
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkComments(node.Child(i), source, onComment)
	}
}

// syntaxError locates the first ERROR or MISSING node below root
func syntaxError(root *sitter.Node, source []byte) *SyntaxError {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}

	near := strings.TrimSpace(string(source[bad.StartByte():bad.EndByte()]))
	if bad.IsMissing() {
		near = bad.Kind()
	}
	if len(near) > maxNear {
		near = near[:maxNear] + "…"
	}

	pos := bad.StartPosition()
	return &SyntaxError{
		Line:    pos.Row + 1,
		Column:  pos.Column + 1,
		Missing: bad.IsMissing(),
		Near:    near,
	}
}

func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
