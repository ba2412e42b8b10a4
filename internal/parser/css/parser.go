package css

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser builds rule trees from CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		return NewParser()
	},
}

// NewParser creates a new CSS parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(cssLang); err != nil {
		panic(fmt.Sprintf("failed to set CSS language: %v", err))
	}

	return &Parser{
		parser: parser,
	}
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

// Parse parses CSS into a rule tree. Malformed input does not fail: anything
// the grammar cannot place becomes a Raw node holding the original text.
func (p *Parser) Parse(source string) (*Stylesheet, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	b := builder{source: sourceBytes}
	return &Stylesheet{Rules: b.items(tree.RootNode())}, nil
}

// builder converts the tree-sitter CST into rule tree variants
type builder struct {
	source []byte
}

// items converts the named children of a container (stylesheet, block,
// keyframe_block_list) into rule tree nodes.
//
// Error recovery can split one statement into several nodes, e.g. "a/**/b {}"
// becomes "a" and the rule "b {}". A statement runs until ";" or a closing
// brace, so a node without either is joined with what follows and the whole
// span is kept verbatim, comments included: removing them would turn invalid
// CSS into a different, valid rule.
func (b *builder) items(container *sitter.Node) []Node {
	var children []*sitter.Node
	for i := uint(0); i < container.ChildCount(); i++ {
		if child := container.Child(i); child.IsNamed() {
			children = append(children, child)
		}
	}

	var nodes []Node
	for i := 0; i < len(children); i++ {
		child := children[i]
		if last := b.statementEnd(children, i); last > i {
			nodes = append(nodes, &Raw{Parts: []Node{
				&Text{Value: b.text(child.StartByte(), children[last].EndByte())},
			}})
			i = last
			continue
		}
		nodes = append(nodes, b.item(child))
	}
	return nodes
}

// statementEnd returns the index of the last node belonging to the statement
// that starts at children[i]. It is i unless that node is unterminated and
// another statement node follows.
func (b *builder) statementEnd(children []*sitter.Node, i int) int {
	last := i
	if children[i].Kind() == "comment" || b.terminated(children[i]) {
		return last
	}
	for j := i + 1; j < len(children); j++ {
		if children[j].Kind() == "comment" {
			continue
		}
		last = j
		if b.terminated(children[j]) {
			break
		}
	}
	return last
}

// terminated reports whether node's text ends a statement
func (b *builder) terminated(node *sitter.Node) bool {
	text := strings.TrimRight(b.text(node.StartByte(), node.EndByte()), " \t\r\n\f")
	return strings.HasSuffix(text, ";") || strings.HasSuffix(text, "}")
}

func (b *builder) item(node *sitter.Node) Node {
	switch node.Kind() {
	case "comment":
		return &Comment{Value: b.text(node.StartByte(), node.EndByte())}

	case "declaration":
		end := node.EndByte()
		if n := node.ChildCount(); n > 0 {
			if last := node.Child(n - 1); last.Kind() == ";" {
				end = last.StartByte()
			}
		}
		return &Declaration{Parts: b.fragments(node, node.StartByte(), end)}

	case "rule_set":
		if block := childOfKind(node, "block"); block != nil {
			return &Rule{
				Selectors:    b.selectors(node, block),
				Declarations: b.items(block),
			}
		}
	}

	if block := childOfKind(node, "block", "keyframe_block_list"); block != nil {
		return &Group{
			Prelude: b.fragments(node, node.StartByte(), block.StartByte()),
			Rules:   b.items(block),
		}
	}

	return &Raw{Parts: b.fragments(node, node.StartByte(), node.EndByte())}
}

// selectors converts everything in a rule_set before its block into a
// selector list. Comments between selectors stay in the list as siblings.
func (b *builder) selectors(ruleSet, block *sitter.Node) []Node {
	var nodes []Node
	for i := uint(0); i < ruleSet.ChildCount(); i++ {
		child := ruleSet.Child(i)
		if child.StartByte() >= block.StartByte() {
			break
		}
		switch {
		case child.Kind() == "comment":
			nodes = append(nodes, b.item(child))
		case child.Kind() == "selectors":
			for j := uint(0); j < child.ChildCount(); j++ {
				selector := child.Child(j)
				if !selector.IsNamed() {
					continue
				}
				if selector.Kind() == "comment" {
					nodes = append(nodes, b.item(selector))
					continue
				}
				nodes = append(nodes, &Selector{
					Parts: b.fragments(selector, selector.StartByte(), selector.EndByte()),
				})
			}
		case child.IsNamed():
			nodes = append(nodes, &Selector{
				Parts: b.fragments(child, child.StartByte(), child.EndByte()),
			})
		}
	}
	return nodes
}

// fragments splits the source between start and end into Text and Comment
// nodes. Comments are found at any depth below node, whatever its kind, so
// constructs the builder does not model still expose their comments.
func (b *builder) fragments(node *sitter.Node, start, end uint) []Node {
	var comments []*sitter.Node
	collectComments(node, start, end, &comments)

	var parts []Node
	pos := start
	for _, c := range comments {
		if c.StartByte() > pos {
			parts = append(parts, &Text{Value: b.text(pos, c.StartByte())})
		}
		parts = append(parts, &Comment{Value: b.text(c.StartByte(), c.EndByte())})
		pos = c.EndByte()
	}
	if end > pos {
		parts = append(parts, &Text{Value: b.text(pos, end)})
	}
	return parts
}

func (b *builder) text(start, end uint) string {
	return string(b.source[start:end])
}

// collectComments appends every comment node within [start, end) below node
func collectComments(node *sitter.Node, start, end uint, comments *[]*sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.EndByte() <= start || child.StartByte() >= end {
			continue
		}
		if child.Kind() == "comment" {
			*comments = append(*comments, child)
			continue
		}
		collectComments(child, start, end, comments)
	}
}

// childOfKind returns the first direct child whose kind is one of kinds
func childOfKind(node *sitter.Node, kinds ...string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		for _, kind := range kinds {
			if child.Kind() == kind {
				return child
			}
		}
	}
	return nil
}
