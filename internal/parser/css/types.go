package css

import "strings"

// Kind tags each variant of the rule tree
type Kind int

const (
	// KindStylesheet is the root of a parsed fragment
	KindStylesheet Kind = iota
	// KindRule is a style rule: selectors plus a declaration block
	KindRule
	// KindGroup is any other block-bearing construct (@media, @supports,
	// @font-face, @keyframes and its from/to/percentage blocks)
	KindGroup
	// KindSelector is one selector of a selector list
	KindSelector
	// KindDeclaration is a property: value pair
	KindDeclaration
	// KindRaw is a statement kept verbatim (@import, @charset, unparseable text)
	KindRaw
	// KindText is a verbatim source fragment
	KindText
	// KindComment is a /* */ comment
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindStylesheet:
		return "stylesheet"
	case KindRule:
		return "rule"
	case KindGroup:
		return "group"
	case KindSelector:
		return "selector"
	case KindDeclaration:
		return "declaration"
	case KindRaw:
		return "raw"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// Node is one variant of the rule tree.
//
// Children exposes every ordered child collection of the node, as pointers so
// that callers can filter them in place. Comments may appear in any of them.
type Node interface {
	Kind() Kind
	Children() []*[]Node
}

// Stylesheet is the root of a parsed fragment
type Stylesheet struct {
	Rules []Node
}

// Rule is a style rule. Declarations may also hold nested rules and groups.
type Rule struct {
	Selectors    []Node
	Declarations []Node
}

// Group is a block-bearing at-rule or keyframe block. Prelude is everything
// before the opening brace, e.g. "@media screen" or "50%".
type Group struct {
	Prelude []Node
	Rules   []Node
}

// Selector is one entry of a selector list
type Selector struct {
	Parts []Node
}

// Declaration is a property: value pair, without its terminating semicolon
type Declaration struct {
	Parts []Node
}

// Raw is a statement with no block, printed verbatim
type Raw struct {
	Parts []Node
}

// Text is a verbatim source fragment
type Text struct {
	Value string
}

// Comment is a /* */ comment, delimiters included
type Comment struct {
	Value string
}

func (*Stylesheet) Kind() Kind  { return KindStylesheet }
func (*Rule) Kind() Kind        { return KindRule }
func (*Group) Kind() Kind       { return KindGroup }
func (*Selector) Kind() Kind    { return KindSelector }
func (*Declaration) Kind() Kind { return KindDeclaration }
func (*Raw) Kind() Kind         { return KindRaw }
func (*Text) Kind() Kind        { return KindText }
func (*Comment) Kind() Kind     { return KindComment }

func (s *Stylesheet) Children() []*[]Node  { return []*[]Node{&s.Rules} }
func (r *Rule) Children() []*[]Node        { return []*[]Node{&r.Selectors, &r.Declarations} }
func (g *Group) Children() []*[]Node       { return []*[]Node{&g.Prelude, &g.Rules} }
func (s *Selector) Children() []*[]Node    { return []*[]Node{&s.Parts} }
func (d *Declaration) Children() []*[]Node { return []*[]Node{&d.Parts} }
func (r *Raw) Children() []*[]Node         { return []*[]Node{&r.Parts} }
func (*Text) Children() []*[]Node          { return nil }
func (*Comment) Children() []*[]Node       { return nil }

// Property returns the declaration's property name
func (d *Declaration) Property() string {
	property, _, _ := strings.Cut(joinParts(d.Parts), ":")
	return strings.TrimSpace(property)
}

// Value returns the declaration's value, including any !important flag
func (d *Declaration) Value() string {
	_, value, _ := strings.Cut(joinParts(d.Parts), ":")
	return strings.TrimSpace(value)
}

// Walk calls visit for n and every node below it, depth first in source
// order. Returning false from visit skips the node's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, list := range n.Children() {
		for _, child := range *list {
			Walk(child, visit)
		}
	}
}

// joinParts concatenates text and comment fragments verbatim, trimmed.
// Two text fragments only meet where a comment was pruned from between them;
// there the join collapses doubled whitespace and keeps word tokens apart.
func joinParts(parts []Node) string {
	var b strings.Builder
	var last byte
	prevText := false
	for _, part := range parts {
		switch p := part.(type) {
		case *Text:
			value := p.Value
			if prevText && b.Len() > 0 && value != "" {
				switch {
				case isSpace(last):
					value = strings.TrimLeft(value, " \t\r\n\f")
				case isWordByte(last) && isWordByte(value[0]):
					b.WriteByte(' ')
				}
			}
			if value != "" {
				b.WriteString(value)
				last = value[len(value)-1]
			}
			prevText = true
		case *Comment:
			b.WriteString(p.Value)
			last = '/'
			prevText = false
		}
	}
	return strings.TrimSpace(b.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// isWordByte reports bytes that would merge into one token with a neighbour
func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '%' || c >= 0x80
}
