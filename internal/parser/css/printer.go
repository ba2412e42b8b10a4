package css

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Stringify prints a rule tree as expanded CSS: one declaration per line,
// two-space indentation, a blank line between top-level statements.
// Comments still present in the tree are printed where they stand.
func Stringify(sheet *Stylesheet) (string, error) {
	if sheet == nil {
		return "", fmt.Errorf("nil stylesheet")
	}
	var p printer
	out, err := p.list(sheet.Rules, 0, "\n\n")
	if err != nil {
		return "", err
	}
	return out, nil
}

type printer struct{}

// list prints each node at depth and joins the non-empty results with sep
func (p *printer) list(nodes []Node, depth int, sep string) (string, error) {
	pieces := make([]string, 0, len(nodes))
	for _, n := range nodes {
		piece, err := p.node(n, depth)
		if err != nil {
			return "", err
		}
		if piece != "" {
			pieces = append(pieces, piece)
		}
	}
	return strings.Join(pieces, sep), nil
}

func (p *printer) node(n Node, depth int) (string, error) {
	indent := strings.Repeat(indentUnit, depth)

	switch n := n.(type) {
	case *Rule:
		return p.block(indent+p.selectors(n.Selectors, indent), n.Declarations, depth)

	case *Group:
		return p.block(indent+joinParts(n.Prelude), n.Rules, depth)

	case *Declaration:
		text := joinParts(n.Parts)
		if text == "" {
			return "", nil
		}
		if !strings.Contains(text, ":") {
			return indent + text + ";", nil
		}
		if value := n.Value(); value != "" {
			return indent + n.Property() + ": " + value + ";", nil
		}
		return indent + n.Property() + ":;", nil

	case *Raw:
		if text := joinParts(n.Parts); text != "" {
			return indent + text, nil
		}
		return "", nil

	case *Comment:
		return indent + n.Value, nil

	case *Text:
		if text := strings.TrimSpace(n.Value); text != "" {
			return indent + text, nil
		}
		return "", nil

	case nil:
		return "", fmt.Errorf("nil node at depth %d", depth)
	}

	return "", fmt.Errorf("cannot print %s node at depth %d", n.Kind(), depth)
}

// block prints head followed by a brace-delimited list of children
func (p *printer) block(head string, children []Node, depth int) (string, error) {
	body, err := p.list(children, depth+1, "\n")
	if err != nil {
		return "", err
	}
	indent := strings.Repeat(indentUnit, depth)
	if body == "" {
		return head + " {}", nil
	}
	return head + " {\n" + body + "\n" + indent + "}", nil
}

// selectors joins a selector list one selector per line. Comments left in the
// list stay next to the selector they follow.
func (p *printer) selectors(nodes []Node, indent string) string {
	var b strings.Builder
	wroteSelector := false
	for _, n := range nodes {
		switch n := n.(type) {
		case *Selector:
			text := joinParts(n.Parts)
			if text == "" {
				continue
			}
			if wroteSelector {
				b.WriteString(",\n" + indent)
			}
			b.WriteString(text)
			wroteSelector = true
		case *Comment:
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(n.Value)
		}
	}
	return b.String()
}
