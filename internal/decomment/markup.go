package decomment

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"bennypowers.dev/decomment/internal/parser/common"
	htmlparser "bennypowers.dev/decomment/internal/parser/html"
)

// Mode selects how markup is rewritten
type Mode int

const (
	// ModeDOM parses markup into a tree and serializes it back. The
	// serializer may normalize text that held no comments.
	ModeDOM Mode = iota
	// ModeSource cuts comment spans out of the original text and leaves
	// every other byte alone
	ModeSource
)

func (m Mode) String() string {
	switch m {
	case ModeDOM:
		return "dom"
	case ModeSource:
		return "source"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dom":
		return ModeDOM, nil
	case "source":
		return ModeSource, nil
	}
	return ModeDOM, fmt.Errorf("unknown mode %q", name)
}

// Markup removes every comment node from an HTML document or fragment by
// parsing it into a tree and serializing the result.
func Markup(text string) (Result, error) {
	doc, err := parseMarkup(text)
	if err != nil {
		return Result{}, NewParseError(GrammarMarkup, err)
	}

	removed := removeCommentNodes(doc)

	out, err := renderMarkup(doc)
	if err != nil {
		return Result{}, NewSerializeError(GrammarMarkup, err)
	}

	return Result{
		Content:      out,
		Modified:     out != text,
		RemovedCount: removed,
	}, nil
}

// MarkupSource removes markup comments by cutting their byte spans out of
// text. Lines left holding only a comment are dropped.
func MarkupSource(text string) (Result, error) {
	p := htmlparser.AcquireParser()
	defer htmlparser.ReleaseParser(p)

	spans, err := p.CommentSpans(text)
	if err != nil {
		return Result{}, NewParseError(GrammarMarkup, err)
	}

	out := common.Cut([]byte(text), spans, common.CutJoin)
	return Result{
		Content:      out,
		Modified:     out != text,
		RemovedCount: len(spans),
	}, nil
}

func removeMarkup(text string, mode Mode) (Result, error) {
	if mode == ModeSource {
		return MarkupSource(text)
	}
	return Markup(text)
}

// parseMarkup parses text as a full document when it opens with a doctype or
// a document-level element, and as a body fragment otherwise, so fragments
// round-trip without gaining <html>, <head> and <body> wrappers. The returned
// node is always a document node.
func parseMarkup(text string) (*html.Node, error) {
	// Scripting disabled parses <noscript> contents as markup
	scripting := html.ParseOptionEnableScripting(false)

	if isFullDocument(text) {
		return html.ParseWithOptions(strings.NewReader(text), scripting)
	}

	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragmentWithOptions(strings.NewReader(text), context, scripting)
	if err != nil {
		return nil, err
	}

	doc := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		doc.AppendChild(n)
	}
	return doc, nil
}

func renderMarkup(doc *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

var documentTags = []string{"!doctype", "html", "head", "body"}

func isFullDocument(text string) bool {
	rest := text
	for {
		rest = strings.TrimLeft(rest, " \t\r\n\f\ufeff")
		if !strings.HasPrefix(rest, "<!--") {
			break
		}
		end := strings.Index(rest, "-->")
		if end < 0 {
			return false
		}
		rest = rest[end+len("-->"):]
	}

	if !strings.HasPrefix(rest, "<") {
		return false
	}
	rest = rest[1:]
	for _, tag := range documentTags {
		if len(rest) < len(tag) || !strings.EqualFold(rest[:len(tag)], tag) {
			continue
		}
		if len(rest) == len(tag) {
			return true
		}
		switch rest[len(tag)] {
		case ' ', '\t', '\r', '\n', '\f', '>', '/':
			return true
		}
	}
	return false
}

// removeCommentNodes detaches every comment node under n and returns how many
// were removed. Children are snapshotted before descending so removal never
// disturbs the walk.
func removeCommentNodes(n *html.Node) int {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return 1
	}

	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}

	removed := 0
	for _, c := range children {
		removed += removeCommentNodes(c)
	}
	return removed
}
