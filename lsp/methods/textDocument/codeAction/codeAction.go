package codeaction

import (
	"context"
	"fmt"
	"strings"

	"bennypowers.dev/decomment/internal/decomment"
	"bennypowers.dev/decomment/internal/documents"
	"bennypowers.dev/decomment/internal/position"
	"bennypowers.dev/decomment/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// KindRemoveComments is the source action that strips every comment from a document
const KindRemoveComments protocol.CodeActionKind = "source.removeComments"

// CodeAction offers a whole-document edit removing comments from HTML
// (including embedded scripts and styles), CSS and JavaScript documents.
// Nothing is offered when the document has no comments or the client asked
// only for unrelated kinds.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	if !requested(params.Context.Only) {
		return nil, nil
	}

	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	content := doc.Content()
	cleaned, removed, err := removeComments(req, doc)
	if err != nil {
		req.AddWarning(fmt.Errorf("cannot remove comments from %s: %w", uri, err))
		return nil, nil
	}
	if removed == 0 || cleaned == content {
		return nil, nil
	}

	endLine, endChar := position.End(content)
	kind := KindRemoveComments
	action := protocol.CodeAction{
		Title: title(removed),
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range: protocol.Range{
							Start: protocol.Position{Line: 0, Character: 0},
							End:   protocol.Position{Line: endLine, Character: endChar},
						},
						NewText: cleaned,
					},
				},
			},
		},
	}

	return []protocol.CodeAction{action}, nil
}

func removeComments(req *types.RequestContext, doc *documents.Document) (string, int, error) {
	switch doc.Language() {
	case documents.LanguageHTML:
		result, err := decomment.Process(context.Background(), doc.Content(), req.Server.Config().Options())
		if err != nil {
			return "", 0, err
		}
		for _, failure := range result.Failures {
			req.AddWarning(fmt.Errorf("%s: %w", doc.URI(), failure))
		}
		return result.Content, result.Removed(), nil

	case documents.LanguageCSS:
		result, err := decomment.Style(doc.Content())
		return result.Content, result.RemovedCount, err

	case documents.LanguageJavaScript:
		result, err := decomment.Script(doc.Content())
		return result.Content, result.RemovedCount, err
	}
	return doc.Content(), 0, nil
}

// requested reports whether the client's only filter admits KindRemoveComments.
// Kinds are hierarchical: "source" admits "source.removeComments".
func requested(only []protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, kind := range only {
		if kind == KindRemoveComments || strings.HasPrefix(string(KindRemoveComments), string(kind)+".") {
			return true
		}
	}
	return false
}

func title(removed int) string {
	if removed == 1 {
		return "Remove 1 comment"
	}
	return fmt.Sprintf("Remove %d comments", removed)
}
