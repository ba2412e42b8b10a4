package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/decomment/internal/uriutil"
	"bennypowers.dev/decomment/lsp"
	"bennypowers.dev/decomment/lsp/methods/textDocument"
	"bennypowers.dev/decomment/lsp/types"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// FixtureRoot returns the path to the test fixtures directory
func FixtureRoot() string {
	return "testdata"
}

// LoadFixture reads a fixture file
func LoadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(FixtureRoot(), name)) //nolint:gosec // G304: Test fixture path - test code only
	require.NoError(t, err, "Failed to load fixture: %s", name)
	return string(data)
}

// CopyFixture writes a fixture into dir and returns its path
func CopyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(LoadFixture(t, name)), 0o644))
	return path
}

// NewTestServer creates a new LSP server for testing
func NewTestServer(t *testing.T) *lsp.Server {
	t.Helper()
	server, err := lsp.NewServer()
	require.NoError(t, err, "Failed to create test server")
	t.Cleanup(func() { _ = server.Close() })
	return server
}

// OpenFixture opens a fixture through the didOpen handler and returns its URI
func OpenFixture(t *testing.T, server *lsp.Server, dir, name, languageID string) string {
	t.Helper()
	path := CopyFixture(t, dir, name)
	uri := uriutil.PathToURI(path)
	err := textDocument.DidOpen(types.NewRequestContext(server, nil), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: languageID,
			Version:    1,
			Text:       LoadFixture(t, name),
		},
	})
	require.NoError(t, err)
	return uri
}
