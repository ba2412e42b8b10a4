// Package lsp serves comment removal to editors over the Language Server Protocol
package lsp

import (
	"sync"

	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/documents"
	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/internal/parser/css"
	"bennypowers.dev/decomment/internal/parser/html"
	"bennypowers.dev/decomment/internal/parser/js"
	"bennypowers.dev/decomment/lsp/methods/lifecycle"
	"bennypowers.dev/decomment/lsp/methods/textDocument"
	codeaction "bennypowers.dev/decomment/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/decomment/lsp/methods/workspace"
	"bennypowers.dev/decomment/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the decomment language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	context    *glsp.Context
	rootPath   string
	config     *config.Config
	mu         sync.RWMutex // Protects context, rootPath and config
}

// NewServer creates a new language server with default configuration
func NewServer() (*Server, error) {
	s := &Server{
		documents: documents.NewManager(),
		config:    config.Default(),
	}

	handler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
	}

	s.glspServer = server.NewServer(&handler, lifecycle.ServerName, false)
	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the pooled parsers. It is safe to call Close multiple times.
func (s *Server) Close() error {
	html.ClosePool()
	js.ClosePool()
	css.ClosePool()
	return nil
}

// Document returns the open document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootPath
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootPath = path
}

// Config returns the active configuration
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// LoadConfig reads configuration from the workspace root. On error the
// previous configuration stays active.
func (s *Server) LoadConfig() error {
	cfg, err := config.Load(s.RootPath())
	if err != nil {
		return err
	}

	if cfg.Source != "" {
		log.Info("Loaded configuration from %s", cfg.Source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}

// GLSPContext returns the client context stored at initialization
func (s *Server) GLSPContext() *glsp.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// SetGLSPContext stores the client context
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = ctx
}
