package types

import (
	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/documents"
	"github.com/tliron/glsp"
)

// ServerContext provides the dependencies LSP handlers need, so handlers can
// be tested against a mock
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager

	// Workspace operations
	RootPath() string
	SetRootPath(path string)

	// Configuration read from the workspace root
	Config() *config.Config
	LoadConfig() error

	// LSP context (for notifications outside a request)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)
}
