package testutil

import (
	"sync"

	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/documents"
	"bennypowers.dev/decomment/lsp/types"
	"github.com/tliron/glsp"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext implements types.ServerContext for handler tests
type MockServerContext struct {
	docs        *documents.Manager
	rootPath    string
	config      *config.Config
	glspContext *glsp.Context
	mu          sync.Mutex

	// LoadConfigFunc replaces LoadConfig when set
	LoadConfigFunc func() error

	LoadConfigCalls int
}

// NewMockServerContext creates a mock with default configuration
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: config.Default(),
	}
}

func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

func (m *MockServerContext) RootPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rootPath
}

func (m *MockServerContext) SetRootPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rootPath = path
}

func (m *MockServerContext) Config() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// SetConfig replaces the configuration handlers see
func (m *MockServerContext) SetConfig(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
}

func (m *MockServerContext) LoadConfig() error {
	m.mu.Lock()
	m.LoadConfigCalls++
	fn := m.LoadConfigFunc
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (m *MockServerContext) GLSPContext() *glsp.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.glspContext
}

func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.glspContext = ctx
}
