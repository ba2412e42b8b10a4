package documents

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/decomment/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager tracks the documents a client has open
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get retrieves a document by URI, or nil when it is not open
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// Count returns the number of open documents
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}

// Open starts tracking a document, replacing any previous copy
func (m *Manager) Open(uri, languageID string, version int, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[uri] = NewDocument(uri, languageID, version, content)
}

// Close stops tracking a document
func (m *Manager) Close(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}
	delete(m.documents, uri)
	return nil
}

// Change applies content changes in order. A change without a range replaces
// the whole document. Nothing is applied if any change is invalid.
func (m *Manager) Change(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		next, err := replaceRange(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("failed to apply changes: %w", err)
		}
		content = next
	}

	return doc.update(content, version)
}

func replaceRange(content string, r protocol.Range, text string) (string, error) {
	start, err := offsetAt(content, r.Start)
	if err != nil {
		return "", err
	}
	end, err := offsetAt(content, r.End)
	if err != nil {
		return "", err
	}
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d", r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:start] + text + content[end:], nil
}

// offsetAt converts a position in UTF-16 code units to a byte offset.
// Characters past the end of a line address the line end; the line after the
// last one addresses the end of the document.
func offsetAt(content string, pos protocol.Position) (int, error) {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		next := strings.IndexByte(content[offset:], '\n')
		if next < 0 {
			if line+1 == pos.Line {
				return len(content), nil
			}
			return 0, fmt.Errorf("line %d out of bounds", pos.Line)
		}
		offset += next + 1
	}

	lineText := content[offset:]
	if end := strings.IndexByte(lineText, '\n'); end >= 0 {
		lineText = lineText[:end]
	}
	return offset + position.UTF16ToByteOffset(lineText, int(pos.Character)), nil
}
