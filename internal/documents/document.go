package documents

import "fmt"

// Language identifies which comment remover applies to a document
type Language int

const (
	// LanguageUnknown documents are tracked but never rewritten
	LanguageUnknown Language = iota
	LanguageHTML
	LanguageCSS
	LanguageJavaScript
)

func (l Language) String() string {
	switch l {
	case LanguageHTML:
		return "html"
	case LanguageCSS:
		return "css"
	case LanguageJavaScript:
		return "javascript"
	}
	return "unknown"
}

// LanguageFor maps an LSP language identifier to a Language
func LanguageFor(languageID string) Language {
	switch languageID {
	case "html", "xhtml":
		return LanguageHTML
	case "css":
		return LanguageCSS
	case "javascript", "javascriptreact":
		return LanguageJavaScript
	}
	return LanguageUnknown
}

// Document is an open text document as last synchronized by the client
type Document struct {
	uri        string
	languageID string
	content    string
	version    int
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

func (d *Document) URI() string        { return d.uri }
func (d *Document) LanguageID() string { return d.languageID }
func (d *Document) Language() Language { return LanguageFor(d.languageID) }
func (d *Document) Version() int       { return d.version }
func (d *Document) Content() string    { return d.content }

// update replaces the content, rejecting versions older than the current one
func (d *Document) update(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	return nil
}
