package html

import (
	"strings"

	"bennypowers.dev/decomment/internal/collections"
)

// RegionKind identifies the kind of embedded region found in HTML
type RegionKind int

const (
	// UnknownRegion is the zero value, indicating an uninitialized region kind
	UnknownRegion RegionKind = iota
	// ScriptTag represents source inside a <script> element
	ScriptTag
	// StyleTag represents CSS inside a <style> element
	StyleTag
)

func (k RegionKind) String() string {
	switch k {
	case ScriptTag:
		return "script"
	case StyleTag:
		return "style"
	}
	return "unknown"
}

// Region represents the raw text of a <script> or <style> element
type Region struct {
	Kind      RegionKind
	Content   string
	StartByte uint
	EndByte   uint
	StartLine uint
	StartCol  uint
	// Type is the element's type attribute, empty when absent
	Type string
}

// javaScriptTypes are the MIME type essences browsers execute as classic scripts
var javaScriptTypes = collections.NewSet(
	"application/ecmascript",
	"application/javascript",
	"application/x-ecmascript",
	"application/x-javascript",
	"text/ecmascript",
	"text/javascript",
	"text/javascript1.0",
	"text/javascript1.1",
	"text/javascript1.2",
	"text/javascript1.3",
	"text/javascript1.4",
	"text/javascript1.5",
	"text/jscript",
	"text/livescript",
	"text/x-ecmascript",
	"text/x-javascript",
)

// IsJavaScriptType reports whether a script element with the given type
// attribute holds JavaScript. Data blocks (JSON, templates, import maps) are not.
func IsJavaScriptType(typeAttr string) bool {
	essence, _, _ := strings.Cut(typeAttr, ";")
	essence = strings.ToLower(strings.TrimSpace(essence))
	if essence == "" || essence == "module" {
		return true
	}
	return javaScriptTypes.Has(essence)
}
