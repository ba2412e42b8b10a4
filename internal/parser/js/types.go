package js

import (
	"fmt"

	"bennypowers.dev/decomment/internal/parser/common"
)

// Comment is a comment token recorded while parsing. Comments never become
// part of the syntax tree handed to callers; they travel on this side channel.
type Comment struct {
	Span common.Span
	// Line and Column are 0-indexed
	Line   uint
	Column uint
	// Block is true for /* */ comments, false for line and HTML-like comments
	Block bool
}

// SyntaxError reports the first ERROR or MISSING node in a script
type SyntaxError struct {
	// Line and Column are 1-indexed
	Line   uint
	Column uint
	// Missing is true when the parser inserted a token the source lacks
	Missing bool
	Near    string
}

func (e *SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("syntax error at %d:%d: missing %s", e.Line, e.Column, e.Near)
	}
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Near)
}
