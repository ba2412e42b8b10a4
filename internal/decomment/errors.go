package decomment

import (
	"errors"
	"fmt"
)

// Grammar names carried by errors and region reports
const (
	GrammarMarkup = "markup"
	GrammarScript = "script"
	GrammarStyle  = "style"
)

// Sentinel errors for error type checking
var (
	// ErrParse indicates a parser rejected its input
	ErrParse = errors.New("parse failed")

	// ErrSerialize indicates text could not be regenerated from a tree
	ErrSerialize = errors.New("serialization failed")
)

// ParseError represents a grammar's parser rejecting its input
type ParseError struct {
	Grammar string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to process %s content: %v", e.Grammar, e.Cause)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Cause}
}

// NewParseError creates a new parse error
func NewParseError(grammar string, cause error) error {
	return &ParseError{
		Grammar: grammar,
		Cause:   cause,
	}
}

// SerializeError represents a failure to regenerate text from a tree
type SerializeError struct {
	Grammar string
	Cause   error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("failed to serialize %s content: %v", e.Grammar, e.Cause)
}

func (e *SerializeError) Unwrap() []error {
	return []error{ErrSerialize, e.Cause}
}

// NewSerializeError creates a new serialization error
func NewSerializeError(grammar string, cause error) error {
	return &SerializeError{
		Grammar: grammar,
		Cause:   cause,
	}
}

// RegionError reports an embedded region that was left unmodified because
// its sub-remover failed. Index counts regions of the same grammar from 0 in
// document order.
type RegionError struct {
	Grammar string
	Index   int
	Err     error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("%s region %d left unmodified: %v", e.Grammar, e.Index, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}
