package parser

import (
	"errors"
	"fmt"

	"github.com/cmmoran/argen/internal/scanner"
)

// Grammar errors.
var (
	ErrUnclosedAttributes = scanner.ErrUnclosedAttributes
	ErrMissingAttributes  = scanner.ErrMissingAttributes
	ErrUnexpectedEOF      = errors.New("unexpected end of file")
	ErrNesting            = errors.New("nested declaration not allowed")
	ErrOutsideContext     = errors.New("declaration outside of its context")
	ErrMalformedHeader    = errors.New("malformed declaration header")
	ErrDuplicatePackage   = errors.New("duplicate package directive")
)

// Metadata errors.
var (
	ErrInvalidProperty = errors.New("invalid property")
	ErrInvalidBool     = errors.New("invalid boolean value")
)

// ParseError locates a grammar or metadata error in a header file.
type ParseError struct {
	File   string
	Line   int // 1-based
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v: %s", e.File, e.Line, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// invalidBool is a metadata error matching both ErrInvalidProperty and
// ErrInvalidBool.
var invalidBool = fmt.Errorf("%w: %w", ErrInvalidProperty, ErrInvalidBool)
