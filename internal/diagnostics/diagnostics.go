package diagnostics

import (
	"fmt"

	"github.com/statewire/statewire/internal/token"
)

type ErrorCode string

// Error codes are grouped by stage: L = lexer, P = parser, T = transform,
// C = configuration, H = hashing/filesystem.
const (
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated string or template

	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // no prefix parse function
	ErrP003 ErrorCode = "P003" // mismatched JSX closing tag
	ErrP006 ErrorCode = "P006" // recursion depth limit

	ErrT001 ErrorCode = "T001" // no enclosing owner for a managed reference
	ErrT002 ErrorCode = "T002" // managed reference with no registry entry
	ErrT003 ErrorCode = "T003" // synthesis failure, node left unmodified
	ErrT004 ErrorCode = "T004" // duplicate managed name across owners
	ErrT005 ErrorCode = "T005" // managed declaration outside any owner
	ErrT006 ErrorCode = "T006" // unsupported managed write (compound assignment, update)

	ErrC001 ErrorCode = "C001" // malformed configuration, defaults applied
	ErrH001 ErrorCode = "H001" // file hash failure, sentinel used
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityDebug
)

// DiagnosticError is one structured diagnostic. Every fallible step in the
// pipeline reports through this type instead of aborting; the build is
// fail-soft by contract.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	File     string
	Line     int
	Column   int
	Message  string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Severity: SeverityError,
		Line:     tok.Line,
		Column:   tok.Column,
		Message:  msg,
	}
}

func NewWarning(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	e := NewError(code, tok, msg)
	e.Severity = SeverityWarning
	return e
}

// NewDebug records a degraded-to-no-op decision. Silent no-transformation is
// a correctness hazard for the end user, so these are kept observable even
// though they never fail the build.
func NewDebug(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	e := NewError(code, tok, msg)
	e.Severity = SeverityDebug
	return e
}

func (e *DiagnosticError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("[%s] %s:%d:%d: %s", e.Code, file, e.Line, e.Column, e.Message)
}

// HasErrors reports whether any diagnostic in the list is a hard error.
func HasErrors(errs []*DiagnosticError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
