// Package diag provides the fault (diagnostic) type shared by the scanner, parser and interpreter.
package diag

import (
	"fmt"

	"tlox/internal/span"
	"tlox/internal/token"
)

// Kind identifies the pipeline stage that reported a diagnostic.
type Kind int

const (
	Scan Kind = iota
	Parse
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Scan:
		return "scan"
	case Parse:
		return "parse"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single reported fault.
type Diagnostic struct {
	Code    string        `json:"code"`           // stable error code, e.g. "E1001"
	Kind    Kind          `json:"kind"`           // stage that reported it
	Message string        `json:"message"`        // human-readable description
	Pos     span.Position `json:"pos"`            // source location
	Lexeme  string        `json:"lexeme"`         // offending source text
	AtEnd   bool          `json:"atEnd"`          // offending token is EOF
	Hint    string        `json:"hint,omitempty"` // optional hint
}

// Location is the text shown after "at" in the canonical form: "end" for EOF, else the lexeme.
func (d Diagnostic) Location() string {
	if d.AtEnd {
		return "end"
	}
	return d.Lexeme
}

// String returns the canonical one-line form:
//
//	[line: L, column: C at LOCATION] error: MESSAGE
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line: %d, column: %d at %s] error: %s", d.Pos.Line, d.Pos.Column, d.Location(), d.Message)
}

// Errorf creates a diagnostic positioned at pos with the given offending text.
func Errorf(code string, kind Kind, pos span.Position, lexeme string, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Lexeme:  lexeme,
	}
}

// AtToken creates a diagnostic positioned at tok.
func AtToken(code string, kind Kind, tok token.Token, format string, args ...interface{}) Diagnostic {
	d := Errorf(code, kind, tok.Pos, tok.Lexeme, format, args...)
	d.AtEnd = tok.Kind == token.EOF
	return d
}
