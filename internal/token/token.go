// Package token defines the tokens produced by the scanner.
package token

import (
	"fmt"
	"strconv"

	"tlox/internal/span"
)

// Kind represents the lexical category of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Single-character tokens
	LEFT_PAREN  // (
	RIGHT_PAREN // )
	LEFT_BRACE  // {
	RIGHT_BRACE // }
	COMMA       // ,
	DOT         // .
	MINUS       // -
	PLUS        // +
	SEMICOLON   // ;
	SLASH       // /
	STAR        // *
	QUESTION    // ?
	COLON       // :

	// One or two character tokens
	BANG          // !
	BANG_EQUAL    // !=
	EQUAL         // =
	EQUAL_EQUAL   // ==
	GREATER       // >
	GREATER_EQUAL // >=
	LESS          // <
	LESS_EQUAL    // <=
	PLUS_PLUS     // ++
	MINUS_MINUS   // --

	// Literals
	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	AND
	BREAK
	CLASS
	CONTINUE
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	LEFT_PAREN:  "(",
	RIGHT_PAREN: ")",
	LEFT_BRACE:  "{",
	RIGHT_BRACE: "}",
	COMMA:       ",",
	DOT:         ".",
	MINUS:       "-",
	PLUS:        "+",
	SEMICOLON:   ";",
	SLASH:       "/",
	STAR:        "*",
	QUESTION:    "?",
	COLON:       ":",

	BANG:          "!",
	BANG_EQUAL:    "!=",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	LESS:          "<",
	LESS_EQUAL:    "<=",
	PLUS_PLUS:     "++",
	MINUS_MINUS:   "--",

	IDENTIFIER: "IDENTIFIER",
	STRING:     "STRING",
	NUMBER:     "NUMBER",

	AND:      "and",
	BREAK:    "break",
	CLASS:    "class",
	CONTINUE: "continue",
	ELSE:     "else",
	FALSE:    "false",
	FOR:      "for",
	FUN:      "fun",
	IF:       "if",
	NIL:      "nil",
	OR:       "or",
	PRINT:    "print",
	RETURN:   "return",
	SUPER:    "super",
	THIS:     "this",
	TRUE:     "true",
	VAR:      "var",
	WHILE:    "while",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= AND && k <= WHILE
}

// IsLiteral returns true if the kind is an identifier, string or number.
func (k Kind) IsLiteral() bool {
	return k >= IDENTIFIER && k <= NUMBER
}

var keywords = map[string]Kind{
	"and":      AND,
	"break":    BREAK,
	"class":    CLASS,
	"continue": CONTINUE,
	"else":     ELSE,
	"false":    FALSE,
	"for":      FOR,
	"fun":      FUN,
	"if":       IF,
	"nil":      NIL,
	"or":       OR,
	"print":    PRINT,
	"return":   RETURN,
	"super":    SUPER,
	"this":     THIS,
	"true":     TRUE,
	"var":      VAR,
	"while":    WHILE,
}

// LookupIdent returns the keyword Kind for ident, or IDENTIFIER if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENTIFIER
}

// Token represents a lexical token with its kind, source text, literal payload and position.
//
// Literal is a float64 for NUMBER, the unescaped string for STRING, and nil otherwise.
type Token struct {
	Kind    Kind          `json:"kind"`
	Lexeme  string        `json:"lexeme"`
	Literal any           `json:"literal,omitempty"`
	Pos     span.Position `json:"pos"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	switch lit := t.Literal.(type) {
	case float64:
		return fmt.Sprintf("%s %q %s %s", t.Kind, t.Lexeme, strconv.FormatFloat(lit, 'f', -1, 64), t.Pos)
	case string:
		return fmt.Sprintf("%s %q %q %s", t.Kind, t.Lexeme, lit, t.Pos)
	default:
		return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Pos)
	}
}
