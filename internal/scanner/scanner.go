// Package scanner implements the lexical analysis (tokenization) for tlox.
package scanner

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"tlox/internal/diag"
	"tlox/internal/span"
	"tlox/internal/token"
)

// Scanner converts source text into an EOF-terminated token sequence.
// Faults are recorded as diagnostics and never stop the scan.
type Scanner struct {
	source string

	start    int           // offset of the first character of the current lexeme
	startPos span.Position // position of the first character of the current lexeme
	pos      int           // current read position in source
	line     int           // current line (1-based)
	col      int           // current column (1-based)

	tokens []token.Token
	diags  []diag.Diagnostic
}

// New creates a new Scanner for the given source text.
func New(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		col:    1,
	}
}

// ScanTokens scans the entire source and returns all tokens and diagnostics.
// The token slice always ends with exactly one EOF token.
func (s *Scanner) ScanTokens() ([]token.Token, []diag.Diagnostic) {
	for !s.isAtEnd() {
		s.start = s.pos
		s.startPos = s.curPos()
		s.scanToken()
	}

	s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Pos: s.curPos()})
	return s.tokens, s.diags
}

// ---- internal helpers ----

func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

// peek returns the current character without advancing, or 0 if at end.
func (s *Scanner) peek() byte {
	if s.pos >= len(s.source) {
		return 0
	}
	return s.source[s.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.source) {
		return 0
	}
	return s.source[s.pos+1]
}

// advance consumes the current character and returns it.
func (s *Scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

// match consumes the current character only if it is expected.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.pos] != expected {
		return false
	}
	s.advance()
	return true
}

// curPos returns the current position as a span.Position.
func (s *Scanner) curPos() span.Position {
	return span.Position{Offset: s.pos, Line: s.line, Column: s.col}
}

func (s *Scanner) lexeme() string {
	return s.source[s.start:s.pos]
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.Token{
		Kind:    kind,
		Lexeme:  s.lexeme(),
		Literal: literal,
		Pos:     s.startPos,
	})
}

// addError records a fault at the start of the current lexeme.
func (s *Scanner) addError(code, lexeme, format string, args ...interface{}) {
	s.diags = append(s.diags, diag.Errorf(code, diag.Scan, s.startPos, lexeme, format, args...))
}

// pick returns two if the next character is second, else one.
func (s *Scanner) pick(second byte, two, one token.Kind) token.Kind {
	if s.match(second) {
		return two
	}
	return one
}

// ---- token reading ----

func (s *Scanner) scanToken() {
	ch := s.advance()

	switch ch {
	case '(':
		s.addToken(token.LEFT_PAREN)
	case ')':
		s.addToken(token.RIGHT_PAREN)
	case '{':
		s.addToken(token.LEFT_BRACE)
	case '}':
		s.addToken(token.RIGHT_BRACE)
	case ',':
		s.addToken(token.COMMA)
	case '.':
		s.addToken(token.DOT)
	case ';':
		s.addToken(token.SEMICOLON)
	case '*':
		s.addToken(token.STAR)
	case '?':
		s.addToken(token.QUESTION)
	case ':':
		s.addToken(token.COLON)
	case '-':
		s.addToken(s.pick('-', token.MINUS_MINUS, token.MINUS))
	case '+':
		s.addToken(s.pick('+', token.PLUS_PLUS, token.PLUS))
	case '!':
		s.addToken(s.pick('=', token.BANG_EQUAL, token.BANG))
	case '=':
		s.addToken(s.pick('=', token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		s.addToken(s.pick('=', token.LESS_EQUAL, token.LESS))
	case '>':
		s.addToken(s.pick('=', token.GREATER_EQUAL, token.GREATER))
	case '/':
		switch {
		case s.match('/'):
			s.skipLineComment()
		case s.match('*'):
			s.skipBlockComment()
		default:
			s.addToken(token.SLASH)
		}
	case ' ', '\r', '\t', '\n':
		// whitespace
	case '"':
		s.readString()
	default:
		switch {
		case isDigit(ch):
			s.readNumber()
		case isAlpha(ch):
			s.readIdentifier()
		default:
			s.unexpected(ch)
		}
	}
}

// skipLineComment skips from // to end of line.
func (s *Scanner) skipLineComment() {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
}

// skipBlockComment skips a /* ... */ comment; the opener is already consumed.
func (s *Scanner) skipBlockComment() {
	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
	s.addError("E1004", "/*", "unterminated block comment")
}

// readString reads a string literal; the opening quote is already consumed.
func (s *Scanner) readString() {
	var value strings.Builder

	for !s.isAtEnd() {
		ch := s.peek()
		if ch == '"' {
			s.advance() // closing "
			s.addLiteral(token.STRING, value.String())
			return
		}
		if ch == '\\' {
			escPos := s.curPos()
			s.advance()
			if s.isAtEnd() {
				break
			}
			esc := s.advance()
			switch esc {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case '0':
				value.WriteByte(0)
			case '\\':
				value.WriteByte('\\')
			case '"':
				value.WriteByte('"')
			default:
				lexeme := "\\" + string(esc)
				s.diags = append(s.diags, diag.Errorf("E1002", diag.Scan, escPos, lexeme, "unknown escape sequence '%s'", lexeme))
				value.WriteByte(esc)
			}
			continue
		}
		value.WriteByte(s.advance())
	}

	first, _, _ := strings.Cut(s.lexeme(), "\n")
	s.addError("E1001", first, "unterminated string")
}

// readNumber reads a number literal; the first digit is already consumed.
func (s *Scanner) readNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// Fractional part needs at least one digit after the dot.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	value, err := strconv.ParseFloat(s.lexeme(), 64)
	if err != nil {
		s.addError("E1005", s.lexeme(), "invalid number literal '%s'", s.lexeme())
		return
	}
	s.addLiteral(token.NUMBER, value)
}

// readIdentifier reads an identifier or keyword; the first character is already consumed.
func (s *Scanner) readIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.addToken(token.LookupIdent(s.lexeme()))
}

// unexpected reports a character that starts no token. Multi-byte characters are
// consumed whole so the scan resumes on a character boundary.
func (s *Scanner) unexpected(ch byte) {
	text := string(ch)
	if ch >= utf8.RuneSelf {
		r, size := utf8.DecodeRuneInString(s.source[s.start:])
		for i := 1; i < size; i++ {
			s.advance()
		}
		text = string(r)
	}
	s.addError("E1003", text, "unexpected character %s", strconv.Quote(text))
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
