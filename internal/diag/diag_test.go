package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tlox/internal/span"
	"tlox/internal/token"
)

func TestDiagnosticString(t *testing.T) {
	t.Parallel()

	d := Errorf("E2002", Parse, span.Position{Line: 3, Column: 7}, ";", "expect expression")
	assert.Equal(t, "[line: 3, column: 7 at ;] error: expect expression", d.String())
}

func TestDiagnosticAtEOF(t *testing.T) {
	t.Parallel()

	tok := token.Token{Kind: token.EOF, Pos: span.Position{Line: 1, Column: 8}}
	d := AtToken("E2001", Parse, tok, "expect ';' after %s", "value")

	assert.True(t, d.AtEnd)
	assert.Equal(t, "end", d.Location())
	assert.Equal(t, "[line: 1, column: 8 at end] error: expect ';' after value", d.String())
}

func TestDiagnosticHintIsNotCanonical(t *testing.T) {
	t.Parallel()

	d := Errorf("E3004", Runtime, span.Position{Line: 1, Column: 7}, "cout", "undefined variable 'cout'")
	d.Hint = "did you mean 'count'?"
	assert.NotContains(t, d.String(), "did you mean")
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scan", Scan.String())
	assert.Equal(t, "parse", Parse.String())
	assert.Equal(t, "runtime", Runtime.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestRenderCaret(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewRenderer(&out, "var a = 1;\nprint a +;", false)
	r.Render(Errorf("E2002", Parse, span.Position{Line: 2, Column: 10}, ";", "expect expression"))

	assert.Equal(t,
		strings.Join([]string{
			"[line: 2, column: 10 at ;] error: expect expression",
			"2 | print a +;",
			"  |          ^",
			"",
		}, "\n"),
		out.String(),
	)
}

func TestRenderCaretSpansLexeme(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewRenderer(&out, "print cout;", false)
	d := Errorf("E3004", Runtime, span.Position{Line: 1, Column: 7}, "cout", "undefined variable 'cout'")
	d.Hint = "did you mean 'count'?"
	r.Render(d)

	assert.Equal(t,
		strings.Join([]string{
			"[line: 1, column: 7 at cout] error: undefined variable 'cout'",
			"1 | print cout;",
			"  |       ^^^^",
			"  hint: did you mean 'count'?",
			"",
		}, "\n"),
		out.String(),
	)
}

func TestRenderWideCharactersAndTabs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	// "日本" occupies four cells and six bytes
	r := NewRenderer(&out, "\t\"日本\" @", false)
	r.Render(Errorf("E1003", Scan, span.Position{Line: 1, Column: 11}, "@", `unexpected character "@"`))

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, `1 |     "日本" @`, lines[1])
	assert.Equal(t, "  |            ^", lines[2])
}

func TestRenderAtEnd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewRenderer(&out, "print 1", false)
	tok := token.Token{Kind: token.EOF, Pos: span.Position{Line: 1, Column: 8}}
	r.RenderAll([]Diagnostic{AtToken("E2001", Parse, tok, "expect ';' after value")})

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "[line: 1, column: 8 at end] error: expect ';' after value", lines[0])
	assert.Equal(t, "  |        ^", lines[2])
}

func TestRenderWithoutSourceLine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewRenderer(&out, "", false)
	r.Render(Errorf("E3001", Runtime, span.Position{Line: 5, Column: 1}, "x", "boom"))
	assert.Equal(t, "[line: 5, column: 1 at x] error: boom\n", out.String())
}
