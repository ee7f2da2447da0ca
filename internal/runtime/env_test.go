package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlox/internal/span"
	"tlox/internal/token"
)

func ident(name string) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Lexeme: name, Pos: span.Position{Line: 1, Column: 1}}
}

func TestEnvironmentChain(t *testing.T) {
	t.Parallel()

	global := NewEnvironment(nil)
	global.Define("a", NumberVal(1))
	local := NewEnvironment(global)
	local.Define("b", NumberVal(2))

	val, err := local.Get(ident("a"))
	require.NoError(t, err)
	assert.Equal(t, NumberVal(1), val)

	require.NoError(t, local.Assign(ident("a"), NumberVal(3)))
	val, err = global.Get(ident("a"))
	require.NoError(t, err)
	assert.Equal(t, NumberVal(3), val)

	_, err = global.Get(ident("b"))
	assert.Error(t, err)
}

func TestEnvironmentDefineShadows(t *testing.T) {
	t.Parallel()

	global := NewEnvironment(nil)
	global.Define("x", StringVal("outer"))
	local := NewEnvironment(global)
	local.Define("x", StringVal("inner"))

	require.NoError(t, local.Assign(ident("x"), StringVal("changed")))

	val, _ := global.Get(ident("x"))
	assert.Equal(t, StringVal("outer"), val)
	val, _ = local.Get(ident("x"))
	assert.Equal(t, StringVal("changed"), val)
}

func TestEnvironmentNames(t *testing.T) {
	t.Parallel()

	global := NewEnvironment(nil)
	global.Define("zeta", NilVal{})
	global.Define("alpha", NilVal{})
	local := NewEnvironment(global)
	local.Define("alpha", NilVal{})
	local.Define("mid", NilVal{})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, local.Names())
}

func TestUndefinedFaultPosition(t *testing.T) {
	t.Parallel()

	env := NewEnvironment(nil)
	tok := token.Token{Kind: token.IDENTIFIER, Lexeme: "missing", Pos: span.Position{Line: 4, Column: 9}}
	_, err := env.Get(tok)
	require.Error(t, err)
	assert.Equal(t, "[line: 4, column: 9 at missing] error: undefined variable 'missing'", err.Error())

	rtErr := err.(*Error)
	d := rtErr.Diagnostic()
	assert.Equal(t, "E3004", d.Code)
	assert.Equal(t, 4, d.Pos.Line)
}

func TestClosestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"cout", []string{"clock", "count"}, "count"},
		{"lenght", []string{"length", "width"}, "length"},
		{"prnt", []string{"pint", "print"}, "print"},
		{"x", []string{"y", "z"}, ""},
		{"total", []string{"total"}, ""},
		{"totl", []string{"tota", "total"}, "total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, closestName(tt.name, tt.candidates))
		})
	}
}

func TestValuesEqual(t *testing.T) {
	t.Parallel()

	fn := &Native{Name: "f"}
	other := &Native{Name: "f"}

	assert.True(t, valuesEqual(NumberVal(1), NumberVal(1)))
	assert.False(t, valuesEqual(NumberVal(0), BoolVal(false)))
	assert.False(t, valuesEqual(NilVal{}, BoolVal(false)))
	assert.False(t, valuesEqual(StringVal("1"), NumberVal(1)))
	assert.True(t, valuesEqual(fn, fn))
	assert.False(t, valuesEqual(fn, other))
}

func TestNumberFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3", NumberVal(3).String())
	assert.Equal(t, "-0.25", NumberVal(-0.25).String())
	assert.Equal(t, "1000000", NumberVal(1e6).String())
}
