package runtime

import (
	"fmt"
	"unicode/utf8"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"tlox/internal/diag"
	"tlox/internal/token"
)

// Error represents a fault raised during interpretation. The first one aborts
// the running program (or REPL line).
type Error struct {
	Code    string
	Token   token.Token
	Message string
	Hint    string
}

func (e *Error) Error() string {
	return e.Diagnostic().String()
}

// Diagnostic converts the fault into its reportable form.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.AtToken(e.Code, diag.Runtime, e.Token, "%s", e.Message)
	d.Hint = e.Hint
	return d
}

func runtimeErr(code string, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{Code: code, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// undefinedErr reports a missing binding and suggests the closest visible name.
func undefinedErr(name token.Token, env *Environment) *Error {
	err := runtimeErr("E3004", name, "undefined variable '%s'", name.Lexeme)
	if suggestion := closestName(name.Lexeme, env.Names()); suggestion != "" {
		err.Hint = fmt.Sprintf("did you mean '%s'?", suggestion)
	}
	return err
}

// closestName returns the candidate with the smallest edit distance to name, or ""
// if none is close enough. Candidates are expected in sorted order so ties are stable.
func closestName(name string, candidates []string) string {
	limit := utf8.RuneCountInString(name) / 3
	if limit < 1 {
		limit = 1
	}
	if limit > 3 {
		limit = 3
	}

	best, bestDist := "", limit+1
	source := []rune(name)
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		dist := levenshtein.DistanceForStrings(source, []rune(candidate), levenshtein.DefaultOptions)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}
