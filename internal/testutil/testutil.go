// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/k0kubun/pp/v3"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"tlox/internal/ast"
	"tlox/internal/diag"
	"tlox/internal/parser"
	"tlox/internal/scanner"
)

func init() {
	pp.Default.SetColoringEnabled(false)
}

// AssertEqualWithDiff asserts that two values are equal.
//
// If they are not, it prints both values and a field-by-field diff.
func AssertEqualWithDiff(t *testing.T, expected, actual any) {
	t.Helper()

	diff := pretty.Diff(expected, actual)
	if len(diff) == 0 {
		return
	}

	var s strings.Builder
	for i, d := range diff {
		if i == 0 {
			s.WriteString("diff    : ")
		} else {
			s.WriteString("          ")
		}
		s.WriteString(d)
		s.WriteString("\n")
	}

	t.Errorf(
		"Not equal: \n"+
			"expected: %s\n"+
			"actual  : %s\n\n"+
			"%s",
		pp.Sprint(expected),
		pp.Sprint(actual),
		s.String(),
	)
}

// Messages returns the canonical one-line form of every diagnostic.
func Messages(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}

// MustParse scans and parses source, failing the test on any fault.
func MustParse(t *testing.T, source string) []ast.Stmt {
	t.Helper()

	tokens, scanDiags := scanner.New(source).ScanTokens()
	require.Empty(t, Messages(scanDiags), "scan faults")

	stmts, parseDiags := parser.New(tokens).Parse()
	require.Empty(t, Messages(parseDiags), "parse faults")
	return stmts
}
