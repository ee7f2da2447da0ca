package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"

	"tlox/internal/ast"
	"tlox/internal/diag"
	"tlox/internal/scanner"
	"tlox/internal/session"
	"tlox/internal/token"
)

// dumpSource prints the scanner or parser result instead of running source.
func dumpSource(s *settings, sess *session.Session, source string) int {
	if s.dump == "tokens" {
		tokens, diags := scanner.New(source).ScanTokens()
		printTokens(s.stdout, tokens)
		if len(diags) > 0 {
			diag.NewRenderer(s.stderr, source, s.color).RenderAll(diags)
			return session.ScanFault.ExitCode()
		}
		return exitOK
	}

	stmts, outcome := sess.Parse(source)
	if outcome != session.OK {
		return outcome.ExitCode()
	}

	if s.dump == "ast" {
		ast.Fprint(s.stdout, stmts)
		return exitOK
	}

	if err := printJSON(s.stdout, ast.StmtsToSlice(stmts), s.cfg.Color && isTerminal(s.stdout)); err != nil {
		fmt.Fprintf(s.stderr, "error: JSON encoding failed: %v\n", err)
		return exitUsage
	}
	return exitOK
}

// ---- output helpers ----

func printTokens(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.EOF {
			lexeme = "<eof>"
		}
		fmt.Fprintf(w, "%-14s %-20s %d:%d\n", tok.Kind, lexeme, tok.Pos.Line, tok.Pos.Column)
	}
}

func printJSON(w io.Writer, v interface{}, color bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = pretty.Pretty(data)
	if color {
		data = pretty.Color(data, nil)
	}
	_, err = w.Write(data)
	return err
}
