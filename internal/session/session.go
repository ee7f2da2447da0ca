// Package session drives one interpreter through the scan, parse and run stages
// and reports faults to the user.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"tlox/internal/ast"
	"tlox/internal/diag"
	"tlox/internal/parser"
	"tlox/internal/runtime"
	"tlox/internal/scanner"
	"tlox/internal/token"
)

// Outcome is the result of running one unit of source (a file or a REPL line).
type Outcome int

const (
	OK Outcome = iota
	ScanFault
	ParseFault
	RuntimeFault
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case ScanFault:
		return "scan fault"
	case ParseFault:
		return "parse fault"
	case RuntimeFault:
		return "runtime fault"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to a sysexits-style process exit code.
func (o Outcome) ExitCode() int {
	switch o {
	case ScanFault:
		return 65
	case ParseFault:
		return 66
	case RuntimeFault:
		return 70
	default:
		return 0
	}
}

// Options configures a Session.
type Options struct {
	Stdout io.Writer // program output
	Stderr io.Writer // rendered diagnostics
	Color  bool
	Logger zerolog.Logger
	Interp runtime.Options
}

// Session owns one interpreter. Globals persist across Run and RunLine calls.
type Session struct {
	interp *runtime.Interpreter
	stdout io.Writer
	stderr io.Writer
	color  bool
	log    zerolog.Logger
}

// New creates a session.
func New(opts Options) *Session {
	return &Session{
		interp: runtime.NewInterpreter(opts.Stdout, opts.Interp),
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		color:  opts.Color,
		log:    opts.Logger,
	}
}

// Run scans, parses and executes a whole program. Faults from one stage stop
// the pipeline before the next.
func (s *Session) Run(source string) Outcome {
	start := time.Now()

	stmts, outcome := s.parse(source)
	if outcome == OK {
		outcome = s.exec(source, func() error { return s.interp.Run(stmts) })
	}

	s.log.Debug().
		Int("statements", len(stmts)).
		Dur("elapsed", time.Since(start)).
		Stringer("outcome", outcome).
		Msg("run")
	return outcome
}

// RunLine runs one line of REPL input. A line holding a single expression is
// evaluated and its value printed; anything else runs as statements.
func (s *Session) RunLine(line string) Outcome {
	tokens, outcome := s.scan(line)
	if outcome != OK {
		return outcome
	}

	if expr, diags := parser.New(tokens).ParseExpression(); len(diags) == 0 {
		s.log.Debug().Msg("evaluating bare expression")
		return s.exec(line, func() error {
			val, err := s.interp.Evaluate(expr)
			if err != nil {
				return err
			}
			fmt.Fprintln(s.stdout, val.String())
			return nil
		})
	}

	stmts, diags := parser.New(tokens).Parse()
	if len(diags) > 0 {
		s.report(line, diags)
		return ParseFault
	}
	return s.exec(line, func() error { return s.interp.Run(stmts) })
}

// Parse scans and parses source without running it, rendering any faults.
func (s *Session) Parse(source string) ([]ast.Stmt, Outcome) {
	return s.parse(source)
}

func (s *Session) scan(source string) ([]token.Token, Outcome) {
	tokens, diags := scanner.New(source).ScanTokens()
	s.log.Debug().Int("tokens", len(tokens)).Int("faults", len(diags)).Msg("scanned")
	if len(diags) > 0 {
		s.report(source, diags)
		return nil, ScanFault
	}
	return tokens, OK
}

func (s *Session) parse(source string) ([]ast.Stmt, Outcome) {
	tokens, outcome := s.scan(source)
	if outcome != OK {
		return nil, outcome
	}

	stmts, diags := parser.New(tokens).Parse()
	s.log.Debug().Int("statements", len(stmts)).Int("faults", len(diags)).Msg("parsed")
	if len(diags) > 0 {
		s.report(source, diags)
		return nil, ParseFault
	}
	return stmts, OK
}

// exec runs fn and reports the runtime fault it returns, if any.
func (s *Session) exec(source string, fn func() error) Outcome {
	err := fn()
	if err == nil {
		return OK
	}

	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		fmt.Fprintf(s.stderr, "error: %v\n", err)
		return RuntimeFault
	}

	s.log.Info().Str("code", rtErr.Code).Str("message", rtErr.Message).Msg("runtime fault")
	s.report(source, []diag.Diagnostic{rtErr.Diagnostic()})
	return RuntimeFault
}

func (s *Session) report(source string, diags []diag.Diagnostic) {
	diag.NewRenderer(s.stderr, source, s.color).RenderAll(diags)
}
