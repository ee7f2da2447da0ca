// Command tlox runs tlox programs.
//
// Usage:
//
//	tlox                         Start the interactive REPL
//	tlox <file>                  Run a source file
//	tlox -dump tokens <file>     Print tokens
//	tlox -dump ast <file>        Print the syntax tree
//	tlox -dump json <file>       Print the syntax tree as JSON
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"tlox/internal/config"
	"tlox/internal/runtime"
	"tlox/internal/session"
)

// Exit codes outside the session outcomes.
const (
	exitOK      = 0
	exitUsage   = 1
	exitNoInput = 2
	exitConfig  = 78
)

const usageLine = "Usage: tlox [file]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// settings is everything the command resolved from flags and the config file.
type settings struct {
	cfg    *config.Config
	dump   string
	color  bool // diagnostics and dumps
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("tlox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML settings file")
	logLevel := fs.String("log-level", "", "log level: trace, debug, info, warn, error (overrides settings)")
	noColor := fs.Bool("no-color", false, "disable colored output")
	dump := fs.String("dump", "", "print `tokens`, ast or json instead of running")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, usageLine)
		return exitUsage
	}
	switch *dump {
	case "", "tokens", "ast", "json":
	default:
		fmt.Fprintf(stderr, "error: unknown -dump mode %q (want tokens, ast or json)\n", *dump)
		return exitUsage
	}
	if *dump != "" && fs.NArg() == 0 {
		fmt.Fprintln(stderr, "error: -dump needs a file")
		return exitUsage
	}

	cfg, err := config.Load(config.Locate(*configPath, getenv))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	if *logLevel != "" {
		if _, err := zerolog.ParseLevel(*logLevel); err != nil {
			fmt.Fprintf(stderr, "error: invalid -log-level %q\n", *logLevel)
			return exitUsage
		}
		cfg.LogLevel = *logLevel
	}
	if *noColor {
		cfg.Color = false
	}

	s := &settings{
		cfg:    cfg,
		dump:   *dump,
		color:  cfg.Color && isTerminal(stderr),
		stdout: stdout,
		stderr: stderr,
	}
	s.log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: !s.color}).
		Level(cfg.Level()).
		With().Timestamp().Logger()
	s.log.Debug().Str("config", cfg.Path).Str("level", cfg.LogLevel).Msg("settings loaded")

	if fs.NArg() == 0 {
		return runPrompt(s)
	}
	return runFile(s, fs.Arg(0))
}

func runFile(s *settings, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		s.log.Debug().Err(err).Msg("read failed")
		fmt.Fprintf(s.stderr, "Could not open file: %s\n", path)
		return exitNoInput
	}

	sess := s.newSession(s.stdout, s.stderr)
	if s.dump != "" {
		return dumpSource(s, sess, string(source))
	}
	return sess.Run(string(source)).ExitCode()
}

func (s *settings) newSession(stdout, stderr io.Writer) *session.Session {
	return session.New(session.Options{
		Stdout: stdout,
		Stderr: stderr,
		Color:  s.color,
		Logger: s.log,
		Interp: runtime.Options{MaxCallDepth: s.cfg.MaxCallDepth},
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
