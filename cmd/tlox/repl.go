package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/logrusorgru/aurora/v4"

	"tlox/internal/scanner"
	"tlox/internal/session"
	"tlox/internal/token"
)

// lineReader is the part of *readline.Instance the prompt loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

func runPrompt(s *settings) int {
	au := aurora.New(aurora.WithColors(s.cfg.Color))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            au.Green(s.cfg.Prompt).String(),
		HistoryFile:       s.cfg.HistoryPath(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(s.stderr, "readline init failed: %v\n", err)
		return exitUsage
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		au.Bold(au.Cyan("tlox REPL")), au.Gray(12, "(type 'exit' or Ctrl+D to quit)"))

	sess := s.newSession(rl.Stdout(), rl.Stderr())
	promptLoop(rl, sess, rl.Stdout(), au, s.cfg.Prompt)
	return exitOK
}

// promptLoop reads lines until EOF or "exit" and runs each complete unit.
// Unfinished input is accumulated across lines; whatever is pending at EOF
// still runs so its faults get reported.
func promptLoop(rl lineReader, sess *session.Session, out io.Writer, au *aurora.Aurora, prompt string) {
	var accumulated strings.Builder
	continuation := strings.Repeat(".", len(strings.TrimRight(prompt, " "))) + " "

	for {
		if accumulated.Len() > 0 {
			rl.SetPrompt(au.Gray(12, continuation).String())
		} else {
			rl.SetPrompt(au.Green(prompt).String())
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if accumulated.Len() > 0 {
					accumulated.Reset()
					continue
				}
				fmt.Fprintf(out, "%s\n", au.Gray(12, "(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out)
				if pending := accumulated.String(); strings.TrimSpace(pending) != "" {
					sess.RunLine(pending)
				}
			}
			return
		}

		if accumulated.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return
		}

		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if unfinished(accumulated.String()) {
			continue
		}

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		// faults are already rendered; the session stays usable
		sess.RunLine(source)
	}
}

// unfinished reports whether source needs more lines: a '{' without its '}',
// or a string or block comment still open at the end of input.
func unfinished(source string) bool {
	tokens, diags := scanner.New(source).ScanTokens()
	for _, d := range diags {
		if d.Code == "E1001" || d.Code == "E1004" {
			return true
		}
	}

	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LEFT_BRACE:
			depth++
		case token.RIGHT_BRACE:
			depth--
		}
	}
	return depth > 0
}
