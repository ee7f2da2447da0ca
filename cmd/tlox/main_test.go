package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/logrusorgru/aurora/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tlox/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type result struct {
	code   int
	stdout string
	stderr string
}

// tlox runs the command with an isolated environment.
func tlox(t *testing.T, env map[string]string, args ...string) result {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	if _, ok := env["HOME"]; !ok {
		env["HOME"] = t.TempDir()
	}

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, func(key string) string { return env[key] })
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRunFile(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, writeScript(t, `print "hello"; print 1 + 2;`))
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "hello\n3\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		code   int
		stderr string
	}{
		{"scan", `print "open;`, 65, "error: unterminated string"},
		{"parse", `print 1`, 66, "[line: 1, column: 8 at end] error: expect ';' after value"},
		{"runtime", `print nil + 1;`, 70, "error: operands must be two numbers or two strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tlox(t, nil, writeScript(t, tt.source))
			assert.Equal(t, tt.code, res.code)
			assert.Contains(t, res.stderr, tt.stderr)
		})
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, "a.lox", "b.lox")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Usage: tlox [file]\n", res.stderr)

	res = tlox(t, nil, "-dump", "bytes", "a.lox")
	assert.Equal(t, 1, res.code)

	res = tlox(t, nil, "-dump", "ast")
	assert.Equal(t, 1, res.code)

	res = tlox(t, nil, "-log-level", "chatty", writeScript(t, ""))
	assert.Equal(t, 1, res.code)

	res = tlox(t, nil, "-unknown")
	assert.Equal(t, 1, res.code)
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.lox")
	res := tlox(t, nil, path)
	assert.Equal(t, 2, res.code)
	assert.Equal(t, "Could not open file: "+path+"\n", res.stderr)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_call_depth: 5\n"), 0o644))
	script := writeScript(t, `fun f(n) { return n == 0 ? 0 : f(n - 1); } print f(3); print f(10);`)

	res := tlox(t, nil, "-config", cfgPath, script)
	assert.Equal(t, 70, res.code)
	assert.Equal(t, "0\n", res.stdout)
	assert.Contains(t, res.stderr, "stack overflow")

	// the environment variable is honoured too
	res = tlox(t, map[string]string{"TLOX_CONFIG": cfgPath}, script)
	assert.Equal(t, 70, res.code)
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: loud\n"), 0o644))

	res := tlox(t, nil, "-config", cfgPath, writeScript(t, ""))
	assert.Equal(t, 78, res.code)
	assert.Contains(t, res.stderr, "validation failed")
}

func TestDebugLogging(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, "-log-level", "debug", "-no-color", writeScript(t, "print 1;"))
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "1\n", res.stdout)
	assert.Contains(t, res.stderr, "settings loaded")
	assert.Contains(t, res.stderr, "parsed")
}

func TestDumpTokens(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, "-dump", "tokens", writeScript(t, "var x = 1;"))
	assert.Equal(t, 0, res.code)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"var", "var", "1:1"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"IDENTIFIER", "x", "1:5"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"EOF", "<eof>", "1:11"}, strings.Fields(lines[5]))
}

func TestDumpAST(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, "-dump", "ast", writeScript(t, "print 1 + 2;"))
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "[Print]\n  [Binary] (+)\n    [Literal] (1)\n    [Literal] (2)\n", res.stdout)
}

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, "-dump", "json", writeScript(t, "var x = 1;"))
	assert.Equal(t, 0, res.code)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Var", decoded[0]["kind"])
	assert.Equal(t, "Literal", decoded[0]["init"].(map[string]interface{})["kind"])
	// pretty-printed, one field per line
	assert.Greater(t, strings.Count(res.stdout, "\n"), 3)
}

func TestDumpStopsOnParseFault(t *testing.T) {
	t.Parallel()

	res := tlox(t, nil, "-dump", "ast", writeScript(t, "print ;"))
	assert.Equal(t, 66, res.code)
	assert.Empty(t, res.stdout)
}

// ---- prompt loop ----

type fakeReader struct {
	lines   []string
	prompts []string
}

func (f *fakeReader) SetPrompt(prompt string) { f.prompts = append(f.prompts, prompt) }

func (f *fakeReader) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func TestPromptLoop(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	sess := session.New(session.Options{Stdout: &stdout, Stderr: &stderr, Logger: zerolog.Nop()})
	reader := &fakeReader{lines: []string{
		"var a = 2;",
		"a * 21",
		"fun double(n) {",
		"  return n * 2;",
		"}",
		"double(a)",
		"print missing;",
		"{",
		"^C",
		"a",
		"exit",
		"print \"never\";",
	}}

	promptLoop(reader, sess, &stdout, aurora.New(aurora.WithColors(false)), "> ")

	assert.Equal(t, "42\n4\n2\n", stdout.String())
	assert.Contains(t, stderr.String(), "undefined variable 'missing'")
	assert.Contains(t, reader.prompts, ". ")
	// stopped at "exit"
	assert.Len(t, reader.lines, 1)
}

func TestPromptLoopEOF(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	sess := session.New(session.Options{Stdout: &out, Stderr: &out, Logger: zerolog.Nop()})
	promptLoop(&fakeReader{lines: []string{"1"}}, sess, &out, aurora.New(aurora.WithColors(false)), "> ")
	assert.Equal(t, "1\n\n", out.String())
}

func TestPromptLoopBracesInStringsAndComments(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	sess := session.New(session.Options{Stdout: &stdout, Stderr: &stderr, Logger: zerolog.Nop()})
	reader := &fakeReader{lines: []string{
		`print "{";`,
		"print 2; // {",
		"/* } { */ print 3;",
		`print "}";`,
	}}

	promptLoop(reader, sess, &stdout, aurora.New(aurora.WithColors(false)), "> ")

	assert.Equal(t, "{\n2\n3\n}\n\n", stdout.String())
	assert.Empty(t, stderr.String())
	assert.NotContains(t, reader.prompts, ". ")
}

func TestPromptLoopMultilineStringAndComment(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	sess := session.New(session.Options{Stdout: &out, Stderr: &out, Logger: zerolog.Nop()})
	reader := &fakeReader{lines: []string{
		`print "one`,
		`two";`,
		"/* open",
		"close */ print 3;",
	}}

	promptLoop(reader, sess, &out, aurora.New(aurora.WithColors(false)), "> ")

	assert.Equal(t, "one\ntwo\n3\n\n", out.String())
	assert.Contains(t, reader.prompts, ". ")
}

func TestPromptLoopRunsPendingInputAtEOF(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	sess := session.New(session.Options{Stdout: &stdout, Stderr: &stderr, Logger: zerolog.Nop()})
	promptLoop(&fakeReader{lines: []string{"{ print 1;"}}, sess, &stdout, aurora.New(aurora.WithColors(false)), "> ")

	assert.Equal(t, "\n", stdout.String())
	assert.Contains(t, stderr.String(), "expect '}' after block")
}
