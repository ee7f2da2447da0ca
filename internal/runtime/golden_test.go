package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// goldenTest runs testdata/<name>.lox and compares its output to testdata/<name>.expected.
func goldenTest(t *testing.T, name string) {
	t.Helper()

	source, err := os.ReadFile(filepath.Join("testdata", name+".lox"))
	require.NoError(t, err)
	expected, err := os.ReadFile(filepath.Join("testdata", name+".expected"))
	require.NoError(t, err)

	got, err := runSource(t, string(source), Options{})
	require.NoError(t, err, "runtime fault")

	expectedStr := strings.TrimRight(string(expected), "\n")
	gotStr := strings.TrimRight(got, "\n")
	if gotStr == expectedStr {
		return
	}

	expectedLines := strings.Split(expectedStr, "\n")
	gotLines := strings.Split(gotStr, "\n")

	t.Errorf("output mismatch for %s", name)
	maxLines := len(expectedLines)
	if len(gotLines) > maxLines {
		maxLines = len(gotLines)
	}
	for i := 0; i < maxLines; i++ {
		exp, g := "<missing>", "<missing>"
		if i < len(expectedLines) {
			exp = expectedLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		prefix := "  "
		if exp != g {
			prefix = "! "
		}
		t.Logf("%sline %d: expected=%q got=%q", prefix, i+1, exp, g)
	}
}

func TestGolden(t *testing.T) {
	t.Parallel()

	paths, err := filepath.Glob(filepath.Join("testdata", "*.lox"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".lox")
		t.Run(name, func(t *testing.T) {
			goldenTest(t, name)
		})
	}
}
