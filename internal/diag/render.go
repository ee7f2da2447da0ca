package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora/v4"
	"github.com/rivo/uniseg"
)

const tabWidth = 4

// Renderer prints diagnostics in their canonical form followed by a source excerpt
// with a caret under the offending column.
type Renderer struct {
	w     io.Writer
	au    *aurora.Aurora
	lines []string
}

// NewRenderer creates a renderer for diagnostics reported against source.
func NewRenderer(w io.Writer, source string, color bool) *Renderer {
	return &Renderer{
		w:     w,
		au:    aurora.New(aurora.WithColors(color)),
		lines: strings.Split(source, "\n"),
	}
}

// RenderAll renders every diagnostic in order.
func (r *Renderer) RenderAll(diags []Diagnostic) {
	for _, d := range diags {
		r.Render(d)
	}
}

// Render writes a single diagnostic.
func (r *Renderer) Render(d Diagnostic) {
	fmt.Fprintln(r.w, r.au.Bold(r.au.Red(d.String())))

	if d.Pos.Line < 1 || d.Pos.Line > len(r.lines) {
		r.renderHint(d)
		return
	}
	line := strings.TrimRight(r.lines[d.Pos.Line-1], "\r")
	if strings.TrimSpace(line) == "" {
		r.renderHint(d)
		return
	}

	gutter := fmt.Sprintf("%d", d.Pos.Line)
	blank := strings.Repeat(" ", len(gutter))

	col := d.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	pad := strings.Repeat(" ", displayWidth(line[:col]))

	width := 1
	if !d.AtEnd && d.Lexeme != "" {
		first, _, _ := strings.Cut(d.Lexeme, "\n")
		if w := displayWidth(first); w > 1 {
			width = w
		}
	}

	fmt.Fprintf(r.w, "%s %s%s\n", r.au.Blue(gutter), r.au.Blue("| "), expandTabs(line))
	fmt.Fprintf(r.w, "%s %s%s%s\n", blank, r.au.Blue("| "), pad, r.au.Red(strings.Repeat("^", width)))
	r.renderHint(d)
}

func (r *Renderer) renderHint(d Diagnostic) {
	if d.Hint == "" {
		return
	}
	fmt.Fprintf(r.w, "  %s %s\n", r.au.Cyan("hint:"), d.Hint)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth is the number of terminal cells s occupies once tabs are expanded.
func displayWidth(s string) int {
	return uniseg.StringWidth(expandTabs(s))
}
