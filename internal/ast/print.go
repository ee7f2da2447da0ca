package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const indentSize = 2

// Fprint writes an indented tree of stmts to w, one node per line.
func Fprint(w io.Writer, stmts []Stmt) {
	p := &printer{w: w}
	for _, s := range stmts {
		p.stmt(s)
	}
}

// Sprint returns the Fprint output for stmts as a string.
func Sprint(stmts []Stmt) string {
	var b strings.Builder
	Fprint(&b, stmts)
	return b.String()
}

type printer struct {
	w     io.Writer
	depth int
}

func (p *printer) line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat(" ", p.depth*indentSize), fmt.Sprintf(format, args...))
}

func (p *printer) nested(fn func()) {
	p.depth++
	fn()
	p.depth--
}

func (p *printer) stmt(s Stmt) {
	switch n := s.(type) {
	case *Empty:
		p.line("[Empty]")
	case *Expression:
		p.line("[Expression]")
		p.nested(func() { p.expr(n.Expr) })
	case *Print:
		p.line("[Print]")
		p.nested(func() { p.expr(n.Expr) })
	case *Var:
		p.line("[Var] (%s)", n.Name.Lexeme)
		if n.Init != nil {
			p.nested(func() { p.expr(n.Init) })
		}
	case *Block:
		p.line("[Block]")
		p.nested(func() {
			for _, inner := range n.Stmts {
				p.stmt(inner)
			}
		})
	case *If:
		p.line("[If]")
		p.nested(func() {
			p.expr(n.Condition)
			p.stmt(n.Then)
			if n.Else != nil {
				p.line("[Else]")
				p.nested(func() { p.stmt(n.Else) })
			}
		})
	case *While:
		p.line("[While]")
		p.nested(func() {
			p.expr(n.Condition)
			p.stmt(n.Body)
			if n.Increment != nil {
				p.line("[Increment]")
				p.nested(func() { p.expr(n.Increment) })
			}
		})
	case *Break:
		p.line("[Break]")
	case *Continue:
		p.line("[Continue]")
	case *Function:
		params := make([]string, len(n.Params))
		for i, param := range n.Params {
			params[i] = param.Lexeme
		}
		p.line("[Function] (%s(%s))", n.Name.Lexeme, strings.Join(params, ", "))
		p.nested(func() {
			for _, inner := range n.Body {
				p.stmt(inner)
			}
		})
	case *Return:
		p.line("[Return]")
		if n.Value != nil {
			p.nested(func() { p.expr(n.Value) })
		}
	default:
		p.line("[Unknown %T]", s)
	}
}

func (p *printer) expr(e Expr) {
	switch n := e.(type) {
	case *Literal:
		p.line("[Literal] (%s)", literalString(n.Value))
	case *Grouping:
		p.line("[Grouping]")
		p.nested(func() { p.expr(n.Inner) })
	case *Unary:
		p.line("[Unary] (%s)", n.Op.Lexeme)
		p.nested(func() { p.expr(n.Operand) })
	case *Binary:
		p.line("[Binary] (%s)", n.Op.Lexeme)
		p.nested(func() {
			p.expr(n.Left)
			p.expr(n.Right)
		})
	case *LogicalAnd:
		p.line("[LogicalAnd]")
		p.nested(func() {
			p.expr(n.Left)
			p.expr(n.Right)
		})
	case *LogicalOr:
		p.line("[LogicalOr]")
		p.nested(func() {
			p.expr(n.Left)
			p.expr(n.Right)
		})
	case *Ternary:
		p.line("[Ternary]")
		p.nested(func() {
			p.expr(n.Condition)
			p.expr(n.Then)
			p.expr(n.Else)
		})
	case *Comma:
		p.line("[Comma]")
		p.nested(func() {
			p.expr(n.Left)
			p.expr(n.Right)
		})
	case *Crement:
		p.line("[Crement] (%s)", n.Op.Lexeme)
		p.nested(func() { p.expr(n.Target) })
	case *Variable:
		p.line("[Variable] (%s)", n.Name.Lexeme)
	case *Assign:
		p.line("[Assign] (%s)", n.Name.Lexeme)
		p.nested(func() { p.expr(n.Value) })
	case *Call:
		p.line("[Call]")
		p.nested(func() {
			p.expr(n.Callee)
			for _, arg := range n.Args {
				p.expr(arg)
			}
		})
	default:
		p.line("[Unknown %T]", e)
	}
}

func literalString(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprint(val)
	}
}
