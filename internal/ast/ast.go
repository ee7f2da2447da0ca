// Package ast defines the abstract syntax tree for tlox.
//
// Expressions and statements are two closed sets of node types. Consumers
// (the interpreter, the dumpers) dispatch with exhaustive type switches.
package ast

import (
	"tlox/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to seal the variant sets)
// ============================================================

// ExprBase is embedded by all expression nodes.
type ExprBase struct{}

func (ExprBase) nodeNode() {}
func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{}

func (StmtBase) nodeNode() {}
func (StmtBase) stmtNode() {}

// ============================================================
// Expressions
// ============================================================

// Literal represents a number, string, boolean or nil literal.
// Value is a float64, string, bool, or nil.
type Literal struct {
	ExprBase
	Value any
}

// Grouping represents a parenthesized expression: (expr).
type Grouping struct {
	ExprBase
	Inner Expr
}

// Unary represents a prefix operation: !x, -x.
type Unary struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// Binary represents an arithmetic, comparison or equality operation.
type Binary struct {
	ExprBase
	Op    token.Token
	Left  Expr
	Right Expr
}

// LogicalAnd represents a short-circuiting "and".
type LogicalAnd struct {
	ExprBase
	Op    token.Token
	Left  Expr
	Right Expr
}

// LogicalOr represents a short-circuiting "or".
type LogicalOr struct {
	ExprBase
	Op    token.Token
	Left  Expr
	Right Expr
}

// Ternary represents cond ? then : else.
type Ternary struct {
	ExprBase
	Question  token.Token
	Condition Expr
	Then      Expr
	Else      Expr
}

// Comma represents left, right. Its value is the value of Right.
type Comma struct {
	ExprBase
	Left  Expr
	Right Expr
}

// Crement represents ++target or --target (prefix or postfix).
type Crement struct {
	ExprBase
	Op     token.Token // PLUS_PLUS or MINUS_MINUS
	Target Expr
}

// Variable represents a reference to a named binding.
type Variable struct {
	ExprBase
	Name token.Token
}

// Assign represents name = value.
type Assign struct {
	ExprBase
	Name  token.Token
	Value Expr
}

// Call represents callee(args...).
type Call struct {
	ExprBase
	Callee Expr
	Paren  token.Token // closing parenthesis, used for fault positions
	Args   []Expr
}

// ============================================================
// Statements
// ============================================================

// Empty represents a lone semicolon.
type Empty struct {
	StmtBase
}

// Expression wraps an expression evaluated for its side effects.
type Expression struct {
	StmtBase
	Expr Expr
}

// Print represents print expr;.
type Print struct {
	StmtBase
	Keyword token.Token
	Expr    Expr
}

// Var represents var name [= init];.
type Var struct {
	StmtBase
	Name token.Token
	Init Expr // may be nil
}

// Block represents { stmts }.
type Block struct {
	StmtBase
	Stmts []Stmt
}

// If represents if (cond) then [else else].
type If struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // may be nil
}

// While represents while (cond) body. Increment is set only for desugared
// for-loops; it runs after every iteration that completes or continues.
type While struct {
	StmtBase
	Condition Expr
	Body      Stmt
	Increment Expr // may be nil
}

// Break represents break;.
type Break struct {
	StmtBase
	Keyword token.Token
}

// Continue represents continue;.
type Continue struct {
	StmtBase
	Keyword token.Token
}

// Function represents fun name(params) { body }.
type Function struct {
	StmtBase
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

// Return represents return [value];.
type Return struct {
	StmtBase
	Keyword token.Token
	Value   Expr // may be nil
}
