package runtime

import (
	"fmt"
	"io"
	"time"

	"tlox/internal/ast"
	"tlox/internal/token"
)

// ============================================================
// Control flow signals
// ============================================================

// ExecSignal represents a control flow signal from statement execution.
type ExecSignal int

const (
	SigNone     ExecSignal = iota
	SigReturn              // return from function
	SigBreak               // break from loop
	SigContinue            // continue in loop
)

// ExecResult carries a control flow signal and an optional value (for return).
type ExecResult struct {
	Signal ExecSignal
	Value  Value
}

var resultNone = ExecResult{Signal: SigNone}

// ============================================================
// Interpreter
// ============================================================

// DefaultMaxCallDepth is the call depth used when Options leaves it unset.
const DefaultMaxCallDepth = 1024

// Options configures an Interpreter.
type Options struct {
	// MaxCallDepth bounds nested calls; exceeding it is a "stack overflow" fault.
	MaxCallDepth int
	// Now is the clock behind the clock() native. Defaults to time.Now.
	Now func() time.Time
}

// Interpreter walks the AST and executes it.
type Interpreter struct {
	globals *Environment
	env     *Environment
	output  io.Writer

	depth    int
	maxDepth int
}

// NewInterpreter creates a new interpreter with built-in functions registered.
// print statements write to output.
func NewInterpreter(output io.Writer, opts Options) *Interpreter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	globals := NewEnvironment(nil)
	RegisterBuiltins(globals, opts.Now)
	return &Interpreter{
		globals:  globals,
		env:      globals,
		output:   output,
		maxDepth: opts.MaxCallDepth,
	}
}

// Run executes statements in order, stopping at the first runtime fault.
// Globals persist across calls, which is what the REPL relies on.
func (i *Interpreter) Run(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if _, err := i.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression in the global scope.
func (i *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	return i.evalExpr(expr)
}

// Globals returns the outermost environment.
func (i *Interpreter) Globals() *Environment {
	return i.globals
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) (ExecResult, error) {
	switch s := stmt.(type) {
	case *ast.Empty:
		return resultNone, nil

	case *ast.Expression:
		_, err := i.evalExpr(s.Expr)
		return resultNone, err

	case *ast.Print:
		val, err := i.evalExpr(s.Expr)
		if err != nil {
			return resultNone, err
		}
		fmt.Fprintln(i.output, val.String())
		return resultNone, nil

	case *ast.Var:
		return i.execVar(s)

	case *ast.Block:
		return i.execBlock(s.Stmts, NewEnvironment(i.env))

	case *ast.If:
		return i.execIf(s)

	case *ast.While:
		return i.execWhile(s)

	case *ast.Break:
		return ExecResult{Signal: SigBreak}, nil

	case *ast.Continue:
		return ExecResult{Signal: SigContinue}, nil

	case *ast.Function:
		i.env.Define(s.Name.Lexeme, &Function{Decl: s, Closure: i.env})
		return resultNone, nil

	case *ast.Return:
		var val Value = NilVal{}
		if s.Value != nil {
			v, err := i.evalExpr(s.Value)
			if err != nil {
				return resultNone, err
			}
			val = v
		}
		return ExecResult{Signal: SigReturn, Value: val}, nil

	default:
		panic(fmt.Sprintf("unhandled statement type: %T", stmt))
	}
}

func (i *Interpreter) execVar(s *ast.Var) (ExecResult, error) {
	var val Value = NilVal{}
	if s.Init != nil {
		v, err := i.evalExpr(s.Init)
		if err != nil {
			return resultNone, err
		}
		val = v
	}
	i.env.Define(s.Name.Lexeme, val)
	return resultNone, nil
}

func (i *Interpreter) execIf(s *ast.If) (ExecResult, error) {
	cond, err := i.evalExpr(s.Condition)
	if err != nil {
		return resultNone, err
	}

	if IsTruthy(cond) {
		return i.execScoped(s.Then)
	}
	if s.Else != nil {
		return i.execScoped(s.Else)
	}
	return resultNone, nil
}

func (i *Interpreter) execWhile(s *ast.While) (ExecResult, error) {
	for {
		cond, err := i.evalExpr(s.Condition)
		if err != nil {
			return resultNone, err
		}
		if !IsTruthy(cond) {
			break
		}

		result, err := i.execScoped(s.Body)
		if err != nil {
			return resultNone, err
		}
		if result.Signal == SigBreak {
			break
		}
		if result.Signal == SigReturn {
			return result, nil // propagate return
		}

		// SigContinue falls through so a for-loop increment still runs.
		if s.Increment != nil {
			if _, err := i.evalExpr(s.Increment); err != nil {
				return resultNone, err
			}
		}
	}
	return resultNone, nil
}

// execScoped runs a single statement in a fresh child scope.
func (i *Interpreter) execScoped(stmt ast.Stmt) (ExecResult, error) {
	return i.execBlock([]ast.Stmt{stmt}, NewEnvironment(i.env))
}

// execBlock runs stmts with blockEnv as the current scope. The previous scope is
// restored on every exit path.
func (i *Interpreter) execBlock(stmts []ast.Stmt, blockEnv *Environment) (ExecResult, error) {
	prevEnv := i.env
	i.env = blockEnv
	defer func() { i.env = prevEnv }()

	for _, stmt := range stmts {
		result, err := i.execStmt(stmt)
		if err != nil {
			return resultNone, err
		}
		if result.Signal != SigNone {
			return result, nil // propagate signal
		}
	}
	return resultNone, nil
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return FromLiteral(e.Value), nil
	case *ast.Grouping:
		return i.evalExpr(e.Inner)
	case *ast.Variable:
		return i.env.Get(e.Name)
	case *ast.Assign:
		val, err := i.evalExpr(e.Value)
		if err != nil {
			return nil, err
		}
		if err := i.env.Assign(e.Name, val); err != nil {
			return nil, err
		}
		return val, nil
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.LogicalAnd:
		left, err := i.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(left) {
			return left, nil // short-circuit
		}
		return i.evalExpr(e.Right)
	case *ast.LogicalOr:
		left, err := i.evalExpr(e.Left)
		if err != nil {
			return nil, err
		}
		if IsTruthy(left) {
			return left, nil // short-circuit
		}
		return i.evalExpr(e.Right)
	case *ast.Ternary:
		cond, err := i.evalExpr(e.Condition)
		if err != nil {
			return nil, err
		}
		if IsTruthy(cond) {
			return i.evalExpr(e.Then)
		}
		return i.evalExpr(e.Else)
	case *ast.Comma:
		if _, err := i.evalExpr(e.Left); err != nil {
			return nil, err
		}
		return i.evalExpr(e.Right)
	case *ast.Crement:
		return i.evalCrement(e)
	case *ast.Call:
		return i.evalCall(e)
	default:
		panic(fmt.Sprintf("unhandled expression type: %T", expr))
	}
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	operand, err := i.evalExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.BANG:
		return BoolVal(!IsTruthy(operand)), nil
	case token.MINUS:
		n, ok := operand.(NumberVal)
		if !ok {
			return nil, runtimeErr("E3001", e.Op, "operand must be a number")
		}
		return -n, nil
	default:
		panic(fmt.Sprintf("unknown unary operator: %s", e.Op.Kind))
	}
}

func (i *Interpreter) evalCrement(e *ast.Crement) (Value, error) {
	operand, err := i.evalExpr(e.Target)
	if err != nil {
		return nil, err
	}
	n, ok := operand.(NumberVal)
	if !ok {
		return nil, runtimeErr("E3001", e.Op, "operand must be a number")
	}

	updated := n + 1
	if e.Op.Kind == token.MINUS_MINUS {
		updated = n - 1
	}

	// only a variable target is written back
	if v, ok := e.Target.(*ast.Variable); ok {
		if err := i.env.Assign(v.Name, updated); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EQUAL_EQUAL:
		return BoolVal(valuesEqual(left, right)), nil
	case token.BANG_EQUAL:
		return BoolVal(!valuesEqual(left, right)), nil
	case token.PLUS:
		if ls, ok := left.(StringVal); ok {
			if rs, ok := right.(StringVal); ok {
				return ls + rs, nil
			}
		}
		ln, lok := left.(NumberVal)
		rn, rok := right.(NumberVal)
		if !lok || !rok {
			return nil, runtimeErr("E3003", e.Op, "operands must be two numbers or two strings")
		}
		return ln + rn, nil
	}

	ln, lok := left.(NumberVal)
	rn, rok := right.(NumberVal)
	if !lok || !rok {
		return nil, runtimeErr("E3002", e.Op, "operands must be numbers")
	}

	switch e.Op.Kind {
	case token.MINUS:
		return ln - rn, nil
	case token.STAR:
		return ln * rn, nil
	case token.SLASH:
		if rn == 0 {
			return nil, runtimeErr("E3005", e.Op, "division by zero")
		}
		return ln / rn, nil
	case token.LESS:
		return BoolVal(ln < rn), nil
	case token.LESS_EQUAL:
		return BoolVal(ln <= rn), nil
	case token.GREATER:
		return BoolVal(ln > rn), nil
	case token.GREATER_EQUAL:
		return BoolVal(ln >= rn), nil
	default:
		panic(fmt.Sprintf("unknown binary operator: %s", e.Op.Kind))
	}
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for idx, argExpr := range e.Args {
		val, err := i.evalExpr(argExpr)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErr("E3006", e.Paren, "can only call functions")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErr("E3007", e.Paren, "expected %d arguments but got %d", fn.Arity(), len(args))
	}

	if i.depth >= i.maxDepth {
		return nil, runtimeErr("E3008", e.Paren, "stack overflow")
	}
	i.depth++
	defer func() { i.depth-- }()

	val, err := fn.Call(i, args)
	if err != nil {
		if _, isFault := err.(*Error); !isFault {
			return nil, runtimeErr("E3009", e.Paren, "%s", err)
		}
		return nil, err
	}
	return val, nil
}
