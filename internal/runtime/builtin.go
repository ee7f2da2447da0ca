package runtime

import (
	"fmt"
	"time"

	"tlox/internal/ast"
)

// Callable is implemented by every value that can appear as a callee.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// ---- User functions ----

// Function is a user-defined function closed over its defining environment.
type Function struct {
	Decl    *ast.Function
	Closure *Environment
}

func (f *Function) TypeName() string { return "function" }
func (f *Function) String() string   { return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme) }
func (f *Function) Arity() int       { return len(f.Decl.Params) }

// Call runs the body in a fresh scope whose parent is the closure.
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for idx, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[idx])
	}

	result, err := interp.execBlock(f.Decl.Body, env)
	if err != nil {
		return nil, err
	}
	if result.Signal == SigReturn {
		return result.Value, nil
	}
	return NilVal{}, nil
}

// ---- Natives ----

// NativeFn is the Go signature for built-in functions.
type NativeFn func(args []Value) (Value, error)

// Native is a host function exposed to tlox code.
type Native struct {
	Name  string
	Param int
	Fn    NativeFn
}

func (n *Native) TypeName() string { return "native" }
func (n *Native) String() string   { return "<native fn>" }
func (n *Native) Arity() int       { return n.Param }

func (n *Native) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.Fn(args)
}

// RegisterBuiltins adds the native functions to env. now is the clock source.
func RegisterBuiltins(env *Environment, now func() time.Time) {
	env.Define("clock", &Native{
		Name: "clock",
		Fn: func(args []Value) (Value, error) {
			return NumberVal(float64(now().UnixNano()) / float64(time.Second)), nil
		},
	})
}
