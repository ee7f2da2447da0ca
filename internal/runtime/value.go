// Package runtime implements the interpreter and runtime value system for tlox.
package runtime

import (
	"strconv"
)

// Value is the interface for all runtime values.
type Value interface {
	TypeName() string
	String() string
}

// ---- Primitive values ----

// NumberVal represents a number. All tlox numbers are float64.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }

// String prints integral values without a fractional part.
func (v NumberVal) String() string { return strconv.FormatFloat(float64(v), 'f', -1, 64) }

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "boolean" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// NilVal represents nil.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }

// ---- Helpers ----

// IsTruthy returns the truthiness of a value: only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// FromLiteral converts a scanner literal payload into a runtime value.
func FromLiteral(lit any) Value {
	switch v := lit.(type) {
	case float64:
		return NumberVal(v)
	case string:
		return StringVal(v)
	case bool:
		return BoolVal(v)
	default:
		return NilVal{}
	}
}

// valuesEqual compares values of the same kind. Values of different kinds are never
// equal, and callables compare by identity.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	}
	return a == b
}
