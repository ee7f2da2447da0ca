package ast

import (
	"tlox/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	// ---- Expressions ----
	case *Literal:
		return m("Literal", "value", n.Value)
	case *Grouping:
		return m("Grouping", "expr", NodeToMap(n.Inner))
	case *Unary:
		return m("Unary", "op", tokenToMap(n.Op), "operand", NodeToMap(n.Operand))
	case *Binary:
		return m("Binary",
			"op", tokenToMap(n.Op),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *LogicalAnd:
		return m("LogicalAnd", "left", NodeToMap(n.Left), "right", NodeToMap(n.Right))
	case *LogicalOr:
		return m("LogicalOr", "left", NodeToMap(n.Left), "right", NodeToMap(n.Right))
	case *Ternary:
		return m("Ternary",
			"condition", NodeToMap(n.Condition),
			"then", NodeToMap(n.Then),
			"else", NodeToMap(n.Else))
	case *Comma:
		return m("Comma", "left", NodeToMap(n.Left), "right", NodeToMap(n.Right))
	case *Crement:
		return m("Crement", "op", tokenToMap(n.Op), "target", NodeToMap(n.Target))
	case *Variable:
		return m("Variable", "name", tokenToMap(n.Name))
	case *Assign:
		return m("Assign", "name", tokenToMap(n.Name), "value", NodeToMap(n.Value))
	case *Call:
		return m("Call",
			"callee", NodeToMap(n.Callee),
			"args", exprSlice(n.Args))

	// ---- Statements ----
	case *Empty:
		return m("Empty")
	case *Expression:
		return m("Expression", "expr", NodeToMap(n.Expr))
	case *Print:
		return m("Print", "expr", NodeToMap(n.Expr))
	case *Var:
		result := m("Var", "name", tokenToMap(n.Name))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *Block:
		return m("Block", "stmts", StmtsToSlice(n.Stmts))
	case *If:
		result := m("If",
			"condition", NodeToMap(n.Condition),
			"then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *While:
		result := m("While",
			"condition", NodeToMap(n.Condition),
			"body", NodeToMap(n.Body))
		if n.Increment != nil {
			result["increment"] = NodeToMap(n.Increment)
		}
		return result
	case *Break:
		return m("Break", "keyword", tokenToMap(n.Keyword))
	case *Continue:
		return m("Continue", "keyword", tokenToMap(n.Keyword))
	case *Function:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = tokenToMap(p)
		}
		return m("Function",
			"name", tokenToMap(n.Name),
			"params", params,
			"body", StmtsToSlice(n.Body))
	case *Return:
		result := m("Return", "keyword", tokenToMap(n.Keyword))
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// StmtsToSlice converts a statement sequence, e.g. a parsed program.
func StmtsToSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

// ---- helpers ----

// m builds a map with kind and extra key-value pairs.
func m(kind string, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func tokenToMap(tok token.Token) map[string]interface{} {
	return map[string]interface{}{
		"lexeme": tok.Lexeme,
		"line":   tok.Pos.Line,
		"column": tok.Pos.Column,
	}
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
