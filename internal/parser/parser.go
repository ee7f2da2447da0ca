// Package parser implements the syntax analysis for tlox.
// It uses recursive descent for declarations/statements and one function per
// precedence level for expressions.
//
// Grammar, lowest precedence first:
//
//	expression  -> comma
//	comma       -> assignment ( "," assignment )*
//	assignment  -> IDENTIFIER "=" assignment | ternary
//	ternary     -> or ( "?" assignment ":" ternary )?
//	or          -> and ( "or" and )*
//	and         -> equality ( "and" equality )*
//	equality    -> comparison ( ( "!=" | "==" ) comparison )*
//	comparison  -> term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        -> factor ( ( "-" | "+" ) factor )*
//	factor      -> unary ( ( "/" | "*" ) unary )*
//	unary       -> ( "!" | "-" | "++" | "--" ) unary | postfix
//	postfix     -> call ( "++" | "--" )?
//	call        -> primary ( "(" arguments? ")" )*
//	primary     -> NUMBER | STRING | "true" | "false" | "nil" | IDENTIFIER | "(" expression ")"
package parser

import (
	"tlox/internal/ast"
	"tlox/internal/diag"
	"tlox/internal/token"
)

const (
	// MaxArgs is the maximum number of call arguments and function parameters.
	MaxArgs = 255
	// MaxDepth bounds the nesting of expressions and statements.
	MaxDepth = 256
)

// bailout is the panic value used to unwind to the nearest declaration after a fault.
type bailout struct{}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic

	depth      int // current nesting depth
	loopDepth  int // enclosing loops in the current function
	funcDepth  int // enclosing function bodies
	blockDepth int // enclosing blocks
	declStart  int // token index where the current declaration began
}

// New creates a new parser from a token slice ending in EOF.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token stream as a program and returns its statements
// together with every fault found. Statements that failed to parse are dropped.
func (p *Parser) Parse() ([]ast.Stmt, []diag.Diagnostic) {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.diags
}

// ParseExpression parses the whole token stream as a single expression.
// It is used by the REPL to echo the value of a bare expression.
func (p *Parser) ParseExpression() (expr ast.Expr, diags []diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			expr, diags = nil, p.diags
		}
	}()

	expr = p.expression()
	if !p.isAtEnd() {
		p.fail("E2001", p.peek(), "expect end of expression")
	}
	return expr, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.peek()
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

// match consumes the next token if it has one of the given kinds.
func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or bails out with msg.
func (p *Parser) expect(kind token.Kind, msg string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.fail("E2001", p.peek(), msg)
	return token.Token{}
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// report records a fault without interrupting the parse.
func (p *Parser) report(code string, tok token.Token, msg string) {
	p.diags = append(p.diags, diag.AtToken(code, diag.Parse, tok, "%s", msg))
}

// fail records a fault and unwinds to the enclosing declaration.
func (p *Parser) fail(code string, tok token.Token, msg string) {
	p.report(code, tok, msg)
	panic(bailout{})
}

// nest guards recursion depth; callers defer the returned func.
func (p *Parser) nest() func() {
	p.deepen()
	return func() { p.depth-- }
}

// deepen counts one more level of nesting. Loops that fold left call it once
// per fold and reset the count with a deferred restore.
func (p *Parser) deepen() {
	p.depth++
	if p.depth > MaxDepth {
		p.depth--
		p.fail("E2009", p.peek(), "too much nesting")
	}
}

func (p *Parser) restore(depth int) {
	p.depth = depth
}

// ============================================================
// Error recovery
// ============================================================

// synchronize discards tokens until just after a ';', or until a token that
// begins a new declaration. Progress past the start of the failed declaration
// is guaranteed.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.pos > p.declStart {
			switch p.peekKind() {
			case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
				token.WHILE, token.PRINT, token.RETURN:
				return
			case token.RIGHT_BRACE:
				if p.blockDepth > 0 {
					return
				}
			}
		}
		p.advance()
	}
}

// ============================================================
// Declarations
// ============================================================

// declaration parses one declaration or statement. A fault anywhere inside it
// is recovered here: the parser synchronizes and nil is returned.
func (p *Parser) declaration() (stmt ast.Stmt) {
	outerStart := p.declStart
	p.declStart = p.pos
	defer func() {
		p.declStart = outerStart
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FUN):
		return p.funDecl()
	case p.check(token.CLASS):
		p.fail("E2008", p.peek(), "classes are not supported")
	}
	return p.statement()
}

// varDecl parses: var IDENTIFIER [ = expression ] ;
func (p *Parser) varDecl() *ast.Var {
	stmt := &ast.Var{Name: p.expect(token.IDENTIFIER, "expect variable name")}
	if p.match(token.EQUAL) {
		stmt.Init = p.expression()
	}
	p.expect(token.SEMICOLON, "expect ';' after variable declaration")
	return stmt
}

// funDecl parses: fun IDENTIFIER ( params ) block
func (p *Parser) funDecl() *ast.Function {
	decl := &ast.Function{Name: p.expect(token.IDENTIFIER, "expect function name")}
	decl.Params = p.paramList()
	p.expect(token.LEFT_BRACE, "expect '{' before function body")

	outerLoops := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	defer func() {
		p.loopDepth = outerLoops
		p.funcDepth--
	}()

	decl.Body = p.block()
	return decl
}

// paramList parses: ( [ IDENTIFIER { , IDENTIFIER } ] )
func (p *Parser) paramList() []token.Token {
	p.expect(token.LEFT_PAREN, "expect '(' after function name")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) == MaxArgs {
				p.report("E2004", p.peek(), "can't have more than 255 parameters")
			}
			params = append(params, p.expect(token.IDENTIFIER, "expect parameter name"))
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.expect(token.RIGHT_PAREN, "expect ')' after parameters")
	return params
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) statement() ast.Stmt {
	defer p.nest()()

	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Stmts: p.block()}
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.BREAK):
		return p.breakStmt()
	case p.match(token.CONTINUE):
		return p.continueStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.SEMICOLON):
		return &ast.Empty{}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() *ast.Print {
	stmt := &ast.Print{Keyword: p.previous()}
	stmt.Expr = p.expression()
	p.expect(token.SEMICOLON, "expect ';' after value")
	return stmt
}

func (p *Parser) exprStmt() *ast.Expression {
	stmt := &ast.Expression{Expr: p.expression()}
	p.expect(token.SEMICOLON, "expect ';' after expression")
	return stmt
}

// block parses the rest of { declarations }; the opening brace is already consumed.
func (p *Parser) block() []ast.Stmt {
	p.blockDepth++
	defer func() { p.blockDepth-- }()

	stmts := []ast.Stmt{}
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RIGHT_BRACE, "expect '}' after block")
	return stmts
}

// ifStmt parses: if ( expression ) statement [ else statement ]
func (p *Parser) ifStmt() *ast.If {
	p.expect(token.LEFT_PAREN, "expect '(' after 'if'")
	stmt := &ast.If{Condition: p.expression()}
	p.expect(token.RIGHT_PAREN, "expect ')' after if condition")

	stmt.Then = p.statement()
	if p.match(token.ELSE) {
		stmt.Else = p.statement()
	}
	return stmt
}

// whileStmt parses: while ( expression ) statement
func (p *Parser) whileStmt() *ast.While {
	p.expect(token.LEFT_PAREN, "expect '(' after 'while'")
	stmt := &ast.While{Condition: p.expression()}
	p.expect(token.RIGHT_PAREN, "expect ')' after condition")
	stmt.Body = p.loopBody()
	return stmt
}

// forStmt parses: for ( [init] ; [cond] ; [incr] ) statement
// and desugars it into { init; while (cond) body } with incr on the While node.
func (p *Parser) forStmt() ast.Stmt {
	p.expect(token.LEFT_PAREN, "expect '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.expect(token.SEMICOLON, "expect ';' after loop condition")

	var incr ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		incr = p.expression()
	}
	p.expect(token.RIGHT_PAREN, "expect ')' after for clauses")

	body := p.loopBody()

	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	var loop ast.Stmt = &ast.While{Condition: cond, Body: body, Increment: incr}
	if init != nil {
		loop = &ast.Block{Stmts: []ast.Stmt{init, loop}}
	}
	return loop
}

func (p *Parser) loopBody() ast.Stmt {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.statement()
}

func (p *Parser) breakStmt() *ast.Break {
	stmt := &ast.Break{Keyword: p.previous()}
	if p.loopDepth == 0 {
		p.report("E2005", stmt.Keyword, "'break' outside of a loop")
	}
	p.expect(token.SEMICOLON, "expect ';' after 'break'")
	return stmt
}

func (p *Parser) continueStmt() *ast.Continue {
	stmt := &ast.Continue{Keyword: p.previous()}
	if p.loopDepth == 0 {
		p.report("E2006", stmt.Keyword, "'continue' outside of a loop")
	}
	p.expect(token.SEMICOLON, "expect ';' after 'continue'")
	return stmt
}

func (p *Parser) returnStmt() *ast.Return {
	stmt := &ast.Return{Keyword: p.previous()}
	if p.funcDepth == 0 {
		p.report("E2007", stmt.Keyword, "'return' outside of a function")
	}
	if !p.check(token.SEMICOLON) {
		stmt.Value = p.expression()
	}
	p.expect(token.SEMICOLON, "expect ';' after return value")
	return stmt
}

// ============================================================
// Expression parsing (precedence climbing)
// ============================================================

func (p *Parser) expression() ast.Expr {
	defer p.nest()()
	return p.comma()
}

func (p *Parser) comma() ast.Expr {
	defer p.restore(p.depth)
	expr := p.assignment()
	for p.match(token.COMMA) {
		p.deepen()
		expr = &ast.Comma{Left: expr, Right: p.assignment()}
	}
	return expr
}

func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.EQUAL) {
		defer p.nest()()
		equals := p.previous()
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}
		}
		p.report("E2003", equals, "invalid assignment target")
	}
	return expr
}

func (p *Parser) ternary() ast.Expr {
	cond := p.or()

	if p.match(token.QUESTION) {
		defer p.nest()()
		question := p.previous()
		then := p.assignment()
		p.expect(token.COLON, "expect ':' after then branch of conditional expression")
		return &ast.Ternary{Question: question, Condition: cond, Then: then, Else: p.ternary()}
	}
	return cond
}

func (p *Parser) or() ast.Expr {
	defer p.restore(p.depth)
	expr := p.and()
	for p.match(token.OR) {
		p.deepen()
		op := p.previous()
		expr = &ast.LogicalOr{Op: op, Left: expr, Right: p.and()}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	defer p.restore(p.depth)
	expr := p.equality()
	for p.match(token.AND) {
		p.deepen()
		op := p.previous()
		expr = &ast.LogicalAnd{Op: op, Left: expr, Right: p.equality()}
	}
	return expr
}

// binary parses one left-associative level: next ( op next )*.
func (p *Parser) binary(next func() ast.Expr, ops ...token.Kind) ast.Expr {
	defer p.restore(p.depth)
	expr := next()
	for p.match(ops...) {
		p.deepen()
		op := p.previous()
		expr = &ast.Binary{Op: op, Left: expr, Right: next()}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.binary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return p.binary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.Expr {
	return p.binary(p.unary, token.SLASH, token.STAR)
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		defer p.nest()()
		op := p.previous()
		return &ast.Unary{Op: op, Operand: p.unary()}
	}
	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		defer p.nest()()
		op := p.previous()
		return &ast.Crement{Op: op, Target: p.unary()}
	}
	return p.postfix()
}

func (p *Parser) postfix() ast.Expr {
	expr := p.call()
	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		return &ast.Crement{Op: p.previous(), Target: expr}
	}
	return expr
}

func (p *Parser) call() ast.Expr {
	defer p.restore(p.depth)
	expr := p.primary()
	for p.match(token.LEFT_PAREN) {
		p.deepen()
		expr = p.finishCall(expr)
	}
	return expr
}

// finishCall parses the rest of callee ( args ); the '(' is already consumed.
func (p *Parser) finishCall(callee ast.Expr) *ast.Call {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) == MaxArgs {
				p.report("E2004", p.peek(), "can't have more than 255 arguments")
			}
			args = append(args, p.assignment())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RIGHT_PAREN, "expect ')' after arguments")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.FALSE:
		p.advance()
		return &ast.Literal{Value: false}
	case token.TRUE:
		p.advance()
		return &ast.Literal{Value: true}
	case token.NIL:
		p.advance()
		return &ast.Literal{Value: nil}
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Value: tok.Literal}
	case token.IDENTIFIER:
		p.advance()
		return &ast.Variable{Name: tok}
	case token.LEFT_PAREN:
		p.advance()
		inner := p.expression()
		p.expect(token.RIGHT_PAREN, "expect ')' after expression")
		return &ast.Grouping{Inner: inner}
	}

	p.fail("E2002", tok, "expect expression")
	return nil
}
