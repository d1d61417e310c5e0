package cppython

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser consumes a token sequence and builds an AST. It keeps an internal
// cursor and is single-shot: construct a new Parser per statement or
// program.
type Parser struct {
	tokens  []Token
	current int
}

func NewParser(tokens []Token) *Parser { return &Parser{tokens: tokens} }

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// Parse reads one statement. A leading if/while/break/continue keyword
// routes to the matching statement parser; everything else parses as an
// assignment-or-lower expression. Returns (nil, nil) at immediate
// end-of-input.
func (p *Parser) Parse() (Node, error) {
	if tok := p.peek(); tok.Type == KEYWORD {
		switch tok.Lexeme {
		case "if":
			return p.parseIfStatement()
		case "while":
			return p.parseWhileStatement()
		case "break":
			p.advance()
			return &BreakNode{}, nil
		case "continue":
			p.advance()
			return &ContinueNode{}, nil
		}
	}
	return p.parseAssignment()
}

// ParseProgram reads NEWLINE-separated statements until end-of-input.
func (p *Parser) ParseProgram() ([]Node, error) {
	var stmts []Node
	for {
		for p.peek().Type == NEWLINE {
			p.advance()
		}
		if p.peek().Type == EOF {
			return stmts, nil
		}
		stmt, err := p.Parse()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, p.errHere("Unexpected token: %q", p.peek().Lexeme)
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) peek() Token {
	if p.current < len(p.tokens) {
		return p.tokens[p.current]
	}
	return Token{Type: EOF}
}

func (p *Parser) advance() Token {
	if p.current < len(p.tokens) {
		tok := p.tokens[p.current]
		p.current++
		return tok
	}
	return Token{Type: EOF}
}

func (p *Parser) errHere(format string, args ...interface{}) error {
	return &ParseError{Line: p.peek().Line, Msg: fmt.Sprintf(format, args...)}
}

// parseAssignment parses `target = expr` with a right-associative value
// side. The candidate left side must reduce to a plain variable reference.
func (p *Parser) parseAssignment() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type == OP && tok.Lexeme == "=" {
		p.advance()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.errHere("Unexpected end of input")
		}
		v, ok := left.(*VarNode)
		if !ok {
			return nil, p.errHere("Invalid assignment target")
		}
		return &AssignNode{Name: v.Name, Expr: right}, nil
	}
	return left, nil
}

// parseComparison collects a left-associative operator chain into a single
// multi-way CompareNode rather than a tree of binary nodes.
func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdditionAndSubtraction()
	if err != nil {
		return nil, err
	}
	var ops []string
	var rights []Node
	for {
		tok := p.peek()
		if tok.Type != OP || !comparisonOps[tok.Lexeme] {
			break
		}
		p.advance()
		right, err := p.parseAdditionAndSubtraction()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.errHere("Unexpected end of input")
		}
		ops = append(ops, tok.Lexeme)
		rights = append(rights, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &CompareNode{First: left, Ops: ops, Rights: rights}, nil
}

func (p *Parser) parseAdditionAndSubtraction() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != OP || (tok.Lexeme != "+" && tok.Lexeme != "-") {
			break
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.errHere("Unexpected end of input")
		}
		left = &BinOpNode{Left: left, Op: tok.Lexeme, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseUnaryMinus()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != OP ||
			(tok.Lexeme != "*" && tok.Lexeme != "/" && tok.Lexeme != "//" && tok.Lexeme != "%") {
			break
		}
		p.advance()
		right, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.errHere("Unexpected end of input")
		}
		left = &BinOpNode{Left: left, Op: tok.Lexeme, Right: right}
	}
	return left, nil
}

// parseUnaryMinus desugars a prefix minus chain to subtraction from a zero
// literal, recursing on itself so multiple leading minuses stack.
func (p *Parser) parseUnaryMinus() (Node, error) {
	if tok := p.peek(); tok.Type == OP && tok.Lexeme == "-" {
		p.advance()
		rhs, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, p.errHere("Unexpected end of input")
		}
		zero := &ValueNode{Val: Int(0)}
		return &BinOpNode{Left: zero, Op: "-", Right: rhs}, nil
	}
	return p.parsePower()
}

// parsePower parses `**`. The right operand recurses into the unary-minus
// level, which makes the operator right-associative and lets `2 ** -3`
// parse without a dedicated sign rule.
func (p *Parser) parsePower() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type == OP && tok.Lexeme == "**" {
		p.advance()
		right, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.errHere("Unexpected end of input")
		}
		left = &BinOpNode{Left: left, Op: "**", Right: right}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	switch tok := p.peek(); tok.Type {
	case NUMBER:
		return p.parseNumberToken()
	case STRING:
		return &ValueNode{Val: Str(p.advance().Lexeme)}, nil
	case BOOL:
		return &ValueNode{Val: Bool(p.advance().Lexeme == "True")}, nil
	case ID:
		return &VarNode{Name: p.advance().Lexeme}, nil
	case OP:
		if tok.Lexeme == "(" {
			return p.parseParenthesizedExpression()
		}
		// A stray operator where an operand is required. Rejecting it
		// here keeps nil out of every operator node above.
		return nil, p.errHere("Unexpected token: %q", tok.Lexeme)
	case EOF:
		return nil, nil
	default:
		return nil, p.errHere("Unexpected token: %q", tok.Lexeme)
	}
}

// parseNumberToken classifies a number lexeme by its dot count: zero dots
// make an integer, one a float, anything more is malformed.
func (p *Parser) parseNumberToken() (Node, error) {
	tok := p.advance()
	switch strings.Count(tok.Lexeme, ".") {
	case 0:
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, &ParseError{Line: tok.Line, Msg: "Invalid number format"}
		}
		return &ValueNode{Val: Int(n)}, nil
	case 1:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &ParseError{Line: tok.Line, Msg: "Invalid number format"}
		}
		return &ValueNode{Val: Num(f)}, nil
	default:
		return nil, &ParseError{Line: tok.Line, Msg: "Invalid number format"}
	}
}

func (p *Parser) parseParenthesizedExpression() (Node, error) {
	p.advance()
	expr, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type == OP && tok.Lexeme == ")" {
		p.advance()
		return expr, nil
	}
	return nil, p.errHere("Expected ')'")
}

func (p *Parser) parseIfStatement() (Node, error) {
	p.advance()
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elifs []ElifClause
	for p.peek().Type == KEYWORD && p.peek().Lexeme == "elif" {
		p.advance()
		elifCond, err := p.parseCondition("elif")
		if err != nil {
			return nil, err
		}
		elifBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ElifClause{Cond: elifCond, Body: elifBody})
	}

	elseBody, err := p.parseElseBlock()
	if err != nil {
		return nil, err
	}
	return &IfNode{Cond: cond, Body: body, Elifs: elifs, Else: elseBody}, nil
}

func (p *Parser) parseWhileStatement() (Node, error) {
	p.advance()
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	elseBody, err := p.parseElseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileNode{Cond: cond, Body: body, Else: elseBody}, nil
}

// parseCondition parses the condition expression of an if/elif/while header
// and the mandatory ':' that follows it.
func (p *Parser) parseCondition(kw string) (Node, error) {
	cond, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, p.errHere("Expected condition after '%s'", kw)
	}
	if tok := p.peek(); tok.Type != OP || tok.Lexeme != ":" {
		return nil, p.errHere("Expected ':' after %s condition", kw)
	}
	p.advance()
	return cond, nil
}

func (p *Parser) parseElseBlock() ([]Node, error) {
	if p.peek().Type != KEYWORD || p.peek().Lexeme != "else" {
		return nil, nil
	}
	p.advance()
	if tok := p.peek(); tok.Type != OP || tok.Lexeme != ":" {
		return nil, p.errHere("Expected ':' after else")
	}
	p.advance()
	return p.parseBlock()
}

// parseBlock parses an indentation-delimited statement sequence: NEWLINE,
// INDENT, statements interspersed with NEWLINEs, DEDENT.
func (p *Parser) parseBlock() ([]Node, error) {
	if p.peek().Type != NEWLINE {
		return nil, p.errHere("Expected newline after statement")
	}
	p.advance()

	if p.peek().Type != INDENT {
		return nil, p.errHere("Expected indent after statement")
	}
	p.advance()

	var stmts []Node
	for p.peek().Type != DEDENT && p.peek().Type != EOF {
		stmt, err := p.Parse()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, p.errHere("Unexpected token: %q", p.peek().Lexeme)
		}
		stmts = append(stmts, stmt)
		if p.peek().Type == NEWLINE {
			p.advance()
		}
	}

	if p.peek().Type != DEDENT {
		return nil, p.errHere("Expected dedent after block")
	}
	p.advance()
	return stmts, nil
}
