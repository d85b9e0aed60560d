// ==============================================================================================
// FILE: exprparser/parser.go
// ==============================================================================================
// PACKAGE: exprparser
// PURPOSE: Pratt parser turning an expression-language token stream into an
//          ast.Expression. Same prefixParseFns/infixParseFns/precedence
//          shape as amoghasbhardwaj-Eloquence/parser/parser.go, retargeted
//          from Eloquence's word-operator grammar to Pashmak's punctuation
//          grammar (spec.md §4.2), with %{...}% inline-call support and the
//          ^/^^ prefix-vs-infix duality (spec.md §9).
// ==============================================================================================

package exprparser

import (
	"strconv"

	"github.com/parsampsh/pashmak-core/ast"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/token"
)

// Precedence levels, lowest to highest.
const (
	LOWEST int = iota
	OR         // ||
	AND        // &&
	BITOR      // |
	BITXOR     // ^^ (xor)
	BITAND     // &
	EQUALS     // == !=
	LESSGREATER
	SUM     // + -
	PRODUCT // * / %
	PREFIX  // unary + - !
	CALL    // f(...)
	INDEX   // a[i]
	MEMBER  // a->b
)

var precedences = map[token.ExprTokenType]int{
	token.OROR:     OR,
	token.ANDAND:   AND,
	token.PIPE:     BITOR,
	token.CARET2:   BITXOR,
	token.AMP:      BITAND,
	token.EQ:       EQUALS,
	token.NEQ:      EQUALS,
	token.LT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GT:       LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: INDEX,
	token.ARROW:    MEMBER,
	token.DOT:      MEMBER,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser turns one expression-language string into an ast.Expression.
type Parser struct {
	l *exprLexer

	curToken  token.ExprToken
	peekToken token.ExprToken

	prefixParseFns map[token.ExprTokenType]prefixParseFn
	infixParseFns  map[token.ExprTokenType]infixParseFn

	filePath   string
	lineNumber int
}

// New constructs a Parser over text. filePath/line are attached to any
// SyntaxError the parser raises.
func New(text, filePath string, line int) *Parser {
	p := &Parser{l: newExprLexer(text), filePath: filePath, lineNumber: line}

	p.prefixParseFns = map[token.ExprTokenType]prefixParseFn{
		token.IDENT:       p.parseIdentifier,
		token.VARREF:      p.parseVarRef,
		token.INT:         p.parseIntLiteral,
		token.FLOAT:       p.parseFloatLiteral,
		token.STRING:      p.parseStringLiteral,
		token.BOOL:        p.parseBoolLiteral,
		token.NULL:        p.parseNullLiteral,
		token.MINUS:       p.parsePrefixExpression,
		token.PLUS:        p.parsePrefixExpression,
		token.BANG:        p.parsePrefixExpression,
		token.CARET:       p.parseMemSlot,
		token.CARET2:      p.parseCaretLiteral,
		token.LPAREN:      p.parseGroupedExpression,
		token.LBRACKET:    p.parseListLiteral,
		token.LBRACE:      p.parseMapLiteral,
		token.INLINE_CALL: p.parseInlineCall,
	}

	p.infixParseFns = map[token.ExprTokenType]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.STAR:     p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NEQ:      p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.GTE:      p.parseInfixExpression,
		token.ANDAND:   p.parseInfixExpression,
		token.OROR:     p.parseInfixExpression,
		token.AMP:      p.parseInfixExpression,
		token.PIPE:     p.parseInfixExpression,
		token.CARET2:   p.parseInfixExpression, // led: xor, disambiguated from the CARET2 prefix above
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.ARROW:    p.parseMemberExpression,
		token.DOT:      p.parseMemberExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.nextToken()
}

func (p *Parser) syntaxErrorf(format string, args ...interface{}) error {
	return pashmakerr.Newf(pashmakerr.SyntaxError, format, args...).At(p.filePath, p.lineNumber)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) expectPeek(t token.ExprTokenType) error {
	if p.peekToken.Type != t {
		return p.syntaxErrorf("expected next token %s, got %s (%q)", t, p.peekToken.Type, p.peekToken.Literal)
	}
	p.nextToken()
	return nil
}

// ParseExpression parses the full token stream as a single expression.
func ParseExpression(text, filePath string, line int) (ast.Expression, error) {
	p := New(text, filePath, line)
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if p.peekToken.Type != token.EOF {
		return nil, p.syntaxErrorf("unexpected trailing token %s (%q)", p.peekToken.Type, p.peekToken.Literal)
	}
	return expr, nil
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		return nil, p.syntaxErrorf("unexpected token %s (%q)", p.curToken.Type, p.curToken.Literal)
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for p.peekToken.Type != token.EOF && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left, nil
		}
		p.nextToken()
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	return &ast.BarewordRef{Name: p.curToken.Literal}, nil
}

func (p *Parser) parseVarRef() (ast.Expression, error) {
	return &ast.VarRef{Name: p.curToken.Literal}, nil
}

func (p *Parser) parseIntLiteral() (ast.Expression, error) {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		return nil, p.syntaxErrorf("invalid integer literal %q", p.curToken.Literal)
	}
	return &ast.IntLiteral{Value: v}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expression, error) {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		return nil, p.syntaxErrorf("invalid float literal %q", p.curToken.Literal)
	}
	return &ast.FloatLiteral{Value: v}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	return &ast.StringLiteral{Value: p.curToken.Literal}, nil
}

func (p *Parser) parseBoolLiteral() (ast.Expression, error) {
	return &ast.BoolLiteral{Value: p.curToken.Literal == "true"}, nil
}

func (p *Parser) parseNullLiteral() (ast.Expression, error) {
	return &ast.NullLiteral{}, nil
}

// parseMemSlot handles prefix `^`: always the memory-slot consume.
func (p *Parser) parseMemSlot() (ast.Expression, error) {
	return &ast.MemSlotExpr{}, nil
}

// parseCaretLiteral handles `^^` in *prefix* (nud) position: the literal `^`
// character, per spec.md §4.2's bareword-scan rule. When `^^` instead
// appears between two already-parsed operands, parseInfixExpression (the
// led registration) runs instead and produces bitwise xor -- see DESIGN.md
// Open Question 2.
func (p *Parser) parseCaretLiteral() (ast.Expression, error) {
	return &ast.CaretLiteral{}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	operator := p.curToken.Literal
	p.nextToken()
	right, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	return &ast.PrefixExpr{Operator: operator, Right: right}, nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	operator := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.InfixExpr{Left: left, Operator: operator, Right: right}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseExpressionList(end token.ExprTokenType) ([]ast.Expression, error) {
	var list []ast.Expression

	if p.peekToken.Type == end {
		p.nextToken()
		return list, nil
	}

	p.nextToken()
	first, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	list = append(list, first)

	for p.peekToken.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		next, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, next)
	}

	if err := p.expectPeek(end); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	elems, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Elements: elems}, nil
}

func (p *Parser) parseMapLiteral() (ast.Expression, error) {
	m := &ast.MapLiteral{}

	for p.peekToken.Type != token.RBRACE {
		p.nextToken()
		key, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(token.COLON); err != nil {
			return nil, err
		}
		p.nextToken()
		val, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, ast.MapEntry{Key: key, Value: val})

		if p.peekToken.Type != token.RBRACE {
			if err := p.expectPeek(token.COMMA); err != nil {
				return nil, err
			}
		}
	}

	if err := p.expectPeek(token.RBRACE); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Parser) parseCallExpression(callee ast.Expression) (ast.Expression, error) {
	args, err := p.parseExpressionList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: callee, Args: args}, nil
}

func (p *Parser) parseIndexExpression(collection ast.Expression) (ast.Expression, error) {
	p.nextToken()
	idx, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.IndexExpr{Collection: collection, Index: idx}, nil
}

func (p *Parser) parseMemberExpression(object ast.Expression) (ast.Expression, error) {
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	return &ast.MemberExpr{Object: object, Property: p.curToken.Literal}, nil
}

func (p *Parser) parseInlineCall() (ast.Expression, error) {
	return &ast.InlineCallExpr{Source: p.curToken.Literal}, nil
}
