package exprparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/ast"
	"github.com/parsampsh/pashmak-core/exprparser"
)

func parse(t *testing.T, text string) ast.Expression {
	t.Helper()
	expr, err := exprparser.ParseExpression(text, "t.pashm", 1)
	require.NoError(t, err)
	return expr
}

func TestParseLiterals(t *testing.T) {
	assert.Equal(t, "42", parse(t, "42").String())
	assert.Equal(t, "3.5", parse(t, "3.5").String())
	assert.Equal(t, "true", parse(t, "true").String())
	assert.Equal(t, "null", parse(t, "null").String())
	assert.Equal(t, `"hi"`, parse(t, `"hi"`).String())
}

func TestParseVarRefAndBareword(t *testing.T) {
	assert.Equal(t, "$x", parse(t, "$x").String())
	assert.Equal(t, "myFunc", parse(t, "myFunc").String())
}

func TestParseArithmeticPrecedence(t *testing.T) {
	expr := parse(t, "1 + 2 * 3")
	assert.Equal(t, "(1 + (2 * 3))", expr.String())
}

func TestParseComparisonAndLogic(t *testing.T) {
	expr := parse(t, "$a == 1 && $b != 2")
	assert.Equal(t, "(($a == 1) && ($b != 2))", expr.String())
}

func TestParseMemberAndIndexAndCall(t *testing.T) {
	assert.Equal(t, "$o->x", parse(t, "$o->x").String())
	assert.Equal(t, "$list[0]", parse(t, "$list[0]").String())
	assert.Equal(t, "add(1, 2)", parse(t, "add(1, 2)").String())
}

func TestParseListAndMapLiterals(t *testing.T) {
	assert.Equal(t, "[1, 2, 3]", parse(t, "[1, 2, 3]").String())
	assert.Equal(t, `{"a": 1}`, parse(t, `{"a": 1}`).String())
}

func TestParseMemSlotPrefix(t *testing.T) {
	expr := parse(t, "^")
	_, ok := expr.(*ast.MemSlotExpr)
	assert.True(t, ok)
}

func TestParseCaretCaretAsLiteralInPrefixPosition(t *testing.T) {
	expr := parse(t, "^^")
	_, ok := expr.(*ast.CaretLiteral)
	assert.True(t, ok, "^^ standing alone must parse as the literal caret, not xor")
}

func TestParseCaretCaretAsXorInInfixPosition(t *testing.T) {
	expr := parse(t, "$a ^^ $b")
	infix, ok := expr.(*ast.InfixExpr)
	require.True(t, ok, "^^ between two operands must parse as binary xor")
	assert.Equal(t, "^^", infix.Operator)
}

func TestParseInlineCallCapturesBalancedSpan(t *testing.T) {
	expr := parse(t, `%{ print("hi") }%`)
	inline, ok := expr.(*ast.InlineCallExpr)
	require.True(t, ok)
	assert.Equal(t, ` print("hi") `, inline.Source)
}

func TestParseNestedInlineCallCompletesInnerFirst(t *testing.T) {
	expr := parse(t, `%{ a %{ b }% c }%`)
	inline, ok := expr.(*ast.InlineCallExpr)
	require.True(t, ok)
	assert.Equal(t, ` a %{ b }% c `, inline.Source)
}

func TestParseUnaryMinusAndBang(t *testing.T) {
	assert.Equal(t, "(-1)", parse(t, "-1").String())
	assert.Equal(t, "(!$x)", parse(t, "!$x").String())
}

func TestParseGroupedExpression(t *testing.T) {
	expr := parse(t, "(1 + 2) * 3")
	assert.Equal(t, "((1 + 2) * 3)", expr.String())
}

func TestParseUnterminatedGroupIsSyntaxError(t *testing.T) {
	_, err := exprparser.ParseExpression("(1 + 2", "t.pashm", 1)
	require.Error(t, err)
}

func TestParseTrailingGarbageIsSyntaxError(t *testing.T) {
	_, err := exprparser.ParseExpression("1 2", "t.pashm", 1)
	require.Error(t, err)
}
