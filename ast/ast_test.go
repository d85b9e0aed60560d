package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parsampsh/pashmak-core/ast"
)

func TestStringRendersLiterals(t *testing.T) {
	assert.Equal(t, "42", (&ast.IntLiteral{Value: 42}).String())
	assert.Equal(t, "true", (&ast.BoolLiteral{Value: true}).String())
	assert.Equal(t, "null", (&ast.NullLiteral{}).String())
	assert.Equal(t, "$x", (&ast.VarRef{Name: "x"}).String())
	assert.Equal(t, "^", (&ast.MemSlotExpr{}).String())
	assert.Equal(t, "^^", (&ast.CaretLiteral{}).String())
}

func TestStringRendersCompositeExpressions(t *testing.T) {
	call := &ast.CallExpr{
		Callee: &ast.BarewordRef{Name: "add"},
		Args:   []ast.Expression{&ast.IntLiteral{Value: 2}, &ast.IntLiteral{Value: 3}},
	}
	assert.Equal(t, "add(2, 3)", call.String())

	member := &ast.MemberExpr{Object: &ast.VarRef{Name: "o"}, Property: "x"}
	assert.Equal(t, "$o->x", member.String())

	idx := &ast.IndexExpr{Collection: &ast.VarRef{Name: "list"}, Index: &ast.IntLiteral{Value: 0}}
	assert.Equal(t, "$list[0]", idx.String())

	infix := &ast.InfixExpr{Left: &ast.IntLiteral{Value: 1}, Operator: "+", Right: &ast.IntLiteral{Value: 2}}
	assert.Equal(t, "(1 + 2)", infix.String())
}

func TestStringRendersListAndMapLiterals(t *testing.T) {
	list := &ast.ListLiteral{Elements: []ast.Expression{&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}}}
	assert.Equal(t, "[1, 2]", list.String())

	m := &ast.MapLiteral{Entries: []ast.MapEntry{
		{Key: &ast.StringLiteral{Value: "a"}, Value: &ast.IntLiteral{Value: 1}},
	}}
	assert.Equal(t, `{"a": 1}`, m.String())
}
