// ==============================================================================================
// FILE: ast/ast.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Node types for the embedded expression language (spec.md §4.2).
//          Reconstructed from amoghasbhardwaj-Eloquence/parser/parser.go and
//          evaluator/evaluator.go's usage sites, since the teacher's own
//          ast/*.go source was not present in the retrieval pack -- only its
//          ast_*_test.go files, which fixed the Token-carrying, String()
//          convention every node below follows.
// ==============================================================================================

package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// Expression is any node the parser can produce; every node can stringify
// itself for diagnostics and golden-test comparisons.
type Expression interface {
	String() string
}

// VarRef is `$name` -- looked up in the current frame's vars.
type VarRef struct {
	Name string
}

func (v *VarRef) String() string { return "$" + v.Name }

// BarewordRef is a plain identifier, resolved at eval time against
// functions/classes/defines in namespace order (spec.md §4.2).
type BarewordRef struct {
	Name string
}

func (b *BarewordRef) String() string { return b.Name }

// MemSlotExpr is `^`: consume-and-return the interpreter's memory slot.
type MemSlotExpr struct{}

func (m *MemSlotExpr) String() string { return "^" }

// CaretLiteral is `^^` used in prefix position: the literal `^` character.
type CaretLiteral struct{}

func (c *CaretLiteral) String() string { return "^^" }

// NullLiteral is the `null` literal.
type NullLiteral struct{}

func (n *NullLiteral) String() string { return "null" }

// BoolLiteral is `true`/`false`.
type BoolLiteral struct {
	Value bool
}

func (b *BoolLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// IntLiteral is an integer literal.
type IntLiteral struct {
	Value int64
}

func (i *IntLiteral) String() string { return strconv.FormatInt(i.Value, 10) }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Value float64
}

func (f *FloatLiteral) String() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// StringLiteral is a string literal, value already unescaped.
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) String() string { return "\"" + s.Value + "\"" }

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	Elements []Expression
}

func (l *ListLiteral) String() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(l.Elements))
	for _, e := range l.Elements {
		parts = append(parts, e.String())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// MapEntry is one `k: v` pair inside a MapLiteral.
type MapEntry struct {
	Key   Expression
	Value Expression
}

// MapLiteral is `{k1: v1, k2: v2, ...}`.
type MapLiteral struct {
	Entries []MapEntry
}

func (m *MapLiteral) String() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		parts = append(parts, e.Key.String()+": "+e.Value.String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// PrefixExpr is a unary operator applied to an operand: `+ - !`.
type PrefixExpr struct {
	Operator string
	Right    Expression
}

func (p *PrefixExpr) String() string {
	return "(" + p.Operator + p.Right.String() + ")"
}

// InfixExpr is a binary operator applied to two operands.
type InfixExpr struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (i *InfixExpr) String() string {
	return "(" + i.Left.String() + " " + i.Operator + " " + i.Right.String() + ")"
}

// MemberExpr is `a->b` (equivalently `a.b`): member access.
type MemberExpr struct {
	Object   Expression
	Property string
}

func (m *MemberExpr) String() string {
	return m.Object.String() + "->" + m.Property
}

// IndexExpr is `a[i]`.
type IndexExpr struct {
	Collection Expression
	Index      Expression
}

func (ix *IndexExpr) String() string {
	return ix.Collection.String() + "[" + ix.Index.String() + "]"
}

// CallExpr is `f(args, ...)`.
type CallExpr struct {
	Callee Expression
	Args   []Expression
}

func (c *CallExpr) String() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// InlineCallExpr is `%{ ... }%`: an inline subprogram call. Source holds the
// raw command text between the delimiters, parsed and run with frame
// isolation disabled (spec.md §4.2); its result is the final memory slot.
type InlineCallExpr struct {
	Source string
}

func (ic *InlineCallExpr) String() string { return "%{" + ic.Source + "}%" }
