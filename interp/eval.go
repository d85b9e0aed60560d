// ==============================================================================================
// FILE: interp/eval.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: Walks an ast.Expression against the current frame, producing a
//          value.Value. Grounded on
//          amoghasbhardwaj-Eloquence/evaluator/evaluator.go's Eval
//          type-switch shape, generalized from Eloquence's environment
//          parent-chain lookup to Pashmak's frame + namespace-ordered
//          bareword resolution (spec.md §4.2).
// ==============================================================================================

package interp

import (
	"strings"

	"github.com/parsampsh/pashmak-core/ast"
	"github.com/parsampsh/pashmak-core/exprparser"
	"github.com/parsampsh/pashmak-core/frame"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/value"
)

// evalExprText parses text (the ArgsText of a command, or any other
// expression source) and evaluates it against the current frame.
func (ip *Interpreter) evalExprText(text string, cmd *lexer.Command) (value.Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return value.NullValue, nil
	}
	node, err := exprparser.ParseExpression(text, cmd.FilePath, cmd.LineNumber)
	if err != nil {
		return nil, err
	}
	return ip.evalExpr(node, cmd)
}

// evalExpr walks node, evaluating it against the currently-executing frame.
func (ip *Interpreter) evalExpr(node ast.Expression, cmd *lexer.Command) (value.Value, error) {
	f := ip.top()

	switch n := node.(type) {
	case *ast.NullLiteral:
		return value.NullValue, nil
	case *ast.BoolLiteral:
		return &value.Bool{Value: n.Value}, nil
	case *ast.IntLiteral:
		return &value.Int{Value: n.Value}, nil
	case *ast.FloatLiteral:
		return &value.Float{Value: n.Value}, nil
	case *ast.StringLiteral:
		return &value.String{Value: n.Value}, nil
	case *ast.CaretLiteral:
		return &value.String{Value: "^"}, nil

	case *ast.MemSlotExpr:
		v := ip.mem
		if v == nil {
			v = value.NullValue
		}
		ip.mem = value.NullValue
		return v, nil

	case *ast.VarRef:
		if v, ok := f.Get(n.Name); ok {
			return v, nil
		}
		return nil, pashmakerr.Newf(pashmakerr.VariableError, "undefined variable $%s", n.Name).At(cmd.FilePath, cmd.LineNumber)

	case *ast.BarewordRef:
		return ip.resolveBareword(n.Name, cmd)

	case *ast.ListLiteral:
		elems := make([]value.Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := ip.evalExpr(e, cmd)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &value.List{Elements: elems}, nil

	case *ast.MapLiteral:
		m := value.NewMap()
		for _, entry := range n.Entries {
			k, err := ip.evalExpr(entry.Key, cmd)
			if err != nil {
				return nil, err
			}
			v, err := ip.evalExpr(entry.Value, cmd)
			if err != nil {
				return nil, err
			}
			h, ok := k.(value.Hashable)
			if !ok {
				return nil, pashmakerr.Newf(pashmakerr.TypeError, "unhashable map key of type %s", k.Type()).At(cmd.FilePath, cmd.LineNumber)
			}
			m.Set(h, k, v)
		}
		return m, nil

	case *ast.PrefixExpr:
		right, err := ip.evalExpr(n.Right, cmd)
		if err != nil {
			return nil, err
		}
		return evalPrefix(n.Operator, right, cmd)

	case *ast.InfixExpr:
		left, err := ip.evalExpr(n.Left, cmd)
		if err != nil {
			return nil, err
		}
		right, err := ip.evalExpr(n.Right, cmd)
		if err != nil {
			return nil, err
		}
		return evalInfix(n.Operator, left, right, cmd)

	case *ast.IndexExpr:
		coll, err := ip.evalExpr(n.Collection, cmd)
		if err != nil {
			return nil, err
		}
		idx, err := ip.evalExpr(n.Index, cmd)
		if err != nil {
			return nil, err
		}
		return evalIndex(coll, idx, cmd)

	case *ast.MemberExpr:
		obj, err := ip.evalExpr(n.Object, cmd)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*value.Instance)
		if !ok {
			return nil, pashmakerr.Newf(pashmakerr.TypeError, "member access on non-instance value of type %s", obj.Type()).At(cmd.FilePath, cmd.LineNumber)
		}
		if v, ok := inst.Props[n.Property]; ok {
			return v, nil
		}
		return nil, pashmakerr.Newf(pashmakerr.MethodError, "%s%s has no property %s", inst.Class.Namespace, inst.Class.Name, n.Property).At(cmd.FilePath, cmd.LineNumber)

	case *ast.CallExpr:
		return ip.evalCall(n, cmd)

	case *ast.InlineCallExpr:
		return ip.evalInlineCall(n, cmd)
	}

	return nil, pashmakerr.Newf(pashmakerr.SyntaxError, "cannot evaluate expression node %T", node).At(cmd.FilePath, cmd.LineNumber)
}

// resolveBareword looks up name as, in order: a user-declared function, then
// a user-declared class, each in namespace order (current namespace, then
// each `use`d namespace, then global), a `define`d constant, or a native
// builtin (spec.md §4.2).
func (ip *Interpreter) resolveBareword(name string, cmd *lexer.Command) (value.Value, error) {
	f := ip.top()

	order := ip.resolutionOrder(f)

	for _, ns := range order {
		if fn, ok := ip.functions[ns+name]; ok {
			return fn, nil
		}
	}
	for _, ns := range order {
		if cls, ok := ip.classes[ns+name]; ok {
			return cls, nil
		}
	}

	if v, ok := ip.defines[name]; ok {
		return v, nil
	}

	if n, ok := ip.builtins.Lookup(name); ok {
		return n, nil
	}

	return nil, pashmakerr.Newf(pashmakerr.NameError, "undefined name %s", name).At(cmd.FilePath, cmd.LineNumber)
}

// resolutionOrder yields the namespace-prefix search order: the current
// namespace first, then each `use`d namespace in declaration order, then
// the global (empty-prefix) namespace last (spec.md §4.2).
func (ip *Interpreter) resolutionOrder(f *frame.Frame) []string {
	order := make([]string, 0, 2+len(f.UsedNamespaces))
	if cur := ip.currentNamespace(); cur != "" {
		order = append(order, cur)
	}
	for _, ns := range f.UsedNamespaces {
		prefix := ns
		if !strings.HasSuffix(prefix, ".") {
			prefix += "."
		}
		order = append(order, prefix)
	}
	order = append(order, "")
	return order
}
