// ==============================================================================================
// FILE: interp/ops.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: Prefix/infix/index operator semantics over value.Value, split out
//          of eval.go for readability. Grounded on
//          amoghasbhardwaj-Eloquence/evaluator/evaluator.go's
//          evalInfixExpression/evalPrefixExpression numeric-promotion rules
//          (int op int stays int unless either side is float, except that
//          `/` yields a float when the division is not exact), generalized
//          with string concatenation and list/map/string indexing per
//          spec.md §4.2.
// ==============================================================================================

package interp

import (
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/value"
)

func evalPrefix(op string, right value.Value, cmd *lexer.Command) (value.Value, error) {
	switch op {
	case "-":
		switch r := right.(type) {
		case *value.Int:
			return &value.Int{Value: -r.Value}, nil
		case *value.Float:
			return &value.Float{Value: -r.Value}, nil
		}
		return nil, typeErr(cmd, "unary - unsupported for %s", right.Type())
	case "+":
		switch right.(type) {
		case *value.Int, *value.Float:
			return right, nil
		}
		return nil, typeErr(cmd, "unary + unsupported for %s", right.Type())
	case "!":
		return &value.Bool{Value: !value.Truthy(right)}, nil
	}
	return nil, typeErr(cmd, "unknown prefix operator %s", op)
}

func evalInfix(op string, left, right value.Value, cmd *lexer.Command) (value.Value, error) {
	switch op {
	case "&&":
		return &value.Bool{Value: value.Truthy(left) && value.Truthy(right)}, nil
	case "||":
		return &value.Bool{Value: value.Truthy(left) || value.Truthy(right)}, nil
	}

	if ls, ok := left.(*value.String); ok {
		switch op {
		case "+":
			if rs, ok := right.(*value.String); ok {
				return &value.String{Value: ls.Value + rs.Value}, nil
			}
		case "==":
			return &value.Bool{Value: stringsEqual(left, right)}, nil
		case "!=":
			return &value.Bool{Value: !stringsEqual(left, right)}, nil
		}
	}

	if lf, rf, ok := asFloats(left, right); ok {
		li, lIsInt := left.(*value.Int)
		ri, rIsInt := right.(*value.Int)
		bothInt := lIsInt && rIsInt

		switch op {
		case "+":
			if bothInt {
				return &value.Int{Value: li.Value + ri.Value}, nil
			}
			return &value.Float{Value: lf + rf}, nil
		case "-":
			if bothInt {
				return &value.Int{Value: li.Value - ri.Value}, nil
			}
			return &value.Float{Value: lf - rf}, nil
		case "*":
			if bothInt {
				return &value.Int{Value: li.Value * ri.Value}, nil
			}
			return &value.Float{Value: lf * rf}, nil
		case "/":
			if rf == 0 {
				return nil, pashmakerr.Newf(pashmakerr.ZeroDivisionError, "division by zero").At(cmd.FilePath, cmd.LineNumber)
			}
			if bothInt && li.Value%ri.Value == 0 {
				return &value.Int{Value: li.Value / ri.Value}, nil
			}
			return &value.Float{Value: lf / rf}, nil
		case "%":
			if !bothInt {
				return nil, typeErr(cmd, "%% requires int operands")
			}
			if ri.Value == 0 {
				return nil, pashmakerr.Newf(pashmakerr.ZeroDivisionError, "division by zero").At(cmd.FilePath, cmd.LineNumber)
			}
			return &value.Int{Value: li.Value % ri.Value}, nil
		case "<":
			return &value.Bool{Value: lf < rf}, nil
		case "<=":
			return &value.Bool{Value: lf <= rf}, nil
		case ">":
			return &value.Bool{Value: lf > rf}, nil
		case ">=":
			return &value.Bool{Value: lf >= rf}, nil
		case "==":
			return &value.Bool{Value: lf == rf}, nil
		case "!=":
			return &value.Bool{Value: lf != rf}, nil
		case "&":
			if !bothInt {
				return nil, typeErr(cmd, "& requires int operands")
			}
			return &value.Int{Value: li.Value & ri.Value}, nil
		case "|":
			if !bothInt {
				return nil, typeErr(cmd, "| requires int operands")
			}
			return &value.Int{Value: li.Value | ri.Value}, nil
		case "^^":
			if !bothInt {
				return nil, typeErr(cmd, "^^ requires int operands")
			}
			return &value.Int{Value: li.Value ^ ri.Value}, nil
		}
	}

	switch op {
	case "==":
		return &value.Bool{Value: valuesEqual(left, right)}, nil
	case "!=":
		return &value.Bool{Value: !valuesEqual(left, right)}, nil
	}

	return nil, typeErr(cmd, "operator %s unsupported between %s and %s", op, left.Type(), right.Type())
}

func asFloats(left, right value.Value) (float64, float64, bool) {
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	return lf, rf, lok && rok
}

func toFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case *value.Int:
		return float64(x.Value), true
	case *value.Float:
		return x.Value, true
	}
	return 0, false
}

func stringsEqual(left, right value.Value) bool {
	ls, lok := left.(*value.String)
	rs, rok := right.(*value.String)
	return lok && rok && ls.Value == rs.Value
}

func valuesEqual(left, right value.Value) bool {
	if left.Type() != right.Type() {
		return false
	}
	switch l := left.(type) {
	case *value.Null:
		return true
	case *value.Bool:
		return l.Value == right.(*value.Bool).Value
	case *value.String:
		return l.Value == right.(*value.String).Value
	case *value.Instance:
		return l == right.(*value.Instance)
	default:
		return left == right
	}
}

func evalIndex(coll, idx value.Value, cmd *lexer.Command) (value.Value, error) {
	switch c := coll.(type) {
	case *value.List:
		i, ok := idx.(*value.Int)
		if !ok {
			return nil, typeErr(cmd, "list index must be an int")
		}
		n := i.Value
		if n < 0 {
			n += int64(len(c.Elements))
		}
		if n < 0 || n >= int64(len(c.Elements)) {
			return nil, pashmakerr.Newf(pashmakerr.IndexError, "list index %d out of range", i.Value).At(cmd.FilePath, cmd.LineNumber)
		}
		return c.Elements[n], nil
	case *value.Map:
		h, ok := idx.(value.Hashable)
		if !ok {
			return nil, typeErr(cmd, "unhashable map key of type %s", idx.Type())
		}
		v, ok := c.Get(h)
		if !ok {
			return nil, pashmakerr.Newf(pashmakerr.KeyError, "key %s not found", idx.Inspect()).At(cmd.FilePath, cmd.LineNumber)
		}
		return v, nil
	case *value.String:
		i, ok := idx.(*value.Int)
		if !ok {
			return nil, typeErr(cmd, "string index must be an int")
		}
		runes := []rune(c.Value)
		n := i.Value
		if n < 0 {
			n += int64(len(runes))
		}
		if n < 0 || n >= int64(len(runes)) {
			return nil, pashmakerr.Newf(pashmakerr.IndexError, "string index %d out of range", i.Value).At(cmd.FilePath, cmd.LineNumber)
		}
		return &value.String{Value: string(runes[n])}, nil
	}
	return nil, typeErr(cmd, "cannot index value of type %s", coll.Type())
}

func typeErr(cmd *lexer.Command, format string, args ...interface{}) error {
	e := pashmakerr.Newf(pashmakerr.TypeError, format, args...)
	if cmd != nil {
		return e.At(cmd.FilePath, cmd.LineNumber)
	}
	return e
}
