// ==============================================================================================
// FILE: interp/decls.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: Declaration-time commands: `func`/`endfunc` body collection,
//          `class`/`endclass` collection, `@doc`, `namespace`/`use`, `new`,
//          `return`, and assignment-target resolution. Grounded on spec.md
//          §4.3's "Control structures (semantics)" list and
//          original_source/src/core/program.py's is_in_func/func-collection
//          guard that frame.Frame.Prescan already reimplements for the
//          pre-pass; this file implements the live collection side.
// ==============================================================================================

package interp

import (
	"strings"

	"github.com/parsampsh/pashmak-core/ast"
	"github.com/parsampsh/pashmak-core/exprparser"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/token"
	"github.com/parsampsh/pashmak-core/value"
)

// collectFuncBodyCommand appends cmd to the function/method currently being
// collected, tracking nested func/endfunc depth so only the matching
// outermost `endfunc` actually closes the declaration (spec.md §4.3 step 1).
func (ip *Interpreter) collectFuncBodyCommand(cmd *lexer.Command) (bool, bool, error) {
	switch token.Kind(cmd.Head) {
	case token.KwFunc:
		ip.funcDepth++
	case token.KwEndFunc:
		if ip.funcDepth > 0 {
			ip.funcDepth--
		} else {
			ip.closeFunc()
			return false, false, nil
		}
	}
	ip.collectingFunc.Body = append(ip.collectingFunc.Body, cmd)
	return false, false, nil
}

func (ip *Interpreter) closeFunc() {
	fn := ip.collectingFunc
	fn.Doc = ip.pendingDoc
	ip.pendingDoc = ""

	if ip.collectingClass != nil {
		ip.collectingClass.Methods[fn.Name] = fn
	} else {
		ip.functions[ip.currentNamespace()+fn.Name] = fn
	}
	ip.collectingFunc = nil
	ip.funcDepth = 0
}

// collectClassBodyCommand handles `endclass`, a nested `func` (method)
// declaration, and `$prop = expr` / bare `$prop` property declarations
// (spec.md §4.3 step 2).
func (ip *Interpreter) collectClassBodyCommand(cmd *lexer.Command) (bool, bool, error) {
	if token.Kind(cmd.Head) == token.KwEndClass {
		ip.closeClass()
		return false, false, nil
	}
	if token.Kind(cmd.Head) == token.KwFunc {
		name := firstToken(cmd.ArgsText)
		ip.collectingFunc = &value.Function{
			Name:      name,
			Namespace: ip.currentNamespace(),
			IsMethod:  true,
		}
		ip.funcDepth = 0
		return false, false, nil
	}
	if strings.HasPrefix(strings.TrimSpace(cmd.SourceText), "$") {
		lhs, rhs, hasRHS := splitAssignment(cmd.SourceText)
		name := strings.TrimPrefix(strings.TrimSpace(lhs), "$")
		if !hasRHS {
			ip.setClassProp(name, value.NullValue)
			return false, false, nil
		}
		v, err := ip.evalExprText(rhs, cmd)
		if err != nil {
			return false, false, err
		}
		ip.setClassProp(name, v)
		return false, false, nil
	}
	// Anything else inside a class body, outside a method, is a no-op.
	return false, false, nil
}

func (ip *Interpreter) closeClass() {
	cls := ip.collectingClass
	cls.Doc = ip.pendingDoc
	ip.pendingDoc = ""
	ip.classes[ip.currentNamespace()+cls.Name] = cls
	ip.collectingClass = nil
}

func (ip *Interpreter) setClassProp(name string, v value.Value) {
	if _, exists := ip.collectingClass.Props[name]; !exists {
		ip.collectingClass.PropOrder = append(ip.collectingClass.PropOrder, name)
	}
	ip.collectingClass.Props[name] = v
}

// openFunc begins a top-level (non-method) function declaration.
func (ip *Interpreter) openFunc(cmd *lexer.Command) {
	name := firstToken(cmd.ArgsText)
	ip.collectingFunc = &value.Function{
		Name:      name,
		Namespace: ip.currentNamespace(),
	}
	ip.funcDepth = 0
}

// openClass begins a class declaration.
func (ip *Interpreter) openClass(cmd *lexer.Command) {
	name := firstToken(cmd.ArgsText)
	ip.collectingClass = &value.Class{
		Name:      name,
		Namespace: ip.currentNamespace(),
		Props:     make(map[string]value.Value),
		Methods:   make(map[string]*value.Function),
	}
}

// runReturn sets the memory slot and signals the frame to stop.
func (ip *Interpreter) runReturn(cmd *lexer.Command) (bool, bool, error) {
	v, err := ip.evalExprText(cmd.ArgsText, cmd)
	if err != nil {
		return false, false, err
	}
	ip.mem = v
	return false, true, nil
}

// runNamespace pushes a namespace segment; segments may not contain `.`
// (NamespaceContainsDotError).
func (ip *Interpreter) runNamespace(cmd *lexer.Command) (bool, bool, error) {
	name := firstToken(cmd.ArgsText)
	if strings.Contains(name, ".") {
		return false, false, pashmakerr.Newf(pashmakerr.NamespaceContainsDotError, "namespace segment %q must not contain '.'", name).At(cmd.FilePath, cmd.LineNumber)
	}
	ip.namespacesTree = append(ip.namespacesTree, name)
	return false, false, nil
}

func (ip *Interpreter) runEndNamespace(cmd *lexer.Command) (bool, bool, error) {
	if len(ip.namespacesTree) > 0 {
		ip.namespacesTree = ip.namespacesTree[:len(ip.namespacesTree)-1]
	}
	return false, false, nil
}

func (ip *Interpreter) runUse(cmd *lexer.Command) (bool, bool, error) {
	ip.top().UseNamespace(firstToken(cmd.ArgsText))
	return false, false, nil
}

func (ip *Interpreter) runDoc(cmd *lexer.Command) (bool, bool, error) {
	text := strings.TrimSpace(cmd.ArgsText)
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') {
		node, err := exprparser.ParseExpression(text, cmd.FilePath, cmd.LineNumber)
		if err == nil {
			if lit, ok := node.(*ast.StringLiteral); ok {
				text = lit.Value
			}
		}
	}
	ip.pendingDoc = text
	return false, false, nil
}

// runNew constructs an instance of the named class, invoking its `init`
// method (if declared) with the remainder of args_text as its argument
// (spec.md §4.3's `new ClassName`). The instance is left in the memory
// slot, matching the function-call convention.
func (ip *Interpreter) runNew(cmd *lexer.Command) (bool, bool, error) {
	className, argText := firstTokenRest(cmd.ArgsText)

	var cls *value.Class
	for _, ns := range ip.resolutionOrder(ip.top()) {
		if c, ok := ip.classes[ns+className]; ok {
			cls = c
			break
		}
	}
	if cls == nil {
		return false, false, pashmakerr.Newf(pashmakerr.NameError, "undefined class %s", className).At(cmd.FilePath, cmd.LineNumber)
	}

	inst := value.NewInstance(cls)

	var arg value.Value = value.NullValue
	if strings.TrimSpace(argText) != "" {
		v, err := ip.evalExprText(argText, cmd)
		if err != nil {
			return false, false, err
		}
		arg = v
	}

	if initFn, ok := cls.Methods["init"]; ok {
		ip.callFunction(initFn, []value.Value{arg}, inst)
	}

	ip.mem = inst
	return false, false, nil
}

// assignTo parses lhsText as an assignment target (a $var or $a->b[i]...
// chain) and writes val into it.
func (ip *Interpreter) assignTo(lhsText string, val value.Value, cmd *lexer.Command) error {
	node, err := exprparser.ParseExpression(lhsText, cmd.FilePath, cmd.LineNumber)
	if err != nil {
		return err
	}
	return ip.assignToNode(node, val, cmd)
}

func (ip *Interpreter) assignToNode(node ast.Expression, val value.Value, cmd *lexer.Command) error {
	switch n := node.(type) {
	case *ast.VarRef:
		ip.top().Set(n.Name, val)
		return nil
	case *ast.MemberExpr:
		obj, err := ip.evalExpr(n.Object, cmd)
		if err != nil {
			return err
		}
		inst, ok := obj.(*value.Instance)
		if !ok {
			return typeErr(cmd, "cannot assign a member on non-instance value of type %s", obj.Type())
		}
		inst.Props[n.Property] = val
		return nil
	case *ast.IndexExpr:
		coll, err := ip.evalExpr(n.Collection, cmd)
		if err != nil {
			return err
		}
		idx, err := ip.evalExpr(n.Index, cmd)
		if err != nil {
			return err
		}
		return assignIndex(coll, idx, val, cmd)
	default:
		return pashmakerr.Newf(pashmakerr.SyntaxError, "invalid assignment target %q", lhsText(node)).At(cmd.FilePath, cmd.LineNumber)
	}
}

func lhsText(node ast.Expression) string { return node.String() }

func assignIndex(coll, idx, val value.Value, cmd *lexer.Command) error {
	switch c := coll.(type) {
	case *value.List:
		i, ok := idx.(*value.Int)
		if !ok {
			return typeErr(cmd, "list index must be an int")
		}
		n := i.Value
		if n < 0 {
			n += int64(len(c.Elements))
		}
		if n < 0 || n >= int64(len(c.Elements)) {
			return pashmakerr.Newf(pashmakerr.IndexError, "list index %d out of range", i.Value).At(cmd.FilePath, cmd.LineNumber)
		}
		c.Elements[n] = val
		return nil
	case *value.Map:
		h, ok := idx.(value.Hashable)
		if !ok {
			return typeErr(cmd, "unhashable map key of type %s", idx.Type())
		}
		c.Set(h, idx, val)
		return nil
	}
	return typeErr(cmd, "cannot index-assign value of type %s", coll.Type())
}

// firstToken returns the first whitespace-delimited token of text.
func firstToken(text string) string {
	first, _ := firstTokenRest(text)
	return first
}

// firstTokenRest splits text into its first whitespace-delimited token and
// the (untrimmed-left) remainder.
func firstTokenRest(text string) (string, string) {
	trimmed := strings.TrimLeft(text, " \t")
	i := strings.IndexAny(trimmed, " \t")
	if i < 0 {
		return trimmed, ""
	}
	return trimmed[:i], trimmed[i+1:]
}
