// ==============================================================================================
// FILE: interp/calls.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: Expression-level calls (`f(args,...)`), inline sub-programs
//          (`%{...}%`), and the function-invocation machinery both share:
//          pushing an isolated frame, seeding the memory slot, running it to
//          completion, and reading back its result. Grounded on spec.md
//          §4.3's "Function invocation" (frame-isolated vs non-isolated) and
//          §9's memory-slot note (a per-program cell, not per-frame).
// ==============================================================================================

package interp

import (
	"fmt"

	"github.com/parsampsh/pashmak-core/ast"
	"github.com/parsampsh/pashmak-core/builtin"
	"github.com/parsampsh/pashmak-core/frame"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/value"
)

// evalCall evaluates a CallExpr: `obj->method(args)` dispatches to the
// instance's class method table; anything else evaluates the callee to a
// Value and dispatches on its runtime type (value.Native or
// value.Function; any other type is not callable).
func (ip *Interpreter) evalCall(n *ast.CallExpr, cmd *lexer.Command) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ip.evalExpr(a, cmd)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if member, ok := n.Callee.(*ast.MemberExpr); ok {
		obj, err := ip.evalExpr(member.Object, cmd)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*value.Instance)
		if !ok {
			return nil, typeErr(cmd, "cannot call a method on non-instance value of type %s", obj.Type())
		}
		method, ok := inst.Class.Methods[member.Property]
		if !ok {
			return nil, pashmakerr.Newf(pashmakerr.MethodError, "%s%s has no method %s", inst.Class.Namespace, inst.Class.Name, member.Property).At(cmd.FilePath, cmd.LineNumber)
		}
		return ip.callFunction(method, args, inst), nil
	}

	callee, err := ip.evalExpr(n.Callee, cmd)
	if err != nil {
		return nil, err
	}

	switch c := callee.(type) {
	case *value.Native:
		arg := value.Value(value.NullValue)
		if len(args) > 0 {
			arg = args[0]
		}
		res, err := c.Fn(arg)
		if err != nil {
			return nil, convertNativeError(err, cmd)
		}
		return res, nil
	case *value.Function:
		return ip.callFunction(c, args, nil), nil
	default:
		return nil, typeErr(cmd, "value of type %s is not callable", callee.Type())
	}
}

// convertNativeError turns a *builtin.Error into a pashmakerr.RuntimeError
// carrying its host-provided Kind (spec.md §7), falling back to
// NativeError for any other Go error a native callable might return.
func convertNativeError(err error, cmd *lexer.Command) error {
	if berr, ok := err.(*builtin.Error); ok {
		return pashmakerr.New(pashmakerr.Kind(berr.Kind), berr.Message).At(cmd.FilePath, cmd.LineNumber)
	}
	return pashmakerr.Wrap(pashmakerr.NativeError, err.Error(), err).At(cmd.FilePath, cmd.LineNumber)
}

// callFunction pushes an isolated frame for fn, binding `this` (for method
// calls) and each argument positionally as $arg0, $arg1, ... It also seeds
// the memory slot: a single argument goes in as-is, multiple arguments are
// packed into a List, and zero arguments leave it null -- generalizing the
// source language's single-mem-argument calling convention (spec.md §4.3)
// so the richer `f(a, b, c)` expression-call syntax (spec.md §4.2) still has
// a well-defined memory-slot argument to read via `^`.
func (ip *Interpreter) callFunction(fn *value.Function, args []value.Value, this *value.Instance) value.Value {
	defaults := make(map[string]value.Value, len(args)+1)
	if this != nil {
		defaults["this"] = this
	}
	for i, a := range args {
		defaults[fmt.Sprintf("arg%d", i)] = a
	}

	switch len(args) {
	case 0:
		ip.mem = value.NullValue
	case 1:
		ip.mem = args[0]
	default:
		ip.mem = &value.List{Elements: append([]value.Value(nil), args...)}
	}

	callee := frame.NewIsolated(ip.frames[0], ip.top(), fn.Body, defaults)
	// __file__/__dir__ belong to where the function itself was declared,
	// not to whoever happened to call it (original_source's exec_func sets
	// these from func_body[0]['file_path']).
	if len(fn.Body) > 0 {
		callee.Set("__file__", &value.String{Value: fn.Body[0].FilePath})
		callee.Set("__dir__", &value.String{Value: dirOf(fn.Body[0].FilePath)})
	}
	ip.frames = append(ip.frames, callee)
	ip.runFrame(ip.ctx, len(ip.frames)-1)

	return ip.mem
}

// evalInlineCall parses n.Source as commands and runs them in a frame that
// shares vars/used-namespaces/imported-modules with the current frame
// (frame isolation disabled), returning the final memory slot (spec.md
// §4.2's `%{...}%`).
func (ip *Interpreter) evalInlineCall(n *ast.InlineCallExpr, cmd *lexer.Command) (value.Value, error) {
	cmds, err := lexer.Parse(n.Source, cmd.FilePath)
	if err != nil {
		return nil, err
	}
	caller := ip.top()
	inline := frame.NewShared(caller, cmds)
	ip.frames = append(ip.frames, inline)
	ip.runFrame(ip.ctx, len(ip.frames)-1)
	return ip.mem, nil
}
