// ==============================================================================================
// FILE: interp/dispatch.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: The per-frame execution loop and the top-level command dispatch,
//          mirroring original_source/src/core/program.py's start_frame/run
//          pair: a while loop over the current frame's program counter,
//          six-branch dispatch per command (pending-func-body collection,
//          class-body collection, keyword table, assignment, function call,
//          expression-statement fallback), per spec.md §4.3.
// ==============================================================================================

package interp

import (
	"context"
	"strings"

	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/token"
	"github.com/parsampsh/pashmak-core/value"
)

// runFrame executes the frame at ip.frames[myIndex] to completion: natural
// end-of-commands, a `return`, or the frame being popped out from under it
// by an error unwind (ip.raiseError may truncate ip.frames past myIndex;
// every runFrame instance on the Go call stack notices this on its next
// loop check and returns, propagating the unwind without any explicit
// panic/recover).
func (ip *Interpreter) runFrame(ctx context.Context, myIndex int) {
	f := ip.frames[myIndex]
	f.Prescan()

	for {
		if len(ip.frames) <= myIndex {
			return
		}
		if ctx != nil && ctx.Err() != nil {
			ip.logger.Debugf("frame %d: shutting down at pc=%d (%s)", myIndex, f.PC, ctx.Err())
			return
		}
		if f.AtEnd() {
			break
		}

		cmd := f.Current()
		jumped, stop, err := ip.runCommand(ctx, cmd)
		if err != nil {
			ip.raiseError(err, cmd)
			continue
		}
		if len(ip.frames) <= myIndex {
			return
		}
		if stop {
			break
		}
		if !jumped {
			f.PC++
		}
	}

	if len(ip.frames) > myIndex {
		ip.frames = ip.frames[:myIndex]
	}
}

// runCommand dispatches one command against the current frame, per spec.md
// §4.3's six-branch algorithm. jumped reports that PC was already set (skip
// the caller's auto-increment); stop reports that the current frame should
// end immediately (a `return`).
func (ip *Interpreter) runCommand(ctx context.Context, cmd *lexer.Command) (jumped bool, stop bool, err error) {
	// Branch 1: collecting a pending func body.
	if ip.collectingFunc != nil {
		return ip.collectFuncBodyCommand(cmd)
	}

	// Branch 2: inside a class body, not inside a method.
	if ip.collectingClass != nil {
		return ip.collectClassBodyCommand(cmd)
	}

	// Branch 3: structured keyword table.
	if kind, ok := token.LookupKeyword(cmd.Head); ok {
		return ip.runKeyword(kind, cmd)
	}

	// Branch 4: assignment.
	if strings.HasPrefix(strings.TrimSpace(cmd.SourceText), "$") {
		err := ip.runAssignment(cmd)
		return false, false, err
	}

	// Branch 5: call a resolvable function/native.
	if callable, ok := ip.lookupCallable(cmd.Head); ok {
		err := ip.runCall(cmd, callable)
		return false, false, err
	}

	// Branch 6: evaluate the whole source as an expression statement.
	v, err := ip.evalExprText(cmd.SourceText, cmd)
	if err != nil {
		return false, false, err
	}
	ip.mem = v
	return false, false, nil
}

// lookupCallable resolves cmd.Head as a command-head callable: the five
// always-available non-isolated builtins, then a namespace-ordered
// function lookup, then the native builtin table.
func (ip *Interpreter) lookupCallable(head string) (interface{}, bool) {
	if token.BuiltinsWithoutFrameIsolation[head] {
		return head, true
	}
	f := ip.top()
	for _, ns := range ip.resolutionOrder(f) {
		if fn, ok := ip.functions[ns+head]; ok {
			return fn, true
		}
	}
	if n, ok := ip.builtins.Lookup(head); ok {
		return n, true
	}
	return nil, false
}

// runCall evaluates cmd.ArgsText as a single argument expression (empty ->
// null) and invokes callable per spec.md §4.3 step 5's calling convention:
// the argument is stored in mem before the call, and the call's result is
// whatever the callee leaves in mem at return.
func (ip *Interpreter) runCall(cmd *lexer.Command, callable interface{}) error {
	arg, err := ip.evalExprText(cmd.ArgsText, cmd)
	if err != nil {
		return err
	}

	switch c := callable.(type) {
	case string:
		return ip.runNonIsolatedBuiltin(c, cmd, arg)
	case *value.Function:
		ip.mem = ip.callFunction(c, []value.Value{arg}, nil)
		return nil
	case *value.Native:
		res, err := c.Fn(arg)
		if err != nil {
			return convertNativeError(err, cmd)
		}
		ip.mem = res
		return nil
	}
	return pashmakerr.Newf(pashmakerr.NameError, "undefined function %s", cmd.Head).At(cmd.FilePath, cmd.LineNumber)
}

// runAssignment handles `$lhs` (bare declare/expression) and `$lhs = rhs`.
func (ip *Interpreter) runAssignment(cmd *lexer.Command) error {
	lhs, rhs, hasRHS := splitAssignment(cmd.SourceText)

	if !hasRHS {
		trimmed := strings.TrimSpace(lhs)
		if strings.ContainsAny(trimmed, "()") || strings.Contains(trimmed, "->") {
			v, err := ip.evalExprText(trimmed, cmd)
			if err != nil {
				return err
			}
			ip.mem = v
			return nil
		}
		name := strings.TrimPrefix(trimmed, "$")
		return ip.declareBare(name)
	}

	val, err := ip.evalExprText(rhs, cmd)
	if err != nil {
		return err
	}
	return ip.assignTo(strings.TrimSpace(lhs), val, cmd)
}

func (ip *Interpreter) declareBare(name string) error {
	if ip.collectingClass != nil {
		ip.setClassProp(name, value.NullValue)
		return nil
	}
	ip.top().Set(name, value.NullValue)
	return nil
}

// splitAssignment finds the first top-level `=` in text that is not part of
// `== != <= >=`, splitting into (lhs, rhs, true); returns (text, "", false)
// if no such `=` exists.
func splitAssignment(text string) (string, string, bool) {
	depth := 0
	inStr := byte(0)
	runes := []byte(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inStr != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = c
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			prev := byte(0)
			if i > 0 {
				prev = runes[i-1]
			}
			next := byte(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if next == '=' || prev == '=' || prev == '!' || prev == '<' || prev == '>' {
				continue
			}
			return text[:i], text[i+1:], true
		}
	}
	return text, "", false
}
