// ==============================================================================================
// FILE: interp/flow.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: Structured control flow: the keyword-table dispatch itself, plus
//          goto/gotoif/try/endtry/while/endwhile/break/continue and the
//          if/elif/else/endif cascade. Grounded on spec.md §4.3's "Control
//          structures (semantics)" list; while/endwhile ride
//          frame.Frame.Prescan's WhileMatch map, if/elif/else/endif use a
//          symmetrical forward/backward depth-aware scan computed here since
//          their nesting (unlike while) can't be resolved with a simple
//          paired map unless chains with multiple elifs are flattened first.
// ==============================================================================================

package interp

import (
	"context"

	"github.com/parsampsh/pashmak-core/frame"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/token"
	"github.com/parsampsh/pashmak-core/value"
)

// runKeyword dispatches a structured command to its handler.
func (ip *Interpreter) runKeyword(kind token.Kind, cmd *lexer.Command) (bool, bool, error) {
	switch kind {
	case token.KwFunc:
		ip.openFunc(cmd)
		return false, false, nil
	case token.KwClass:
		ip.openClass(cmd)
		return false, false, nil
	case token.KwEndClass:
		// Only reachable here if an `endclass` appears with no open class;
		// treat as a no-op rather than panicking on a nil collectingClass.
		return false, false, nil
	case token.KwReturn:
		return ip.runReturn(cmd)
	case token.KwNamespace, token.KwNamespaceNS:
		return ip.runNamespace(cmd)
	case token.KwEndNamespace, token.KwEndNamespaceE:
		return ip.runEndNamespace(cmd)
	case token.KwUse:
		return ip.runUse(cmd)
	case token.KwAtDoc:
		return ip.runDoc(cmd)
	case token.KwNew:
		return ip.runNew(cmd)
	case token.KwPass, token.KwSection:
		return false, false, nil
	case token.KwGoto:
		return ip.runGoto(cmd)
	case token.KwGotoIf:
		return ip.runGotoIf(cmd)
	case token.KwTry:
		return ip.runTry(cmd)
	case token.KwEndTry:
		return ip.runEndTry(cmd)
	case token.KwWhile:
		return ip.runWhile(cmd)
	case token.KwEndWhile:
		return ip.runEndWhile(cmd)
	case token.KwBreak:
		return ip.runBreak(cmd)
	case token.KwContinue:
		return ip.runContinue(cmd)
	case token.KwIf:
		return ip.runIfCascade(cmd)
	case token.KwElif, token.KwElse:
		return ip.runSkipToEndif(cmd)
	case token.KwEndIf:
		return false, false, nil
	}
	return false, false, pashmakerr.Newf(pashmakerr.SyntaxError, "unhandled keyword %s", kind).At(cmd.FilePath, cmd.LineNumber)
}

func (ip *Interpreter) runGoto(cmd *lexer.Command) (bool, bool, error) {
	label := firstToken(cmd.ArgsText)
	f := ip.top()
	idx, ok := f.Sections[label]
	if !ok {
		return false, false, pashmakerr.Newf(pashmakerr.NameError, "undefined section %s", label).At(cmd.FilePath, cmd.LineNumber)
	}
	f.PC = idx - 1
	return false, false, nil
}

func (ip *Interpreter) runGotoIf(cmd *lexer.Command) (bool, bool, error) {
	label, condText := firstTokenRest(cmd.ArgsText)
	cond, err := ip.evalExprText(condText, cmd)
	if err != nil {
		return false, false, err
	}
	if !value.Truthy(cond) {
		return false, false, nil
	}
	f := ip.top()
	idx, ok := f.Sections[label]
	if !ok {
		return false, false, pashmakerr.Newf(pashmakerr.NameError, "undefined section %s", label).At(cmd.FilePath, cmd.LineNumber)
	}
	f.PC = idx - 1
	return false, false, nil
}

func (ip *Interpreter) runTry(cmd *lexer.Command) (bool, bool, error) {
	label := firstToken(cmd.ArgsText)
	f := ip.top()
	f.TryStack = append(f.TryStack, label)
	return false, false, nil
}

func (ip *Interpreter) runEndTry(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	if len(f.TryStack) > 0 {
		f.TryStack = f.TryStack[:len(f.TryStack)-1]
	}
	return false, false, nil
}

func (ip *Interpreter) runWhile(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	idx := f.PC

	if len(f.LoopStack) == 0 || f.LoopStack[len(f.LoopStack)-1] != idx {
		f.LoopStack = append(f.LoopStack, idx)
	}

	cond, err := ip.evalExprText(cmd.ArgsText, cmd)
	if err != nil {
		return false, false, err
	}
	if value.Truthy(cond) {
		return false, false, nil
	}

	f.LoopStack = f.LoopStack[:len(f.LoopStack)-1]
	// end, not end-1: runFrame's auto-increment must carry PC past endwhile,
	// same as runBreak -- landing on endwhile itself would bounce straight
	// back to the while via runEndWhile's own jump-back.
	f.PC = f.WhileMatch[idx]
	return false, false, nil
}

func (ip *Interpreter) runEndWhile(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	match := f.WhileMatch[f.PC]
	f.PC = match - 1
	return false, false, nil
}

func (ip *Interpreter) runBreak(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	if len(f.LoopStack) == 0 {
		return false, false, pashmakerr.Newf(pashmakerr.SyntaxError, "break outside a while loop").At(cmd.FilePath, cmd.LineNumber)
	}
	loopIdx := f.LoopStack[len(f.LoopStack)-1]
	f.LoopStack = f.LoopStack[:len(f.LoopStack)-1]
	end := f.WhileMatch[loopIdx]
	f.PC = end
	return false, false, nil
}

func (ip *Interpreter) runContinue(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	if len(f.LoopStack) == 0 {
		return false, false, pashmakerr.Newf(pashmakerr.SyntaxError, "continue outside a while loop").At(cmd.FilePath, cmd.LineNumber)
	}
	loopIdx := f.LoopStack[len(f.LoopStack)-1]
	f.PC = loopIdx - 1
	return false, false, nil
}

// ifChainBranches scans forward from startIdx (the `if` command), depth-
// aware over nested if/endif pairs, collecting the index of every sibling
// `elif`/`else` at depth 0 and the index of the chain's own `endif`.
func ifChainBranches(f *frame.Frame, startIdx int) ([]int, int) {
	var branches []int
	depth := 0
	for i := startIdx + 1; i < len(f.Commands); i++ {
		switch token.Kind(f.Commands[i].Head) {
		case token.KwIf:
			depth++
		case token.KwEndIf:
			if depth == 0 {
				return branches, i
			}
			depth--
		case token.KwElif, token.KwElse:
			if depth == 0 {
				branches = append(branches, i)
			}
		}
	}
	return branches, len(f.Commands) - 1
}

// runIfCascade evaluates the `if` and each sibling `elif`/`else` condition
// in order, jumping PC to the first satisfied branch's body (or to the
// chain's `endif` if none match).
func (ip *Interpreter) runIfCascade(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	idx := f.PC
	branches, endIdx := ifChainBranches(f, idx)
	chain := append([]int{idx}, branches...)

	for _, bidx := range chain {
		bc := f.Commands[bidx]
		if token.Kind(bc.Head) == token.KwElse {
			f.PC = bidx
			return false, false, nil
		}
		cond, err := ip.evalExprText(bc.ArgsText, bc)
		if err != nil {
			return false, false, err
		}
		if value.Truthy(cond) {
			f.PC = bidx
			return false, false, nil
		}
	}

	f.PC = endIdx - 1
	return false, false, nil
}

// runSkipToEndif is reached only by fallthrough from a preceding taken
// branch's body (runIfCascade always jumps past the `elif`/`else` header
// itself into the chosen branch's body): skip forward to this chain's
// `endif`.
func (ip *Interpreter) runSkipToEndif(cmd *lexer.Command) (bool, bool, error) {
	f := ip.top()
	depth := 0
	for i := f.PC + 1; i < len(f.Commands); i++ {
		switch token.Kind(f.Commands[i].Head) {
		case token.KwIf:
			depth++
		case token.KwEndIf:
			if depth == 0 {
				f.PC = i - 1
				return false, false, nil
			}
			depth--
		}
	}
	f.PC = len(f.Commands) - 1
	return false, false, nil
}

// runNonIsolatedBuiltin handles the five always-available builtins that
// share the caller's frame instead of getting an isolated one (spec.md
// §4.3 step 5).
func (ip *Interpreter) runNonIsolatedBuiltin(name string, cmd *lexer.Command, arg value.Value) error {
	switch token.Kind(name) {
	case token.KwMem:
		ip.mem = arg
		return nil
	case token.KwRmem:
		// Argument already evaluated (for its side effects, e.g. consuming
		// `^`); rmem itself leaves mem untouched when an argument was given,
		// and clears it when called bare (spec.md §4.3's mem/rmem note).
		if cmd.ArgsText == "" {
			ip.mem = value.NullValue
		}
		return nil
	case token.KwEval:
		return ip.runEval(cmd, arg)
	case token.KwPython:
		return pashmakerr.Newf(pashmakerr.NativeError, "python interop is not available in this core").At(cmd.FilePath, cmd.LineNumber)
	case token.KwImport:
		return ip.runImport(cmd, arg)
	}
	return pashmakerr.Newf(pashmakerr.NativeError, "unknown non-isolated builtin %s", name).At(cmd.FilePath, cmd.LineNumber)
}

// runEval parses arg (must be a string) as Pashmak source and runs it in a
// frame that shares the caller's vars/namespaces/imports (spec.md §4.3's
// non-isolated builtins), leaving the final mem value in place.
func (ip *Interpreter) runEval(cmd *lexer.Command, arg value.Value) error {
	s, ok := arg.(*value.String)
	if !ok {
		return typeErr(cmd, "eval() expects a string, got %s", arg.Type())
	}
	cmds, err := lexer.Parse(s.Value, cmd.FilePath)
	if err != nil {
		return err
	}
	caller := ip.top()
	shared := frame.NewShared(caller, cmds)
	ip.frames = append(ip.frames, shared)
	ip.runFrame(ctxOrBackground(ip.ctx), len(ip.frames)-1)
	return nil
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
