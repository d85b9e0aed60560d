// ==============================================================================================
// FILE: interp/errors.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: raise_error: convert a Go error into a Pashmak Error instance,
//          unwind to the nearest active `try`, or -- uncaught -- print a
//          frame trace and signal exit code 1 (test mode: record instead of
//          aborting). Grounded on spec.md §4.3's "Error raising" and §7.
// ==============================================================================================

package interp

import (
	"fmt"
	"os"

	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/pashmakerr"
	"github.com/parsampsh/pashmak-core/value"
)

// raiseError implements spec.md §4.3's raise_error: search the frame stack,
// innermost first, for one with an active `try`; pop every frame above that
// frame (keeping it), resolve the rescue label against that SAME
// frame's Sections, and land execution there with an Error instance in mem.
// With no active try anywhere, either record (test mode) or print a trace
// and halt (exitCode 1).
func (ip *Interpreter) raiseError(cause error, cmd *lexer.Command) {
	kind, message, filePath, line := classifyError(cause, cmd)

	for i := len(ip.frames) - 1; i >= 0; i-- {
		f := ip.frames[i]
		if len(f.TryStack) == 0 {
			continue
		}
		label := f.TryStack[len(f.TryStack)-1]
		f.TryStack = f.TryStack[:len(f.TryStack)-1]
		target, ok := f.Sections[label]
		if !ok {
			continue
		}
		raisedHere := i == len(ip.frames)-1
		ip.frames = ip.frames[:i+1]
		// When the error came from this frame's own command, runFrame reaches
		// the top of its loop via `continue`, bypassing the `f.PC++`
		// auto-increment, so the target index itself is the landing command.
		// When frames above it were popped, this frame is still inside the
		// command that made the call and increments PC once that command
		// returns, so land one before the target.
		if raisedHere {
			f.PC = target
		} else {
			f.PC = target - 1
		}
		ip.mem = ip.makeErrorInstance(kind, message, filePath, line)
		return
	}

	if ip.testMode {
		ip.testErrors = append(ip.testErrors, TestError{Kind: string(kind), Message: message})
		ip.frames = ip.frames[:1]
		ip.frames[0].PC = len(ip.frames[0].Commands)
		return
	}

	ip.printFrameTrace()
	ip.exitCode = 1
	ip.frames = ip.frames[:1]
	ip.frames[0].PC = len(ip.frames[0].Commands)
}

// classifyError extracts a (kind, message, file, line) tuple from any error
// a command dispatch might return -- a *pashmakerr.RuntimeError carries its
// own location; any other Go error falls back to NativeError at cmd's
// location.
func classifyError(err error, cmd *lexer.Command) (pashmakerr.Kind, string, string, int) {
	if rerr, ok := err.(*pashmakerr.RuntimeError); ok {
		filePath, line := rerr.FilePath, rerr.LineNumber
		if filePath == "" && cmd != nil {
			filePath, line = cmd.FilePath, cmd.LineNumber
		}
		return rerr.Kind, rerr.Message, filePath, line
	}
	filePath, line := "", 0
	if cmd != nil {
		filePath, line = cmd.FilePath, cmd.LineNumber
	}
	return pashmakerr.NativeError, err.Error(), filePath, line
}

// makeErrorInstance builds an Instance of the well-known Error class
// carrying the kind, message, and source location (spec.md §7: "Errors as
// values").
func (ip *Interpreter) makeErrorInstance(kind pashmakerr.Kind, message, filePath string, line int) *value.Instance {
	inst := value.NewInstance(ip.classes["Error"])
	inst.Props["type"] = &value.String{Value: string(kind)}
	inst.Props["message"] = &value.String{Value: message}
	inst.Props["file_path"] = &value.String{Value: filePath}
	inst.Props["line_number"] = &value.Int{Value: int64(line)}
	return inst
}

// printFrameTrace prints one line per live frame (file:line: source_text),
// outermost first, matching spec.md §4.3's uncaught-error trace shape.
func (ip *Interpreter) printFrameTrace() {
	for _, f := range ip.frames {
		if f.AtEnd() {
			continue
		}
		c := f.Current()
		fmt.Fprintf(os.Stderr, "%s:%d: %s\n", c.FilePath, c.LineNumber, c.SourceText)
	}
}
