// ==============================================================================================
// FILE: frame/frame.go
// ==============================================================================================
// PACKAGE: frame
// PURPOSE: The call-frame stack (spec.md §3 Frame): program counter,
//          command list, variable map, used-namespace list, imported-module
//          set. Grounded on amoghasbhardwaj-Eloquence/object/environment.go
//          (NewEnvironment/NewEnclosedEnvironment/Get/Set), generalized from
//          a lexically-nested parent-chain model to Pashmak's flat
//          copy-or-share model: there is no parent-chain lookup, a frame's
//          vars are either a shallow copy of the root frame's or the
//          caller's identical map (spec.md §3's isolated-vs-shared invariant).
// ==============================================================================================

package frame

import (
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/token"
	"github.com/parsampsh/pashmak-core/value"
)

// Frame is one call-stack entry.
type Frame struct {
	PC              int
	Commands        []*lexer.Command
	Vars            map[string]value.Value
	UsedNamespaces  []string
	ImportedModules map[string]struct{}

	// Sections maps a `section label` target to the index of the command
	// immediately following it (spec.md §3 Sections), populated by Prescan.
	Sections map[string]int

	// WhileMatch pairs each `while`/`endwhile` command index with its
	// partner's index, in both directions, populated by Prescan.
	WhileMatch map[int]int

	// LoopStack holds the index of each currently-executing `while`
	// command, innermost last, so `break`/`continue` can resolve to the
	// right loop without a parser-side loop-stack (spec.md §9).
	LoopStack []int

	// TryStack holds the rescue section label for each currently-active
	// `try`, innermost last (spec.md §4.3 "Error raising").
	TryStack []string

	prescanned bool
}

// CallerInheritedKeys are the vars an isolated frame takes from the calling
// frame (deep-copied) rather than from frame-0's shallow-copied baseline.
var CallerInheritedKeys = []string{"argv", "argc", "__file__", "__dir__", "__ismain__"}

// NewIsolated builds a frame for an ordinary (frame-isolated) call: a
// shallow copy of root's vars, with CallerInheritedKeys deep-copied from
// caller's current vars instead of root's, plus defaults (e.g. `this` for
// method frames) applied last. caller is the frame actually making the
// call, which may not be root itself (a nested call's caller has its own
// __file__/__ismain__ that must propagate, not frame-0's original values).
func NewIsolated(root, caller *Frame, commands []*lexer.Command, defaults map[string]value.Value) *Frame {
	vars := make(map[string]value.Value, len(root.Vars)+len(defaults))
	for k, v := range root.Vars {
		vars[k] = v
	}
	for _, key := range CallerInheritedKeys {
		if v, ok := caller.Vars[key]; ok {
			vars[key] = value.DeepCopy(v)
		}
	}
	for k, v := range defaults {
		vars[k] = v
	}
	return &Frame{
		Commands:        commands,
		Vars:            vars,
		UsedNamespaces:  nil,
		ImportedModules: make(map[string]struct{}),
	}
}

// NewShared builds a frame for a non-isolated call (mem, rmem, eval,
// python, import, inline %{...}%): vars, used-namespaces, and
// imported-modules are the identical maps/slices as caller, so writes are
// visible to the caller when this frame pops.
func NewShared(caller *Frame, commands []*lexer.Command) *Frame {
	return &Frame{
		Commands:        commands,
		Vars:            caller.Vars,
		UsedNamespaces:  caller.UsedNamespaces,
		ImportedModules: caller.ImportedModules,
	}
}

// NewRoot builds the program's root (frame 0).
func NewRoot(commands []*lexer.Command) *Frame {
	return &Frame{
		Commands:        commands,
		Vars:            make(map[string]value.Value),
		UsedNamespaces:  nil,
		ImportedModules: make(map[string]struct{}),
	}
}

// Get looks up name in this frame's vars (no parent-chain fallback --
// isolation/sharing is established at construction time, per spec.md §3).
func (f *Frame) Get(name string) (value.Value, bool) {
	v, ok := f.Vars[name]
	return v, ok
}

// Set binds name in this frame's vars.
func (f *Frame) Set(name string, v value.Value) {
	f.Vars[name] = v
}

// Has reports whether key has already been imported into this frame,
// satisfying moduleloader.ImportSet.
func (f *Frame) Has(key string) bool {
	_, ok := f.ImportedModules[key]
	return ok
}

// Add registers key as imported into this frame, satisfying
// moduleloader.ImportSet.
func (f *Frame) Add(key string) {
	f.ImportedModules[key] = struct{}{}
}

// UseNamespace appends ns to this frame's used-namespaces list (`use X`),
// in declaration order -- lookup precedence is first-match-wins in that
// order (spec.md §4.2).
func (f *Frame) UseNamespace(ns string) {
	f.UsedNamespaces = append(f.UsedNamespaces, ns)
}

// AtEnd reports whether PC has advanced past the last command.
func (f *Frame) AtEnd() bool {
	return f.PC >= len(f.Commands)
}

// Current returns the command at PC. Callers must check AtEnd first.
func (f *Frame) Current() *lexer.Command {
	return f.Commands[f.PC]
}

// Prescan builds Sections and WhileMatch from this frame's command list,
// rewriting each `section` command's Head to `pass` in place, exactly as
// original_source/src/core/program.py's start_frame does. Labels and loops
// declared inside a pending `func` body are skipped -- that span belongs to
// the function's own frame, which prescans it again using body-local
// indices when the function is eventually called. Idempotent: calling it
// more than once on the same Frame is a no-op.
func (f *Frame) Prescan() {
	if f.prescanned {
		return
	}
	f.prescanned = true
	f.Sections = make(map[string]int)
	f.WhileMatch = make(map[int]int)

	funcDepth := 0
	var whileStack []int

	for i, cmd := range f.Commands {
		kind := token.Kind(cmd.Head)
		if kind == token.KwPass && len(cmd.SourceText) > len(token.KwSection) &&
			cmd.SourceText[:len(token.KwSection)] == string(token.KwSection) {
			// A section already lowered to pass by an earlier Prescan of the
			// same command list (a function body on a later call) keeps its label.
			kind = token.KwSection
		}
		switch kind {
		case token.KwFunc:
			funcDepth++
		case token.KwEndFunc:
			if funcDepth > 0 {
				funcDepth--
			}
		case token.KwSection:
			if funcDepth == 0 && len(cmd.ArgsList) > 0 {
				f.Sections[cmd.ArgsList[0]] = i + 1
				cmd.Head = string(token.KwPass)
			}
		case token.KwWhile:
			if funcDepth == 0 {
				whileStack = append(whileStack, i)
			}
		case token.KwEndWhile:
			if funcDepth == 0 && len(whileStack) > 0 {
				start := whileStack[len(whileStack)-1]
				whileStack = whileStack[:len(whileStack)-1]
				f.WhileMatch[start] = i
				f.WhileMatch[i] = start
			}
		}
	}
}
