// ==============================================================================================
// FILE: interp/module.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: The `import` command: wires moduleloader.Import against the live
//          frame stack and runs the resolved source without frame isolation
//          so its declarations become visible to the caller (spec.md §4.4).
// ==============================================================================================

package interp

import (
	"github.com/parsampsh/pashmak-core/frame"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/moduleloader"
	"github.com/parsampsh/pashmak-core/value"
)

// runImport resolves and executes a module import. import_once defaults to
// true for the bare `import` command (repeated imports of the same module
// are a no-op rather than re-running side effects), since the source
// language exposes no per-call override of that flag at this calling
// convention -- see DESIGN.md.
func (ip *Interpreter) runImport(cmd *lexer.Command, arg value.Value) error {
	path, ok := arg.(*value.String)
	if !ok {
		return typeErr(cmd, "import expects a string path, got %s", arg.Type())
	}

	req := moduleloader.Request{
		Path:             path.Value,
		ImportOnce:       true,
		IsMainDefault:    false,
		CurrentNamespace: ip.currentNamespace(),
		MainFileDir:      ip.mainDir,
	}

	sets := make([]moduleloader.ImportSet, len(ip.frames))
	for i, f := range ip.frames {
		sets[i] = f
	}

	res, err := moduleloader.Import(req, ip.moduleSource, ip.fs, sets)
	if err != nil {
		return err
	}
	if res.Skipped {
		ip.logger.Debugf("import: %s already imported (key %s), skipping", path.Value, res.Key)
		ip.mem = value.NullValue
		return nil
	}
	ip.logger.Debugf("import: resolved %s -> %s (key %s)", path.Value, res.FilePath, res.Key)

	cmds, err := lexer.Parse(res.Source, res.FilePath)
	if err != nil {
		return err
	}

	caller := ip.top()
	prevIsMain, hadIsMain := caller.Get("__ismain__")
	caller.Set("__ismain__", &value.Bool{Value: req.IsMainDefault})

	shared := frame.NewShared(caller, cmds)
	ip.frames = append(ip.frames, shared)
	ip.runFrame(ctxOrBackground(ip.ctx), len(ip.frames)-1)

	if hadIsMain {
		caller.Set("__ismain__", prevIsMain)
	}

	ip.mem = value.NullValue
	return nil
}
