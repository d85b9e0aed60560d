// ==============================================================================================
// FILE: interp/interp.go
// ==============================================================================================
// PACKAGE: interp
// PURPOSE: The interpreter proper: functional-options construction and the
//          context-bounded Run entry point. Grounded on
//          jcorbin-gothird/options.go + api.go's VMOption/New/Run(ctx, ...)
//          shape, generalized from gothird's single VM struct to Pashmak's
//          frame-stack + namespace + function/class registry state
//          (spec.md §2/§3).
// ==============================================================================================

package interp

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/parsampsh/pashmak-core/builtin"
	"github.com/parsampsh/pashmak-core/frame"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/moduleloader"
	"github.com/parsampsh/pashmak-core/pashmaklog"
	"github.com/parsampsh/pashmak-core/value"
)

// TestError is one runtime error recorded while running in test mode
// (spec.md §6's "in test mode ... runtime errors are stored for inspection
// instead of aborting").
type TestError struct {
	Kind    string
	Message string
}

// Interpreter holds all program-wide state: the frame stack, the memory
// slot, the function/class/namespace registries, and the collaborators
// (builtins, module source, logger) supplied via options.
type Interpreter struct {
	frames []*frame.Frame
	mem    value.Value

	functions map[string]*value.Function
	classes   map[string]*value.Class
	defines   map[string]value.Value

	namespacesTree []string

	collectingFunc  *value.Function
	funcDepth       int
	collectingClass *value.Class
	pendingDoc      string

	builtins *builtin.Table
	output   io.Writer
	logger   *pashmaklog.Logger

	moduleSource moduleloader.ModuleSource
	fs           moduleloader.FileSystem
	modulePath   []string
	mainDir      string
	mainFile     string

	testMode   bool
	testErrors []TestError
	exitCode   int

	ctx context.Context
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithOutput sets the writer `print` and friends write to, rebuilding the
// default builtin table against it. Apply WithBuiltins afterward if you
// need to override individual entries on top of that rebuilt table.
func WithOutput(w io.Writer) Option {
	return func(ip *Interpreter) {
		ip.output = w
		ip.builtins = builtin.NewTable(w)
	}
}

// WithLogger sets the interpreter's internal diagnostic logger.
func WithLogger(l *pashmaklog.Logger) Option {
	return func(ip *Interpreter) { ip.logger = l }
}

// WithModuleSource supplies the oracle used to resolve `@name` imports.
func WithModuleSource(src moduleloader.ModuleSource) Option {
	return func(ip *Interpreter) { ip.moduleSource = src }
}

// WithFileSystem supplies the abstraction used to resolve filesystem
// imports; defaults to the real OS filesystem.
func WithFileSystem(fs moduleloader.FileSystem) Option {
	return func(ip *Interpreter) { ip.fs = fs }
}

// WithBuiltins replaces the default native-callable table.
func WithBuiltins(t *builtin.Table) Option {
	return func(ip *Interpreter) { ip.builtins = t }
}

// WithModulePath overrides the recorded module path list entirely (bypassing
// the PASHMAKPATH bootstrap below). Import does not search this list:
// `@name` modules resolve only through the ModuleSource.
func WithModulePath(path []string) Option {
	return func(ip *Interpreter) { ip.modulePath = path }
}

// WithTestMode enables test mode: runtime errors are recorded via
// TestErrors() instead of printing a trace and signalling exit code 1
// (spec.md §6).
func WithTestMode(enabled bool) Option {
	return func(ip *Interpreter) { ip.testMode = enabled }
}

// osFileSystem is the default FileSystem, backed by the real OS.
type osFileSystem struct{}

func (osFileSystem) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
func (osFileSystem) IsDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
func (osFileSystem) IsFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// bootstrapModulePath assembles PASHMAKPATH exactly as original_source's
// bootstrap_modules does: the two fixed system directories, then the
// user's own PASHMAKPATH entries appended after (search path layered
// before, not after, the user's own PASHMAKPATH -- SPEC_FULL.md §10).
func bootstrapModulePath(homeDir, pashmakpathEnv string) []string {
	path := []string{"/usr/lib/pashmak_modules"}
	if homeDir != "" {
		path = append(path, homeDir+"/.local/lib/pashmak_modules")
	}
	for _, p := range strings.Split(pashmakpathEnv, ":") {
		if p != "" {
			path = append(path, p)
		}
	}
	return path
}

// New constructs an Interpreter. PASHMAKPATH is read once here (spec.md §5);
// later mutations of the environment variable are not honored.
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{
		functions: make(map[string]*value.Function),
		classes:   make(map[string]*value.Class),
		defines:   make(map[string]value.Value),
		output:    io.Discard,
		logger:    pashmaklog.Discard,
		fs:        osFileSystem{},
	}
	ip.modulePath = bootstrapModulePath(os.Getenv("HOME"), os.Getenv("PASHMAKPATH"))
	ip.builtins = builtin.NewTable(io.Discard)

	ip.classes["Error"] = &value.Class{
		Name: "Error",
		Props: map[string]value.Value{
			"type":        value.NullValue,
			"message":     value.NullValue,
			"file_path":   value.NullValue,
			"line_number": value.NullValue,
		},
		PropOrder: []string{"type", "message", "file_path", "line_number"},
		Methods:   map[string]*value.Function{},
	}

	for _, o := range opts {
		o(ip)
	}

	return ip
}

// ExitCode reports the process exit code an uncaught error signalled (0 if
// none), per spec.md §6.
func (ip *Interpreter) ExitCode() int { return ip.exitCode }

// TestErrors returns the runtime errors recorded while in test mode.
func (ip *Interpreter) TestErrors() []TestError { return ip.testErrors }

// Mem returns the current memory-slot value without consuming it
// (diagnostic/testing use; scripts consume it via `^`).
func (ip *Interpreter) Mem() value.Value { return ip.mem }

func (ip *Interpreter) top() *frame.Frame { return ip.frames[len(ip.frames)-1] }

func (ip *Interpreter) currentNamespace() string {
	if len(ip.namespacesTree) == 0 {
		return ""
	}
	return strings.Join(ip.namespacesTree, ".") + "."
}

// Run parses source and executes it as the main program. argv becomes the
// script-visible `argv`/`argc` builtins; ctx cancellation aborts the
// current frame cleanly between commands (spec.md §5), standing in for
// "SIGINT sets a shutdown flag".
func (ip *Interpreter) Run(ctx context.Context, source, filePath string, argv []string) error {
	cmds, err := lexer.Parse(source, filePath)
	if err != nil {
		return err
	}

	ip.mainFile = filePath
	ip.mainDir = dirOf(filePath)

	root := frame.NewRoot(cmds)
	argvList := &value.List{Elements: make([]value.Value, len(argv))}
	for i, a := range argv {
		argvList.Elements[i] = &value.String{Value: a}
	}
	root.Set("argv", argvList)
	root.Set("argc", &value.Int{Value: int64(len(argv))})
	root.Set("__file__", &value.String{Value: ip.mainFile})
	root.Set("__dir__", &value.String{Value: ip.mainDir})
	root.Set("__ismain__", &value.Bool{Value: true})

	ip.frames = []*frame.Frame{root}
	ip.ctx = ctx
	ip.runFrame(ctx, 0)
	return nil
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	if i == 0 {
		return "/"
	}
	return path[:i]
}
