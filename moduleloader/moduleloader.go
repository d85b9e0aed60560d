// ==============================================================================================
// FILE: moduleloader/moduleloader.go
// ==============================================================================================
// PACKAGE: moduleloader
// PURPOSE: Deduplicated import of text modules by logical name (`@mod`) or
//          filesystem path (spec.md §4.4). Grounded on
//          original_source/src/core/program.py's import_script: the exact
//          dedup-key computation (current-namespace + "@" + logical-or-
//          absolute-path), the search-across-every-frame loop, and the
//          ModuleError/FileError failure modes. Filesystem access goes
//          through a small FileSystem interface so the loader is testable
//          without real files.
// ==============================================================================================

package moduleloader

import (
	"path/filepath"
	"strings"

	"github.com/parsampsh/pashmak-core/pashmakerr"
)

// ModuleSource is the external oracle for logical (`@name`) modules; the
// core does not ship a standard-library text of its own (spec.md §1).
type ModuleSource interface {
	Lookup(logicalName string) (source string, ok bool)
}

// FileSystem abstracts the filesystem operations the loader needs, so
// import resolution is unit-testable without touching real files.
type FileSystem interface {
	ReadFile(path string) (string, error)
	IsDir(path string) bool
	IsFile(path string) bool
}

// ImportSet is the subset of frame.Frame state the loader needs to read and
// mutate during dedup search/registration: a frame stack's imported-modules
// sets, searched from innermost to outermost (spec.md §4.4).
type ImportSet interface {
	Has(key string) bool
	Add(key string)
}

// Request describes one import_script call.
type Request struct {
	Path             string
	ImportOnce       bool
	IsMainDefault    bool
	CurrentNamespace string // current_namespace(), trailing '.' included if non-empty
	MainFileDir      string // directory of the main file, for relative filesystem paths
}

// Result is what the loader hands back on a successful (non-dedup-skipped)
// import: the parsed source text and the dedup key that was registered.
type Result struct {
	Source   string
	FilePath string
	Key      string
	Skipped  bool // true when dedup found the module already imported
}

// Import resolves req against source (for logical modules) and fs (for
// filesystem modules), checking frames (searched innermost to outermost,
// matching self.frames in the original) for an existing dedup key before
// doing any I/O.
func Import(req Request, source ModuleSource, fs FileSystem, frames []ImportSet) (*Result, error) {
	if strings.HasPrefix(req.Path, "@") {
		return importLogical(req, source, frames)
	}
	return importFilesystem(req, fs, frames)
}

func alreadyImported(key string, frames []ImportSet) bool {
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Has(key) {
			return true
		}
	}
	return false
}

func importLogical(req Request, source ModuleSource, frames []ImportSet) (*Result, error) {
	moduleName := strings.TrimPrefix(req.Path, "@")
	key := req.CurrentNamespace + "@" + moduleName

	// Logical modules always dedup regardless of import_once, matching
	// import_script's `is_currently_imported` short-circuit for `@name`.
	if alreadyImported(key, frames) {
		return &Result{Skipped: true, Key: key}, nil
	}

	if text, ok := source.Lookup(moduleName); ok {
		if len(frames) > 0 {
			frames[len(frames)-1].Add(key)
		}
		return &Result{Source: text, FilePath: "@" + moduleName, Key: key}, nil
	}

	return nil, pashmakerr.Newf(pashmakerr.ModuleError, "undefined module %q", moduleName)
}

func importFilesystem(req Request, fs FileSystem, frames []ImportSet) (*Result, error) {
	path := req.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(req.MainFileDir, path)
	}
	path = filepath.Clean(path)

	key := req.CurrentNamespace + "@" + path
	if req.ImportOnce && alreadyImported(key, frames) {
		return &Result{Skipped: true, Key: key}, nil
	}

	if fs.IsDir(path) {
		path = filepath.Join(path, "__init__.pashm")
	}

	if !fs.IsFile(path) {
		return nil, pashmakerr.Newf(pashmakerr.FileError, "no such file: %s", path)
	}

	text, err := fs.ReadFile(path)
	if err != nil {
		return nil, pashmakerr.Wrap(pashmakerr.FileError, "reading module "+path, err)
	}

	if len(frames) > 0 {
		frames[len(frames)-1].Add(key)
	}

	return &Result{Source: text, FilePath: path, Key: key}, nil
}
