package moduleloader_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/moduleloader"
	"github.com/parsampsh/pashmak-core/pashmakerr"
)

type fakeSource struct {
	modules map[string]string
}

func (f *fakeSource) Lookup(name string) (string, bool) {
	s, ok := f.modules[name]
	return s, ok
}

type fakeFS struct {
	files map[string]string
	dirs  map[string]bool
}

func (f *fakeFS) ReadFile(path string) (string, error) {
	s, ok := f.files[path]
	if !ok {
		return "", errors.New("not found")
	}
	return s, nil
}
func (f *fakeFS) IsDir(path string) bool  { return f.dirs[path] }
func (f *fakeFS) IsFile(path string) bool { _, ok := f.files[path]; return ok }

type fakeImportSet struct{ keys map[string]bool }

func newImportSet() *fakeImportSet           { return &fakeImportSet{keys: map[string]bool{}} }
func (s *fakeImportSet) Has(key string) bool { return s.keys[key] }
func (s *fakeImportSet) Add(key string)      { s.keys[key] = true }

func TestImportLogicalModuleFirstTime(t *testing.T) {
	src := &fakeSource{modules: map[string]string{"math": "func add; return 1; endfunc"}}
	frames := []moduleloader.ImportSet{newImportSet()}

	res, err := moduleloader.Import(moduleloader.Request{Path: "@math"}, src, nil, frames)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, "func add; return 1; endfunc", res.Source)
	assert.True(t, frames[0].Has("@math"))
}

func TestImportLogicalModuleDedupsAcrossFrameStack(t *testing.T) {
	src := &fakeSource{modules: map[string]string{"math": "func add; return 1; endfunc"}}
	outer := newImportSet()
	outer.Add("@math")
	frames := []moduleloader.ImportSet{outer, newImportSet()}

	res, err := moduleloader.Import(moduleloader.Request{Path: "@math"}, src, nil, frames)
	require.NoError(t, err)
	assert.True(t, res.Skipped, "an @module already imported anywhere in the frame stack must be a no-op")
}

func TestImportUnknownLogicalModuleIsModuleError(t *testing.T) {
	src := &fakeSource{modules: map[string]string{}}
	frames := []moduleloader.ImportSet{newImportSet()}

	_, err := moduleloader.Import(moduleloader.Request{Path: "@nope"}, src, nil, frames)
	require.Error(t, err)
	var rerr *pashmakerr.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, pashmakerr.ModuleError, rerr.Kind)
}

func TestImportFilesystemModuleReadsFile(t *testing.T) {
	fs := &fakeFS{files: map[string]string{"/main/util.pashm": "show 1"}, dirs: map[string]bool{}}
	frames := []moduleloader.ImportSet{newImportSet()}

	res, err := moduleloader.Import(moduleloader.Request{Path: "util.pashm", MainFileDir: "/main"}, nil, fs, frames)
	require.NoError(t, err)
	assert.Equal(t, "show 1", res.Source)
	assert.Equal(t, "/main/util.pashm", res.FilePath)
}

func TestImportFilesystemDirectoryImpliesInitFile(t *testing.T) {
	fs := &fakeFS{
		files: map[string]string{"/main/pkg/__init__.pashm": "show 2"},
		dirs:  map[string]bool{"/main/pkg": true},
	}
	frames := []moduleloader.ImportSet{newImportSet()}

	res, err := moduleloader.Import(moduleloader.Request{Path: "pkg", MainFileDir: "/main"}, nil, fs, frames)
	require.NoError(t, err)
	assert.Equal(t, "show 2", res.Source)
}

func TestImportFilesystemMissingFileIsFileError(t *testing.T) {
	fs := &fakeFS{files: map[string]string{}, dirs: map[string]bool{}}
	frames := []moduleloader.ImportSet{newImportSet()}

	_, err := moduleloader.Import(moduleloader.Request{Path: "missing.pashm", MainFileDir: "/main"}, nil, fs, frames)
	require.Error(t, err)
	var rerr *pashmakerr.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, pashmakerr.FileError, rerr.Kind)
}

func TestImportFilesystemOnceSkipsWhenAlreadyImported(t *testing.T) {
	fs := &fakeFS{files: map[string]string{"/main/util.pashm": "show 1"}}
	seen := newImportSet()
	seen.Add("@/main/util.pashm")
	frames := []moduleloader.ImportSet{seen}

	res, err := moduleloader.Import(moduleloader.Request{Path: "util.pashm", MainFileDir: "/main", ImportOnce: true}, nil, fs, frames)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
}
