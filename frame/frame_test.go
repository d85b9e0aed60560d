package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/frame"
	"github.com/parsampsh/pashmak-core/lexer"
	"github.com/parsampsh/pashmak-core/value"
)

func TestNewIsolatedCopiesVarsNotShares(t *testing.T) {
	root := frame.NewRoot(nil)
	root.Set("argv", &value.List{})

	child := frame.NewIsolated(root, root, nil, map[string]value.Value{"this": &value.Int{Value: 1}})
	child.Set("argv", &value.Int{Value: 99})

	rootArgv, ok := root.Get("argv")
	require.True(t, ok)
	assert.IsType(t, &value.List{}, rootArgv, "isolated frame must not mutate the root frame's vars map")

	thisVal, ok := child.Get("this")
	require.True(t, ok)
	assert.Equal(t, &value.Int{Value: 1}, thisVal)
}

func TestNewIsolatedInheritsCallerInheritedKeysFromCaller(t *testing.T) {
	root := frame.NewRoot(nil)
	root.Set("__file__", &value.String{Value: "/main.pashm"})
	root.Set("__ismain__", &value.Bool{Value: true})
	root.Set("other", &value.Int{Value: 1})

	caller := frame.NewIsolated(root, root, nil, nil)
	caller.Set("__file__", &value.String{Value: "/lib/a.pashm"})
	caller.Set("__ismain__", &value.Bool{Value: false})

	child := frame.NewIsolated(root, caller, nil, nil)

	file, ok := child.Get("__file__")
	require.True(t, ok)
	assert.Equal(t, &value.String{Value: "/lib/a.pashm"}, file, "a nested call inherits __file__ from its own caller, not frame-0")

	ismain, ok := child.Get("__ismain__")
	require.True(t, ok)
	assert.Equal(t, &value.Bool{Value: false}, ismain)

	other, ok := child.Get("other")
	require.True(t, ok)
	assert.Equal(t, &value.Int{Value: 1}, other, "vars outside CallerInheritedKeys still come from root")
}

func TestNewIsolatedDeepCopiesCallerInheritedKeys(t *testing.T) {
	root := frame.NewRoot(nil)
	argv := &value.List{Elements: []value.Value{&value.String{Value: "a"}}}
	root.Set("argv", argv)

	child := frame.NewIsolated(root, root, nil, nil)
	childArgv, ok := child.Get("argv")
	require.True(t, ok)
	childList := childArgv.(*value.List)
	childList.Elements[0] = &value.String{Value: "mutated"}

	rootList := argv
	assert.Equal(t, "a", rootList.Elements[0].(*value.String).Value, "argv must be deep-copied, not aliased, into the isolated frame")
}

func TestNewSharedAliasesCallerVars(t *testing.T) {
	caller := frame.NewRoot(nil)
	caller.Set("x", &value.Int{Value: 1})

	shared := frame.NewShared(caller, nil)
	shared.Set("x", &value.Int{Value: 2})

	gotFromCaller, ok := caller.Get("x")
	require.True(t, ok)
	assert.Equal(t, &value.Int{Value: 2}, gotFromCaller, "a non-isolated frame shares vars by reference")
}

func TestUseNamespaceAppendsInOrder(t *testing.T) {
	f := frame.NewRoot(nil)
	f.UseNamespace("A")
	f.UseNamespace("B")
	assert.Equal(t, []string{"A", "B"}, f.UsedNamespaces)
}

func TestAtEndAndCurrent(t *testing.T) {
	f := frame.NewRoot(nil)
	assert.True(t, f.AtEnd())

	g := frame.NewRoot(mustParse(t, "pass\n"))
	assert.False(t, g.AtEnd())
	assert.Equal(t, "pass", g.Current().Head)
}

func mustParse(t *testing.T, src string) []*lexer.Command {
	t.Helper()
	cmds, err := lexer.Parse(src, "t.pashm")
	require.NoError(t, err)
	return cmds
}

func TestPrescanRegistersSectionsAndRewritesToPass(t *testing.T) {
	cmds := mustParse(t, "goto END\nsection END\nshow \"ok\"\n")
	f := frame.NewRoot(cmds)
	f.Prescan()

	idx, ok := f.Sections["END"]
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "pass", cmds[1].Head, "section command must be rewritten to pass at runtime")
}

func TestPrescanSkipsSectionsInsidePendingFuncBody(t *testing.T) {
	cmds := mustParse(t, "func f\nsection L\nreturn 1\nendfunc\n")
	f := frame.NewRoot(cmds)
	f.Prescan()

	_, ok := f.Sections["L"]
	assert.False(t, ok, "a section label inside a pending func body belongs to that function's own frame")
}

func TestPrescanMatchesWhileEndwhileBothDirections(t *testing.T) {
	cmds := mustParse(t, "while true\nshow 1\nendwhile\n")
	f := frame.NewRoot(cmds)
	f.Prescan()

	assert.Equal(t, 2, f.WhileMatch[0])
	assert.Equal(t, 0, f.WhileMatch[2])
}

func TestPrescanIsIdempotent(t *testing.T) {
	cmds := mustParse(t, "section L\nshow 1\n")
	f := frame.NewRoot(cmds)
	f.Prescan()
	f.Prescan()
	assert.Len(t, f.Sections, 1)
}
