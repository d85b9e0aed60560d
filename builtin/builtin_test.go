package builtin_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/builtin"
	"github.com/parsampsh/pashmak-core/value"
)

func TestPrintWritesDisplayFormToOutput(t *testing.T) {
	var out strings.Builder
	table := builtin.NewTable(&out)

	print, ok := table.Lookup("print")
	require.True(t, ok)

	res, err := print.Fn(&value.String{Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, value.NullValue, res)
	assert.Equal(t, "hello\n", out.String())
}

func TestLenSupportsStringsListsAndMaps(t *testing.T) {
	var out strings.Builder
	table := builtin.NewTable(&out)
	length, _ := table.Lookup("len")

	res, err := length.Fn(&value.String{Value: "abc"})
	require.NoError(t, err)
	assert.Equal(t, &value.Int{Value: 3}, res)

	res, err = length.Fn(&value.List{Elements: []value.Value{&value.Int{Value: 1}, &value.Int{Value: 2}}})
	require.NoError(t, err)
	assert.Equal(t, &value.Int{Value: 2}, res)
}

func TestIntConvertsFromStringAndReportsTypeError(t *testing.T) {
	var out strings.Builder
	table := builtin.NewTable(&out)
	intFn, _ := table.Lookup("int")

	res, err := intFn.Fn(&value.String{Value: "42"})
	require.NoError(t, err)
	assert.Equal(t, &value.Int{Value: 42}, res)

	_, err = intFn.Fn(&value.String{Value: "nope"})
	require.Error(t, err)
	var berr *builtin.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "TypeError", berr.Kind)
}

func TestUpperLower(t *testing.T) {
	var out strings.Builder
	table := builtin.NewTable(&out)
	upper, _ := table.Lookup("upper")
	lower, _ := table.Lookup("lower")

	res, err := upper.Fn(&value.String{Value: "ab"})
	require.NoError(t, err)
	assert.Equal(t, &value.String{Value: "AB"}, res)

	res, err = lower.Fn(&value.String{Value: "AB"})
	require.NoError(t, err)
	assert.Equal(t, &value.String{Value: "ab"}, res)
}

func TestRegisterOverridesExistingEntry(t *testing.T) {
	var out strings.Builder
	table := builtin.NewTable(&out)
	table.Register(&value.Native{Name: "print", Fn: func(v value.Value) (value.Value, error) {
		return &value.String{Value: "overridden"}, nil
	}})

	print, _ := table.Lookup("print")
	res, err := print.Fn(value.NullValue)
	require.NoError(t, err)
	assert.Equal(t, &value.String{Value: "overridden"}, res)
}
