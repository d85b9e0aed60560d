package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsampsh/pashmak-core/value"
)

func TestInspectPrimitives(t *testing.T) {
	assert.Equal(t, "null", value.NullValue.Inspect())
	assert.Equal(t, "true", (&value.Bool{Value: true}).Inspect())
	assert.Equal(t, "42", (&value.Int{Value: 42}).Inspect())
	assert.Equal(t, "3.5", (&value.Float{Value: 3.5}).Inspect())
	assert.Equal(t, "hi", (&value.String{Value: "hi"}).Inspect())
}

func TestTruthy(t *testing.T) {
	assert.False(t, value.Truthy(value.NullValue))
	assert.False(t, value.Truthy(&value.Bool{Value: false}))
	assert.False(t, value.Truthy(&value.Int{Value: 0}))
	assert.False(t, value.Truthy(&value.String{Value: ""}))
	assert.True(t, value.Truthy(&value.Int{Value: 1}))
	assert.True(t, value.Truthy(&value.String{Value: "x"}))
	assert.True(t, value.Truthy(&value.List{Elements: []value.Value{&value.Int{Value: 1}}}))
}

func TestMapSetGetByHashableKeys(t *testing.T) {
	m := value.NewMap()
	key := &value.String{Value: "a"}
	m.Set(key, key, &value.Int{Value: 1})

	got, ok := m.Get(&value.String{Value: "a"})
	require.True(t, ok)
	assert.Equal(t, &value.Int{Value: 1}, got)

	_, ok = m.Get(&value.String{Value: "b"})
	assert.False(t, ok)
}

func TestMapInspectIsDeterministic(t *testing.T) {
	m := value.NewMap()
	m.Set(&value.String{Value: "a"}, &value.String{Value: "a"}, &value.Int{Value: 1})
	m.Set(&value.String{Value: "b"}, &value.String{Value: "b"}, &value.Int{Value: 2})
	assert.Equal(t, `{a: 1, b: 2}`, m.Inspect())
}

func TestNewInstanceDeepCopiesPropsAndSetsType(t *testing.T) {
	class := &value.Class{
		Name:      "Point",
		Namespace: "",
		Props: map[string]value.Value{
			"x": &value.Int{Value: 0},
		},
	}
	inst := value.NewInstance(class)
	inst.Props["x"].(*value.Int).Value = 99

	assert.Equal(t, int64(0), class.Props["x"].(*value.Int).Value, "mutating an instance prop must not alias the class default")
	assert.Equal(t, &value.String{Value: "Point"}, inst.Props["type"])
}

func TestDeepCopyListDoesNotAlias(t *testing.T) {
	orig := &value.List{Elements: []value.Value{&value.Int{Value: 1}}}
	cp := value.DeepCopy(orig).(*value.List)
	cp.Elements[0].(*value.Int).Value = 2
	assert.Equal(t, int64(1), orig.Elements[0].(*value.Int).Value)
}
