// ==============================================================================================
// FILE: value/value.go
// ==============================================================================================
// PACKAGE: value
// PURPOSE: Tagged value variants for the interpreter's data model (spec.md
//          §2/§3): null, bool, int, float, string, list, map, function,
//          class, class-instance, error-object (an Instance of the
//          well-known Error class), native-callable. Grounded on
//          amoghasbhardwaj-Eloquence/object/object.go's Object interface and
//          HashKey/Hashable scheme, renamed/extended per spec.md's data
//          model (Class/Instance replace StructDefinition/StructInstance;
//          Function carries a command-list body instead of an AST closure).
// ==============================================================================================

package value

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/parsampsh/pashmak-core/lexer"
)

// Type tags a Value's runtime kind.
type Type string

const (
	NullType     Type = "NULL"
	BoolType     Type = "BOOL"
	IntType      Type = "INT"
	FloatType    Type = "FLOAT"
	StringType   Type = "STRING"
	ListType     Type = "LIST"
	MapType      Type = "MAP"
	FunctionType Type = "FUNCTION"
	ClassType    Type = "CLASS"
	InstanceType Type = "INSTANCE"
	NativeType   Type = "NATIVE"
)

// Value is any first-class Pashmak runtime value.
type Value interface {
	Type() Type
	Inspect() string
}

// Null is the single null value.
type Null struct{}

func (n *Null) Type() Type      { return NullType }
func (n *Null) Inspect() string { return "null" }

// NullValue is the shared Null instance -- null carries no state, so every
// site that needs one can reuse it instead of allocating.
var NullValue = &Null{}

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (b *Bool) Type() Type      { return BoolType }
func (b *Bool) Inspect() string { return strconv.FormatBool(b.Value) }

// Int wraps a 64-bit integer.
type Int struct{ Value int64 }

func (i *Int) Type() Type      { return IntType }
func (i *Int) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Float wraps a 64-bit float.
type Float struct{ Value float64 }

func (f *Float) Type() Type      { return FloatType }
func (f *Float) Inspect() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// String wraps a string.
type String struct{ Value string }

func (s *String) Type() Type      { return StringType }
func (s *String) Inspect() string { return s.Value }

// List is an ordered, mutable sequence of Values.
type List struct{ Elements []Value }

func (l *List) Type() Type { return ListType }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// HashKey identifies a Value usable as a Map key.
type HashKey struct {
	Type  Type
	Value uint64
}

// Hashable is implemented by Value variants usable as Map keys.
type Hashable interface {
	HashKey() HashKey
}

func (b *Bool) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}
	return HashKey{Type: b.Type(), Value: v}
}

func (i *Int) HashKey() HashKey {
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

func (s *String) HashKey() HashKey {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.Value))
	return HashKey{Type: s.Type(), Value: h.Sum64()}
}

// MapPair is one key/value pair stored in a Map, keeping the original key
// Value around so Inspect can render it (the HashKey alone is lossy).
type MapPair struct {
	Key   Value
	Value Value
}

// Map is a hash map keyed by any Hashable Value.
type Map struct {
	Pairs map[HashKey]MapPair
}

func NewMap() *Map { return &Map{Pairs: make(map[HashKey]MapPair)} }

func (m *Map) Type() Type { return MapType }

func (m *Map) Inspect() string {
	keys := make([]HashKey, 0, len(m.Pairs))
	for k := range m.Pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return keys[i].Value < keys[j].Value
	})
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		p := m.Pairs[k]
		parts = append(parts, p.Key.Inspect()+": "+p.Value.Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set stores value under key, replacing any existing pair with that key.
func (m *Map) Set(key Hashable, keyValue, val Value) {
	m.Pairs[key.HashKey()] = MapPair{Key: keyValue, Value: val}
}

// Get looks up key, reporting whether it was present.
func (m *Map) Get(key Hashable) (Value, bool) {
	p, ok := m.Pairs[key.HashKey()]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Function is a declared Pashmak function/method: a namespace-qualified
// name and a collected command-list body, not an AST closure -- Pashmak
// functions are recorded command lists executed against a fresh frame
// (spec.md §3 Function).
type Function struct {
	Name      string
	Namespace string
	Body      []*lexer.Command
	Doc       string
	IsMethod  bool
}

func (f *Function) Type() Type { return FunctionType }
func (f *Function) Inspect() string {
	return fmt.Sprintf("<function %s%s>", f.Namespace, f.Name)
}

// Class is a declared Pashmak class: namespace-qualified name, declared
// properties (evaluated at class-body time, deep-copied per instance), and
// a method table.
type Class struct {
	Name      string
	Namespace string
	Props     map[string]Value
	PropOrder []string
	Methods   map[string]*Function
	Doc       string
}

func (c *Class) Type() Type { return ClassType }
func (c *Class) Inspect() string {
	return fmt.Sprintf("<class %s%s>", c.Namespace, c.Name)
}

// Instance is a class-instance: a deep copy of its class's props plus a
// reference to the class (for method dispatch) and the `type` attribute.
type Instance struct {
	Class *Class
	Props map[string]Value
}

func (i *Instance) Type() Type { return InstanceType }
func (i *Instance) Inspect() string {
	return fmt.Sprintf("<instance of %s%s>", i.Class.Namespace, i.Class.Name)
}

// NewInstance deep-copies class's declared props into a fresh Instance.
func NewInstance(class *Class) *Instance {
	props := make(map[string]Value, len(class.Props))
	for k, v := range class.Props {
		props[k] = DeepCopy(v)
	}
	props["type"] = &String{Value: class.Namespace + class.Name}
	return &Instance{Class: class, Props: props}
}

// NativeFunc is a host-provided builtin: receives a single argument Value
// (per spec.md §1's "native callables receiving a single argument and
// returning a single value") and returns a single Value or an error.
type NativeFunc func(arg Value) (Value, error)

// Native wraps a host-provided builtin so it can flow through the same
// Value interface as user-defined functions.
type Native struct {
	Name string
	Fn   NativeFunc
}

func (n *Native) Type() Type      { return NativeType }
func (n *Native) Inspect() string { return fmt.Sprintf("<native %s>", n.Name) }

// Truthy reports whether v is truthy per spec.md §4.2's arithmetic/logical
// grammar: null and false are falsy, zero int/float and empty string/list/
// map are falsy, everything else is truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case *Null:
		return false
	case *Bool:
		return x.Value
	case *Int:
		return x.Value != 0
	case *Float:
		return x.Value != 0
	case *String:
		return x.Value != ""
	case *List:
		return len(x.Elements) > 0
	case *Map:
		return len(x.Pairs) > 0
	default:
		return true
	}
}

// DeepCopy clones a Value recursively. Functions/Classes/Natives are
// reference-like (identical across copies); Instances are deep-copied so
// that, per spec.md §3's Lifecycle note, class-instance prop maps assigned
// from `new` don't alias the class's declared defaults.
func DeepCopy(v Value) Value {
	switch x := v.(type) {
	case *Null:
		return NullValue
	case *Bool:
		return &Bool{Value: x.Value}
	case *Int:
		return &Int{Value: x.Value}
	case *Float:
		return &Float{Value: x.Value}
	case *String:
		return &String{Value: x.Value}
	case *List:
		elems := make([]Value, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = DeepCopy(e)
		}
		return &List{Elements: elems}
	case *Map:
		m := NewMap()
		for k, p := range x.Pairs {
			m.Pairs[k] = MapPair{Key: DeepCopy(p.Key), Value: DeepCopy(p.Value)}
		}
		return m
	case *Instance:
		props := make(map[string]Value, len(x.Props))
		for k, v := range x.Props {
			props[k] = DeepCopy(v)
		}
		return &Instance{Class: x.Class, Props: props}
	default:
		return v
	}
}
