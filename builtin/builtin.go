// ==============================================================================================
// FILE: builtin/builtin.go
// ==============================================================================================
// PACKAGE: builtin
// PURPOSE: A registrable table of native callables, each receiving a single
//          Value argument and returning a single Value (spec.md §1's host
//          built-in contract). Grounded on
//          amoghasbhardwaj-Eloquence/object/builtins.go's Builtins
//          slice-of-struct registry + GetBuiltin lookup; this is a minimal
//          illustrative set (spec.md explicitly leaves the full host
//          built-in surface out of scope), sufficient to exercise
//          value.Native end to end.
// ==============================================================================================

package builtin

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parsampsh/pashmak-core/value"
)

// Table is a name -> Native registry, constructed fresh per Interpreter so
// callers can extend/override it via functional options.
type Table struct {
	entries map[string]*value.Native
}

// NewTable returns a Table pre-populated with the illustrative default set,
// writing `print`'s output to out.
func NewTable(out io.Writer) *Table {
	t := &Table{entries: make(map[string]*value.Native)}
	for _, b := range defaults(out) {
		t.Register(b)
	}
	return t
}

// Register adds or replaces n in the table.
func (t *Table) Register(n *value.Native) {
	t.entries[n.Name] = n
}

// Lookup returns the Native registered under name, if any.
func (t *Table) Lookup(name string) (*value.Native, bool) {
	n, ok := t.entries[name]
	return n, ok
}

func defaults(out io.Writer) []*value.Native {
	return []*value.Native{
		{Name: "print", Fn: func(arg value.Value) (value.Value, error) {
			fmt.Fprintln(out, display(arg))
			return value.NullValue, nil
		}},
		{Name: "str", Fn: func(arg value.Value) (value.Value, error) {
			return &value.String{Value: display(arg)}, nil
		}},
		{Name: "int", Fn: func(arg value.Value) (value.Value, error) {
			switch v := arg.(type) {
			case *value.Int:
				return v, nil
			case *value.Float:
				return &value.Int{Value: int64(v.Value)}, nil
			case *value.String:
				n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
				if err != nil {
					return nil, newBuiltinError("TypeError", "cannot convert %q to int", v.Value)
				}
				return &value.Int{Value: n}, nil
			default:
				return nil, newBuiltinError("TypeError", "cannot convert %s to int", arg.Type())
			}
		}},
		{Name: "len", Fn: func(arg value.Value) (value.Value, error) {
			switch v := arg.(type) {
			case *value.String:
				return &value.Int{Value: int64(len(v.Value))}, nil
			case *value.List:
				return &value.Int{Value: int64(len(v.Elements))}, nil
			case *value.Map:
				return &value.Int{Value: int64(len(v.Pairs))}, nil
			default:
				return nil, newBuiltinError("TypeError", "len() unsupported for %s", arg.Type())
			}
		}},
		{Name: "upper", Fn: func(arg value.Value) (value.Value, error) {
			s, ok := arg.(*value.String)
			if !ok {
				return nil, newBuiltinError("TypeError", "upper() expects a string")
			}
			return &value.String{Value: strings.ToUpper(s.Value)}, nil
		}},
		{Name: "lower", Fn: func(arg value.Value) (value.Value, error) {
			s, ok := arg.(*value.String)
			if !ok {
				return nil, newBuiltinError("TypeError", "lower() expects a string")
			}
			return &value.String{Value: strings.ToLower(s.Value)}, nil
		}},
	}
}

func display(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.Value
	}
	return v.Inspect()
}

// Error is returned by a Native when its argument is unsuitable; the
// interpreter (interp.convertNativeError) converts it into an error of the
// named Kind (or NativeError as a fallback), per spec.md §7.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return e.Kind + ": " + e.Message }

func newBuiltinError(kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
