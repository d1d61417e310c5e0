package cppython

import (
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
// The tag determines which Go type Value.Data carries.
type ValueTag int

const (
	VTNone ValueTag = iota // zero Value; "no result" from empty statement bodies
	VTInt                  // int64
	VTNum                  // float64
	VTBool                 // bool
	VTStr                  // string
	VTList                 // *ListObject (shared; aliasing, no deep copy)
	VTDict                 // *DictObject (shared; insertion-ordered)
	VTFun                  // Node (shared reference to an AST node)
)

// Value is the dynamically-typed runtime carrier. Exactly one variant is
// active at a time; the zero Value (VTNone) is distinguishable from every
// payload variant and is what empty statement bodies produce.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Primitive constructors.
func Int(n int64) Value   { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ListObject is the shared payload of a VTList. Multiple Values may alias
// the same ListObject; assignment never copies it.
type ListObject struct {
	Elems []Value
}

// DictObject is an insertion-ordered string-keyed map. Entries holds the
// storage; Keys records insertion order and is the iteration order.
type DictObject struct {
	Entries map[string]Value
	Keys    []string
}

// Set stores v under key, appending to Keys on first insertion.
func (d *DictObject) Set(key string, v Value) {
	if _, ok := d.Entries[key]; !ok {
		d.Keys = append(d.Keys, key)
	}
	d.Entries[key] = v
}

func List(elems []Value) Value { return Value{Tag: VTList, Data: &ListObject{Elems: elems}} }

func Dict() Value {
	return Value{Tag: VTDict, Data: &DictObject{Entries: map[string]Value{}}}
}

// FunVal wraps an AST node as a function value. Reserved by the data model;
// no surface syntax produces one yet.
func FunVal(body Node) Value { return Value{Tag: VTFun, Data: body} }

// String renders the value the way the REPL echoes results: bare integers,
// floats with a forced ".0" when they carry no fraction or exponent, strings
// in single quotes, True/False, and placeholders for containers. The zero
// Value renders as the empty string.
func (v Value) String() string {
	switch v.Tag {
	case VTNone:
		return ""
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		s := strconv.FormatFloat(v.Data.(float64), 'g', 15, 64)
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
			s += ".0"
		}
		return s
	case VTBool:
		if v.Data.(bool) {
			return "True"
		}
		return "False"
	case VTStr:
		return "'" + v.Data.(string) + "'"
	case VTList:
		return "[...]"
	case VTDict:
		return "{...}"
	case VTFun:
		return "<function>"
	default:
		return "<unknown>"
	}
}

// Truthy applies the condition-coercion rule: non-zero numbers and non-empty
// strings are true, booleans are themselves, container values are true iff
// the underlying reference is non-nil (an allocated-but-empty container is
// still truthy). The zero Value has no truth value and fails loudly.
func (v Value) Truthy() (bool, error) {
	switch v.Tag {
	case VTInt:
		return v.Data.(int64) != 0, nil
	case VTNum:
		return v.Data.(float64) != 0.0, nil
	case VTBool:
		return v.Data.(bool), nil
	case VTStr:
		return v.Data.(string) != "", nil
	case VTList:
		return v.Data.(*ListObject) != nil, nil
	case VTDict:
		return v.Data.(*DictObject) != nil, nil
	case VTFun:
		return v.Data != nil, nil
	default:
		return false, &EvalError{Msg: "Unsupported type"}
	}
}

func (v Value) isNumeric() bool { return v.Tag == VTInt || v.Tag == VTNum }

// asFloat widens an int or num payload to float64.
func (v Value) asFloat() float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}
