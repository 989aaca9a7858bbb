package document

import "errors"

// ErrMalformed marks a document that cannot be represented as a Value tree.
// Sources wrap it so the schema builder can skip the document and keep
// scanning instead of aborting the whole pass.
var ErrMalformed = errors.New("malformed document")

type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindID
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindID:
		return "id"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	panic("should be unreachable")
}

// Value is one scalar or composite node of a document. Scalars are bool,
// int, float, string and opaque identifiers (database-assigned ids, UUIDs);
// composites are ordered lists and ordered field maps.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	vs   []Value
	fs   []Field
}

// Field is one name/value pair. Order matters to callers that preserve the
// original document layout, so maps are slices of fields, not Go maps.
type Field struct {
	Name  string
	Value Value
}

// Document is one record of the input collection, an ordered mapping from
// field name to value.
type Document []Field

func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }

// ID wraps an opaque identifier. For SQL purposes ids are text; keeping the
// kind separate lets sources mark ObjectIds and UUIDs explicitly.
func ID(s string) Value { return Value{kind: KindID, s: s} }

func List(vs ...Value) Value { return Value{kind: KindList, vs: vs} }
func Map(fs ...Field) Value  { return Value{kind: KindMap, fs: fs} }

// F builds a field, mostly a convenience for literals in tests.
func F(name string, v Value) Field { return Field{Name: name, Value: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsComposite() bool {
	return v.kind == KindList || v.kind == KindMap
}

func (v Value) Bool() bool {
	if v.kind != KindBool {
		panic("value is not a bool")
	}
	return v.b
}

func (v Value) Int() int64 {
	if v.kind != KindInt {
		panic("value is not an int")
	}
	return v.i
}

func (v Value) Float() float64 {
	if v.kind != KindFloat {
		panic("value is not a float")
	}
	return v.f
}

func (v Value) String() string {
	if v.kind != KindString && v.kind != KindID {
		panic("value is not a string")
	}
	return v.s
}

func (v Value) Elems() []Value {
	if v.kind != KindList {
		panic("value is not a list")
	}
	return v.vs
}

func (v Value) Fields() []Field {
	if v.kind != KindMap {
		panic("value is not a map")
	}
	return v.fs
}

// AsDocument reinterprets a map value as a sub-document for recursion into
// relationship schemas.
func (v Value) AsDocument() Document {
	return Document(v.Fields())
}
