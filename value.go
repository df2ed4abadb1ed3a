package lockscript

import (
	"bytes"
	"math/big"
	"strconv"
)

// Value represents any typed value that can be bound to a template
// placeholder or serialized as contract state.
// This is a sealed interface - only types within this package can implement it.
type Value interface {
	// isValue is unexported to seal the interface.
	isValue()

	// Type returns the declared descriptor of this value. A value's shape
	// always conforms to its descriptor; disagreement is rejected at
	// construction time.
	Type() *TypeDescriptor
}

// BoolValue is a boolean primitive value.
type BoolValue struct {
	v bool
}

func (v *BoolValue) isValue() {}

// Type returns the boolean descriptor.
func (v *BoolValue) Type() *TypeDescriptor { return boolType }

// Bool returns the wrapped boolean.
func (v *BoolValue) Bool() bool { return v.v }

// IntValue is an arbitrary-precision signed integer primitive value.
type IntValue struct {
	v *big.Int
}

func (v *IntValue) isValue() {}

// Type returns the integer descriptor.
func (v *IntValue) Type() *TypeDescriptor { return intType }

// Int returns a copy of the wrapped integer.
func (v *IntValue) Int() *big.Int { return new(big.Int).Set(v.v) }

// BytesValue is a raw byte-string primitive value. Zero length is valid and
// distinct from an absent value.
type BytesValue struct {
	b []byte
}

func (v *BytesValue) isValue() {}

// Type returns the byte-string descriptor.
func (v *BytesValue) Type() *TypeDescriptor { return bytesType }

// Bytes returns a copy of the wrapped bytes.
func (v *BytesValue) Bytes() []byte {
	out := make([]byte, len(v.b))
	copy(out, v.b)
	return out
}

// StructValue is an aggregate with named ordered fields fixed by its schema.
type StructValue struct {
	ty     *TypeDescriptor
	fields []Value // declaration order
}

func (v *StructValue) isValue() {}

// Type returns the struct schema.
func (v *StructValue) Type() *TypeDescriptor { return v.ty }

// Field returns the named field's value.
func (v *StructValue) Field(name string) (Value, bool) {
	for i, f := range v.ty.fields {
		if f.Name == name {
			return v.fields[i], true
		}
	}
	return nil, false
}

// ArrayValue is a fixed-length homogeneous aggregate.
type ArrayValue struct {
	ty    *TypeDescriptor
	elems []Value
}

func (v *ArrayValue) isValue() {}

// Type returns the array schema.
func (v *ArrayValue) Type() *TypeDescriptor { return v.ty }

// Len returns the outermost dimension size.
func (v *ArrayValue) Len() int { return len(v.elems) }

// At returns the element at index i of the outermost dimension.
func (v *ArrayValue) At(i int) Value { return v.elems[i] }

// LibraryValue wraps a struct value as the mutable state of a named library.
type LibraryValue struct {
	ty    *TypeDescriptor
	state *StructValue
}

func (v *LibraryValue) isValue() {}

// Type returns the library schema.
func (v *LibraryValue) Type() *TypeDescriptor { return v.ty }

// State returns the wrapped state struct.
func (v *LibraryValue) State() *StructValue { return v.state }

// Bool creates a boolean value.
func Bool(v bool) *BoolValue {
	return &BoolValue{v: v}
}

// Int creates an integer value from a *big.Int. The input is copied.
func Int(v *big.Int) *IntValue {
	return &IntValue{v: new(big.Int).Set(v)}
}

// Int64 creates an integer value from an int64.
func Int64(v int64) *IntValue {
	return &IntValue{v: big.NewInt(v)}
}

// Bytes creates a byte-string value. The input is copied.
func Bytes(b []byte) *BytesValue {
	out := make([]byte, len(b))
	copy(out, b)
	return &BytesValue{b: out}
}

// NewStruct creates a struct value for the given schema. fields must supply
// exactly the schema's declared field set; a missing, extra, or
// wrongly-shaped field fails with TypeMismatchError.
func NewStruct(ty *TypeDescriptor, fields map[string]Value) (*StructValue, error) {
	if ty == nil || ty.kind != KindStruct {
		return nil, &TypeMismatchError{Expected: "struct", Got: describeType(ty)}
	}
	if len(fields) != len(ty.fields) {
		return nil, &TypeMismatchError{
			Path:     ty.Name(),
			Expected: ty.String(),
			Got:      "wrong field count",
		}
	}
	ordered := make([]Value, len(ty.fields))
	for i, f := range ty.fields {
		v, ok := fields[f.Name]
		if !ok {
			return nil, &TypeMismatchError{
				Path:     ty.Name() + "." + f.Name,
				Expected: f.Type.String(),
				Got:      "missing field",
			}
		}
		if err := conform(v, f.Type, ty.Name()+"."+f.Name); err != nil {
			return nil, err
		}
		ordered[i] = v
	}
	return &StructValue{ty: ty, fields: ordered}, nil
}

// MustStruct is like NewStruct but panics on error.
func MustStruct(ty *TypeDescriptor, fields map[string]Value) *StructValue {
	v, err := NewStruct(ty, fields)
	if err != nil {
		panic(err)
	}
	return v
}

// NewArray creates an array value for the given schema. The element count
// must equal the outermost dimension, and each element must conform to the
// remaining shape.
func NewArray(ty *TypeDescriptor, elems ...Value) (*ArrayValue, error) {
	if ty == nil || ty.kind != KindArray {
		return nil, &TypeMismatchError{Expected: "array", Got: describeType(ty)}
	}
	if len(elems) != ty.dims[0] {
		return nil, &TypeMismatchError{
			Path:     ty.String(),
			Expected: ty.String(),
			Got:      "wrong element count",
		}
	}
	shape := ty.elemShape()
	out := make([]Value, len(elems))
	for i, e := range elems {
		if err := conform(e, shape, ty.String()); err != nil {
			return nil, err
		}
		out[i] = e
	}
	return &ArrayValue{ty: ty, elems: out}, nil
}

// MustArray is like NewArray but panics on error.
func MustArray(ty *TypeDescriptor, elems ...Value) *ArrayValue {
	v, err := NewArray(ty, elems...)
	if err != nil {
		panic(err)
	}
	return v
}

// NewLibrary wraps a state struct as a library value. The state must
// conform to the library's declared state schema.
func NewLibrary(ty *TypeDescriptor, state *StructValue) (*LibraryValue, error) {
	if ty == nil || ty.kind != KindLibrary {
		return nil, &TypeMismatchError{Expected: "library", Got: describeType(ty)}
	}
	if err := conform(state, ty.state, ty.name); err != nil {
		return nil, err
	}
	return &LibraryValue{ty: ty, state: state}, nil
}

// MustLibrary is like NewLibrary but panics on error.
func MustLibrary(ty *TypeDescriptor, state *StructValue) *LibraryValue {
	v, err := NewLibrary(ty, state)
	if err != nil {
		panic(err)
	}
	return v
}

func describeType(ty *TypeDescriptor) string {
	if ty == nil {
		return "nil type"
	}
	return ty.String()
}

// conform checks that a value's shape agrees with the declared descriptor.
// The check is structural and recursive; path names the offending slot.
func conform(v Value, ty *TypeDescriptor, path string) error {
	if v == nil {
		return &TypeMismatchError{Path: path, Expected: ty.String(), Got: "nil"}
	}
	if !v.Type().Equal(ty) {
		return &TypeMismatchError{Path: path, Expected: ty.String(), Got: v.Type().String()}
	}
	return nil
}

// flatten turns a conforming value tree into its ordered primitive leaves:
// struct fields in declaration order, array elements in index order, a
// library as its wrapped struct. The inverse of buildValue.
func flatten(v Value) []Value {
	var out []Value
	appendFlattened(v, &out)
	return out
}

func appendFlattened(v Value, out *[]Value) {
	switch val := v.(type) {
	case *StructValue:
		for _, f := range val.fields {
			appendFlattened(f, out)
		}
	case *ArrayValue:
		for _, e := range val.elems {
			appendFlattened(e, out)
		}
	case *LibraryValue:
		appendFlattened(val.state, out)
	default:
		*out = append(*out, v)
	}
}

// buildValue reconstructs a value tree of the given shape from flattened
// leaves keyed by path. The inverse of flatten.
func buildValue(ty *TypeDescriptor, path string, leaves map[string]Value) (Value, error) {
	switch ty.kind {
	case KindBool, KindInt, KindBytes:
		v, ok := leaves[path]
		if !ok {
			return nil, &UnboundArgumentError{Path: path}
		}
		if err := conform(v, ty, path); err != nil {
			return nil, err
		}
		return v, nil
	case KindStruct:
		fields := make(map[string]Value, len(ty.fields))
		for _, f := range ty.fields {
			fv, err := buildValue(f.Type, path+"."+f.Name, leaves)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = fv
		}
		return NewStruct(ty, fields)
	case KindArray:
		return buildArray(ty, ty.dims, path, leaves)
	case KindLibrary:
		state, err := buildValue(ty.state, path, leaves)
		if err != nil {
			return nil, err
		}
		return NewLibrary(ty, state.(*StructValue))
	default:
		return nil, &TypeMismatchError{Path: path, Expected: "value kind", Got: ty.kind.String()}
	}
}

func buildArray(ty *TypeDescriptor, dims []int, path string, leaves map[string]Value) (Value, error) {
	if len(dims) == 0 {
		return buildValue(ty.elem, path, leaves)
	}
	shape := &TypeDescriptor{kind: KindArray, elem: ty.elem, dims: dims}
	elems := make([]Value, dims[0])
	for i := 0; i < dims[0]; i++ {
		e, err := buildArray(ty, dims[1:], indexPath(path, i), leaves)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return NewArray(shape, elems...)
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Equal reports deep equality of two values. Integers compare by numeric
// value, byte strings byte-for-byte, aggregates element-wise.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Type().Equal(b.Type()) {
		return false
	}
	switch av := a.(type) {
	case *BoolValue:
		return av.v == b.(*BoolValue).v
	case *IntValue:
		return av.v.Cmp(b.(*IntValue).v) == 0
	case *BytesValue:
		return bytes.Equal(av.b, b.(*BytesValue).b)
	case *StructValue:
		bv := b.(*StructValue)
		for i := range av.fields {
			if !Equal(av.fields[i], bv.fields[i]) {
				return false
			}
		}
		return true
	case *ArrayValue:
		bv := b.(*ArrayValue)
		for i := range av.elems {
			if !Equal(av.elems[i], bv.elems[i]) {
				return false
			}
		}
		return true
	case *LibraryValue:
		return Equal(av.state, b.(*LibraryValue).state)
	default:
		return false
	}
}
