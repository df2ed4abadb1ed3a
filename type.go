package lockscript

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the shape class of a TypeDescriptor.
type Kind uint8

const (
	// KindBool is a boolean primitive.
	KindBool Kind = iota

	// KindInt is an arbitrary-precision signed integer primitive.
	KindInt

	// KindBytes is a raw byte-string primitive.
	KindBytes

	// KindStruct is a named, ordered field aggregate.
	KindStruct

	// KindArray is a fixed-length homogeneous aggregate.
	KindArray

	// KindLibrary wraps a struct representing mutable library state.
	KindLibrary
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindBytes:
		return "bytes"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindLibrary:
		return "library"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one named member of a struct schema.
type Field struct {
	Name string
	Type *TypeDescriptor
}

// TypeDescriptor is the declared shape of a Value: a primitive kind, a
// struct schema, an array schema, or a library schema. Descriptors are
// immutable once constructed; instance data never changes the shape.
type TypeDescriptor struct {
	kind   Kind
	name   string          // struct/library type name
	fields []Field         // struct members, declaration order
	elem   *TypeDescriptor // array element type
	dims   []int           // array dimension sizes, outermost first
	state  *TypeDescriptor // library wrapped struct
}

var (
	boolType  = &TypeDescriptor{kind: KindBool}
	intType   = &TypeDescriptor{kind: KindInt}
	bytesType = &TypeDescriptor{kind: KindBytes}
)

// BoolType returns the boolean primitive descriptor.
func BoolType() *TypeDescriptor { return boolType }

// IntType returns the integer primitive descriptor.
func IntType() *TypeDescriptor { return intType }

// BytesType returns the byte-string primitive descriptor.
func BytesType() *TypeDescriptor { return bytesType }

// StructType creates a struct schema with the given fields in declaration
// order. Field names must be unique and non-empty.
func StructType(name string, fields ...Field) (*TypeDescriptor, error) {
	if len(fields) == 0 {
		return nil, errors.Errorf("struct %q must have at least one field", name)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.Errorf("struct %q has an unnamed field", name)
		}
		if f.Type == nil {
			return nil, errors.Errorf("struct %q field %q has no type", name, f.Name)
		}
		if seen[f.Name] {
			return nil, errors.Errorf("struct %q has duplicate field %q", name, f.Name)
		}
		seen[f.Name] = true
	}
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return &TypeDescriptor{kind: KindStruct, name: name, fields: fs}, nil
}

// MustStructType is like StructType but panics on error.
// Use only with compile-time constant schemas.
func MustStructType(name string, fields ...Field) *TypeDescriptor {
	td, err := StructType(name, fields...)
	if err != nil {
		panic(err)
	}
	return td
}

// ArrayType creates a fixed-shape array schema. Multiple dims describe
// nested arrays, outermost dimension first. Every dimension must be
// positive.
func ArrayType(elem *TypeDescriptor, dims ...int) (*TypeDescriptor, error) {
	if elem == nil {
		return nil, errors.New("array element type is nil")
	}
	if len(dims) == 0 {
		return nil, errors.New("array must have at least one dimension")
	}
	for _, d := range dims {
		if d <= 0 {
			return nil, errors.Errorf("array dimension must be positive, got %d", d)
		}
	}
	ds := make([]int, len(dims))
	copy(ds, dims)
	return &TypeDescriptor{kind: KindArray, elem: elem, dims: ds}, nil
}

// MustArrayType is like ArrayType but panics on error.
func MustArrayType(elem *TypeDescriptor, dims ...int) *TypeDescriptor {
	td, err := ArrayType(elem, dims...)
	if err != nil {
		panic(err)
	}
	return td
}

// LibraryType creates a library schema: an identifying type name plus the
// struct schema of its mutable state.
func LibraryType(name string, state *TypeDescriptor) (*TypeDescriptor, error) {
	if name == "" {
		return nil, errors.New("library must have a type name")
	}
	if state == nil || state.kind != KindStruct {
		return nil, errors.Errorf("library %q state must be a struct", name)
	}
	return &TypeDescriptor{kind: KindLibrary, name: name, state: state}, nil
}

// MustLibraryType is like LibraryType but panics on error.
func MustLibraryType(name string, state *TypeDescriptor) *TypeDescriptor {
	td, err := LibraryType(name, state)
	if err != nil {
		panic(err)
	}
	return td
}

// Kind returns the descriptor's shape class.
func (t *TypeDescriptor) Kind() Kind { return t.kind }

// Name returns the declared type name for structs and libraries, and the
// kind name for primitives and arrays.
func (t *TypeDescriptor) Name() string {
	if t.name != "" {
		return t.name
	}
	return t.String()
}

// Fields returns the struct schema's fields in declaration order.
func (t *TypeDescriptor) Fields() []Field {
	fs := make([]Field, len(t.fields))
	copy(fs, t.fields)
	return fs
}

// Elem returns the array element descriptor, or nil for non-arrays.
func (t *TypeDescriptor) Elem() *TypeDescriptor { return t.elem }

// Dims returns the array dimension sizes, outermost first.
func (t *TypeDescriptor) Dims() []int {
	ds := make([]int, len(t.dims))
	copy(ds, t.dims)
	return ds
}

// State returns the library's wrapped struct schema, or nil.
func (t *TypeDescriptor) State() *TypeDescriptor { return t.state }

// IsPrimitive reports whether the descriptor has a direct wire encoding.
func (t *TypeDescriptor) IsPrimitive() bool {
	return t.kind == KindBool || t.kind == KindInt || t.kind == KindBytes
}

// String renders a readable form of the descriptor.
func (t *TypeDescriptor) String() string {
	switch t.kind {
	case KindBool, KindInt, KindBytes:
		return t.kind.String()
	case KindStruct:
		if t.name != "" {
			return "struct " + t.name
		}
		names := make([]string, len(t.fields))
		for i, f := range t.fields {
			names[i] = f.Name + ": " + f.Type.String()
		}
		return "struct {" + strings.Join(names, ", ") + "}"
	case KindArray:
		var sb strings.Builder
		sb.WriteString(t.elem.String())
		for _, d := range t.dims {
			fmt.Fprintf(&sb, "[%d]", d)
		}
		return sb.String()
	case KindLibrary:
		return "library " + t.name
	default:
		return t.kind.String()
	}
}

// Equal reports deep equality of two descriptors.
func (t *TypeDescriptor) Equal(other *TypeDescriptor) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindBool, KindInt, KindBytes:
		return true
	case KindStruct:
		if t.name != other.name || len(t.fields) != len(other.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != other.fields[i].Name {
				return false
			}
			if !t.fields[i].Type.Equal(other.fields[i].Type) {
				return false
			}
		}
		return true
	case KindArray:
		if len(t.dims) != len(other.dims) {
			return false
		}
		for i := range t.dims {
			if t.dims[i] != other.dims[i] {
				return false
			}
		}
		return t.elem.Equal(other.elem)
	case KindLibrary:
		return t.name == other.name && t.state.Equal(other.state)
	default:
		return false
	}
}

// Leaf is one primitive slot in a flattened value tree: its dotted path and
// its primitive descriptor.
type Leaf struct {
	Path string
	Type *TypeDescriptor
}

// Leaves flattens the descriptor into its ordered primitive leaf paths
// rooted at prefix: struct fields in declaration order, array elements in
// index order, a library as its wrapped struct. This traversal order is the
// placeholder order of every template built for the type.
func (t *TypeDescriptor) Leaves(prefix string) []Leaf {
	var out []Leaf
	t.appendLeaves(prefix, &out)
	return out
}

func (t *TypeDescriptor) appendLeaves(prefix string, out *[]Leaf) {
	switch t.kind {
	case KindBool, KindInt, KindBytes:
		*out = append(*out, Leaf{Path: prefix, Type: t})
	case KindStruct:
		for _, f := range t.fields {
			f.Type.appendLeaves(prefix+"."+f.Name, out)
		}
	case KindArray:
		t.appendArrayLeaves(prefix, t.dims, out)
	case KindLibrary:
		t.state.appendLeaves(prefix, out)
	}
}

func (t *TypeDescriptor) appendArrayLeaves(prefix string, dims []int, out *[]Leaf) {
	if len(dims) == 0 {
		t.elem.appendLeaves(prefix, out)
		return
	}
	for i := 0; i < dims[0]; i++ {
		t.appendArrayLeaves(fmt.Sprintf("%s[%d]", prefix, i), dims[1:], out)
	}
}

// elemShape returns the descriptor an element of the outermost dimension
// must conform to.
func (t *TypeDescriptor) elemShape() *TypeDescriptor {
	if len(t.dims) == 1 {
		return t.elem
	}
	return &TypeDescriptor{kind: KindArray, elem: t.elem, dims: t.dims[1:]}
}
