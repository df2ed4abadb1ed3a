package lockscript

import (
	"sort"
)

// BoundArguments maps placeholder paths to concrete primitive values. It is
// produced either by direct construction (the encode direction) or by
// matching a raw script (the decode direction). Composite values bound to a
// parameter name are flattened into their leaf entries immediately, so
// lookups during rendering are always primitive.
type BoundArguments struct {
	leaves map[string]Value
	args   map[string]Value // parameter name -> bound tree
}

// NewArguments creates an empty argument binding.
func NewArguments() *BoundArguments {
	return &BoundArguments{
		leaves: make(map[string]Value),
		args:   make(map[string]Value),
	}
}

// Bind associates a value with a parameter name or placeholder path.
// Composites are flattened into one entry per primitive leaf; their shape
// was already validated at construction, so flattening cannot fail.
// Returns the receiver for chaining.
func (a *BoundArguments) Bind(name string, v Value) *BoundArguments {
	a.args[name] = v
	if v.Type().IsPrimitive() {
		a.leaves[name] = v
		return a
	}
	leaves := v.Type().Leaves(name)
	flat := flatten(v)
	for i, leaf := range leaves {
		a.leaves[leaf.Path] = flat[i]
	}
	return a
}

// Arg returns the tree bound to a parameter name: the value supplied to
// Bind in the encode direction, or the reconstructed tree in the decode
// direction.
func (a *BoundArguments) Arg(name string) (Value, bool) {
	v, ok := a.args[name]
	return v, ok
}

// Leaf returns the primitive bound at a placeholder path.
func (a *BoundArguments) Leaf(path string) (Value, bool) {
	v, ok := a.leaves[path]
	return v, ok
}

// Paths returns all bound placeholder paths in sorted order.
func (a *BoundArguments) Paths() []string {
	out := make([]string, 0, len(a.leaves))
	for p := range a.leaves {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of bound placeholder paths.
func (a *BoundArguments) Len() int {
	return len(a.leaves)
}

// Equal reports whether two bindings carry the same leaf set with equal
// values. Parameter-level trees are derived data and do not participate.
func (a *BoundArguments) Equal(other *BoundArguments) bool {
	if len(a.leaves) != len(other.leaves) {
		return false
	}
	for path, v := range a.leaves {
		ov, ok := other.leaves[path]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// encodePrimitive emits the canonical push token for a primitive value:
// booleans as OP_0/OP_1, integers as minimal script numbers, byte strings
// as-is.
func encodePrimitive(v Value) Token {
	switch val := v.(type) {
	case *BoolValue:
		if val.v {
			return PushToken([]byte{0x01})
		}
		return PushToken(nil)
	case *IntValue:
		return PushToken(encodeScriptNum(val.v))
	case *BytesValue:
		return PushToken(val.b)
	default:
		// conform rejects composites before this point.
		panic("lockscript: encodePrimitive called with composite value")
	}
}

// Render instantiates the template with bound arguments: literal tokens
// pass through verbatim, placeholders emit the canonical push of their
// bound primitive. A missing path fails with UnboundArgumentError; a value
// whose shape disagrees with the placeholder fails with TypeMismatchError
// before any tokens escape. Entries not referenced by the template are
// ignored.
func (t *Template) Render(args *BoundArguments) ([]Token, error) {
	if args == nil {
		args = NewArguments()
	}
	out := make([]Token, 0, len(t.tokens))
	for _, tt := range t.tokens {
		if tt.ph == nil {
			out = append(out, tt.lit)
			continue
		}
		v, ok := args.Leaf(tt.ph.path)
		if !ok {
			return nil, &UnboundArgumentError{Path: tt.ph.path}
		}
		if err := conform(v, tt.ph.ty, tt.ph.path); err != nil {
			return nil, err
		}
		out = append(out, encodePrimitive(v))
	}
	return out, nil
}

// RenderScript is Render in compact binary form.
func (t *Template) RenderScript(args *BoundArguments) ([]byte, error) {
	tokens, err := t.Render(args)
	if err != nil {
		return nil, err
	}
	return Serialize(tokens), nil
}

// RenderAsm is Render in textual mnemonic form.
func (t *Template) RenderAsm(args *BoundArguments) (string, error) {
	tokens, err := t.Render(args)
	if err != nil {
		return "", err
	}
	return Disasm(tokens), nil
}
