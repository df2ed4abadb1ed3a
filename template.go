package lockscript

import (
	"strings"

	"github.com/pkg/errors"
)

// Param is one declared constructor parameter: a name and the shape of the
// value bound to it.
type Param struct {
	Name string
	Type *TypeDescriptor
}

// placeholder is a template slot bound to one primitive leaf of the
// constructor argument tree.
type placeholder struct {
	path string
	ty   *TypeDescriptor // always a primitive
}

// templateToken is either a literal token that must appear verbatim or a
// placeholder slot.
type templateToken struct {
	lit Token
	ph  *placeholder // nil for literals
}

// Template is an ordered literal/placeholder token skeleton for a
// contract's code part, produced by a contract compiler and instantiated
// with constructor arguments. The placeholder set is exactly the flattened
// leaf set of the declared parameters, in traversal order, and the final
// token is always the OP_RETURN end-of-code marker. Templates are
// immutable once built.
type Template struct {
	name   string
	params []Param
	tokens []templateToken
}

// NewTemplate parses a compiler-produced asm skeleton into a Template.
// Tokens starting with '$' are placeholders; their paths must equal the
// flattened leaf paths of params, in order. The OP_RETURN marker is
// appended when the skeleton does not already end with it.
func NewTemplate(name, asm string, params ...Param) (*Template, error) {
	leaves := make([]Leaf, 0, len(params))
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return nil, errors.Errorf("lockscript: template %q has an unnamed parameter", name)
		}
		if p.Type == nil {
			return nil, errors.Errorf("lockscript: template %q parameter %q has no type", name, p.Name)
		}
		if seen[p.Name] {
			return nil, errors.Errorf("lockscript: template %q has duplicate parameter %q", name, p.Name)
		}
		seen[p.Name] = true
		leaves = append(leaves, p.Type.Leaves(p.Name)...)
	}

	fields := strings.Fields(asm)
	tokens := make([]templateToken, 0, len(fields)+1)
	next := 0
	for _, f := range fields {
		if strings.HasPrefix(f, "$") {
			path := f[1:]
			if next >= len(leaves) {
				return nil, errors.Errorf("lockscript: template %q has placeholder %q beyond the declared %d leaves", name, path, len(leaves))
			}
			if leaves[next].Path != path {
				return nil, errors.Errorf("lockscript: template %q placeholder %d is %q, parameters imply %q", name, next, path, leaves[next].Path)
			}
			tokens = append(tokens, templateToken{ph: &placeholder{path: path, ty: leaves[next].Type}})
			next++
			continue
		}
		t, err := parseAsmToken(f)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, templateToken{lit: t})
	}
	if next != len(leaves) {
		return nil, errors.Errorf("lockscript: template %q binds %d placeholders, parameters imply %d", name, next, len(leaves))
	}

	if len(tokens) == 0 || tokens[len(tokens)-1].ph != nil || tokens[len(tokens)-1].lit.Opcode() != OpReturn {
		tokens = append(tokens, templateToken{lit: OpToken(OpReturn)})
	}

	ps := make([]Param, len(params))
	copy(ps, params)
	return &Template{name: name, params: ps, tokens: tokens}, nil
}

// MustTemplate is like NewTemplate but panics on error.
// Use only with compile-time constant skeletons.
func MustTemplate(name, asm string, params ...Param) *Template {
	t, err := NewTemplate(name, asm, params...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template's contract name.
func (t *Template) Name() string { return t.name }

// Len returns the number of tokens, marker included.
func (t *Template) Len() int { return len(t.tokens) }

// Params returns the declared constructor parameters.
func (t *Template) Params() []Param {
	ps := make([]Param, len(t.params))
	copy(ps, t.params)
	return ps
}

// Placeholders returns the placeholder paths in template order.
func (t *Template) Placeholders() []string {
	var out []string
	for _, tt := range t.tokens {
		if tt.ph != nil {
			out = append(out, tt.ph.path)
		}
	}
	return out
}
