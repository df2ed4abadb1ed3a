package lockscript

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Artifact is the trusted output of a contract compiler: the asm template
// skeleton for the contract's code, the declared constructor parameters,
// and, for stateful contracts, the shape of the mutable state. Parsing
// compiler output into these fields happens upstream; the codec treats an
// Artifact as already-validated input. Immutable once constructed.
type Artifact struct {
	name     string
	template *Template
	state    *TypeDescriptor
}

// NewArtifact builds an artifact from a compiler-produced asm skeleton,
// validating the template's placeholder set against the declared
// parameters. state may be nil for stateless contracts.
func NewArtifact(name, asm string, params []Param, state *TypeDescriptor) (*Artifact, error) {
	tpl, err := NewTemplate(name, asm, params...)
	if err != nil {
		return nil, err
	}
	return &Artifact{name: name, template: tpl, state: state}, nil
}

// MustArtifact is like NewArtifact but panics on error.
// Use only with compile-time constant artifacts.
func MustArtifact(name, asm string, params []Param, state *TypeDescriptor) *Artifact {
	a, err := NewArtifact(name, asm, params, state)
	if err != nil {
		panic(err)
	}
	return a
}

// jsonType is the recursive JSON form of a TypeDescriptor. Exactly one of
// the kind-selecting fields is set.
type jsonType struct {
	Prim    string      `json:"prim,omitempty"`
	Struct  string      `json:"struct,omitempty"`
	Fields  []jsonField `json:"fields,omitempty"`
	Elem    *jsonType   `json:"elem,omitempty"`
	Dims    []int       `json:"dims,omitempty"`
	Library string      `json:"library,omitempty"`
	State   *jsonType   `json:"state,omitempty"`
}

type jsonField struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
}

type jsonParam struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
}

type jsonArtifact struct {
	Contract string      `json:"contract"`
	Asm      string      `json:"asm"`
	Params   []jsonParam `json:"params"`
	State    *jsonType   `json:"state,omitempty"`
}

func (jt *jsonType) descriptor() (*TypeDescriptor, error) {
	switch {
	case jt.Prim != "":
		switch jt.Prim {
		case "bool":
			return BoolType(), nil
		case "int":
			return IntType(), nil
		case "bytes":
			return BytesType(), nil
		}
		return nil, errors.Errorf("lockscript: unknown primitive type %q", jt.Prim)

	case jt.Struct != "":
		fields := make([]Field, len(jt.Fields))
		for i, jf := range jt.Fields {
			ty, err := jf.Type.descriptor()
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: jf.Name, Type: ty}
		}
		return StructType(jt.Struct, fields...)

	case jt.Elem != nil:
		elem, err := jt.Elem.descriptor()
		if err != nil {
			return nil, err
		}
		return ArrayType(elem, jt.Dims...)

	case jt.Library != "":
		if jt.State == nil {
			return nil, errors.Errorf("lockscript: library type %q has no state struct", jt.Library)
		}
		state, err := jt.State.descriptor()
		if err != nil {
			return nil, err
		}
		return LibraryType(jt.Library, state)
	}
	return nil, errors.New("lockscript: type object selects no kind")
}

// ParseArtifact parses a JSON contract artifact, the on-disk form of a
// compiler's output, into an Artifact. The input is trusted; validation is
// limited to what NewArtifact enforces.
func ParseArtifact(artifactJSON []byte) (*Artifact, error) {
	var ja jsonArtifact
	if err := json.Unmarshal(artifactJSON, &ja); err != nil {
		return nil, errors.Wrap(err, "lockscript: cannot parse artifact")
	}
	params := make([]Param, len(ja.Params))
	for i, jp := range ja.Params {
		ty, err := jp.Type.descriptor()
		if err != nil {
			return nil, errors.Wrapf(err, "lockscript: artifact %q parameter %q", ja.Contract, jp.Name)
		}
		params[i] = Param{Name: jp.Name, Type: ty}
	}
	var state *TypeDescriptor
	if ja.State != nil {
		ty, err := ja.State.descriptor()
		if err != nil {
			return nil, errors.Wrapf(err, "lockscript: artifact %q state", ja.Contract)
		}
		state = ty
	}
	return NewArtifact(ja.Contract, ja.Asm, params, state)
}

// MustParseArtifact is like ParseArtifact but panics on error.
// Use only with compile-time constant artifact JSON.
func MustParseArtifact(artifactJSON []byte) *Artifact {
	a, err := ParseArtifact(artifactJSON)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the contract name.
func (a *Artifact) Name() string { return a.name }

// Template returns the compiled template.
func (a *Artifact) Template() *Template { return a.template }

// StateType returns the declared mutable-state shape, or nil for stateless
// contracts.
func (a *Artifact) StateType() *TypeDescriptor { return a.state }

// NewInstance renders the template with constructor arguments into a fresh
// script instance. The code part is fixed here for the instance's
// lifetime; the data part starts absent.
func (a *Artifact) NewInstance(args *BoundArguments) (*ScriptInstance, error) {
	code, err := a.template.Render(args)
	if err != nil {
		return nil, err
	}
	return &ScriptInstance{artifact: a, args: args, code: code}, nil
}

// FromScript reconstructs an instance from a foreign full script observed
// on-chain: the end-of-code marker is located, everything before it (marker
// included) is matched against the template to recover the constructor
// arguments, and everything after it becomes the data part verbatim. State
// contents are not validated here; DecodeState does that on request. A
// missing marker or a match failure rejects with TemplateMismatchError.
func (a *Artifact) FromScript(script []byte, opts ...MatchOption) (*ScriptInstance, error) {
	tokens, err := ParseScript(script)
	if err != nil {
		return nil, &TemplateMismatchError{Template: a.name, Err: err}
	}
	return a.fromTokens(tokens, opts...)
}

// FromAsm is FromScript over the textual mnemonic form.
func (a *Artifact) FromAsm(asm string, opts ...MatchOption) (*ScriptInstance, error) {
	tokens, err := ParseAsm(asm)
	if err != nil {
		return nil, &TemplateMismatchError{Template: a.name, Err: err}
	}
	return a.fromTokens(tokens, opts...)
}

func (a *Artifact) fromTokens(tokens []Token, opts ...MatchOption) (*ScriptInstance, error) {
	cfg := defaultMatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sep := -1
	for i, tok := range tokens {
		if !tok.IsPush() && tok.Opcode() == OpReturn {
			sep = i
			break
		}
	}
	if sep < 0 {
		return nil, &TemplateMismatchError{
			Template: a.name,
			Position: len(tokens),
			Err:      ErrMissingSeparator,
		}
	}

	code := tokens[:sep+1]
	args, _, err := a.template.matchPrefix(code, cfg)
	if err != nil {
		return nil, err
	}

	si := &ScriptInstance{
		artifact: a,
		args:     args,
		code:     append([]Token(nil), code...),
	}
	if rest := tokens[sep+1:]; len(rest) > 0 {
		si.SetDataPart(rest)
	}
	return si, nil
}
