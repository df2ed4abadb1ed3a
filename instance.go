package lockscript

// ScriptInstance pairs an immutable code part with an optional mutable
// data part. The code part is the template rendered with bound constructor
// arguments, terminated by the OP_RETURN marker, and is fixed at
// construction. The data part holds current on-chain contract state; it is
// absent until explicitly set and is only ever replaced wholesale through
// SetDataPart, SetState, or adoption of a NewStateScript result.
type ScriptInstance struct {
	artifact *Artifact
	args     *BoundArguments
	code     []Token
	data     []Token
	hasData  bool
}

// Artifact returns the contract artifact this instance was built from.
func (si *ScriptInstance) Artifact() *Artifact { return si.artifact }

// Template returns the instance's template.
func (si *ScriptInstance) Template() *Template { return si.artifact.template }

// Args returns the constructor arguments: those supplied at construction,
// or those recovered by matching for instances built with FromScript.
func (si *ScriptInstance) Args() *BoundArguments { return si.args }

// CodePart returns the template-rendered token sequence including the
// end-of-code marker. It is identical for every call over the instance's
// lifetime, regardless of the data part.
func (si *ScriptInstance) CodePart() []Token {
	out := make([]Token, len(si.code))
	copy(out, si.code)
	return out
}

// CodeScript returns the code part in compact binary form.
func (si *ScriptInstance) CodeScript() []byte {
	return Serialize(si.code)
}

// DataPart returns the current data part tokens, reporting false when no
// state has ever been written.
func (si *ScriptInstance) DataPart() ([]Token, bool) {
	if !si.hasData {
		return nil, false
	}
	out := make([]Token, len(si.data))
	copy(out, si.data)
	return out, true
}

// DataScript returns the data part in compact binary form, reporting false
// when absent.
func (si *ScriptInstance) DataScript() ([]byte, bool) {
	if !si.hasData {
		return nil, false
	}
	return Serialize(si.data), true
}

// SetDataPart replaces the data part wholesale. The previous value, if
// any, does not survive in any form.
func (si *ScriptInstance) SetDataPart(tokens []Token) {
	si.data = make([]Token, len(tokens))
	copy(si.data, tokens)
	si.hasData = true
}

// SetDataScript replaces the data part with the token sequence parsed from
// raw bytes.
func (si *ScriptInstance) SetDataScript(script []byte) error {
	tokens, err := ParseScript(script)
	if err != nil {
		return err
	}
	si.SetDataPart(tokens)
	return nil
}

// Tokens returns the full script: code part followed by the data part when
// present.
func (si *ScriptInstance) Tokens() []Token {
	out := make([]Token, 0, len(si.code)+len(si.data))
	out = append(out, si.code...)
	if si.hasData {
		out = append(out, si.data...)
	}
	return out
}

// LockingScript returns the full script in compact binary form.
func (si *ScriptInstance) LockingScript() []byte {
	return Serialize(si.Tokens())
}

// Asm returns the full script in textual mnemonic form.
func (si *ScriptInstance) Asm() string {
	return Disasm(si.Tokens())
}

// NewStateScript encodes a new state value into a fresh data part and
// returns the full script for the next on-chain output. The state tree is
// flattened into its primitive leaves and their serialized pushes are
// wrapped into a single push-data blob, so the whole state travels as one
// opaque field. The returned script's code part is byte-identical to the
// instance's; state transitions never alter executable code.
func (si *ScriptInstance) NewStateScript(state Value) ([]Token, error) {
	blob, err := si.encodeState(state)
	if err != nil {
		return nil, err
	}
	out := make([]Token, 0, len(si.code)+1)
	out = append(out, si.code...)
	out = append(out, blob)
	return out, nil
}

// SetState replaces the data part with the encoding of a new state value,
// mutating the instance in place. Equivalent to adopting a NewStateScript
// result.
func (si *ScriptInstance) SetState(state Value) error {
	blob, err := si.encodeState(state)
	if err != nil {
		return err
	}
	si.data = []Token{blob}
	si.hasData = true
	return nil
}

// DecodeState interprets the current data part against the artifact's
// declared state type. The data part is otherwise held verbatim; this is
// the only place its contents are validated.
func (si *ScriptInstance) DecodeState() (Value, error) {
	ty := si.artifact.state
	if ty == nil {
		return nil, ErrNoStateType
	}
	if !si.hasData || len(si.data) != 1 {
		return nil, ErrNoDataPart
	}
	blob, err := si.data[0].PushData()
	if err != nil {
		return nil, err
	}
	leafTokens, err := ParseScript(blob)
	if err != nil {
		return nil, err
	}
	leaves := ty.Leaves("state")
	if len(leafTokens) != len(leaves) {
		return nil, &TypeDecodeError{
			Path: "state",
			Kind: ty.Kind(),
			Err:  ErrTruncatedScript,
		}
	}
	cfg := defaultMatchConfig()
	decoded := make(map[string]Value, len(leaves))
	for i, leaf := range leaves {
		v, err := decodePrimitive(leafTokens[i], leaf.Type, leaf.Path, cfg)
		if err != nil {
			return nil, err
		}
		decoded[leaf.Path] = v
	}
	return buildValue(ty, "state", decoded)
}

// encodeState validates a state value against the declared state type and
// packs its flattened leaves into one push token.
func (si *ScriptInstance) encodeState(state Value) (Token, error) {
	ty := si.artifact.state
	if ty == nil {
		return Token{}, ErrNoStateType
	}
	if err := conform(state, ty, "state"); err != nil {
		return Token{}, err
	}
	leaves := flatten(state)
	tokens := make([]Token, len(leaves))
	for i, leaf := range leaves {
		tokens[i] = encodePrimitive(leaf)
	}
	return PushToken(Serialize(tokens)), nil
}
