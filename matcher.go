package lockscript

import (
	"github.com/pkg/errors"
)

// decodePrimitive interprets one raw push token under a declared primitive
// kind. Decoding is schema-directed: the kind comes from the placeholder,
// never from the wire.
func decodePrimitive(tok Token, ty *TypeDescriptor, path string, cfg *matchConfig) (Value, error) {
	payload, err := tok.PushData()
	if err != nil {
		return nil, &TypeDecodeError{Path: path, Kind: ty.Kind(), Err: err}
	}

	switch ty.Kind() {
	case KindBool:
		// Exactly the two canonical forms: empty push (false) and 0x01
		// (true).
		if len(payload) == 0 {
			return Bool(false), nil
		}
		if len(payload) == 1 && payload[0] == 0x01 {
			return Bool(true), nil
		}
		return nil, &TypeDecodeError{
			Path: path,
			Kind: KindBool,
			Err:  errors.Errorf("payload %x is not a canonical boolean", payload),
		}

	case KindInt:
		if cfg.minimalInts && !isMinimalScriptNum(payload) {
			return nil, &TypeDecodeError{
				Path: path,
				Kind: KindInt,
				Err:  errors.Errorf("payload %x is not a minimal script number", payload),
			}
		}
		return Int(decodeScriptNum(payload)), nil

	case KindBytes:
		return Bytes(payload), nil

	default:
		return nil, &TypeDecodeError{
			Path: path,
			Kind: ty.Kind(),
			Err:  errors.New("composite kinds have no direct encoding"),
		}
	}
}

// Match verifies a raw token sequence against the template and recovers
// the constructor arguments. Literal tokens must match byte-for-byte;
// each placeholder consumes exactly one token and decodes it under its
// declared kind. A truncated sequence, a literal disagreement, or a decode
// failure rejects the whole match with TemplateMismatchError naming the
// first offending position; no partial BoundArguments escape. Tokens
// beyond the template are treated as the data part and ignored unless
// WithRejectTrailing is given.
func (t *Template) Match(raw []Token, opts ...MatchOption) (*BoundArguments, error) {
	cfg := defaultMatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	args, consumed, err := t.matchPrefix(raw, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.rejectTrailing && consumed != len(raw) {
		return nil, &TemplateMismatchError{
			Template: t.name,
			Position: consumed,
			Err:      ErrTrailingTokens,
		}
	}
	return args, nil
}

// MatchScript is Match over the compact binary form.
func (t *Template) MatchScript(script []byte, opts ...MatchOption) (*BoundArguments, error) {
	tokens, err := ParseScript(script)
	if err != nil {
		return nil, &TemplateMismatchError{Template: t.name, Err: err}
	}
	return t.Match(tokens, opts...)
}

// MatchAsm is Match over the textual mnemonic form.
func (t *Template) MatchAsm(asm string, opts ...MatchOption) (*BoundArguments, error) {
	tokens, err := ParseAsm(asm)
	if err != nil {
		return nil, &TemplateMismatchError{Template: t.name, Err: err}
	}
	return t.Match(tokens, opts...)
}

// matchPrefix consumes exactly the template's token count from raw and
// returns the recovered arguments along with the number of tokens
// consumed. Parameter trees are reconstructed from the decoded leaves
// only after every token has matched.
func (t *Template) matchPrefix(raw []Token, cfg *matchConfig) (*BoundArguments, int, error) {
	leaves := make(map[string]Value)
	for i, tt := range t.tokens {
		if i >= len(raw) {
			return nil, 0, &TemplateMismatchError{
				Template: t.name,
				Position: len(raw),
				Err:      errors.Errorf("script ends after %d tokens, template has %d", len(raw), len(t.tokens)),
			}
		}
		if tt.ph == nil {
			if !raw[i].Equal(tt.lit) {
				return nil, 0, &TemplateMismatchError{
					Template: t.name,
					Position: i,
					Err:      errors.Errorf("literal mismatch: expected %s, got %s", tt.lit, raw[i]),
				}
			}
			continue
		}
		v, err := decodePrimitive(raw[i], tt.ph.ty, tt.ph.path, cfg)
		if err != nil {
			return nil, 0, &TemplateMismatchError{Template: t.name, Position: i, Err: err}
		}
		leaves[tt.ph.path] = v
	}

	args := NewArguments()
	args.leaves = leaves
	for _, p := range t.params {
		tree, err := buildValue(p.Type, p.Name, leaves)
		if err != nil {
			return nil, 0, &TemplateMismatchError{Template: t.name, Err: err}
		}
		args.args[p.Name] = tree
	}
	return args, len(t.tokens), nil
}
