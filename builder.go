package lockscript

import (
	"math/big"
)

// ScriptBuilder accumulates tokens into a script. Errors are sticky: once a
// step fails, later steps are no-ops and Script returns the first error.
type ScriptBuilder struct {
	tokens []Token
	err    error
}

// NewScriptBuilder creates an empty script builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{
		tokens: make([]Token, 0, 16),
	}
}

// AddOp appends an opcode-only token.
func (b *ScriptBuilder) AddOp(op byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	b.tokens = append(b.tokens, OpToken(op))
	return b
}

// AddData appends a canonical minimal push of data.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if len(data) > MaxPushSize {
		b.err = ErrPushTooLarge
		return b
	}
	b.tokens = append(b.tokens, PushToken(data))
	return b
}

// AddInt appends a canonical script-number push of n.
func (b *ScriptBuilder) AddInt(n *big.Int) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	b.tokens = append(b.tokens, PushToken(encodeScriptNum(n)))
	return b
}

// AddInt64 appends a canonical script-number push of n.
func (b *ScriptBuilder) AddInt64(n int64) *ScriptBuilder {
	return b.AddInt(big.NewInt(n))
}

// AddTokens appends an already-built token sequence.
func (b *ScriptBuilder) AddTokens(tokens []Token) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	b.tokens = append(b.tokens, tokens...)
	return b
}

// Tokens returns the accumulated token sequence.
func (b *ScriptBuilder) Tokens() ([]Token, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]Token, len(b.tokens))
	copy(out, b.tokens)
	return out, nil
}

// Script returns the accumulated script in compact binary form.
func (b *ScriptBuilder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return Serialize(b.tokens), nil
}
