package lockscript

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Script opcodes. The set covers the standard stack, splice, bitwise,
// arithmetic, and crypto operations a contract compiler emits; push
// opcodes (0x00-0x60) get dedicated handling in the token model.
const (
	Op0         = 0x00 // push empty
	OpPushData1 = 0x4c
	OpPushData2 = 0x4d
	OpPushData4 = 0x4e
	Op1Negate   = 0x4f
	Op1         = 0x51
	Op2         = 0x52
	Op3         = 0x53
	Op4         = 0x54
	Op5         = 0x55
	Op6         = 0x56
	Op7         = 0x57
	Op8         = 0x58
	Op9         = 0x59
	Op10        = 0x5a
	Op11        = 0x5b
	Op12        = 0x5c
	Op13        = 0x5d
	Op14        = 0x5e
	Op15        = 0x5f
	Op16        = 0x60

	OpNop    = 0x61
	OpIf     = 0x63
	OpNotIf  = 0x64
	OpElse   = 0x67
	OpEndIf  = 0x68
	OpVerify = 0x69
	OpReturn = 0x6a

	OpToAltStack   = 0x6b
	OpFromAltStack = 0x6c
	Op2Drop        = 0x6d
	Op2Dup         = 0x6e
	Op3Dup         = 0x6f
	Op2Over        = 0x70
	Op2Rot         = 0x71
	Op2Swap        = 0x72
	OpIfDup        = 0x73
	OpDepth        = 0x74
	OpDrop         = 0x75
	OpDup          = 0x76
	OpNip          = 0x77
	OpOver         = 0x78
	OpPick         = 0x79
	OpRoll         = 0x7a
	OpRot          = 0x7b
	OpSwap         = 0x7c
	OpTuck         = 0x7d

	OpCat     = 0x7e
	OpSplit   = 0x7f
	OpNum2Bin = 0x80
	OpBin2Num = 0x81
	OpSize    = 0x82

	OpInvert      = 0x83
	OpAnd         = 0x84
	OpOr          = 0x85
	OpXor         = 0x86
	OpEqual       = 0x87
	OpEqualVerify = 0x88

	Op1Add               = 0x8b
	Op1Sub               = 0x8c
	OpNegate             = 0x8f
	OpAbs                = 0x90
	OpNot                = 0x91
	Op0NotEqual          = 0x92
	OpAdd                = 0x93
	OpSub                = 0x94
	OpMul                = 0x95
	OpDiv                = 0x96
	OpMod                = 0x97
	OpLShift             = 0x98
	OpRShift             = 0x99
	OpBoolAnd            = 0x9a
	OpBoolOr             = 0x9b
	OpNumEqual           = 0x9c
	OpNumEqualVerify     = 0x9d
	OpNumNotEqual        = 0x9e
	OpLessThan           = 0x9f
	OpGreaterThan        = 0xa0
	OpLessThanOrEqual    = 0xa1
	OpGreaterThanOrEqual = 0xa2
	OpMin                = 0xa3
	OpMax                = 0xa4
	OpWithin             = 0xa5

	OpRipemd160           = 0xa6
	OpSha1                = 0xa7
	OpSha256              = 0xa8
	OpHash160             = 0xa9
	OpHash256             = 0xaa
	OpCodeSeparator       = 0xab
	OpCheckSig            = 0xac
	OpCheckSigVerify      = 0xad
	OpCheckMultiSig       = 0xae
	OpCheckMultiSigVerify = 0xaf
)

// maxDirectPush is the largest payload a bare length-byte opcode can carry.
const maxDirectPush = 0x4b

// MaxPushSize is the largest payload OP_PUSHDATA4 can describe.
const MaxPushSize = 0xffffffff

var opcodeNames = map[byte]string{
	Op0: "OP_0", Op1Negate: "OP_1NEGATE",
	Op1: "OP_1", Op2: "OP_2", Op3: "OP_3", Op4: "OP_4",
	Op5: "OP_5", Op6: "OP_6", Op7: "OP_7", Op8: "OP_8",
	Op9: "OP_9", Op10: "OP_10", Op11: "OP_11", Op12: "OP_12",
	Op13: "OP_13", Op14: "OP_14", Op15: "OP_15", Op16: "OP_16",
	OpNop: "OP_NOP", OpIf: "OP_IF", OpNotIf: "OP_NOTIF",
	OpElse: "OP_ELSE", OpEndIf: "OP_ENDIF", OpVerify: "OP_VERIFY",
	OpReturn:     "OP_RETURN",
	OpToAltStack: "OP_TOALTSTACK", OpFromAltStack: "OP_FROMALTSTACK",
	Op2Drop: "OP_2DROP", Op2Dup: "OP_2DUP", Op3Dup: "OP_3DUP",
	Op2Over: "OP_2OVER", Op2Rot: "OP_2ROT", Op2Swap: "OP_2SWAP",
	OpIfDup: "OP_IFDUP", OpDepth: "OP_DEPTH", OpDrop: "OP_DROP",
	OpDup: "OP_DUP", OpNip: "OP_NIP", OpOver: "OP_OVER",
	OpPick: "OP_PICK", OpRoll: "OP_ROLL", OpRot: "OP_ROT",
	OpSwap: "OP_SWAP", OpTuck: "OP_TUCK",
	OpCat: "OP_CAT", OpSplit: "OP_SPLIT", OpNum2Bin: "OP_NUM2BIN",
	OpBin2Num: "OP_BIN2NUM", OpSize: "OP_SIZE",
	OpInvert: "OP_INVERT", OpAnd: "OP_AND", OpOr: "OP_OR",
	OpXor: "OP_XOR", OpEqual: "OP_EQUAL", OpEqualVerify: "OP_EQUALVERIFY",
	Op1Add: "OP_1ADD", Op1Sub: "OP_1SUB", OpNegate: "OP_NEGATE",
	OpAbs: "OP_ABS", OpNot: "OP_NOT", Op0NotEqual: "OP_0NOTEQUAL",
	OpAdd: "OP_ADD", OpSub: "OP_SUB", OpMul: "OP_MUL", OpDiv: "OP_DIV",
	OpMod: "OP_MOD", OpLShift: "OP_LSHIFT", OpRShift: "OP_RSHIFT",
	OpBoolAnd: "OP_BOOLAND", OpBoolOr: "OP_BOOLOR",
	OpNumEqual: "OP_NUMEQUAL", OpNumEqualVerify: "OP_NUMEQUALVERIFY",
	OpNumNotEqual: "OP_NUMNOTEQUAL", OpLessThan: "OP_LESSTHAN",
	OpGreaterThan: "OP_GREATERTHAN", OpLessThanOrEqual: "OP_LESSTHANOREQUAL",
	OpGreaterThanOrEqual: "OP_GREATERTHANOREQUAL",
	OpMin:                "OP_MIN", OpMax: "OP_MAX", OpWithin: "OP_WITHIN",
	OpRipemd160: "OP_RIPEMD160", OpSha1: "OP_SHA1", OpSha256: "OP_SHA256",
	OpHash160: "OP_HASH160", OpHash256: "OP_HASH256",
	OpCodeSeparator: "OP_CODESEPARATOR",
	OpCheckSig:      "OP_CHECKSIG", OpCheckSigVerify: "OP_CHECKSIGVERIFY",
	OpCheckMultiSig: "OP_CHECKMULTISIG", OpCheckMultiSigVerify: "OP_CHECKMULTISIGVERIFY",
}

var opcodeByName = func() map[string]byte {
	m := make(map[string]byte, len(opcodeNames)+2)
	for op, name := range opcodeNames {
		m[name] = op
	}
	// Aliases accepted on parse; canonical names used on output.
	m["OP_FALSE"] = Op0
	m["OP_TRUE"] = Op1
	return m
}()

// Token is one element of a script: either an opcode-only token or a push
// carrying data. The opcode byte is the actual leading wire byte, so
// serializing a parsed token reproduces its original encoding exactly.
type Token struct {
	opcode byte
	data   []byte
}

// OpToken creates an opcode-only token.
func OpToken(op byte) Token {
	return Token{opcode: op}
}

// PushToken creates a canonical minimal push of data: the empty push for no
// bytes, a small-integer opcode where one exists, a bare length byte up to
// 75 bytes, and OP_PUSHDATA1/2/4 beyond that. Panics with ErrPushTooLarge
// when data exceeds MaxPushSize, which OP_PUSHDATA4 cannot represent; use
// ScriptBuilder.AddData for an error-returning path.
func PushToken(data []byte) Token {
	if len(data) > MaxPushSize {
		panic(ErrPushTooLarge)
	}
	if len(data) == 0 {
		return Token{opcode: Op0}
	}
	if len(data) == 1 {
		if data[0] >= 1 && data[0] <= 16 {
			return Token{opcode: Op1 + data[0] - 1}
		}
		if data[0] == 0x81 {
			return Token{opcode: Op1Negate}
		}
	}
	d := make([]byte, len(data))
	copy(d, data)
	switch {
	case len(d) <= maxDirectPush:
		return Token{opcode: byte(len(d)), data: d}
	case len(d) <= 0xff:
		return Token{opcode: OpPushData1, data: d}
	case len(d) <= 0xffff:
		return Token{opcode: OpPushData2, data: d}
	default:
		return Token{opcode: OpPushData4, data: d}
	}
}

// Opcode returns the token's leading wire byte.
func (t Token) Opcode() byte { return t.opcode }

// IsPush reports whether the token pushes data onto the stack.
func (t Token) IsPush() bool {
	return t.opcode <= OpPushData4 || t.opcode == Op1Negate ||
		(t.opcode >= Op1 && t.opcode <= Op16)
}

// PushData returns the token's push payload. Small-integer opcodes
// normalize to their one-byte stack representation; OP_0 yields an empty
// payload. Opcode-only tokens fail with ErrNotAPush.
func (t Token) PushData() ([]byte, error) {
	switch {
	case t.opcode == Op0:
		return nil, nil
	case t.opcode >= Op1 && t.opcode <= Op16:
		return []byte{t.opcode - Op1 + 1}, nil
	case t.opcode == Op1Negate:
		return []byte{0x81}, nil
	case t.opcode <= OpPushData4:
		out := make([]byte, len(t.data))
		copy(out, t.data)
		return out, nil
	default:
		return nil, ErrNotAPush
	}
}

// Equal reports byte-for-byte equality of two tokens' wire encodings.
func (t Token) Equal(other Token) bool {
	if t.opcode != other.opcode || len(t.data) != len(other.data) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// String renders the token's asm mnemonic form: a named opcode, or the
// push payload as lowercase hex. An empty push always renders as OP_0, so
// non-canonical empty PUSHDATA forms survive disassembly instead of
// vanishing between field separators.
func (t Token) String() string {
	if t.opcode >= 1 && t.opcode <= OpPushData4 {
		if len(t.data) == 0 {
			return "OP_0"
		}
		return hex.EncodeToString(t.data)
	}
	if name, ok := opcodeNames[t.opcode]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN_%#02x", t.opcode)
}

// appendSerialized appends the token's wire encoding to dst.
func (t Token) appendSerialized(dst []byte) []byte {
	switch {
	case t.opcode >= 1 && t.opcode <= maxDirectPush:
		dst = append(dst, t.opcode)
		dst = append(dst, t.data...)
	case t.opcode == OpPushData1:
		dst = append(dst, OpPushData1, byte(len(t.data)))
		dst = append(dst, t.data...)
	case t.opcode == OpPushData2:
		dst = append(dst, OpPushData2)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(t.data)))
		dst = append(dst, t.data...)
	case t.opcode == OpPushData4:
		dst = append(dst, OpPushData4)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(t.data)))
		dst = append(dst, t.data...)
	default:
		dst = append(dst, t.opcode)
	}
	return dst
}

// Serialize renders a token sequence into its compact binary script form.
func Serialize(tokens []Token) []byte {
	size := 0
	for _, t := range tokens {
		size += 1 + len(t.data)
		switch t.opcode {
		case OpPushData1:
			size++
		case OpPushData2:
			size += 2
		case OpPushData4:
			size += 4
		}
	}
	out := make([]byte, 0, size)
	for _, t := range tokens {
		out = t.appendSerialized(out)
	}
	return out
}

// ParseScript decodes a compact binary script into its token sequence.
// A script ending mid-push fails with ErrTruncatedScript.
func ParseScript(script []byte) ([]Token, error) {
	var tokens []Token
	for i := 0; i < len(script); {
		op := script[i]
		i++

		var length int
		switch {
		case op >= 1 && op <= maxDirectPush:
			length = int(op)
		case op == OpPushData1:
			if i >= len(script) {
				return nil, errors.Wrapf(ErrTruncatedScript, "at offset %d", i-1)
			}
			length = int(script[i])
			i++
		case op == OpPushData2:
			if i+2 > len(script) {
				return nil, errors.Wrapf(ErrTruncatedScript, "at offset %d", i-1)
			}
			length = int(binary.LittleEndian.Uint16(script[i:]))
			i += 2
		case op == OpPushData4:
			if i+4 > len(script) {
				return nil, errors.Wrapf(ErrTruncatedScript, "at offset %d", i-1)
			}
			length = int(binary.LittleEndian.Uint32(script[i:]))
			i += 4
		default:
			tokens = append(tokens, Token{opcode: op})
			continue
		}

		if i+length > len(script) {
			return nil, errors.Wrapf(ErrTruncatedScript, "push of %d bytes at offset %d", length, i-1)
		}
		data := make([]byte, length)
		copy(data, script[i:i+length])
		tokens = append(tokens, Token{opcode: op, data: data})
		i += length
	}
	return tokens, nil
}

// Disasm renders a token sequence into its whitespace-separated textual
// mnemonic form. The exact transcoding counterpart of ParseAsm for scripts
// whose pushes use canonical minimal encoding.
func Disasm(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// ParseAsm decodes whitespace-separated mnemonic text into a token
// sequence: OP_ names map to opcodes, hex runs become canonical minimal
// pushes.
func ParseAsm(asm string) ([]Token, error) {
	fields := strings.Fields(asm)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		t, err := parseAsmToken(f)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func parseAsmToken(field string) (Token, error) {
	if strings.HasPrefix(field, "OP_") {
		op, ok := opcodeByName[field]
		if !ok {
			return Token{}, errors.Wrap(ErrUnknownOpcode, field)
		}
		return Token{opcode: op}, nil
	}
	data, err := hex.DecodeString(field)
	if err != nil {
		return Token{}, errors.Wrapf(err, "lockscript: asm token %q is neither an opcode nor hex", field)
	}
	return PushToken(data), nil
}
