package lockscript

import (
	"math/big"
)

// Script numbers are minimal-length, sign-and-magnitude, little-endian:
// the most significant bit of the last byte carries the sign, so a
// magnitude whose top byte already has the high bit set needs one extra
// byte. Zero encodes as the empty sequence.

// encodeScriptNum serializes n into its canonical minimal script-number
// form. The result is the shortest byte sequence that decodes back to n.
func encodeScriptNum(n *big.Int) []byte {
	if n.Sign() == 0 {
		return nil
	}

	negative := n.Sign() < 0
	magnitude := new(big.Int).Abs(n).Bytes() // big-endian, no leading zeros

	// Reverse into little-endian.
	out := make([]byte, len(magnitude), len(magnitude)+1)
	for i, b := range magnitude {
		out[len(magnitude)-1-i] = b
	}

	// If the high bit of the top magnitude byte is set, the sign needs a
	// byte of its own. Otherwise it lives in that top bit.
	if out[len(out)-1]&0x80 != 0 {
		extra := byte(0x00)
		if negative {
			extra = 0x80
		}
		out = append(out, extra)
	} else if negative {
		out[len(out)-1] |= 0x80
	}

	return out
}

// decodeScriptNum interprets b as a script number, reproducing sign and
// magnitude exactly. The empty sequence is zero, and negative zero decodes
// to zero. Minimality is not enforced here; callers that require canonical
// input check with isMinimalScriptNum.
func decodeScriptNum(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}

	negative := b[len(b)-1]&0x80 != 0

	// Copy, clear the sign bit, and reverse into big-endian.
	magnitude := make([]byte, len(b))
	for i, v := range b {
		magnitude[len(b)-1-i] = v
	}
	magnitude[0] &= 0x7f

	n := new(big.Int).SetBytes(magnitude)
	if negative {
		n.Neg(n)
	}
	return n
}

// isMinimalScriptNum reports whether b is the canonical minimal encoding
// of the number it represents. A trailing byte contributing only a sign
// bit is allowed only when the preceding byte needs its high bit for
// magnitude.
func isMinimalScriptNum(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	last := b[len(b)-1]
	if last&0x7f != 0 {
		return true
	}
	// Last byte is 0x00 or 0x80: redundant unless it frees a needed
	// high bit in the byte before it.
	return len(b) > 1 && b[len(b)-2]&0x80 != 0
}
