package lockscript

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// SigHashType declares which transaction parts a signature commits to.
// The fork bit is always set; digest computation lives in the caller's
// transaction library.
type SigHashType byte

// Signature hash modes.
const (
	SigHashAll          SigHashType = 0x41
	SigHashNone         SigHashType = 0x42
	SigHashSingle       SigHashType = 0x43
	SigHashAnyOneCanPay SigHashType = 0x80
)

// Signer produces signature bytes over a transaction digest. The digest is
// computed by the caller's transaction library from the transaction, input
// index, previous-output script and value, and signature-hash mode; this
// codec only assembles the resulting bytes into unlocking scripts.
type Signer interface {
	// SignDigest signs a sighash digest and returns the DER-encoded
	// signature without the hash-type byte.
	SignDigest(digest []byte) ([]byte, error)

	// PubKey returns the signer's serialized compressed public key.
	PubKey() []byte
}

// ECDSASigner signs digests with a secp256k1 private key.
type ECDSASigner struct {
	priv *secp256k1.PrivateKey
}

// NewECDSASigner wraps an existing private key.
func NewECDSASigner(priv *secp256k1.PrivateKey) *ECDSASigner {
	return &ECDSASigner{priv: priv}
}

// GenerateSigner creates a signer with a fresh random private key.
func GenerateSigner() (*ECDSASigner, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "lockscript: cannot generate private key")
	}
	return &ECDSASigner{priv: priv}, nil
}

// SignDigest signs a sighash digest, returning the DER signature.
func (s *ECDSASigner) SignDigest(digest []byte) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, errors.Errorf("lockscript: sighash digest must be %d bytes, got %d", sha256.Size, len(digest))
	}
	return ecdsa.Sign(s.priv, digest).Serialize(), nil
}

// PubKey returns the compressed public key.
func (s *ECDSASigner) PubKey() []byte {
	return s.priv.PubKey().SerializeCompressed()
}

// PubKeyHash returns the hash160 of the compressed public key.
func (s *ECDSASigner) PubKeyHash() []byte {
	return Hash160(s.PubKey())
}

// Hash160 computes RIPEMD160(SHA256(b)), the script form of a public key
// hash.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// SignatureScript assembles the unlocking script for a pay-to-key-hash
// style template from externally produced signature bytes: the signature
// with the hash-type byte appended, then the public key.
func SignatureScript(sig []byte, hashType SigHashType, pubKey []byte) ([]Token, error) {
	full := make([]byte, 0, len(sig)+1)
	full = append(full, sig...)
	full = append(full, byte(hashType))
	return NewScriptBuilder().
		AddData(full).
		AddData(pubKey).
		Tokens()
}

// UnlockP2PKH signs a digest and assembles the corresponding
// pay-to-key-hash unlocking script.
func UnlockP2PKH(signer Signer, digest []byte, hashType SigHashType) ([]Token, error) {
	sig, err := signer.SignDigest(digest)
	if err != nil {
		return nil, err
	}
	return SignatureScript(sig, hashType, signer.PubKey())
}

// P2PKHArtifact returns the artifact for the standard pay-to-key-hash
// locking template with a single byte-string placeholder for the public
// key hash.
func P2PKHArtifact() *Artifact {
	return MustArtifact(
		"P2PKH",
		"OP_DUP OP_HASH160 $pkh OP_EQUALVERIFY OP_CHECKSIG",
		[]Param{{Name: "pkh", Type: BytesType()}},
		nil,
	)
}
