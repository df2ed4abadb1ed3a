package lockscript

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

func TestHash160(t *testing.T) {
	// RIPEMD160(SHA256("")) is a fixed reference value.
	got := hex.EncodeToString(Hash160(nil))
	want := "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"
	if got != want {
		t.Errorf("Hash160(empty) = %s, want %s", got, want)
	}
	if len(Hash160([]byte("pubkey"))) != 20 {
		t.Error("Expected 20-byte hash")
	}
}

func TestECDSASigner(t *testing.T) {
	signer, err := GenerateSigner()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("pubkey is compressed", func(t *testing.T) {
		pk := signer.PubKey()
		if len(pk) != 33 {
			t.Errorf("Expected 33-byte compressed key, got %d", len(pk))
		}
		if pk[0] != 0x02 && pk[0] != 0x03 {
			t.Errorf("Expected compressed prefix, got %#02x", pk[0])
		}
	})

	t.Run("signature verifies", func(t *testing.T) {
		digest := sha256.Sum256([]byte("previous output commitment"))
		sigBytes, err := signer.SignDigest(digest[:])
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		sig, err := ecdsa.ParseDERSignature(sigBytes)
		if err != nil {
			t.Fatalf("Expected parseable DER signature, got %v", err)
		}
		pub, err := secp256k1.ParsePubKey(signer.PubKey())
		if err != nil {
			t.Fatalf("Expected parseable public key, got %v", err)
		}
		if !sig.Verify(digest[:], pub) {
			t.Error("Expected signature to verify against the digest")
		}
	})

	t.Run("wrong digest length", func(t *testing.T) {
		if _, err := signer.SignDigest([]byte{0x01, 0x02}); err == nil {
			t.Fatal("Expected error for short digest")
		}
	})

	t.Run("pubkey hash", func(t *testing.T) {
		if !bytes.Equal(signer.PubKeyHash(), Hash160(signer.PubKey())) {
			t.Error("Expected PubKeyHash to hash the compressed key")
		}
	})
}

func TestSignatureScript(t *testing.T) {
	sig := []byte{0x30, 0x44, 0x02, 0x20} // truncated DER prefix is fine here
	pub := bytes.Repeat([]byte{0x02}, 33)

	tokens, err := SignatureScript(sig, SigHashAll, pub)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 pushes, got %d", len(tokens))
	}

	first, _ := tokens[0].PushData()
	if first[len(first)-1] != byte(SigHashAll) {
		t.Errorf("Expected hash type byte %#02x appended, got %#02x", byte(SigHashAll), first[len(first)-1])
	}
	second, _ := tokens[1].PushData()
	if !bytes.Equal(second, pub) {
		t.Error("Expected the public key as the second push")
	}
}

func TestUnlockP2PKH(t *testing.T) {
	signer, err := GenerateSigner()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Lock to the signer's key hash.
	artifact := P2PKHArtifact()
	lockArgs := NewArguments().Bind("pkh", Bytes(signer.PubKeyHash()))
	instance, err := artifact.NewInstance(lockArgs)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("locking script recoverable", func(t *testing.T) {
		recovered, err := artifact.FromScript(instance.LockingScript())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		pkh, _ := recovered.Args().Arg("pkh")
		if !bytes.Equal(pkh.(*BytesValue).Bytes(), signer.PubKeyHash()) {
			t.Error("Expected the locked key hash to round-trip")
		}
	})

	t.Run("unlocking script shape", func(t *testing.T) {
		digest := sha256.Sum256([]byte("spending transaction sighash"))
		unlock, err := UnlockP2PKH(signer, digest[:], SigHashAll)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(unlock) != 2 {
			t.Fatalf("Expected sig and pubkey pushes, got %d tokens", len(unlock))
		}
		pub, _ := unlock[1].PushData()
		if !bytes.Equal(Hash160(pub), signer.PubKeyHash()) {
			t.Error("Expected the pushed key to hash to the locked value")
		}
	})
}
