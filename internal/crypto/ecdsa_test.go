package crypto_test

import (
	"errors"
	"testing"

	"tether/internal/crypto"
	"tether/internal/domain"
)

func TestSignVerifyP256(t *testing.T) {
	priv, pub, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	msg := []byte("signed prekey bytes")

	sig, err := crypto.SignP256(priv, msg)
	if err != nil {
		t.Fatalf("SignP256: %v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("want 64-byte signature, got %d", len(sig))
	}
	if !crypto.VerifyP256(pub, msg, sig) {
		t.Fatal("valid signature rejected")
	}

	tampered := append([]byte(nil), sig...)
	tampered[10] ^= 1
	if crypto.VerifyP256(pub, msg, tampered) {
		t.Fatal("tampered signature accepted")
	}
	if crypto.VerifyP256(pub, []byte("different message"), sig) {
		t.Fatal("signature accepted for different message")
	}

	_, otherPub, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	if crypto.VerifyP256(otherPub, msg, sig) {
		t.Fatal("signature accepted under wrong key")
	}
	if crypto.VerifyP256(pub, msg, sig[:63]) {
		t.Fatal("truncated signature accepted")
	}
}

func TestSignP256_InvalidScalar(t *testing.T) {
	var zero domain.P256Private
	if _, err := crypto.SignP256(zero, []byte("msg")); !errors.Is(err, crypto.ErrInvalidPrivateKey) {
		t.Fatalf("zero scalar: got %v, want ErrInvalidPrivateKey", err)
	}
}
