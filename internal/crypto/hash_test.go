package crypto_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"tether/internal/crypto"
)

func TestSHA256_EmptyInput(t *testing.T) {
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	sum := crypto.SHA256(nil)
	if got := hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("empty digest mismatch\n got %s\nwant %s", got, want)
	}
}

func TestFingerprint_StableAndMarked(t *testing.T) {
	pub := []byte("some public key bytes")
	fp := crypto.Fingerprint(pub)
	if !strings.HasPrefix(fp, "z") {
		t.Fatalf("fingerprint missing encoding marker: %q", fp)
	}
	if fp != crypto.Fingerprint(pub) {
		t.Fatal("fingerprint not deterministic")
	}
	if fp == crypto.Fingerprint([]byte("other key")) {
		t.Fatal("distinct keys produced the same fingerprint")
	}
}
