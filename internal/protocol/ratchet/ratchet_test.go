package ratchet_test

import (
	"bytes"
	"testing"

	"tether/internal/crypto"
	"tether/internal/domain"
	"tether/internal/protocol/ratchet"
)

// makeKeyPair returns a fresh P-256 pair.
func makeKeyPair(t *testing.T) (priv domain.P256Private, pub domain.P256Public) {
	t.Helper()
	p, P, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	return p, P
}

// makeStates seeds both ends from a shared root key (simulating a prior handshake).
func makeStates(t *testing.T) (a, b domain.RatchetState) {
	t.Helper()
	rk := bytes.Repeat([]byte{0x42}, 32)

	aPriv, aPub := makeKeyPair(t)
	bPriv, bPub := makeKeyPair(t)

	a, err := ratchet.InitAsInitiator(rk, aPriv, aPub, bPub)
	if err != nil {
		t.Fatalf("InitAsInitiator: %v", err)
	}
	b, err = ratchet.InitAsResponder(rk, bPriv, bPub, a.DHPub)
	if err != nil {
		t.Fatalf("InitAsResponder: %v", err)
	}
	return a, b
}

func TestDoubleRatchet_OneRoundTrip(t *testing.T) {
	aState, bState := makeStates(t)

	header, ct, err := ratchet.Encrypt(&aState, nil, []byte("hi"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := ratchet.Decrypt(&bState, nil, header, ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != "hi" {
		t.Fatalf("got %q, want %q", pt, "hi")
	}
}

func TestDoubleRatchet_PingPong(t *testing.T) {
	aState, bState := makeStates(t)

	msgs := []string{"a->b first", "b->a reply", "a->b second", "b->a second"}
	states := []*domain.RatchetState{&aState, &bState}

	for i, msg := range msgs {
		sender, receiver := states[i%2], states[(i+1)%2]
		header, ct, err := ratchet.Encrypt(sender, nil, []byte(msg))
		if err != nil {
			t.Fatalf("Encrypt %q: %v", msg, err)
		}
		pt, err := ratchet.Decrypt(receiver, nil, header, ct)
		if err != nil {
			t.Fatalf("Decrypt %q: %v", msg, err)
		}
		if string(pt) != msg {
			t.Fatalf("got %q, want %q", pt, msg)
		}
	}
}

func TestDoubleRatchet_OutOfOrderWithinChain(t *testing.T) {
	aState, bState := makeStates(t)

	h0, ct0, err := ratchet.Encrypt(&aState, nil, []byte("zero"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	h1, ct1, err := ratchet.Encrypt(&aState, nil, []byte("one"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Deliver the second message first; the key for the first is cached.
	pt1, err := ratchet.Decrypt(&bState, nil, h1, ct1)
	if err != nil {
		t.Fatalf("Decrypt(out of order): %v", err)
	}
	if string(pt1) != "one" {
		t.Fatalf("got %q, want %q", pt1, "one")
	}
	pt0, err := ratchet.Decrypt(&bState, nil, h0, ct0)
	if err != nil {
		t.Fatalf("Decrypt(skipped): %v", err)
	}
	if string(pt0) != "zero" {
		t.Fatalf("got %q, want %q", pt0, "zero")
	}
}

func TestDoubleRatchet_TamperedCiphertextFails(t *testing.T) {
	aState, bState := makeStates(t)

	header, ct, err := ratchet.Encrypt(&aState, nil, []byte("hi"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	ct[0] ^= 1
	if _, err := ratchet.Decrypt(&bState, nil, header, ct); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}
}

func TestDoubleRatchet_ADMismatchFails(t *testing.T) {
	aState, bState := makeStates(t)

	header, ct, err := ratchet.Encrypt(&aState, []byte("ad-1"), []byte("hi"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := ratchet.Decrypt(&bState, []byte("ad-2"), header, ct); err == nil {
		t.Fatal("expected error for mismatched associated data")
	}
}
