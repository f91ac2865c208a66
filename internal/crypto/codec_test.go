package crypto_test

import (
	"bytes"
	"math/big"
	"testing"

	"tether/internal/crypto"
)

func TestToFixedWidth_LeftPads(t *testing.T) {
	got := crypto.ToFixedWidth(big.NewInt(0x01ff), 32)
	if len(got) != 32 {
		t.Fatalf("want 32 bytes, got %d", len(got))
	}
	want := make([]byte, 32)
	want[30], want[31] = 0x01, 0xff
	if !bytes.Equal(got, want) {
		t.Fatalf("padding mismatch: %x", got)
	}
}

func TestToFixedWidth_Zero(t *testing.T) {
	got := crypto.ToFixedWidth(new(big.Int), 32)
	if !bytes.Equal(got, make([]byte, 32)) {
		t.Fatalf("zero should encode to all-zero bytes, got %x", got)
	}
}

func TestFixedWidth_RoundTrip(t *testing.T) {
	for _, v := range []*big.Int{
		big.NewInt(1),
		big.NewInt(255),
		big.NewInt(256),
		new(big.Int).Lsh(big.NewInt(1), 255),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)),
	} {
		got := crypto.FromFixedWidth(crypto.ToFixedWidth(v, 32))
		if got.Cmp(v) != 0 {
			t.Fatalf("round trip mismatch: got %v, want %v", got, v)
		}
	}
}

func TestToFixedWidth_OverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a value wider than the target width")
		}
	}()
	crypto.ToFixedWidth(new(big.Int).Lsh(big.NewInt(1), 256), 32)
}
