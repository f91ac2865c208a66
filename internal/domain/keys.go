package domain

import (
	"fmt"

	"tether/internal/util/memzero"
)

// ------------- P-256 -------------

// P256Private is a P-256 private scalar, 32-byte big-endian, in [1, n-1].
type P256Private [32]byte

// P256Public is a P-256 point in uncompressed X||Y form (no 0x04 prefix).
type P256Public [64]byte

// SharedSecret is the 32-byte X-coordinate of an ECDH product point.
// It is key material, not a point; it is never validated against the curve.
type SharedSecret [32]byte

func (k P256Private) Slice() []byte { return k[:] }
func (p P256Public) Slice() []byte  { return p[:] }
func (s SharedSecret) Slice() []byte { return s[:] }

// Wipe zeroes the scalar in place. Call on every exit path once the key
// is no longer needed.
func (k *P256Private) Wipe() { memzero.Zero(k[:]) }

// Wipe zeroes the secret in place.
func (s *SharedSecret) Wipe() { memzero.Zero(s[:]) }

func MustP256Private(b []byte) P256Private {
	if len(b) != 32 {
		panic(fmt.Errorf("P-256 private: want 32 bytes, got %d", len(b)))
	}
	var out P256Private
	copy(out[:], b)
	return out
}

func MustP256Public(b []byte) P256Public {
	if len(b) != 64 {
		panic(fmt.Errorf("P-256 public: want 64 bytes, got %d", len(b)))
	}
	var out P256Public
	copy(out[:], b)
	return out
}
