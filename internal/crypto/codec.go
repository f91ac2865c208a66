package crypto

import "math/big"

// ToFixedWidth encodes v as big-endian, left-zero-padded to width bytes.
// A value whose minimal encoding exceeds width is a caller programming error
// and panics; it is unreachable for valid P-256 scalars and coordinates,
// whose field size is 32 bytes.
func ToFixedWidth(v *big.Int, width int) []byte {
	out := make([]byte, width)
	v.FillBytes(out)
	return out
}

// FromFixedWidth decodes a big-endian byte string into a big integer.
// Leading zero bytes are accepted; the external contract is always
// fixed-width, never truncated or variable-width.
func FromFixedWidth(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
