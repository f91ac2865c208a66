package crypto

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// Fingerprint returns a short display fingerprint of a public key.
//
// It hashes with SHA-256, truncates to 10 bytes and base58-encodes the
// result with a "z" prefix marking the encoding.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return "z" + base58.Encode(sum[:10])
}
