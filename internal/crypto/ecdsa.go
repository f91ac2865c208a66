package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"tether/internal/domain"
)

// SignP256 hashes msg with SHA-256 and signs the digest with the private
// scalar, returning the 64-byte r||s signature form.
func SignP256(priv domain.P256Private, msg []byte) ([]byte, error) {
	d, err := decodeScalar(priv)
	if err != nil {
		return nil, err
	}
	key := &ecdsa.PrivateKey{
		D:         d,
		PublicKey: ecdsa.PublicKey{Curve: elliptic.P256()},
	}
	key.X, key.Y = key.Curve.ScalarBaseMult(d.Bytes())

	hash := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, key, hash[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternalCrypto, err)
	}
	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

// VerifyP256 hashes msg with SHA-256 and verifies a 64-byte r||s signature
// against the public point.
func VerifyP256(pub domain.P256Public, msg, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	x, y, err := decodePoint(pub)
	if err != nil {
		return false
	}
	key := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}

	hash := sha256.Sum256(msg)
	r := FromFixedWidth(sig[:32])
	s := FromFixedWidth(sig[32:])
	return ecdsa.Verify(key, hash[:], r, s)
}
