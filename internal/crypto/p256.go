package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"

	"tether/internal/domain"
)

// uncompressedPrefix is the format byte opening an uncompressed point
// encoding. The platform facility speaks 65-byte prefixed encodings; the
// package API strips it and exposes the bare 64-byte X||Y form.
const uncompressedPrefix = 0x04

// platformBackend services the Backend contract through crypto/ecdh, which
// holds keys as opaque handles and performs validation and multiplication
// internally.
type platformBackend struct{}

// Platform returns the opaque-handle backend. It is the default.
func Platform() Backend { return platformBackend{} }

func (platformBackend) GenerateKeyPair() (domain.P256Private, domain.P256Public, error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return domain.P256Private{}, domain.P256Public{}, fmt.Errorf("%w: %w", ErrKeyGenerationFailed, err)
	}
	priv := domain.MustP256Private(key.Bytes())
	pub, err := stripPrefix(key.PublicKey().Bytes())
	if err != nil {
		priv.Wipe()
		return domain.P256Private{}, domain.P256Public{}, fmt.Errorf("%w: %w", ErrKeyGenerationFailed, err)
	}
	return priv, pub, nil
}

func (platformBackend) DerivePublic(priv domain.P256Private) (domain.P256Public, error) {
	key, err := ecdh.P256().NewPrivateKey(priv.Slice())
	if err != nil {
		return domain.P256Public{}, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	pub := key.PublicKey()
	if pub == nil {
		return domain.P256Public{}, fmt.Errorf("%w: platform returned no public key", ErrInternalCrypto)
	}
	return stripPrefix(pub.Bytes())
}

func (platformBackend) Agree(priv domain.P256Private, peer domain.P256Public) (domain.SharedSecret, error) {
	key, err := ecdh.P256().NewPrivateKey(priv.Slice())
	if err != nil {
		return domain.SharedSecret{}, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	pub, err := ecdh.P256().NewPublicKey(prefixPoint(peer))
	if err != nil {
		return domain.SharedSecret{}, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	secret, err := key.ECDH(pub)
	if err != nil {
		return domain.SharedSecret{}, fmt.Errorf("%w: %w", ErrInternalCrypto, err)
	}
	out := domain.SharedSecret{}
	copy(out[:], secret)
	Wipe(secret)
	return out, nil
}

// stripPrefix converts a 65-byte uncompressed encoding to the 64-byte X||Y
// form used across the package boundary.
func stripPrefix(b []byte) (domain.P256Public, error) {
	if len(b) != 65 || b[0] != uncompressedPrefix {
		return domain.P256Public{}, fmt.Errorf("%w: unexpected point encoding (len=%d)", ErrInternalCrypto, len(b))
	}
	return domain.MustP256Public(b[1:]), nil
}

// prefixPoint restores the 0x04 format byte expected by the platform facility.
func prefixPoint(p domain.P256Public) []byte {
	out := make([]byte, 65)
	out[0] = uncompressedPrefix
	copy(out[1:], p[:])
	return out
}

// ParseP256Public validates a raw 64-byte X||Y encoding and returns it as a
// typed public point. Wrong lengths and points that fail curve validation
// are rejected with ErrInvalidPublicKey.
func ParseP256Public(b []byte) (domain.P256Public, error) {
	if len(b) != 64 {
		return domain.P256Public{}, fmt.Errorf("%w: want 64 bytes, got %d", ErrInvalidPublicKey, len(b))
	}
	pub := domain.MustP256Public(b)
	if err := checkOnCurve(pub); err != nil {
		return domain.P256Public{}, err
	}
	return pub, nil
}
