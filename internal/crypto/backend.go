package crypto

import "tether/internal/domain"

// Backend is the curve-arithmetic provider behind the package-level API.
//
// Two implementations exist. Platform drives the opaque key handles of the
// crypto/ecdh facility and never sees coordinates; Arithmetic decodes the
// scalars and points itself and computes the group operations explicitly.
// Both honour the same byte-in/byte-out contract, so the choice is invisible
// to callers.
type Backend interface {
	// GenerateKeyPair samples a fresh private scalar in [1, n-1] and derives
	// its public point. Any internal failure yields ErrKeyGenerationFailed
	// and no partial key.
	GenerateKeyPair() (domain.P256Private, domain.P256Public, error)

	// DerivePublic recomputes the public point for an existing private
	// scalar via scalar base-point multiplication.
	DerivePublic(priv domain.P256Private) (domain.P256Public, error)

	// Agree computes the ECDH shared secret from our private scalar and the
	// peer's public point. The peer point is validated against the curve
	// before any multiplication.
	Agree(priv domain.P256Private, peer domain.P256Public) (domain.SharedSecret, error)
}

// active is the process-wide backend. It is selected once during start-up
// wiring (see internal/app) and must not change while operations are in
// flight; all other package state is immutable, so concurrent calls need no
// synchronisation.
var active Backend = Platform()

// Use selects the backend served by the package-level functions.
func Use(b Backend) { active = b }

// GenerateP256 returns a fresh P-256 key pair from the active backend.
func GenerateP256() (domain.P256Private, domain.P256Public, error) {
	return active.GenerateKeyPair()
}

// DeriveP256 returns the public point matching priv.
func DeriveP256(priv domain.P256Private) (domain.P256Public, error) {
	return active.DerivePublic(priv)
}

// ECDH computes the shared secret between priv and the peer's public point.
func ECDH(priv domain.P256Private, peer domain.P256Public) (domain.SharedSecret, error) {
	return active.Agree(priv, peer)
}
