package crypto

import "errors"

// Error taxonomy for the P-256 core. Every failure returned by this package
// wraps exactly one of these sentinels, so callers classify with errors.Is
// while the underlying cause stays on the chain.
var (
	// ErrKeyGenerationFailed covers random generation or validation failure
	// of a freshly generated key pair. No partial key accompanies it.
	ErrKeyGenerationFailed = errors.New("p256: key generation failed")

	// ErrInvalidPrivateKey is returned for a scalar that is zero, not less
	// than the group order, or otherwise malformed.
	ErrInvalidPrivateKey = errors.New("p256: invalid private key")

	// ErrInvalidPublicKey is returned for a point that is malformed, off the
	// curve, the wrong length, or the point at infinity.
	ErrInvalidPublicKey = errors.New("p256: invalid public key")

	// ErrInternalCrypto is returned when an underlying primitive fails for a
	// reason not classified above.
	ErrInternalCrypto = errors.New("p256: internal crypto failure")
)
