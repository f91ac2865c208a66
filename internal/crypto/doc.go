// Package crypto exposes the minimal primitives used by tether.
//
// Contents
//
//   - P-256 key generation, public-key derivation and ECDH agreement behind
//     a pluggable Backend (GenerateP256, DeriveP256, ECDH)
//   - Two Backend implementations: Platform, driving the opaque key handles
//     of crypto/ecdh, and Arithmetic, computing the group operations
//     explicitly over big integers
//   - Fixed-width 32-byte big-endian scalar/coordinate codec (ToFixedWidth,
//     FromFixedWidth)
//   - P-256 ECDSA signing for prekeys (SignP256, VerifyP256)
//   - SHA-256 digests and short public-key fingerprints (SHA256, Fingerprint)
//
// # Notes
//
// All functions take and return fixed-size array types defined in
// internal/domain to avoid accidental reallocations. Callers should treat
// returned secrets as sensitive and call Wipe when practical to reduce their
// lifetime in memory.
//
// Both backends share one byte-in/byte-out contract: private scalars are
// 32-byte big-endian values in [1, n-1], public points are the 64-byte X||Y
// concatenation (the 0x04 uncompressed prefix never crosses the package
// boundary), and shared secrets are the left-zero-padded 32-byte X-coordinate
// of the ECDH product point.
package crypto
