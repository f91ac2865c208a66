// Package handshake implements the triple-DH key agreement used to bootstrap
// a Double Ratchet session between two parties.
//
// # Overview
//
// The handshake lets an initiator derive a shared 32-byte root key with a
// responder who has published a prekey bundle. The bundle contains:
//   - Identity key (P-256)
//   - Signed prekey (P-256) and its ECDSA signature
//   - Optional one-time prekeys (P-256)
//
// # Flows
//
// Initiator:
//  1. Verify the signed prekey signature.
//  2. Generate an ephemeral P-256 key pair.
//  3. Compute DH values (IKa·SPKb, EKa·IKb, EKa·SPKb[, EKa·OPKb]).
//  4. HKDF over the concatenated DH transcript to produce the root key.
//  5. Return the root key, the SPK/OPK identifiers used, and the initiator's
//     ephemeral public.
//
// Responder:
//  1. Receive the PrekeyMessage (initiator IK, ephemeral EK, SPKID[, OPKID]).
//  2. Look up the SPK and optionally consume the OPK.
//  3. Compute the symmetric DH set (SPKb·IKa, IKb·EKa, SPKb·EKa[, OPKb·EKa]).
//  4. HKDF the same transcript to the identical root key.
//
// # Errors
//
// ErrBadPrekeySignature is returned when the SPK signature fails
// verification. Other errors wrap the crypto package's taxonomy.
//
// # Security notes
//
// Only public material is sent over the wire. One-time prekeys, when present,
// improve forward secrecy by ensuring the handshake mixes in a value that is
// deleted after first use. All intermediate DH outputs and the ephemeral
// private scalar are wiped before returning, on success and on error.
package handshake
