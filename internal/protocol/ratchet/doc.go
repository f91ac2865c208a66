// Package ratchet implements a Double Ratchet over P-256 ECDH.
//
// A session starts from a 32-byte root key produced by the handshake. Each
// side keeps a DH ratchet key pair plus sending and receiving chain keys;
// message keys are derived per message with HKDF and used once with
// ChaCha20-Poly1305. A new remote ratchet public triggers a DH ratchet step
// that advances the root key and resets the chains. Message keys for skipped
// messages are cached (bounded) so out-of-order delivery still decrypts.
package ratchet
