// Package identity manages creation and access of the local identity keys.
package identity

import (
	"fmt"
	"unicode"

	"tether/internal/crypto"
	"tether/internal/domain"
)

// minPassphraseLength defines the minimum number of characters required for a passphrase.
const minPassphraseLength = 12

// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
var ErrWeakPassphrase = fmt.Errorf(
	"passphrase is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	minPassphraseLength,
)

// Service manages identity key creation and access using a backing store.
//
// The identity contains two P-256 pairs:
//   - a Diffie-Hellman pair for the handshake and Double Ratchet, and
//   - a signing pair used to sign prekeys (ECDSA).
type Service struct {
	store domain.IdentityStore
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s} }

// Generate creates a new identity, saves it encrypted with the passphrase,
// and returns the identity plus a short fingerprint of the DH public key.
func (s *Service) Generate(passphrase string) (domain.Identity, string, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", ErrWeakPassphrase
	}

	dhPriv, dhPub, err := crypto.GenerateP256()
	if err != nil {
		return domain.Identity{}, "", err
	}
	sigPriv, sigPub, err := crypto.GenerateP256()
	if err != nil {
		dhPriv.Wipe()
		return domain.Identity{}, "", err
	}

	id := domain.Identity{
		DHPub:   dhPub,
		DHPriv:  dhPriv,
		SigPub:  sigPub,
		SigPriv: sigPriv,
	}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		id.Wipe()
		return domain.Identity{}, "", err
	}
	return id, crypto.Fingerprint(id.DHPub.Slice()), nil
}

// Load decrypts and returns the local identity.
func (s *Service) Load(passphrase string) (domain.Identity, error) {
	return s.store.LoadIdentity(passphrase)
}

// Fingerprint returns a short fingerprint of the local DH public key.
func (s *Service) Fingerprint(passphrase string) (string, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	defer id.Wipe()
	return crypto.Fingerprint(id.DHPub.Slice()), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
