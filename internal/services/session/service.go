// Package session performs the handshake with a peer and persists sessions.
package session

import (
	"time"

	"tether/internal/domain"
	"tether/internal/protocol/handshake"
)

// Service performs the triple-DH handshake and persists sessions.
//
// A session represents the shared root key and associated metadata needed
// for establishing a Double Ratchet conversation with a peer. This service
// handles:
//   - Retrieving our own identity keys.
//   - Fetching the peer's prekey bundle from the relay.
//   - Running the key agreement as the initiator.
//   - Persisting the resulting session for later message encryption.
type Service struct {
	idStore      domain.IdentityStore
	sessionStore domain.SessionStore
	relayClient  domain.RelayClient
}

// New constructs a session service with the given stores and relay client.
func New(idStore domain.IdentityStore, sessionStore domain.SessionStore, relayClient domain.RelayClient) *Service {
	return &Service{
		idStore:      idStore,
		sessionStore: sessionStore,
		relayClient:  relayClient,
	}
}

// Initiate runs the handshake against the peer's prekey bundle and stores the
// resulting session.
func (s *Service) Initiate(passphrase, peer string) (domain.Session, error) {
	// Load our identity from secure storage.
	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.Session{}, err
	}
	defer id.Wipe()

	// Get the peer's current prekey bundle from the relay.
	bundle, err := s.relayClient.FetchPrekey(peer)
	if err != nil {
		return domain.Session{}, err
	}

	// Derive the shared root key as the initiator and record which SPK/OPK
	// were used; the first message echoes them so the peer can mirror us.
	rootKey, spkID, opkID, ephPub, err := handshake.InitiatorRoot(id, bundle)
	if err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		Peer:        peer,
		RootKey:     rootKey,
		PeerSPK:     bundle.SignedPrekey,
		PeerIK:      bundle.IdentityKey,
		CreatedUTC:  time.Now().Unix(),
		SPKID:       spkID,
		OPKID:       opkID,
		InitiatorEK: ephPub,
	}

	if err := s.sessionStore.SaveSession(peer, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Get retrieves a stored session for the given peer.
func (s *Service) Get(peer string) (domain.Session, bool, error) {
	return s.sessionStore.LoadSession(peer)
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
