// Package message sends and receives encrypted messages over the relay.
package message

import (
	"errors"
	"fmt"
	"time"

	"tether/internal/crypto"
	"tether/internal/domain"
	"tether/internal/protocol/handshake"
	"tether/internal/protocol/ratchet"
)

// ErrNoSession indicates there is no stored session with the peer.
var ErrNoSession = errors.New("no session with peer; run start-session first")

// Service sends and receives messages over the relay using the Double Ratchet.
//
// High-level flow:
//   - Send: if no conversation exists, include a PrekeyMessage so the receiver
//     can bootstrap a session, then encrypt with the ratchet and post via the
//     relay.
//   - Receive: fetch envelopes, bootstrap a session if needed using the
//     sender's PrekeyMessage, decrypt in order, persist ratchet state, then
//     ack processed messages.
type Service struct {
	idStore        domain.IdentityStore
	prekeyStore    domain.PrekeyStore
	ratchetStore   domain.RatchetStore
	sessionService domain.SessionService
	relayClient    domain.RelayClient
}

// New constructs a message service with the given stores and relay client.
func New(
	idStore domain.IdentityStore,
	prekeyStore domain.PrekeyStore,
	ratchetStore domain.RatchetStore,
	sessionService domain.SessionService,
	relayClient domain.RelayClient,
) *Service {
	return &Service{
		idStore:        idStore,
		prekeyStore:    prekeyStore,
		ratchetStore:   ratchetStore,
		sessionService: sessionService,
		relayClient:    relayClient,
	}
}

// Send encrypts and posts plaintext.
//
// If this is the first message to a peer (no stored conversation), a
// PrekeyMessage is attached so the receiver can establish a ratchet session
// from the handshake. Subsequent messages omit it and use the existing state.
func (s *Service) Send(passphrase, from, to string, plaintext []byte) error {
	sess, ok, err := s.sessionService.Get(to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSession
	}

	conv, found, err := s.ratchetStore.LoadConversation(to)
	if err != nil {
		return err
	}

	var prekey *domain.PrekeyMessage
	if !found {
		// No existing conversation: we are the initiator. Seed a fresh
		// ratchet state and attach the PrekeyMessage the receiver needs to
		// derive the same root key and initialise their side.
		id, err := s.idStore.LoadIdentity(passphrase)
		if err != nil {
			return err
		}
		st, err := ratchet.InitAsInitiator(sess.RootKey, id.DHPriv, id.DHPub, sess.PeerIK)
		if err != nil {
			id.Wipe()
			return err
		}
		conv = domain.Conversation{Peer: to, State: st}

		prekey = &domain.PrekeyMessage{
			InitiatorIK: id.DHPub,
			Ephemeral:   sess.InitiatorEK,
			SPKID:       sess.SPKID,
			OPKID:       sess.OPKID,
		}
		id.Wipe()
	}

	header, ct, err := ratchet.Encrypt(&conv.State, nil, plaintext)
	if err != nil {
		return err
	}

	// Persist updated ratchet state before sending to avoid message loss if we crash.
	if err := s.ratchetStore.SaveConversation(to, conv); err != nil {
		return err
	}

	env := domain.Envelope{
		From:      from,
		To:        to,
		Header:    header,
		Cipher:    ct,
		Prekey:    prekey, // present only for the first message of a conversation
		Timestamp: time.Now().Unix(),
	}
	return s.relayClient.SendMessage(env)
}

// Receive fetches pending messages and decrypts them.
//
// Envelopes are processed in order. For the first message from a peer, a
// PrekeyMessage is expected to bootstrap the handshake and initialise the
// ratchet as responder. If bootstrapping prerequisites are not met,
// processing stops and remaining envelopes are left queued.
//
// Only successfully processed envelopes are acked, so a mid-stream failure
// never acknowledges messages we did not handle.
func (s *Service) Receive(passphrase, me string, limit int) ([]domain.DecryptedMessage, error) {
	envs, err := s.relayClient.FetchMessages(me, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DecryptedMessage, 0, len(envs))
	processed := 0

	for i, env := range envs {
		conv, found, err := s.ratchetStore.LoadConversation(env.From)
		if err != nil {
			return out, err
		}

		if !found {
			// First message from this peer: bootstrap from the PrekeyMessage.
			if env.Prekey == nil || len(env.Header.DHPub) != 64 {
				break // leave the rest queued
			}
			id, err := s.idStore.LoadIdentity(passphrase)
			if err != nil {
				return out, err
			}
			senderPub, err := crypto.ParseP256Public(env.Header.DHPub)
			if err != nil {
				id.Wipe()
				return out, fmt.Errorf("sender ratchet key from %q: %w", env.From, err)
			}

			if env.Prekey.SPKID == "" {
				id.Wipe()
				return out, fmt.Errorf("missing SPKID in prekey message")
			}
			spkPriv, _, _, okSPK, err := s.prekeyStore.LoadSignedPrekey(env.Prekey.SPKID)
			if err != nil {
				id.Wipe()
				return out, err
			}
			if !okSPK {
				id.Wipe()
				return out, fmt.Errorf("signed prekey %q not found", env.Prekey.SPKID)
			}

			var opkPriv *domain.P256Private
			if env.Prekey.OPKID != "" {
				p, _, okOPK, err := s.prekeyStore.ConsumeOneTimePrekey(env.Prekey.OPKID)
				if err != nil {
					id.Wipe()
					return out, err
				}
				if okOPK {
					opkPriv = &p
				}
			}

			rk, err := handshake.ResponderRoot(id, spkPriv, opkPriv, *env.Prekey)
			spkPriv.Wipe()
			if opkPriv != nil {
				opkPriv.Wipe()
			}
			if err != nil {
				id.Wipe()
				return out, fmt.Errorf("handshake responder root: %w", err)
			}
			st, err := ratchet.InitAsResponder(rk, id.DHPriv, id.DHPub, senderPub)
			id.Wipe()
			if err != nil {
				return out, err
			}
			conv = domain.Conversation{Peer: env.From, State: st}
		}

		plain, err := ratchet.Decrypt(&conv.State, env.AD, env.Header, env.Cipher)
		if err != nil {
			return out, fmt.Errorf("decrypt from %q failed: %w", env.From, err)
		}

		// Persist updated ratchet state after successful decrypt to advance chains.
		if err := s.ratchetStore.SaveConversation(env.From, conv); err != nil {
			return out, fmt.Errorf("save conversation %q: %w", env.From, err)
		}

		out = append(out, domain.DecryptedMessage{
			From:      env.From,
			To:        env.To,
			Plaintext: plain,
			Timestamp: env.Timestamp,
		})
		processed = i + 1
	}

	// Ack only what we processed successfully. If zero, do nothing.
	if processed > 0 {
		if err := s.relayClient.AckMessages(me, processed); err != nil {
			return out, fmt.Errorf("ack %d messages: %w", processed, err)
		}
	}
	return out, nil
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
