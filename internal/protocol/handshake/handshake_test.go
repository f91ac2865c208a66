package handshake_test

import (
	"bytes"
	"errors"
	"testing"

	"tether/internal/crypto"
	"tether/internal/domain"
	"tether/internal/protocol/handshake"
)

// makeIdentity creates a domain.Identity with fresh DH and signing pairs.
func makeIdentity(t *testing.T) domain.Identity {
	t.Helper()
	dhPriv, dhPub, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	sigPriv, sigPub, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	return domain.Identity{
		DHPub:   dhPub,
		DHPriv:  dhPriv,
		SigPub:  sigPub,
		SigPriv: sigPriv,
	}
}

// makeBundle builds a bundle for bob with a signed prekey and optional OPKs.
func makeBundle(t *testing.T, bob domain.Identity, opks []domain.OneTimePub) (domain.PrekeyBundle, domain.P256Private) {
	t.Helper()
	spkPriv, spkPub, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	sig, err := crypto.SignP256(bob.SigPriv, spkPub.Slice())
	if err != nil {
		t.Fatalf("SignP256: %v", err)
	}
	return domain.PrekeyBundle{
		Username:        "bob",
		IdentityKey:     bob.DHPub,
		SignKey:         bob.SigPub,
		SPKID:           "spk-test",
		SignedPrekey:    spkPub,
		SignedPrekeySig: sig,
		OneTime:         opks,
	}, spkPriv
}

func TestInitiatorAndResponderRoot_NoOneTimePrekey(t *testing.T) {
	// Alice is initiator, Bob is responder.
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bundle, spkPriv := makeBundle(t, bob, nil)

	rootInitiator, spkID, opkID, ephPub, err := handshake.InitiatorRoot(alice, bundle)
	if err != nil {
		t.Fatalf("InitiatorRoot: %v", err)
	}
	if spkID != "spk-test" {
		t.Fatalf("want signed prekey id spk-test, got %q", spkID)
	}
	if opkID != "" {
		t.Fatalf("want empty one-time prekey id, got %q", opkID)
	}

	// Alice's first message would carry this.
	pm := domain.PrekeyMessage{
		InitiatorIK: alice.DHPub,
		Ephemeral:   ephPub,
		SPKID:       spkID,
		OPKID:       opkID,
	}

	rootResponder, err := handshake.ResponderRoot(bob, spkPriv, nil, pm)
	if err != nil {
		t.Fatalf("ResponderRoot: %v", err)
	}
	if !bytes.Equal(rootInitiator, rootResponder) {
		t.Fatal("root keys differ (no OPK)")
	}
}

func TestInitiatorAndResponderRoot_WithOneTimePrekey(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	opkPriv, opkPub, err := crypto.GenerateP256()
	if err != nil {
		t.Fatalf("GenerateP256: %v", err)
	}
	bundle, spkPriv := makeBundle(t, bob, []domain.OneTimePub{{ID: "opk-1", Pub: opkPub}})

	rootInitiator, spkID, opkID, ephPub, err := handshake.InitiatorRoot(alice, bundle)
	if err != nil {
		t.Fatalf("InitiatorRoot: %v", err)
	}
	if spkID != "spk-test" || opkID != "opk-1" {
		t.Fatalf("unexpected IDs signed=%q one-time=%q", spkID, opkID)
	}

	pm := domain.PrekeyMessage{
		InitiatorIK: alice.DHPub,
		Ephemeral:   ephPub,
		SPKID:       spkID,
		OPKID:       opkID,
	}

	rootResponder, err := handshake.ResponderRoot(bob, spkPriv, &opkPriv, pm)
	if err != nil {
		t.Fatalf("ResponderRoot: %v", err)
	}
	if !bytes.Equal(rootInitiator, rootResponder) {
		t.Fatal("root keys differ (with OPK)")
	}
}

func TestInitiatorRoot_RejectsBadPrekeySignature(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	bundle, _ := makeBundle(t, bob, nil)
	bundle.SignedPrekeySig[5] ^= 1

	if _, _, _, _, err := handshake.InitiatorRoot(alice, bundle); !errors.Is(err, handshake.ErrBadPrekeySignature) {
		t.Fatalf("got %v, want ErrBadPrekeySignature", err)
	}
}
