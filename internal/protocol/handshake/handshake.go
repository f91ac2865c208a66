package handshake

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"tether/internal/crypto"
	"tether/internal/domain"
	"tether/internal/util/memzero"
)

// hkdfInfo labels the root-key derivation.
var hkdfInfo = []byte("tether-handshake")

// ErrBadPrekeySignature is returned when the bundle's signed prekey does not
// verify under the peer's signing key.
var ErrBadPrekeySignature = errors.New("handshake: signed prekey signature invalid")

// InitiatorRoot derives the root key for the initiator against a peer bundle.
// It returns the root key, the SPK/OPK identifiers consumed, and the fresh
// ephemeral public the first message must carry.
func InitiatorRoot(id domain.Identity, bundle domain.PrekeyBundle) (
	root []byte,
	spkID string,
	opkID string,
	ephPub domain.P256Public,
	err error,
) {
	if !crypto.VerifyP256(bundle.SignKey, bundle.SignedPrekey.Slice(), bundle.SignedPrekeySig) {
		return nil, "", "", domain.P256Public{}, ErrBadPrekeySignature
	}

	ephPriv, ephPub, err := crypto.GenerateP256()
	if err != nil {
		return nil, "", "", domain.P256Public{}, err
	}
	defer ephPriv.Wipe()

	dh1, err := crypto.ECDH(id.DHPriv, bundle.SignedPrekey) // DH(IKa, SPKb)
	if err != nil {
		return nil, "", "", domain.P256Public{}, fmt.Errorf("handshake dh1: %w", err)
	}
	defer dh1.Wipe()
	dh2, err := crypto.ECDH(ephPriv, bundle.IdentityKey) // DH(EKa, IKb)
	if err != nil {
		return nil, "", "", domain.P256Public{}, fmt.Errorf("handshake dh2: %w", err)
	}
	defer dh2.Wipe()
	dh3, err := crypto.ECDH(ephPriv, bundle.SignedPrekey) // DH(EKa, SPKb)
	if err != nil {
		return nil, "", "", domain.P256Public{}, fmt.Errorf("handshake dh3: %w", err)
	}
	defer dh3.Wipe()

	transcript := make([]byte, 0, 32*4)
	transcript = append(transcript, dh1.Slice()...)
	transcript = append(transcript, dh2.Slice()...)
	transcript = append(transcript, dh3.Slice()...)

	if len(bundle.OneTime) > 0 {
		opk := bundle.OneTime[0]
		dh4, err := crypto.ECDH(ephPriv, opk.Pub) // DH(EKa, OPKb)
		if err != nil {
			memzero.Zero(transcript)
			return nil, "", "", domain.P256Public{}, fmt.Errorf("handshake dh4: %w", err)
		}
		transcript = append(transcript, dh4.Slice()...)
		dh4.Wipe()
		opkID = opk.ID
	}

	root = deriveRoot(transcript)
	memzero.Zero(transcript)
	return root, bundle.SPKID, opkID, ephPub, nil
}

// ResponderRoot recomputes the initiator's root key from the first message's
// PrekeyMessage, our identity and the referenced prekey privates.
func ResponderRoot(
	id domain.Identity,
	spkPriv domain.P256Private,
	opkPriv *domain.P256Private,
	pm domain.PrekeyMessage,
) ([]byte, error) {
	dh1, err := crypto.ECDH(spkPriv, pm.InitiatorIK) // DH(SPKb, IKa)
	if err != nil {
		return nil, fmt.Errorf("handshake dh1: %w", err)
	}
	defer dh1.Wipe()
	dh2, err := crypto.ECDH(id.DHPriv, pm.Ephemeral) // DH(IKb, EKa)
	if err != nil {
		return nil, fmt.Errorf("handshake dh2: %w", err)
	}
	defer dh2.Wipe()
	dh3, err := crypto.ECDH(spkPriv, pm.Ephemeral) // DH(SPKb, EKa)
	if err != nil {
		return nil, fmt.Errorf("handshake dh3: %w", err)
	}
	defer dh3.Wipe()

	transcript := make([]byte, 0, 32*4)
	transcript = append(transcript, dh1.Slice()...)
	transcript = append(transcript, dh2.Slice()...)
	transcript = append(transcript, dh3.Slice()...)

	if opkPriv != nil {
		dh4, err := crypto.ECDH(*opkPriv, pm.Ephemeral) // DH(OPKb, EKa)
		if err != nil {
			memzero.Zero(transcript)
			return nil, fmt.Errorf("handshake dh4: %w", err)
		}
		transcript = append(transcript, dh4.Slice()...)
		dh4.Wipe()
	}

	root := deriveRoot(transcript)
	memzero.Zero(transcript)
	return root, nil
}

// deriveRoot runs HKDF-SHA256 over the DH transcript.
func deriveRoot(transcript []byte) []byte {
	r := hkdf.New(sha256.New, transcript, nil, hkdfInfo)
	root := make([]byte, 32)
	_, _ = io.ReadFull(r, root)
	return root
}
