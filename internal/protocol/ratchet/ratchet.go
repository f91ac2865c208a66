package ratchet

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"tether/internal/crypto"
	"tether/internal/domain"
	"tether/internal/util/memzero"
)

const (
	aeadKeySize  = 32
	nonceSize    = chacha20poly1305.NonceSize
	pubSize      = 64
	maxSkippedMK = 1000
)

var errChainUninitialised = errors.New("ratchet chain key is uninitialised")

// InitAsInitiator seeds the sending chain from root using a fresh ratchet key and the peer identity pub.
func InitAsInitiator(root []byte, _ domain.P256Private, _ domain.P256Public, peerIdentity domain.P256Public) (domain.RatchetState, error) {
	priv, pub, err := crypto.GenerateP256()
	if err != nil {
		return domain.RatchetState{}, err
	}

	dh, err := crypto.ECDH(priv, peerIdentity)
	if err != nil {
		priv.Wipe()
		return domain.RatchetState{}, err
	}
	newRK, sendCK := kdfRK(root, dh.Slice())
	dh.Wipe()

	return domain.RatchetState{
		RootKey:   newRK,
		DHPriv:    priv,
		DHPub:     pub,
		PeerDHPub: peerIdentity, // placeholder until first remote ratchet pub arrives
		SendCK:    sendCK,
		RecvCK:    nil,
		Ns:        0,
		Nr:        0,
		PN:        0,
		Skipped:   make(map[string][]byte),
	}, nil
}

// InitAsResponder seeds the receiving chain from root using our identity priv and the sender ratchet pub.
func InitAsResponder(root []byte, ourIDPriv domain.P256Private, _ domain.P256Public, senderRatchetPub domain.P256Public) (domain.RatchetState, error) {
	priv, pub, err := crypto.GenerateP256()
	if err != nil {
		return domain.RatchetState{}, err
	}

	dh, err := crypto.ECDH(ourIDPriv, senderRatchetPub)
	if err != nil {
		priv.Wipe()
		return domain.RatchetState{}, err
	}
	newRK, recvCK := kdfRK(root, dh.Slice())
	dh.Wipe()

	return domain.RatchetState{
		RootKey:   newRK,
		DHPriv:    priv,
		DHPub:     pub,
		PeerDHPub: senderRatchetPub,
		SendCK:    nil,
		RecvCK:    recvCK,
		Ns:        0,
		Nr:        0,
		PN:        0,
		Skipped:   make(map[string][]byte),
	}, nil
}

// Encrypt produces a header and ciphertext, auto-stepping the DH ratchet on the first send after responding.
func Encrypt(st *domain.RatchetState, ad, plaintext []byte) (domain.RatchetHeader, []byte, error) {
	// If SendCK is not yet initialised (responder's first send), perform a DH ratchet step.
	if len(st.SendCK) == 0 {
		st.PN = st.Ns
		st.Ns = 0

		// New sending ratchet key pair.
		newPriv, newPub, err := crypto.GenerateP256()
		if err != nil {
			return domain.RatchetHeader{}, nil, err
		}

		// Advance root and create SendCK using our new priv and the peer's current ratchet pub.
		dh, err := crypto.ECDH(newPriv, st.PeerDHPub)
		if err != nil {
			newPriv.Wipe()
			return domain.RatchetHeader{}, nil, err
		}
		rk2, sendCK := kdfRK(st.RootKey, dh.Slice())
		dh.Wipe()

		st.RootKey = rk2
		st.DHPriv, st.DHPub = newPriv, newPub
		st.SendCK = sendCK
	}

	mk, err := kdfCKSend(st)
	if err != nil {
		return domain.RatchetHeader{}, nil, err
	}
	h := domain.RatchetHeader{DHPub: st.DHPub.Slice(), PN: st.PN, N: st.Ns}

	ct, err := seal(mk, h, ad, plaintext)
	memzero.Zero(mk)
	if err != nil {
		return domain.RatchetHeader{}, nil, err
	}
	st.Ns++
	return h, ct, nil
}

// Decrypt handles skipped keys, does a DH ratchet on new remote pubs, then opens the message.
func Decrypt(st *domain.RatchetState, ad []byte, header domain.RatchetHeader, ciphertext []byte) ([]byte, error) {
	// Same DH pub: try a skipped key.
	if equalPub(st.PeerDHPub[:], header.DHPub) {
		skipUntil(st, header.N)
		keyID := skippedKeyID(st.PeerDHPub, header.N)
		if mk, ok := st.Skipped[keyID]; ok {
			delete(st.Skipped, keyID)
			pt, err := open(mk, header, ad, ciphertext)
			memzero.Zero(mk)
			if err != nil {
				return nil, err
			}
			st.Nr = header.N + 1
			return pt, nil
		}
	}

	// New DH pub: advance receiving and then sending chains.
	if !equalPub(st.PeerDHPub[:], header.DHPub) {
		skipUntil(st, header.PN)

		newPeer, err := crypto.ParseP256Public(header.DHPub)
		if err != nil {
			return nil, err
		}

		dh, err := crypto.ECDH(st.DHPriv, newPeer)
		if err != nil {
			return nil, err
		}
		rk2, recvCK := kdfRK(st.RootKey, dh.Slice())
		dh.Wipe()

		newPriv, newPub, err := crypto.GenerateP256()
		if err != nil {
			return nil, err
		}

		dh2, err := crypto.ECDH(newPriv, newPeer)
		if err != nil {
			newPriv.Wipe()
			return nil, err
		}
		rk3, sendCK := kdfRK(rk2, dh2.Slice())
		dh2.Wipe()

		st.PN = st.Ns
		st.Ns, st.Nr = 0, 0
		st.RootKey = rk3
		st.DHPriv, st.DHPub = newPriv, newPub
		st.PeerDHPub = newPeer
		st.SendCK, st.RecvCK = sendCK, recvCK
	}

	mk, err := kdfCKRecv(st)
	if err != nil {
		return nil, err
	}
	pt, err := open(mk, header, ad, ciphertext)
	memzero.Zero(mk)
	if err != nil {
		return nil, err
	}
	st.Nr++
	return pt, nil
}

// --- helpers ---

func seal(mk []byte, header domain.RatchetHeader, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.N)
	return aead.Seal(nil, nonce, plaintext, append(ad, headerBytes(header)...)), nil
}

func open(mk []byte, header domain.RatchetHeader, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(mk[:aeadKeySize])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	binary.BigEndian.PutUint32(nonce[nonceSize-4:], header.N)
	return aead.Open(nil, nonce, ciphertext, append(ad, headerBytes(header)...))
}

func headerBytes(h domain.RatchetHeader) []byte {
	out := make([]byte, 0, len(h.DHPub)+8)
	out = append(out, h.DHPub...)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], h.PN)
	out = append(out, b[:]...)
	binary.BigEndian.PutUint32(b[:], h.N)
	out = append(out, b[:]...)
	return out
}

// HKDF-based KDFs with labels.
func kdfRK(rk, dh []byte) (newRK, ck []byte) {
	r := hkdf.New(sha256.New, dh, rk, []byte("DR|rk"))
	newRK = make([]byte, 32)
	ck = make([]byte, 32)
	_, _ = io.ReadFull(r, newRK)
	_, _ = io.ReadFull(r, ck)
	return
}

func kdfCK(ck []byte) (nextCK, mk []byte) {
	r := hkdf.New(sha256.New, ck, nil, []byte("DR|ck"))
	nextCK = make([]byte, 32)
	mk = make([]byte, 32)
	_, _ = io.ReadFull(r, nextCK)
	_, _ = io.ReadFull(r, mk)
	return
}

func kdfCKSend(st *domain.RatchetState) ([]byte, error) {
	if len(st.SendCK) == 0 {
		return nil, errChainUninitialised
	}
	nextCK, mk := kdfCK(st.SendCK)
	st.SendCK = nextCK
	return mk, nil
}

func kdfCKRecv(st *domain.RatchetState) ([]byte, error) {
	if len(st.RecvCK) == 0 {
		return nil, errChainUninitialised
	}
	nextCK, mk := kdfCK(st.RecvCK)
	st.RecvCK = nextCK
	return mk, nil
}

// skippedKeyID must stay valid UTF-8: the cache is persisted through JSON,
// which rewrites malformed map keys.
func skippedKeyID(peer domain.P256Public, n uint32) string {
	b := make([]byte, pubSize+4)
	copy(b, peer[:])
	binary.BigEndian.PutUint32(b[pubSize:], n)
	return hex.EncodeToString(b)
}

// skipUntil derives and stores message keys up to pn with a hard cap.
func skipUntil(st *domain.RatchetState, pn uint32) {
	for st.Nr < pn {
		mk, _ := kdfCKRecv(st)
		if len(st.Skipped) >= maxSkippedMK {
			for k := range st.Skipped {
				delete(st.Skipped, k)
				break
			}
		}
		st.Skipped[skippedKeyID(st.PeerDHPub, st.Nr)] = mk
		st.Nr++
	}
}

func equalPub(a, b []byte) bool {
	if len(a) != pubSize || len(b) != pubSize {
		return false
	}
	var v byte
	for i := 0; i < pubSize; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
