// Package prekey manages prekey pairs and assembles the public bundle.
package prekey

import (
	"errors"
	"fmt"
	"time"

	"tether/internal/crypto"
	"tether/internal/domain"
)

var errNoSignedPrekey = errors.New("no signed prekey available")

// Service manages prekey pairs and builds the public bundle.
type Service struct {
	ids domain.IdentityStore
	ps  domain.PrekeyStore
	bs  domain.PrekeyBundleStore
}

func New(ids domain.IdentityStore, ps domain.PrekeyStore, bs domain.PrekeyBundleStore) *Service {
	return &Service{ids: ids, ps: ps, bs: bs}
}

// GenerateAndStore creates a signed-prekey pair and n one-time pairs.
// It also marks the new signed-prekey as current.
func (s *Service) GenerateAndStore(passphrase string, n int) (domain.P256Public, []domain.P256Public, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.P256Public{}, nil, err
	}
	defer id.Wipe()

	// Signed prekey
	spkPriv, spkPub, err := crypto.GenerateP256()
	if err != nil {
		return domain.P256Public{}, nil, err
	}
	spkID := fmt.Sprintf("spk-%d", time.Now().Unix())
	sig, err := crypto.SignP256(id.SigPriv, spkPub.Slice())
	if err != nil {
		spkPriv.Wipe()
		return domain.P256Public{}, nil, err
	}
	if err := s.ps.SaveSignedPrekey(spkID, spkPriv, spkPub, sig); err != nil {
		spkPriv.Wipe()
		return domain.P256Public{}, nil, err
	}
	if err := s.ps.SetCurrentSignedPrekeyID(spkID); err != nil {
		return domain.P256Public{}, nil, err
	}

	// One-time prekeys
	pairs := make([]domain.OneTimePair, 0, n)
	publics := make([]domain.P256Public, 0, n)
	for i := 0; i < n; i++ {
		priv, pub, err := crypto.GenerateP256()
		if err != nil {
			return domain.P256Public{}, nil, err
		}
		opkID := fmt.Sprintf("opk-%d-%d", time.Now().Unix(), i)
		pairs = append(pairs, domain.OneTimePair{ID: opkID, Priv: priv, Pub: pub})
		publics = append(publics, pub)
	}
	if err := s.ps.SaveOneTimePrekeys(pairs); err != nil {
		return domain.P256Public{}, nil, err
	}
	return spkPub, publics, nil
}

// LoadBundle builds the public bundle from the current signed-prekey and OPK list,
// caches it, and returns it.
func (s *Service) LoadBundle(passphrase, username string) (domain.PrekeyBundle, error) {
	id, err := s.ids.LoadIdentity(passphrase)
	if err != nil {
		return domain.PrekeyBundle{}, err
	}
	defer id.Wipe()

	spkID, ok, err := s.ps.CurrentSignedPrekeyID()
	if err != nil {
		return domain.PrekeyBundle{}, err
	}
	if !ok {
		return domain.PrekeyBundle{}, errNoSignedPrekey
	}
	_, spkPub, sig, found, err := s.ps.LoadSignedPrekey(spkID)
	if err != nil {
		return domain.PrekeyBundle{}, err
	}
	if !found {
		return domain.PrekeyBundle{}, errNoSignedPrekey
	}

	oneTime, err := s.ps.ListOneTimePrekeyPublics()
	if err != nil {
		return domain.PrekeyBundle{}, err
	}

	b := domain.PrekeyBundle{
		Username:        username,
		IdentityKey:     id.DHPub,
		SignKey:         id.SigPub,
		SPKID:           spkID,
		SignedPrekey:    spkPub,
		SignedPrekeySig: sig,
		OneTime:         oneTime,
	}
	if err := s.bs.SavePrekeyBundle(b); err != nil {
		return domain.PrekeyBundle{}, err
	}
	return b, nil
}

// Compile-time assertion that Service implements domain.PrekeyService.
var _ domain.PrekeyService = (*Service)(nil)
