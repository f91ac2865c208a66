package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"tether/internal/domain"
)

const (
	idFile       = "identity.enc"
	spkPairsFile = "spk_pairs.json" // map[string]spkPair
	opkPairsFile = "opk_pairs.json" // map[string]opkPair
	bundleFile   = "bundle_cache.json"
	metaFile     = "prekey_meta.json" // { "current_spk_id": "spk-..." }
	sessionsFile = "sessions.json"    // map[string]domain.Session
	convsFile    = "conversations.json"
)

// The current supported version of the encrypted blob format stored on disk.
const keystoreFormatVersion = 1

// Returned when the passphrase is incorrect or the ciphertext has been modified.
var errWrongPassphrase = errors.New("wrong passphrase or corrupted identity")

type spkPair struct {
	Priv domain.P256Private
	Pub  domain.P256Public
	Sig  []byte
	At   int64
}

type opkPair struct {
	Priv domain.P256Private
	Pub  domain.P256Public
	At   int64
}

type prekeyMeta struct {
	CurrentSPKID string `json:"current_spk_id"`
}

// FileStore stores identity, prekeys, sessions and ratchet state on disk.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

var (
	_ domain.IdentityStore     = (*FileStore)(nil)
	_ domain.PrekeyStore       = (*FileStore)(nil)
	_ domain.PrekeyBundleStore = (*FileStore)(nil)
	_ domain.SessionStore      = (*FileStore)(nil)
	_ domain.RatchetStore      = (*FileStore)(nil)
)

// ---------- Identity ----------

func (s *FileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	blob, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, idFile), blob, 0o600)
}

func (s *FileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := os.ReadFile(filepath.Join(s.dir, idFile))
	if err != nil {
		return domain.Identity{}, err
	}
	raw, err := decrypt(passphrase, blob)
	if err != nil {
		return domain.Identity{}, err
	}
	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// ---------- Prekey pairs ----------

func (s *FileStore) SaveSignedPrekey(id string, priv domain.P256Private, pub domain.P256Public, sig []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]spkPair)
	_ = readJSON(filepath.Join(s.dir, spkPairsFile), &m)

	m[id] = spkPair{Priv: priv, Pub: pub, Sig: append([]byte(nil), sig...), At: time.Now().Unix()}
	return writeJSON(filepath.Join(s.dir, spkPairsFile), m, 0o600)
}

func (s *FileStore) LoadSignedPrekey(id string) (priv domain.P256Private, pub domain.P256Public, sig []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]spkPair)
	if err = readJSON(filepath.Join(s.dir, spkPairsFile), &m); err != nil {
		return priv, pub, nil, false, err
	}
	p, exists := m[id]
	if !exists {
		return priv, pub, nil, false, nil
	}
	return p.Priv, p.Pub, append([]byte(nil), p.Sig...), true, nil
}

func (s *FileStore) SaveOneTimePrekeys(pairs []domain.OneTimePair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]opkPair)
	_ = readJSON(filepath.Join(s.dir, opkPairsFile), &m)

	for _, p := range pairs {
		m[p.ID] = opkPair{Priv: p.Priv, Pub: p.Pub, At: time.Now().Unix()}
	}
	return writeJSON(filepath.Join(s.dir, opkPairsFile), m, 0o600)
}

func (s *FileStore) ConsumeOneTimePrekey(id string) (priv domain.P256Private, pub domain.P256Public, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]opkPair)
	if err = readJSON(filepath.Join(s.dir, opkPairsFile), &m); err != nil {
		return priv, pub, false, err
	}
	p, exists := m[id]
	if !exists {
		return priv, pub, false, nil
	}
	delete(m, id)
	if err = writeJSON(filepath.Join(s.dir, opkPairsFile), m, 0o600); err != nil {
		return priv, pub, false, err
	}
	return p.Priv, p.Pub, true, nil
}

// ListOneTimePrekeyPublics returns the remaining OPK publics.
func (s *FileStore) ListOneTimePrekeyPublics() ([]domain.OneTimePub, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]opkPair)
	if err := readJSON(filepath.Join(s.dir, opkPairsFile), &m); err != nil {
		return nil, err
	}
	out := make([]domain.OneTimePub, 0, len(m))
	for id, p := range m {
		out = append(out, domain.OneTimePub{ID: id, Pub: p.Pub})
	}
	return out, nil
}

// ---------- SPK metadata ----------

func (s *FileStore) SetCurrentSignedPrekeyID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := prekeyMeta{CurrentSPKID: id}
	return writeJSON(filepath.Join(s.dir, metaFile), meta, 0o600)
}

func (s *FileStore) CurrentSignedPrekeyID() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta prekeyMeta
	if err := readJSON(filepath.Join(s.dir, metaFile), &meta); err != nil {
		return "", false, err
	}
	if meta.CurrentSPKID == "" {
		return "", false, nil
	}
	return meta.CurrentSPKID, true, nil
}

// ---------- Bundle cache (public) ----------

func (s *FileStore) SavePrekeyBundle(b domain.PrekeyBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(filepath.Join(s.dir, bundleFile), b, 0o600)
}

func (s *FileStore) LoadPrekeyBundle(username string) (domain.PrekeyBundle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b domain.PrekeyBundle
	if err := readJSON(filepath.Join(s.dir, bundleFile), &b); err != nil {
		return domain.PrekeyBundle{}, false, err
	}
	if b.Username != username {
		return domain.PrekeyBundle{}, false, nil
	}
	return b, true, nil
}

// ---------- Sessions ----------

func (s *FileStore) SaveSession(peer string, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.Session)
	_ = readJSON(filepath.Join(s.dir, sessionsFile), &m)

	m[peer] = sess
	return writeJSON(filepath.Join(s.dir, sessionsFile), m, 0o600)
}

func (s *FileStore) LoadSession(peer string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.Session)
	if err := readJSON(filepath.Join(s.dir, sessionsFile), &m); err != nil {
		return domain.Session{}, false, err
	}
	sess, ok := m[peer]
	return sess, ok, nil
}

// ---------- Ratchet state ----------

func (s *FileStore) SaveConversation(peer string, conv domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.Conversation)
	_ = readJSON(filepath.Join(s.dir, convsFile), &m)

	m[peer] = conv
	return writeJSON(filepath.Join(s.dir, convsFile), m, 0o600)
}

func (s *FileStore) LoadConversation(peer string) (domain.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.Conversation)
	if err := readJSON(filepath.Join(s.dir, convsFile), &m); err != nil {
		return domain.Conversation{}, false, err
	}
	conv, ok := m[peer]
	return conv, ok, nil
}

// ---------- JSON helpers ----------

// readJSON best-effort reads path into out; a missing file is not an error.
func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, mode)
}

// ---------- Encrypted envelope ----------

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// encrypt derives a key from passphrase and seals raw into a JSON blob.
func encrypt(passphrase string, raw []byte, N, r, p int) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      keystoreFormatVersion,
		Salt:   salt[:],
		N:      N,
		R:      r,
		P:      p,
		Cipher: ct,
	})
}

// decrypt opens the JSON blob using a key derived from passphrase.
func decrypt(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > keystoreFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", bl.V)
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, errWrongPassphrase
	}
	return pt, nil
}
