package domain

// IdentityStore persists your long-term identity keys.
type IdentityStore interface {
	SaveIdentity(passphrase string, id Identity) error
	LoadIdentity(passphrase string) (Identity, error)
}

// PrekeyStore manages signed and one-time prekeys on disk.
type PrekeyStore interface {
	// Signed prekey
	SaveSignedPrekey(id string, priv P256Private, pub P256Public, sig []byte) error
	LoadSignedPrekey(id string) (priv P256Private, pub P256Public, sig []byte, ok bool, err error)

	// One-time prekeys
	SaveOneTimePrekeys(pairs []OneTimePair) error
	ConsumeOneTimePrekey(id string) (priv P256Private, pub P256Public, ok bool, err error)
	ListOneTimePrekeyPublics() ([]OneTimePub, error)

	// Current signed prekey selection
	SetCurrentSignedPrekeyID(id string) error
	CurrentSignedPrekeyID() (string, bool, error)
}

// PrekeyBundleStore caches the last bundle you registered.
type PrekeyBundleStore interface {
	SavePrekeyBundle(b PrekeyBundle) error
	LoadPrekeyBundle(username string) (PrekeyBundle, bool, error)
}

// SessionStore persists established handshake sessions.
type SessionStore interface {
	SaveSession(peer string, sess Session) error
	LoadSession(peer string) (Session, bool, error)
}

// RatchetStore keeps per-peer Double-Ratchet state.
type RatchetStore interface {
	SaveConversation(peer string, conv Conversation) error
	LoadConversation(peer string) (Conversation, bool, error)
}

// IdentityService manages the local identity.
type IdentityService interface {
	Generate(passphrase string) (Identity, string /*fingerprint*/, error)
	Load(passphrase string) (Identity, error)
	Fingerprint(passphrase string) (string, error)
}

// PrekeyService generates and assembles your prekey bundles.
type PrekeyService interface {
	GenerateAndStore(passphrase string, n int) (P256Public, []P256Public, error)
	LoadBundle(passphrase, username string) (PrekeyBundle, error)
}

// SessionService establishes or retrieves a handshake session.
type SessionService interface {
	Initiate(passphrase, peer string) (Session, error)
	Get(peer string) (Session, bool, error)
}

// MessageService encrypts, sends, fetches and decrypts messages.
type MessageService interface {
	Send(passphrase, from, to string, plaintext []byte) error
	Receive(passphrase, me string, limit int) ([]DecryptedMessage, error)
}

// RelayClient is how we talk to the central relay server.
type RelayClient interface {
	Register(b PrekeyBundle) error
	FetchPrekey(username string) (PrekeyBundle, error)

	SendMessage(env Envelope) error
	FetchMessages(username string, limit int) ([]Envelope, error)
	AckMessages(username string, count int) error
}
