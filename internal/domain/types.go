package domain

// Identity holds long-term keys stored locally. Both pairs live on P-256:
// the DH pair is used for key agreement, the Sig pair signs prekeys.
type Identity struct {
	DHPub  P256Public
	DHPriv P256Private

	SigPub  P256Public
	SigPriv P256Private
}

// Wipe zeroes the private halves of the identity.
func (id *Identity) Wipe() {
	id.DHPriv.Wipe()
	id.SigPriv.Wipe()
}

// OneTimePair is a one-time prekey pair kept locally until consumed.
type OneTimePair struct {
	ID   string
	Priv P256Private
	Pub  P256Public
}

// OneTimePub is a published one-time prekey (public only) with an ID.
type OneTimePub struct {
	ID  string     `json:"id"`
	Pub P256Public `json:"pub"`
}

// PrekeyBundle is served by the relay. IDs allow initiators to reference SPK/OPK.
type PrekeyBundle struct {
	Username        string       `json:"username"`
	IdentityKey     P256Public   `json:"identity_key"`
	SignKey         P256Public   `json:"sign_key"`
	SPKID           string       `json:"spk_id"`
	SignedPrekey    P256Public   `json:"signed_prekey"`
	SignedPrekeySig []byte       `json:"signed_prekey_sig"`
	OneTime         []OneTimePub `json:"one_time,omitempty"`
}

// RatchetHeader accompanies each ciphertext.
type RatchetHeader struct {
	DHPub []byte `json:"dh_pub"` // 64 bytes, X||Y
	PN    uint32 `json:"pn"`
	N     uint32 `json:"n"`
}

// PrekeyMessage is attached to the first message from the initiator.
type PrekeyMessage struct {
	InitiatorIK P256Public `json:"initiator_ik"`
	Ephemeral   P256Public `json:"ephemeral"`
	SPKID       string     `json:"spk_id"`
	OPKID       string     `json:"opk_id,omitempty"`
}

// Envelope is the wire message via relay.
type Envelope struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Header    RatchetHeader  `json:"header"`
	Cipher    []byte         `json:"cipher"`
	AD        []byte         `json:"ad,omitempty"`
	Prekey    *PrekeyMessage `json:"prekey,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Session is produced by the handshake; RootKey seeds the ratchet.
type Session struct {
	Peer       string
	RootKey    []byte
	PeerSPK    P256Public
	PeerIK     P256Public
	CreatedUTC int64

	// Handshake parameters used by the initiator; echoed in the first PrekeyMessage.
	SPKID       string
	OPKID       string
	InitiatorEK P256Public
}

// DecryptedMessage is returned by MessageService.Receive.
type DecryptedMessage struct {
	From      string
	To        string
	Plaintext []byte
	Timestamp int64
}

// Conversation stores per-peer ratchet state.
type Conversation struct {
	Peer  string
	State RatchetState
}

// RatchetState holds Double Ratchet state.
type RatchetState struct {
	RootKey []byte
	DHPriv  P256Private
	DHPub   P256Public

	PeerDHPub P256Public

	SendCK []byte
	RecvCK []byte

	Ns, Nr, PN uint32

	Skipped map[string][]byte
}
