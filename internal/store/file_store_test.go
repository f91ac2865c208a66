package store_test

import (
	"bytes"
	"testing"

	"tether/internal/domain"
	"tether/internal/store"
)

func TestIdentity_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	pass := "pass"

	var ids domain.IdentityStore = store.NewFileStore(home)

	id := domain.Identity{
		DHPub:   domain.P256Public{1},
		DHPriv:  domain.P256Private{2},
		SigPub:  domain.P256Public{3},
		SigPriv: domain.P256Private{4},
	}

	if err := ids.SaveIdentity(pass, id); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	got, err := ids.LoadIdentity(pass)
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if got.DHPub != id.DHPub || got.SigPub != id.SigPub || got.DHPriv != id.DHPriv {
		t.Fatalf("mismatch after load")
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewFileStore(home)

	id := domain.Identity{DHPub: domain.P256Public{1}, DHPriv: domain.P256Private{2}}

	if err := ids.SaveIdentity("correct", id); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if _, err := ids.LoadIdentity("wrong"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestSignedPrekey_SaveLoad(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())

	priv := domain.P256Private{7}
	pub := domain.P256Public{8}
	sig := []byte{1, 2, 3}

	if err := fs.SaveSignedPrekey("spk-1", priv, pub, sig); err != nil {
		t.Fatalf("save signed prekey: %v", err)
	}
	if err := fs.SetCurrentSignedPrekeyID("spk-1"); err != nil {
		t.Fatalf("set current spk: %v", err)
	}

	gotPriv, gotPub, gotSig, ok, err := fs.LoadSignedPrekey("spk-1")
	if err != nil || !ok {
		t.Fatalf("load signed prekey: ok=%v err=%v", ok, err)
	}
	if gotPriv != priv || gotPub != pub || !bytes.Equal(gotSig, sig) {
		t.Fatal("signed prekey mismatch after load")
	}

	id, ok, err := fs.CurrentSignedPrekeyID()
	if err != nil || !ok || id != "spk-1" {
		t.Fatalf("current spk id: got %q ok=%v err=%v", id, ok, err)
	}
}

func TestOneTimePrekey_ConsumeRemoves(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())

	pairs := []domain.OneTimePair{
		{ID: "opk-1", Priv: domain.P256Private{1}, Pub: domain.P256Public{2}},
		{ID: "opk-2", Priv: domain.P256Private{3}, Pub: domain.P256Public{4}},
	}
	if err := fs.SaveOneTimePrekeys(pairs); err != nil {
		t.Fatalf("save one-time prekeys: %v", err)
	}

	priv, _, ok, err := fs.ConsumeOneTimePrekey("opk-1")
	if err != nil || !ok {
		t.Fatalf("consume: ok=%v err=%v", ok, err)
	}
	if priv != pairs[0].Priv {
		t.Fatal("consumed wrong pair")
	}

	// Second consume of the same ID must miss.
	if _, _, ok, err := fs.ConsumeOneTimePrekey("opk-1"); err != nil || ok {
		t.Fatalf("re-consume: ok=%v err=%v", ok, err)
	}

	rest, err := fs.ListOneTimePrekeyPublics()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "opk-2" {
		t.Fatalf("unexpected remaining prekeys: %+v", rest)
	}
}

func TestSessionAndConversation_RoundTrip(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())

	sess := domain.Session{
		Peer:    "bob",
		RootKey: bytes.Repeat([]byte{9}, 32),
		SPKID:   "spk-1",
	}
	if err := fs.SaveSession("bob", sess); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, ok, err := fs.LoadSession("bob")
	if err != nil || !ok {
		t.Fatalf("load session: ok=%v err=%v", ok, err)
	}
	if got.Peer != "bob" || !bytes.Equal(got.RootKey, sess.RootKey) {
		t.Fatal("session mismatch after load")
	}
	if _, ok, _ := fs.LoadSession("mallory"); ok {
		t.Fatal("unexpected session for unknown peer")
	}

	conv := domain.Conversation{
		Peer: "bob",
		State: domain.RatchetState{
			RootKey: bytes.Repeat([]byte{5}, 32),
			Ns:      3,
			Skipped: map[string][]byte{"k": {1}},
		},
	}
	if err := fs.SaveConversation("bob", conv); err != nil {
		t.Fatalf("save conversation: %v", err)
	}
	gotConv, ok, err := fs.LoadConversation("bob")
	if err != nil || !ok {
		t.Fatalf("load conversation: ok=%v err=%v", ok, err)
	}
	if gotConv.State.Ns != 3 || !bytes.Equal(gotConv.State.RootKey, conv.State.RootKey) {
		t.Fatal("conversation mismatch after load")
	}
}
