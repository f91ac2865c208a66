package identity_test

import (
	"errors"
	"strings"
	"testing"

	"tether/internal/services/identity"
	"tether/internal/store"
)

const goodPass = "Str0ng-Passphrase!"

func TestGenerateLoadFingerprint(t *testing.T) {
	svc := identity.New(store.NewFileStore(t.TempDir()))

	id, fp, err := svc.Generate(goodPass)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(fp, "z") {
		t.Fatalf("unexpected fingerprint %q", fp)
	}

	loaded, err := svc.Load(goodPass)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.DHPub != id.DHPub || loaded.SigPub != id.SigPub {
		t.Fatal("identity mismatch after load")
	}

	fp2, err := svc.Fingerprint(goodPass)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp2 != fp {
		t.Fatalf("fingerprint changed: %q vs %q", fp, fp2)
	}
}

func TestGenerate_WeakPassphrases(t *testing.T) {
	svc := identity.New(store.NewFileStore(t.TempDir()))

	for _, pass := range []string{
		"",
		"short1!A",
		"alllowercase1!",
		"ALLUPPERCASE1!",
		"NoDigitsHere!!",
		"NoSymbolsHere1",
	} {
		if _, _, err := svc.Generate(pass); !errors.Is(err, identity.ErrWeakPassphrase) {
			t.Fatalf("passphrase %q: got %v, want ErrWeakPassphrase", pass, err)
		}
	}
}
