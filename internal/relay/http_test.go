package relay_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tether/internal/domain"
	"tether/internal/relay"
)

func TestRegisterAndFetchPrekey(t *testing.T) {
	var stored domain.PrekeyBundle

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/register":
			if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/prekey/bob":
			_ = json.NewEncoder(w).Encode(stored)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := relay.NewHTTP(srv.URL, srv.Client())

	in := domain.PrekeyBundle{Username: "bob", SPKID: "spk-1"}
	if err := c.Register(in); err != nil {
		t.Fatalf("Register: %v", err)
	}

	out, err := c.FetchPrekey("bob")
	if err != nil {
		t.Fatalf("FetchPrekey: %v", err)
	}
	if out.Username != "bob" || out.SPKID != "spk-1" {
		t.Fatalf("bundle mismatch after round trip: %+v", out)
	}
}

func TestSendFetchAck(t *testing.T) {
	queue := []domain.Envelope{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/msg/bob":
			var env domain.Envelope
			if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			queue = append(queue, env)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/msg/bob":
			_ = json.NewEncoder(w).Encode(queue)
		case r.Method == http.MethodPost && r.URL.Path == "/msg/bob/ack":
			var body struct {
				Count int `json:"count"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if body.Count > len(queue) {
				body.Count = len(queue)
			}
			queue = queue[body.Count:]
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := relay.NewHTTP(srv.URL, srv.Client())

	if err := c.SendMessage(domain.Envelope{From: "alice", To: "bob", Cipher: []byte{1}}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	envs, err := c.FetchMessages("bob", 0)
	if err != nil {
		t.Fatalf("FetchMessages: %v", err)
	}
	if len(envs) != 1 || envs[0].From != "alice" {
		t.Fatalf("unexpected envelopes: %+v", envs)
	}

	if err := c.AckMessages("bob", 1); err != nil {
		t.Fatalf("AckMessages: %v", err)
	}
	envs, err = c.FetchMessages("bob", 0)
	if err != nil {
		t.Fatalf("FetchMessages after ack: %v", err)
	}
	if len(envs) != 0 {
		t.Fatalf("queue not drained after ack: %+v", envs)
	}
}

func TestFetchPrekey_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := relay.NewHTTP(srv.URL, srv.Client())
	if _, err := c.FetchPrekey("nobody"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
