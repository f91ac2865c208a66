// Command relay is a minimal in-memory store-and-forward server for tether.
//
// It keeps prekey bundles and queued envelopes in memory only; restarting the
// process drops all state. Intended for local development and testing.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"tether/internal/domain"
)

type memoryStore struct {
	mu      sync.RWMutex
	bundles map[string]domain.PrekeyBundle
	queues  map[string][]domain.Envelope
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		bundles: make(map[string]domain.PrekeyBundle),
		queues:  make(map[string][]domain.Envelope),
	}
}

// takeBundle returns the bundle for username with at most one one-time
// prekey, removing the served prekey so it is never handed out twice.
func (ms *memoryStore) takeBundle(username string) (domain.PrekeyBundle, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	b, ok := ms.bundles[username]
	if !ok {
		return domain.PrekeyBundle{}, false
	}
	if len(b.OneTime) > 0 {
		served := b
		served.OneTime = b.OneTime[:1]
		b.OneTime = b.OneTime[1:]
		ms.bundles[username] = b
		return served, true
	}
	return b, true
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	ms := newMemoryStore()

	http.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var b domain.PrekeyBundle
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ms.mu.Lock()
		ms.bundles[b.Username] = b
		ms.mu.Unlock()
		log.Printf("registered bundle for %q (%d one-time prekeys)", b.Username, len(b.OneTime))
		w.WriteHeader(http.StatusOK)
	})

	http.HandleFunc("/prekey/", func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimPrefix(r.URL.Path, "/prekey/")
		b, ok := ms.takeBundle(username)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(b)
	})

	http.HandleFunc("/msg/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/msg/")

		// POST /msg/{user}/ack acknowledges processed envelopes.
		if strings.HasSuffix(rest, "/ack") && r.Method == http.MethodPost {
			username := strings.TrimSuffix(rest, "/ack")
			defer r.Body.Close()
			var body struct {
				Count int `json:"count"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			ms.mu.Lock()
			q := ms.queues[username]
			if body.Count > len(q) {
				body.Count = len(q)
			}
			ms.queues[username] = q[body.Count:]
			ms.mu.Unlock()
			log.Printf("acked %d envelopes for %q", body.Count, username)
			w.WriteHeader(http.StatusOK)
			return
		}

		username := rest
		switch r.Method {
		case http.MethodPost:
			defer r.Body.Close()
			var env domain.Envelope
			if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			ms.mu.Lock()
			ms.queues[username] = append(ms.queues[username], env)
			ms.mu.Unlock()
			log.Printf("queued envelope %s -> %s", env.From, env.To)
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				limit, _ = strconv.Atoi(v)
			}
			ms.mu.RLock()
			q := ms.queues[username]
			if limit > 0 && limit < len(q) {
				q = q[:limit]
			}
			out := append([]domain.Envelope(nil), q...)
			ms.mu.RUnlock()
			_ = json.NewEncoder(w).Encode(out)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	log.Printf("relay listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
