package app

import (
	"fmt"
	"net/http"

	"tether/internal/crypto"
	"tether/internal/domain"
	"tether/internal/relay"
	identitysvc "tether/internal/services/identity"
	messagesvc "tether/internal/services/message"
	prekeysvc "tether/internal/services/prekey"
	sessionsvc "tether/internal/services/session"
	"tether/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identity domain.IdentityService
	Prekey   domain.PrekeyService
	Sessions domain.SessionService
	Messages domain.MessageService
	Relay    domain.RelayClient
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg. The curve backend is
// selected here, once, before any service can issue a crypto call.
func NewWire(cfg Config) (*Wire, error) {
	switch cfg.CurveBackend {
	case "", BackendPlatform:
		crypto.Use(crypto.Platform())
	case BackendArithmetic:
		crypto.Use(crypto.Arithmetic())
	default:
		return nil, fmt.Errorf("unknown curve backend %q", cfg.CurveBackend)
	}

	fs := store.NewFileStore(cfg.Home)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var rc domain.RelayClient
	if cfg.RelayURL != "" {
		rc = relay.NewHTTP(cfg.RelayURL, httpClient)
	}

	identitySvc := identitysvc.New(fs)
	prekeySvc := prekeysvc.New(fs, fs, fs)
	sessionSvc := sessionsvc.New(fs, fs, rc)
	messageSvc := messagesvc.New(fs, fs, fs, sessionSvc, rc)

	return &Wire{
		Identity: identitySvc,
		Prekey:   prekeySvc,
		Sessions: sessionSvc,
		Messages: messageSvc,
		Relay:    rc,
		HTTP:     httpClient,
	}, nil
}
