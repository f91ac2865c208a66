package app

import "net/http"

// Curve backend names accepted in Config.CurveBackend.
const (
	BackendPlatform   = "platform"
	BackendArithmetic = "arithmetic"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home         string       // config directory, e.g. $HOME/.tether
	RelayURL     string       // relay base URL, e.g. http://127.0.0.1:8080
	CurveBackend string       // "platform" (default) or "arithmetic"
	HTTP         *http.Client // optional; defaults to http.DefaultClient
}
