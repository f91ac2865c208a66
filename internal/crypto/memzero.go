package crypto

import "tether/internal/util/memzero"

// Wipe zeroes the provided buffer. Best-effort: it reduces the lifetime of
// key material in memory but cannot reach copies the runtime already made.
func Wipe(b []byte) { memzero.Zero(b) }
