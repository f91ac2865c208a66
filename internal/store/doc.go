// Package store provides file-based persistence for tether's core data.
//
// It contains a concrete implementation of the domain storage interfaces,
// serialising data as JSON on disk. The identity file is encrypted with a
// key derived from the user's passphrase; everything else holds public or
// per-conversation state in plain 0600 JSON files. All methods are
// concurrency-safe via internal locking. Stored files live under the user's
// configured home directory.
package store
