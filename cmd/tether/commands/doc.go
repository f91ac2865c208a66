// Package commands defines the tether CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Create the local identity
//   - fingerprint    Print the identity fingerprint
//   - register       Publish your prekey bundle to a relay
//   - start-session  Establish a secure session with a peer
//   - send           Encrypt and send a message
//   - recv           Fetch and decrypt queued messages
//
// # Implementation
//
// The root command builds a dependency graph (stores, services, relay
// client) before any subcommand runs, so handlers share one app context.
// The --curve-backend flag selects which P-256 backend services every
// key-agreement call for the lifetime of the process.
package commands
