// Package cli provides the interactive portfolio command-line client.
//
// It wires configuration, the local session database, the API client with
// the session manager registered as its interceptor, and a REPL. Two
// background goroutines run next to the REPL: the session expiry loop and
// the online status watcher.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
