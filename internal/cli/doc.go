// Package cli provides the interactive lightningpass command-line client.
//
// It wires configuration, the credential store and the account manager into
// a read-eval-print loop. Typical flow: register or login, set or unlock the
// master password, then list, show, add, edit or delete vault pages.
// Passwords are always read without echo.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
