// Package cli provides the interactive handtext command-line client.
//
// It wires configuration, a backend adapter, the session manager, the
// profile store and the recognition pipeline into an interactive REPL.
// Typical flow: register or log in, pick or snap a handwriting image,
// then recognize it.
//
// Key features:
//   - Register / Login / Logout against the configured backend
//   - Show and save the per-user profile document
//   - Pick an image from disk or "snap" one, then recognize it
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
