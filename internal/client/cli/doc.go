// Package cli provides the interactive gophtodo command-line client.
//
// It wires configuration, the local SQLite store and the application
// services, then runs a REPL over stdin. Typical flow: seed the demo account
// on first start, send the user to register or login, and execute task
// commands until "exit".
//
// Key features:
//   - Register / Login / Logout with a persisted session
//   - Add, edit, delete and move tasks between statuses
//   - List with search, priority filter and sorting; status board
//   - Toast notifications printed as they appear
//   - Encrypted export / import and a full data reset
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
