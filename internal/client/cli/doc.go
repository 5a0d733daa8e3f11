// Package cli provides the interactive staff console.
//
// The console opens the directory (locally, or over gRPC when a server
// address is configured), asks for a login and PIN, and then runs a small
// REPL. Every employee can list the directory; ADMIN and gerente can also
// add, edit and remove employees.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
