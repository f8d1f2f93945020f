// Package cli provides the interactive taskkeeper command-line client.
//
// The REPL drives two pieces of client state: the session token cache
// (show, set, refresh, logout) and the default reminder offset (show, set,
// disable, apply to a due date). It is started via App.Run(ctx), which blocks
// until the user exits. See runREPL for the command list.
package cli
