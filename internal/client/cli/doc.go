// Package cli implements the interactive terminal front end of adminctl:
// a REPL with a two-step OTP login flow, user directory commands, and a
// background session watcher.
//
// The command surface is gated on the session store: protected commands
// re-check authentication on every dispatch and bounce the user back to the
// login flow when the session is gone.
package cli
