// Package main hosts the pitchclerk CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls against the
// pitch platform API: account sign-up and sign-in, pitch submission through
// the step-by-step wizard or a TOML draft, and the admin review screens. It
// resolves configuration, opens the device-local session store and builds the
// API gateway so subcommands only deal with presentation.
//
// Behaviour belongs in the internal packages; commands here should stay thin.
package main
