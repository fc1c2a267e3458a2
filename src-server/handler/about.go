// This package contains the Discord Interaction handlers that are a single
// command. Commands with subcommands live in their own *_handler package.
//
// There should be 2 functions per handler, one for adding the handler &
// information to send to Discord (public), and one for handling the
// interaction (private).
//
// Temporary handlers (confirmation buttons) go through
// appState.AddComponentHandler and expire on their own.
//
// Only return errors when it's the backend's fault, nil if user's fault.
package handler
