// Package services defines shared utilities consumed by the remote API
// clients and the workflows built on top of them.
//
// Key responsibilities:
//   - Structured error markers (transport, auth, validation, timeout, unknown)
//     and the APIError type that carries the remote status and message.
//   - UserMessage, which turns any of those failures into the text a person
//     should see: the server's own words for validation and auth failures, a
//     generic retry hint for everything else.
//   - Context helpers that stamp request identifiers for logging and the
//     X-Request-ID header.
//
// Use these helpers when adding a new endpoint so error handling stays uniform
// across auth, profile, pitch, and admin calls.
package services
