// Package session holds the authenticated identity of the person using the
// CLI: a bearer token and a cached profile snapshot.
//
// Both values are persisted through a Storage (normally the localstore SQLite
// file) under the fixed keys AUTH_TOKEN_KEY and user, survive restarts, and
// are always cleared together. A Session is passed explicitly to the gateway
// and services; there is no package-level session.
package session
