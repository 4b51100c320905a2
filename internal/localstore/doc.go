// Package localstore is the device-local key/value storage that survives
// process restarts, backed by a single SQLite file.
//
// It plays the part a browser's localStorage plays for a web client: a flat
// namespace of string keys holding string values. The session package stores
// the bearer token and the cached profile snapshot here under fixed keys.
package localstore
