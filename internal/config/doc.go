// Package config loads, normalizes, and validates pitchclerk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PITCHCLERK_API_KEY, optionally sourced from a .env file in the working
// directory. The Config type centralizes every knob the CLI needs, so the
// remote API location, credentials, and local state directory are discovered
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a canonical base URL, and clear validation errors.
package config
