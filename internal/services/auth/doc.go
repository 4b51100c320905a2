// Package auth wraps the sign-up, sign-in and password-recovery endpoints and
// keeps the session in step with their results.
//
// Login and Register persist the bearer token and a user snapshot, then try to
// refresh the snapshot from the profile endpoint; a failed refresh keeps the
// basic user. Restore reloads a persisted session and re-validates it against
// the server, dropping it when the token is rejected.
package auth
