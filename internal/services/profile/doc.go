// Package profile fetches the signed-in account's profile and folds it into
// the cached session user.
package profile
