// Package admin wraps the administrator endpoints: listing and approving
// users, listing pitches and moving a pitch to a reviewed status.
//
// Responses are parsed at the boundary into typed envelopes. Pitch owners are
// accepted either as an embedded user object or as a bare id string.
package admin
