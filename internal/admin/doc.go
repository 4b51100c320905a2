// Package admin holds the administrator's in-memory views of users and
// pitches.
//
// Each list is fetched once by Load and filtered locally. Mutations patch the
// affected row optimistically, call the API, then re-fetch the whole list.
// When the API call fails the optimistic patch is rolled back. Only one
// mutation per row may be in flight at a time.
package admin
