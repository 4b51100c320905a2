package testsupport

import (
	"context"
	"testing"

	"pitchclerk/internal/config"
	"pitchclerk/internal/localstore"
)

// MustOpenStore opens the session database for cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *localstore.Store {
	t.Helper()

	store, err := localstore.Open(context.Background(), cfg.SessionDBPath())
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
