package localstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"pitchclerk/internal/localstore"
	"pitchclerk/internal/testsupport"
)

func openStore(t *testing.T, path string) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	value, ok, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected absent key, got %q ok=%v", value, ok)
	}
}

func TestSetOverwritesAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store, err := localstore.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set(ctx, "AUTH_TOKEN_KEY", "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "AUTH_TOKEN_KEY", "second"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openStore(t, path)
	value, ok, err := reopened.Get(ctx, "AUTH_TOKEN_KEY")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || value != "second" {
		t.Fatalf("expected persisted value %q, got %q ok=%v", "second", value, ok)
	}
}

func TestDeleteRemovesAllKeys(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "state.db"))

	for _, key := range []string{"AUTH_TOKEN_KEY", "user", "other"} {
		if err := store.Set(ctx, key, "v"); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}
	if err := store.Delete(ctx, "AUTH_TOKEN_KEY", "user", "never-set"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, key := range []string{"AUTH_TOKEN_KEY", "user"} {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Fatalf("expected %s to be deleted", key)
		}
	}
	if _, ok, _ := store.Get(ctx, "other"); !ok {
		t.Fatal("expected unrelated key to remain")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := localstore.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestOpenRecordsSchemaVersionOnce(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)

	store := testsupport.MustOpenStore(t, cfg)
	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 1 {
		t.Fatalf("schema version = %d, want 1", version)
	}
	if err := store.Set(ctx, "user", "kept"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openStore(t, cfg.SessionDBPath())
	if version, _ := reopened.SchemaVersion(ctx); version != 1 {
		t.Fatalf("schema version after reopen = %d, want 1", version)
	}
	if value, ok, _ := reopened.Get(ctx, "user"); !ok || value != "kept" {
		t.Fatalf("expected value to survive reopen, got %q ok=%v", value, ok)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = localstore.Open(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "newer") {
		t.Fatalf("expected newer schema error, got %v", err)
	}
}
