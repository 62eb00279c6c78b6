package service_test

import (
	"context"
	"testing"

	"tsunagari/internal/store"
	"tsunagari/pkg/db"
)

// setupStore opens a fresh in-memory database, named after the test so
// parallel packages don't share state, and runs the migrations.
func setupStore(t *testing.T) *store.Store {
	t.Helper()

	gdb, err := db.OpenGorm(db.Config{DSN: "file:" + t.Name() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Migrate(context.Background(), gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(gdb)
}
