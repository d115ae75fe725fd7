// Package testutil provides shared test helpers for setting up item stores.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/store"
	"github.com/veckert/daybook/internal/taskservice"
)

// TestSQLite creates a temporary SQLite store that is automatically cleaned up.
func TestSQLite(t *testing.T) *store.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "daybook-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := store.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestService creates a task service over an in-memory store.
func TestService(t *testing.T) *taskservice.Service {
	t.Helper()
	return taskservice.NewService(store.NewMemory(), nil)
}

// MustCreate inserts an item and fails the test on error.
func MustCreate(t *testing.T, svc *taskservice.Service, draft models.Item) models.Item {
	t.Helper()
	created, err := svc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create %q: %v", draft.Title, err)
	}
	return *created
}

// DueIn returns a pointer to a due date the given duration from now.
func DueIn(d time.Duration) *time.Time {
	due := time.Now().Add(d).UTC()
	return &due
}
