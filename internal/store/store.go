// Package store provides the durable item store behind the REST API, with
// interchangeable in-memory and SQLite drivers.
package store

import (
	"context"

	"github.com/veckert/daybook/internal/models"
)

// SearchResult is one full-text search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Store is the persistence contract consumed by the task service and the
// MCP server. The driver is chosen at construction (config), never sniffed
// at runtime.
type Store interface {
	// ListAll returns items, optionally filtered by list type ("" = all),
	// in creation order.
	ListAll(ctx context.Context, listType models.ListType) ([]models.Item, error)
	// GetByID returns the item or apperr.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Item, error)
	// Create assigns id and timestamps and persists the draft.
	Create(ctx context.Context, draft models.Item) (*models.Item, error)
	// Update merges the patch into an existing item, refreshing updatedAt.
	Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error)
	// Delete removes the item or returns apperr.ErrNotFound.
	Delete(ctx context.Context, id string) error
	// ToggleComplete flips the completion flag, refreshing updatedAt.
	ToggleComplete(ctx context.Context, id string) (*models.Item, error)
	// Search matches items by title and description text.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	Close() error
}

// Compile-time driver checks.
var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
)
