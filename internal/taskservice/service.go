// Package taskservice coordinates store operations for the API, importer,
// and MCP layers, and fans change events out to the SSE broker.
package taskservice

import (
	"context"
	"strings"

	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/store"
)

// EventFunc is notified after each successful mutation. kind is one of
// "created", "updated", "deleted".
type EventFunc func(kind string, item models.Item)

// Service is the domain service over the item store.
type Service struct {
	store store.Store
	emit  EventFunc
}

// NewService creates a task service. emit may be nil.
func NewService(st store.Store, emit EventFunc) *Service {
	if st == nil {
		panic("taskservice: nil store")
	}
	if emit == nil {
		emit = func(string, models.Item) {}
	}
	return &Service{store: st, emit: emit}
}

// List returns items, optionally filtered by list type.
func (s *Service) List(ctx context.Context, listType models.ListType) ([]models.Item, error) {
	return s.store.ListAll(ctx, listType)
}

// Get returns a single item by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Item, error) {
	return s.store.GetByID(ctx, id)
}

// Create persists a new item. A blank title is rejected with
// apperr.ErrEmptyTitle before the store is touched.
func (s *Service) Create(ctx context.Context, draft models.Item) (*models.Item, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, apperr.ErrEmptyTitle
	}
	created, err := s.store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.emit("created", *created)
	return created, nil
}

// Update applies a partial update to an existing item.
func (s *Service) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperr.ErrEmptyTitle
	}
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.emit("updated", *updated)
	return updated, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	it, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.emit("deleted", *it)
	return nil
}

// ToggleComplete flips an item's completion flag.
func (s *Service) ToggleComplete(ctx context.Context, id string) (*models.Item, error) {
	toggled, err := s.store.ToggleComplete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit("updated", *toggled)
	return toggled, nil
}

// Search delegates full-text search to the store.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	return s.store.Search(ctx, query, limit)
}
