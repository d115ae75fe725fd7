package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/models"
)

// Memory is the in-memory driver. Records live only for the process
// lifetime; everything else behaves like the SQLite driver.
type Memory struct {
	mu    sync.RWMutex
	items []models.Item
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// ListAll implements Store.
func (m *Memory) ListAll(_ context.Context, listType models.ListType) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Item, 0, len(m.items))
	for _, it := range m.items {
		if listType == "" || it.ListType == listType {
			out = append(out, it)
		}
	}
	return out, nil
}

// GetByID implements Store.
func (m *Memory) GetByID(_ context.Context, id string) (*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			found := it
			return &found, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Create implements Store.
func (m *Memory) Create(_ context.Context, draft models.Item) (*models.Item, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, apperr.ErrEmptyTitle
	}
	now := time.Now().UTC()
	it := draft
	it.ID = uuid.NewString()
	it.Title = strings.TrimSpace(draft.Title)
	it.CreatedAt = now
	it.UpdatedAt = now
	if it.Priority == "" {
		it.Priority = models.PriorityNormal
	}
	if it.ListType == "" {
		it.ListType = models.ListTodo
	}

	m.mu.Lock()
	m.items = append(m.items, it)
	m.mu.Unlock()

	created := it
	return &created, nil
}

// Update implements Store.
func (m *Memory) Update(_ context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		patch.Apply(&m.items[i])
		m.items[i].UpdatedAt = bumpAfter(m.items[i].UpdatedAt)
		updated := m.items[i]
		return &updated, nil
	}
	return nil, apperr.ErrNotFound
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// ToggleComplete implements Store.
func (m *Memory) ToggleComplete(_ context.Context, id string) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID != id {
			continue
		}
		m.items[i].Completed = !m.items[i].Completed
		m.items[i].UpdatedAt = bumpAfter(m.items[i].UpdatedAt)
		toggled := m.items[i]
		return &toggled, nil
	}
	return nil, apperr.ErrNotFound
}

// Search implements Store with a case-insensitive substring scan.
func (m *Memory) Search(_ context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SearchResult
	for _, it := range m.items {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Description), q) {
			out = append(out, SearchResult{ID: it.ID, Title: it.Title, Snippet: snippet(it.Description)})
		}
	}
	return out, nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

func snippet(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max]
	}
	return s
}

// bumpAfter returns the current time, advanced past prev when the clock has
// not ticked, so updatedAt strictly increases per mutation.
func bumpAfter(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}
