// Package collection holds the authoritative in-memory item list that every
// view reads from and writes through.
//
// The manager is local-first: mutations always apply to the in-memory
// collection immediately, and when a persistence gateway is attached the
// matching remote call runs in the background. A gateway failure never rolls
// back or blocks a local mutation; it only records a soft advisory for the
// UI to surface.
package collection

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/classify"
	"github.com/veckert/daybook/internal/models"
)

// Gateway is the remote task store consumed by the manager. A nil gateway
// selects the local-only mode.
type Gateway interface {
	ListAll(ctx context.Context, listType models.ListType) ([]models.Item, error)
	Create(ctx context.Context, draft models.Item) (*models.Item, error)
	Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, id string) error
	ToggleComplete(ctx context.Context, id string) (*models.Item, error)
}

// Manager is the single source of truth for items. All methods are safe for
// concurrent use.
type Manager struct {
	mu       sync.Mutex
	items    []models.Item
	advisory string

	gw       Gateway
	inflight sync.WaitGroup

	newID func() string
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithGateway attaches a persistence gateway (networked mode).
func WithGateway(gw Gateway) Option {
	return func(m *Manager) { m.gw = gw }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDFunc overrides the id generator, for tests.
func WithIDFunc(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates an empty manager. Without WithGateway it runs
// local-only.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the collection with the gateway's records. It is a no-op in
// local-only mode.
func (m *Manager) Load(ctx context.Context) error {
	if m.gw == nil {
		return nil
	}
	items, err := m.gw.ListAll(ctx, "")
	if err != nil {
		m.setAdvisory("could not load items from server")
		return err
	}
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	return nil
}

// Seed inserts items verbatim, assigning ids and timestamps where missing.
// Intended for tests and first-run fixtures; the gateway is not called.
func (m *Manager) Seed(items ...models.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		if it.ID == "" {
			it.ID = m.newID()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = m.now()
		}
		if it.UpdatedAt.Before(it.CreatedAt) {
			it.UpdatedAt = it.CreatedAt
		}
		if it.Priority == "" {
			it.Priority = models.PriorityNormal
		}
		if it.ListType == "" {
			it.ListType = models.ListTodo
		}
		m.items = append(m.items, it)
	}
}

// Add creates an item from the draft's fields. A trimmed-empty title is a
// deliberate no-op: ok is false and the collection is unchanged. New items
// go to the end of insertion order; shopping items get a category from the
// classifier.
func (m *Manager) Add(ctx context.Context, draft models.Item) (models.Item, bool) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return models.Item{}, false
	}

	now := m.now()
	it := draft
	it.ID = m.newID()
	it.Title = title
	it.Completed = false
	it.Pinned = false
	it.CreatedAt = now
	it.UpdatedAt = now
	if it.Priority == "" {
		it.Priority = models.PriorityNormal
	}
	if it.ListType == "" {
		it.ListType = models.ListTodo
	}
	if it.ListType == models.ListShopping {
		it.Category = classify.Classify(title)
	}

	m.mu.Lock()
	m.items = append(m.items, it)
	m.mu.Unlock()

	if m.gw != nil {
		localID := it.ID
		draftCopy := it
		m.inflight.Add(1)
		go func() {
			defer m.inflight.Done()
			created, err := m.gw.Create(ctx, draftCopy)
			if err != nil {
				m.setAdvisory("saved locally; server create failed")
				return
			}
			// Adopt the server-assigned record in place. The category is
			// client-local and does not come back over the wire.
			created.Category = draftCopy.Category
			m.mu.Lock()
			for i := range m.items {
				if m.items[i].ID == localID {
					m.items[i] = *created
					break
				}
			}
			m.mu.Unlock()
		}()
	}

	return it, true
}

// Update merges the patch into the matching item and refreshes updatedAt.
// An unknown id is surfaced as apperr.ErrNotFound in both modes; the caller
// treats it as a soft, non-fatal signal.
func (m *Manager) Update(ctx context.Context, id string, patch models.ItemPatch) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return apperr.ErrNotFound
	}
	patch.Apply(&m.items[idx])
	m.touch(&m.items[idx])
	if m.items[idx].ListType == models.ListShopping && patch.Title != nil {
		m.items[idx].Category = classify.Classify(m.items[idx].Title)
	}
	m.mu.Unlock()

	m.remote(func() error {
		_, err := m.gw.Update(ctx, id, patch)
		return err
	}, "saved locally; server update failed")
	return nil
}

// Delete removes the item if present. Deleting an unknown id is a no-op, so
// the operation is idempotent. Removal is atomic across every projection
// because all projections derive from the one collection.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	m.mu.Unlock()

	m.remote(func() error {
		return m.gw.Delete(ctx, id)
	}, "removed locally; server delete failed")
}

// ToggleComplete flips the item's completion flag and refreshes updatedAt.
func (m *Manager) ToggleComplete(ctx context.Context, id string) error {
	m.mu.Lock()
	idx := m.indexOf(id)
	if idx < 0 {
		m.mu.Unlock()
		return apperr.ErrNotFound
	}
	m.items[idx].Completed = !m.items[idx].Completed
	m.touch(&m.items[idx])
	m.mu.Unlock()

	m.remote(func() error {
		_, err := m.gw.ToggleComplete(ctx, id)
		return err
	}, "saved locally; server toggle failed")
	return nil
}

// Get returns the item with the given id.
func (m *Manager) Get(id string) (models.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return models.Item{}, false
	}
	return m.items[idx], true
}

// Items returns the whole collection in insertion order.
func (m *Manager) Items() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyItems(func(models.Item) bool { return true })
}

// ByList returns the items of one list type, in insertion order.
func (m *Manager) ByList(lt models.ListType) []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyItems(func(it models.Item) bool { return it.ListType == lt })
}

// DueItems is the calendar projection: every item carrying a due date,
// regardless of list type, sorted by due date ascending.
func (m *Manager) DueItems() []models.Item {
	m.mu.Lock()
	out := m.copyItems(func(it models.Item) bool { return it.DueDate != nil })
	m.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}

// Memories is the memory-bank projection: pinned items first, then by
// recency (newest createdAt first). This ordering is a contract the memory
// view renders verbatim.
func (m *Manager) Memories() []models.Item {
	m.mu.Lock()
	out := m.copyItems(func(it models.Item) bool { return it.ListType == models.ListMemory })
	m.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Search returns items whose title or description contains the query,
// case-insensitively, in insertion order.
func (m *Manager) Search(query string) []models.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	m.mu.Lock()
	defer m.mu.Unlock()
	if q == "" {
		return m.copyItems(func(models.Item) bool { return true })
	}
	return m.copyItems(func(it models.Item) bool {
		return strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Description), q)
	})
}

// Remaining counts the not-yet-completed items of a list type.
func (m *Manager) Remaining(lt models.ListType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		if it.ListType == lt && !it.Completed {
			n++
		}
	}
	return n
}

// Len returns the collection size.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Advisory returns the current soft-error message, or "".
func (m *Manager) Advisory() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advisory
}

// ClearAdvisory resets the soft-error flag after the UI has shown it.
func (m *Manager) ClearAdvisory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisory = ""
}

// Wait blocks until every in-flight gateway call has finished. Used by
// tests and at shutdown.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// remote runs op in the background when a gateway is attached, converting
// any failure into a soft advisory. apperr.ErrNotFound from the server is
// folded into the same advisory channel; remote state is never allowed to
// block or undo the local mutation.
func (m *Manager) remote(op func() error, advisory string) {
	if m.gw == nil {
		return
	}
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		if err := op(); err != nil {
			m.setAdvisory(advisory)
		}
	}()
}

func (m *Manager) setAdvisory(msg string) {
	m.mu.Lock()
	m.advisory = msg
	m.mu.Unlock()
}

// touch refreshes updatedAt, nudging by a nanosecond when the clock has not
// advanced so that successive mutations always strictly increase it.
func (m *Manager) touch(it *models.Item) {
	now := m.now()
	if !now.After(it.UpdatedAt) {
		now = it.UpdatedAt.Add(time.Nanosecond)
	}
	it.UpdatedAt = now
}

// indexOf must be called with mu held.
func (m *Manager) indexOf(id string) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

// copyItems must be called with mu held.
func (m *Manager) copyItems(keep func(models.Item) bool) []models.Item {
	out := make([]models.Item, 0, len(m.items))
	for _, it := range m.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
