package gateway

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/veckert/daybook/internal/api"
	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/store"
	"github.com/veckert/daybook/internal/taskservice"
)

// newServer spins up the real API over an in-memory store so the client is
// exercised against the exact wire format the server speaks.
func newServer(t *testing.T, authToken string) *httptest.Server {
	t.Helper()
	svc := taskservice.NewService(store.NewMemory(), nil)
	srv := httptest.NewServer(api.NewRouter(svc, authToken != "", authToken, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CreateRoundTrip(t *testing.T) {
	srv := newServer(t, "")
	c := New(srv.URL)
	ctx := context.Background()

	due := time.Date(2026, 12, 5, 9, 0, 0, 0, time.UTC)
	created, err := c.Create(ctx, models.Item{
		Title:    "Buy milk",
		ListType: models.ListShopping,
		Quantity: "2 l",
		DueDate:  &due,
		Category: "Dairy & Eggs",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Error("server id missing")
	}
	if created.Category != "" {
		t.Errorf("category %q crossed the wire, must stay client-local", created.Category)
	}
	if created.DueDate == nil || !created.DueDate.Equal(due) {
		t.Errorf("dueDate = %v, want %v", created.DueDate, due)
	}

	got, err := c.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Buy milk" || got.Quantity != "2 l" {
		t.Errorf("round-trip item = %+v", got)
	}
}

func TestClient_ListAllFiltered(t *testing.T) {
	srv := newServer(t, "")
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.Create(ctx, models.Item{Title: "todo", ListType: models.ListTodo}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(ctx, models.Item{Title: "Milk", ListType: models.ListShopping}); err != nil {
		t.Fatal(err)
	}

	all, err := c.ListAll(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	shopping, err := c.ListAll(ctx, models.ListShopping)
	if err != nil {
		t.Fatalf("list shopping: %v", err)
	}
	if len(shopping) != 1 || shopping[0].Title != "Milk" {
		t.Errorf("shopping = %+v", shopping)
	}
}

func TestClient_UpdateAndClearDueDate(t *testing.T) {
	srv := newServer(t, "")
	c := New(srv.URL)
	ctx := context.Background()

	due := time.Date(2026, 12, 5, 9, 0, 0, 0, time.UTC)
	created, err := c.Create(ctx, models.Item{Title: "dated", ListType: models.ListTodo, DueDate: &due})
	if err != nil {
		t.Fatal(err)
	}

	title := "renamed"
	updated, err := c.Update(ctx, created.ID, models.ItemPatch{Title: &title, ClearDueDate: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.DueDate != nil {
		t.Errorf("dueDate = %v, want cleared", updated.DueDate)
	}
}

func TestClient_ToggleAndDelete(t *testing.T) {
	srv := newServer(t, "")
	c := New(srv.URL)
	ctx := context.Background()

	created, err := c.Create(ctx, models.Item{Title: "flip", ListType: models.ListTodo})
	if err != nil {
		t.Fatal(err)
	}

	toggled, err := c.ToggleComplete(ctx, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Error("item not completed")
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.GetByID(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete: %v, want ErrNotFound", err)
	}
	if err := c.Delete(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: %v, want ErrNotFound", err)
	}
}

func TestClient_NotFoundMapsToSentinel(t *testing.T) {
	srv := newServer(t, "")
	c := New(srv.URL)

	if _, err := c.GetByID(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_BearerToken(t *testing.T) {
	srv := newServer(t, "secret")

	unauth := New(srv.URL)
	if _, err := unauth.ListAll(context.Background(), ""); err == nil {
		t.Error("request without token should fail")
	}

	auth := New(srv.URL, WithToken("secret"))
	if _, err := auth.ListAll(context.Background(), ""); err != nil {
		t.Errorf("authorized request failed: %v", err)
	}
}

func TestClient_ValidationErrorSurfaced(t *testing.T) {
	srv := newServer(t, "")
	c := New(srv.URL)

	_, err := c.Create(context.Background(), models.Item{Title: "", ListType: models.ListTodo})
	if err == nil {
		t.Fatal("blank title should be rejected by the server")
	}
}
