package taskservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/store"
	"github.com/veckert/daybook/internal/taskservice"
	"github.com/veckert/daybook/internal/testutil"
)

func TestCreate_RejectsBlankTitleBeforeStore(t *testing.T) {
	svc := testutil.TestService(t)
	for _, title := range []string{"", "   ", "\n"} {
		if _, err := svc.Create(context.Background(), models.Item{Title: title}); !errors.Is(err, apperr.ErrEmptyTitle) {
			t.Errorf("Create(%q) err = %v, want ErrEmptyTitle", title, err)
		}
	}
}

func TestUpdate_RejectsBlankTitle(t *testing.T) {
	svc := testutil.TestService(t)
	created := testutil.MustCreate(t, svc, models.Item{Title: "keep me"})

	blank := "  "
	_, err := svc.Update(context.Background(), created.ID, models.ItemPatch{Title: &blank})
	if !errors.Is(err, apperr.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "keep me" {
		t.Errorf("title = %q, item must be untouched", got.Title)
	}
}

func TestMutations_EmitEvents(t *testing.T) {
	type event struct {
		kind string
		item models.Item
	}
	var events []event
	svc := taskservice.NewService(store.NewMemory(), func(kind string, item models.Item) {
		events = append(events, event{kind, item})
	})
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Item{Title: "watched", DueDate: testutil.DueIn(0)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleComplete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	title := "renamed"
	if _, err := svc.Update(ctx, created.ID, models.ItemPatch{Title: &title}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	wantKinds := []string{"created", "updated", "updated", "deleted"}
	if len(events) != len(wantKinds) {
		t.Fatalf("events = %d, want %d", len(events), len(wantKinds))
	}
	for i, want := range wantKinds {
		if events[i].kind != want {
			t.Errorf("event %d = %q, want %q", i, events[i].kind, want)
		}
	}
	// The delete event carries the full item as it was before removal.
	if events[3].item.Title != "renamed" {
		t.Errorf("deleted event title = %q", events[3].item.Title)
	}
}

func TestService_SQLiteBackend(t *testing.T) {
	svc := taskservice.NewService(testutil.TestSQLite(t), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Item{Title: "durable", ListType: models.ListTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	items, err := svc.List(ctx, models.ListTodo)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Errorf("items = %+v", items)
	}
}
