package store

import (
	"context"
	"fmt"
	"time"

	"github.com/veckert/daybook/internal/models"
)

// SeedItems is the first-run fixture set: a few to-dos, a grocery list, and
// two memory notes.
func SeedItems() []models.Item {
	due1 := time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)
	due2 := time.Date(2026, time.December, 8, 0, 0, 0, 0, time.UTC)
	return []models.Item{
		{Title: "Contact the teacher about the report", Priority: models.PriorityUrgent, DueDate: &due1, ListType: models.ListTodo},
		{Title: "Call Dad", Priority: models.PriorityMedium, ListType: models.ListTodo},
		{Title: "Buy gift for Grandma's birthday", Description: "Birthday is on August 19th!", Priority: models.PriorityUrgent, DueDate: &due2, ListType: models.ListTodo},
		{Title: "Milk", Quantity: "1 l", ListType: models.ListShopping},
		{Title: "Apples", Quantity: "6", ListType: models.ListShopping},
		{Title: "Bread", ListType: models.ListShopping},
		{Title: "Build a productivity app with voice features", ListType: models.ListMemory},
		{Title: "Remember to appreciate the small moments in life", ListType: models.ListMemory},
	}
}

// Seed inserts the fixture set into an empty store. A store that already
// holds items is left untouched.
func Seed(ctx context.Context, s Store) error {
	existing, err := s.ListAll(ctx, "")
	if err != nil {
		return fmt.Errorf("store: seed precheck: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, it := range SeedItems() {
		if _, err := s.Create(ctx, it); err != nil {
			return fmt.Errorf("store: seed %q: %w", it.Title, err)
		}
	}
	return nil
}
