package models

import (
	"testing"
	"time"
)

func TestItemPatch_Apply(t *testing.T) {
	due := time.Date(2026, 12, 5, 9, 0, 0, 0, time.UTC)
	it := Item{Title: "old", Description: "desc", Priority: PriorityNormal, DueDate: &due}

	title := "new"
	done := true
	p := ItemPatch{Title: &title, Completed: &done}
	p.Apply(&it)

	if it.Title != "new" || !it.Completed {
		t.Errorf("patched item = %+v", it)
	}
	if it.Description != "desc" || it.Priority != PriorityNormal {
		t.Error("absent fields must stay untouched")
	}
	if it.DueDate == nil {
		t.Error("dueDate cleared without ClearDueDate")
	}
}

func TestItemPatch_ClearDueDateWins(t *testing.T) {
	due := time.Date(2026, 12, 5, 9, 0, 0, 0, time.UTC)
	other := due.Add(time.Hour)
	it := Item{Title: "x", DueDate: &due}

	p := ItemPatch{DueDate: &other, ClearDueDate: true}
	p.Apply(&it)
	if it.DueDate != nil {
		t.Errorf("dueDate = %v, ClearDueDate must win", it.DueDate)
	}
}

func TestItemPatch_Empty(t *testing.T) {
	if !(ItemPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	s := "x"
	if (ItemPatch{Title: &s}).Empty() {
		t.Error("patch with a field should not be empty")
	}
	if (ItemPatch{ClearDueDate: true}).Empty() {
		t.Error("ClearDueDate alone is still a change")
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityUrgent.Rank() >= PriorityLow.Rank() {
		t.Error("URGENT must rank before LOW")
	}
	if Priority("WHENEVER").Rank() != len(Priorities) {
		t.Error("unknown priority must rank last")
	}
	if Priority("WHENEVER").Valid() || !PriorityMedium.Valid() {
		t.Error("Valid misclassified a priority")
	}
}

func TestListTypeValid(t *testing.T) {
	for _, lt := range ListTypes {
		if !lt.Valid() {
			t.Errorf("%s should be valid", lt)
		}
	}
	if ListType("WISHLIST").Valid() {
		t.Error("unknown list type accepted")
	}
}
