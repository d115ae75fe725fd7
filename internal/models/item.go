// Package models defines the domain types for Daybook.
package models

import "time"

// Priority orders items from most to least urgent.
type Priority string

// Priority levels, highest first.
const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// Priorities lists every valid priority in rank order.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityNormal, PriorityLow}

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Rank returns the sort rank of p; lower is more urgent. Unknown priorities
// rank after every known one.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return len(Priorities)
}

// ListType selects which view an item belongs to.
type ListType string

// Known list types.
const (
	ListTodo     ListType = "TODO"
	ListShopping ListType = "SHOPPING"
	ListCalendar ListType = "CALENDAR"
	ListMemory   ListType = "MEMORY"
)

// ListTypes enumerates every valid list type.
var ListTypes = []ListType{ListTodo, ListShopping, ListCalendar, ListMemory}

// Valid reports whether lt is a known list type.
func (lt ListType) Valid() bool {
	for _, known := range ListTypes {
		if lt == known {
			return true
		}
	}
	return false
}

// Item is the unit managed by the collection: a to-do, a shopping entry,
// a calendar-linked task, or a memory note. One shared record type backs
// every view; the views are projections, never copies.
//
// Category is assigned client-side by the classifier and never crosses the
// gateway boundary, hence the "-" JSON tag.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	Pinned      bool       `json:"pinned"`
	Category    string     `json:"-"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Quantity    string     `json:"quantity,omitempty"`
	ListType    ListType   `json:"listType"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ItemPatch carries a partial update. Nil fields are left untouched.
// ClearDueDate removes an existing due date; it wins over DueDate.
type ItemPatch struct {
	Title        *string
	Description  *string
	Priority     *Priority
	Completed    *bool
	Pinned       *bool
	DueDate      *time.Time
	ClearDueDate bool
	Quantity     *string
	ListType     *ListType
}

// Apply merges the patch into it. Timestamps are the caller's concern.
func (p ItemPatch) Apply(it *Item) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Priority != nil {
		it.Priority = *p.Priority
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	if p.Pinned != nil {
		it.Pinned = *p.Pinned
	}
	switch {
	case p.ClearDueDate:
		it.DueDate = nil
	case p.DueDate != nil:
		due := *p.DueDate
		it.DueDate = &due
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.ListType != nil {
		it.ListType = *p.ListType
	}
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Completed == nil && p.Pinned == nil && p.DueDate == nil &&
		!p.ClearDueDate && p.Quantity == nil && p.ListType == nil
}
