// Package apperr defines the sentinel errors shared across Daybook layers.
package apperr

import "errors"

var (
	// ErrNotFound is returned when an item id does not resolve to a record.
	ErrNotFound = errors.New("not found")
	// ErrEmptyTitle is returned when a create carries a blank or
	// whitespace-only title.
	ErrEmptyTitle = errors.New("empty title")
)
