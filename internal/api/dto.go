package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/veckert/daybook/internal/models"
)

// CreateTaskRequest is the request body for POST /tasks. Dates cross the
// wire as RFC 3339 strings and are parsed into timestamps on receipt.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	Pinned      bool   `json:"pinned"`
	DueDate     string `json:"dueDate"`
	Quantity    string `json:"quantity"`
	ListType    string `json:"listType"`
}

// Validate implements request validation. An empty title fails here with
// 400 rather than reaching the store.
func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.ListType, validation.Required, validation.In(listTypeValues()...)),
		validation.Field(&r.Priority, validation.In(priorityValues()...)),
		validation.Field(&r.DueDate, validation.Date(time.RFC3339)),
	)
}

// ToDraft converts the request into a domain item draft.
func (r CreateTaskRequest) ToDraft() (models.Item, error) {
	draft := models.Item{
		Title:       r.Title,
		Description: r.Description,
		Priority:    models.Priority(r.Priority),
		Completed:   r.Completed,
		Pinned:      r.Pinned,
		Quantity:    r.Quantity,
		ListType:    models.ListType(r.ListType),
	}
	if r.DueDate != "" {
		due, err := time.Parse(time.RFC3339, r.DueDate)
		if err != nil {
			return models.Item{}, err
		}
		draft.DueDate = &due
	}
	return draft, nil
}

// UpdateTaskRequest is the request body for PUT /tasks/{id}. Absent fields
// leave the stored value untouched; dueDate set to the empty string clears
// an existing due date.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`
	Pinned      *bool   `json:"pinned"`
	DueDate     *string `json:"dueDate"`
	Quantity    *string `json:"quantity"`
	ListType    *string `json:"listType"`
}

// Validate implements request validation for partial updates.
func (r UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Priority, validation.In(priorityValues()...)),
		validation.Field(&r.ListType, validation.In(listTypeValues()...)),
	)
}

// ToPatch converts the request into a domain patch.
func (r UpdateTaskRequest) ToPatch() (models.ItemPatch, error) {
	patch := models.ItemPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Pinned:      r.Pinned,
		Quantity:    r.Quantity,
	}
	if r.Priority != nil {
		p := models.Priority(*r.Priority)
		patch.Priority = &p
	}
	if r.ListType != nil {
		lt := models.ListType(*r.ListType)
		patch.ListType = &lt
	}
	if r.DueDate != nil {
		if *r.DueDate == "" {
			patch.ClearDueDate = true
		} else {
			due, err := time.Parse(time.RFC3339, *r.DueDate)
			if err != nil {
				return models.ItemPatch{}, err
			}
			patch.DueDate = &due
		}
	}
	return patch, nil
}

// TaskListResponse wraps list results with a total for count labels.
type TaskListResponse struct {
	Tasks []models.Item `json:"tasks"`
	Total int           `json:"total"`
}

func listTypeValues() []any {
	out := make([]any, len(models.ListTypes))
	for i, lt := range models.ListTypes {
		out[i] = string(lt)
	}
	return out
}

func priorityValues() []any {
	out := make([]any, len(models.Priorities))
	for i, p := range models.Priorities {
		out[i] = string(p)
	}
	return out
}
