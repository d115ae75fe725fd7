// Package importer ingests JSON item batches, either uploaded through the
// API or dropped into a watched directory.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/taskservice"
)

// BatchItem is one entry of an import batch file. Dates are RFC 3339.
type BatchItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	ListType    string `json:"listType,omitempty"`
}

// DecodeBatch parses a batch document: either a bare JSON array of items or
// an object with an "items" array.
func DecodeBatch(r io.Reader) ([]BatchItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("importer: read batch: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []BatchItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("importer: parse batch: %w", err)
		}
		return items, nil
	}
	var doc struct {
		Items []BatchItem `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("importer: parse batch: %w", err)
	}
	return doc.Items, nil
}

// Apply creates one item per batch entry. Entries with a blank title or an
// unparseable due date are skipped with a warning rather than failing the
// whole batch. It returns the number of items created.
func Apply(ctx context.Context, svc *taskservice.Service, batch []BatchItem, logger *slog.Logger) (int, error) {
	created := 0
	for _, b := range batch {
		if strings.TrimSpace(b.Title) == "" {
			logger.Warn("importer: skipping entry with blank title")
			continue
		}
		draft := models.Item{
			Title:       b.Title,
			Description: b.Description,
			Priority:    models.Priority(b.Priority),
			Completed:   b.Completed,
			Pinned:      b.Pinned,
			Quantity:    b.Quantity,
			ListType:    models.ListType(b.ListType),
		}
		if b.DueDate != "" {
			due, err := time.Parse(time.RFC3339, b.DueDate)
			if err != nil {
				logger.Warn("importer: skipping entry with bad dueDate",
					slog.String("title", b.Title), slog.String("dueDate", b.DueDate))
				continue
			}
			draft.DueDate = &due
		}
		if _, err := svc.Create(ctx, draft); err != nil {
			return created, fmt.Errorf("importer: create %q: %w", b.Title, err)
		}
		created++
	}
	return created, nil
}
