// Package gateway is the REST client for the Daybook task server, used by
// the collection manager in its networked mode.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veckert/daybook/internal/apperr"
	"github.com/veckert/daybook/internal/collection"
	"github.com/veckert/daybook/internal/models"
)

// Client talks to a Daybook server. Item records cross the wire as flat
// JSON with RFC 3339 dates; encoding/json parses them straight back into
// timestamps on receipt.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ collection.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithToken sets the Bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAll fetches items, optionally filtered by list type.
func (c *Client) ListAll(ctx context.Context, listType models.ListType) ([]models.Item, error) {
	path := "/tasks"
	if listType != "" {
		path += "?listType=" + url.QueryEscape(string(listType))
	}
	var resp struct {
		Tasks []models.Item `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetByID fetches a single item.
func (c *Client) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create sends a new item; the server assigns id and timestamps.
func (c *Client) Create(ctx context.Context, draft models.Item) (*models.Item, error) {
	body := createBody(draft)
	var item models.Item
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update sends a partial update.
func (c *Client) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	body := patchBody(patch)
	var item models.Item
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an item on the server.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// ToggleComplete flips an item's completion flag on the server.
func (c *Client) ToggleComplete(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// do performs one request/response cycle. 404 maps to apperr.ErrNotFound;
// other non-2xx statuses surface the server's error message.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("gateway: %s %s: %s", method, path, e.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

// createBody mirrors the server's CreateTaskRequest.
func createBody(draft models.Item) map[string]any {
	body := map[string]any{
		"title":    draft.Title,
		"listType": string(draft.ListType),
	}
	if draft.Description != "" {
		body["description"] = draft.Description
	}
	if draft.Priority != "" {
		body["priority"] = string(draft.Priority)
	}
	if draft.Quantity != "" {
		body["quantity"] = draft.Quantity
	}
	if draft.Pinned {
		body["pinned"] = true
	}
	if draft.DueDate != nil {
		body["dueDate"] = draft.DueDate.Format(time.RFC3339)
	}
	return body
}

// patchBody mirrors the server's UpdateTaskRequest: only fields present in
// the patch appear in the JSON body.
func patchBody(patch models.ItemPatch) map[string]any {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Priority != nil {
		body["priority"] = string(*patch.Priority)
	}
	if patch.Completed != nil {
		body["completed"] = *patch.Completed
	}
	if patch.Pinned != nil {
		body["pinned"] = *patch.Pinned
	}
	if patch.Quantity != nil {
		body["quantity"] = *patch.Quantity
	}
	if patch.ListType != nil {
		body["listType"] = string(*patch.ListType)
	}
	switch {
	case patch.ClearDueDate:
		body["dueDate"] = ""
	case patch.DueDate != nil:
		body["dueDate"] = patch.DueDate.Format(time.RFC3339)
	}
	return body
}
