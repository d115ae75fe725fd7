// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Daybook item tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/taskservice"
)

// Server wraps the MCP server with Daybook tools.
type Server struct {
	mcp *server.MCPServer
	svc *taskservice.Service
}

// New creates an MCP server with all Daybook tools registered.
func New(svc *taskservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Daybook",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List items, optionally restricted to one list (TODO, SHOPPING, CALENDAR, MEMORY)."),
		mcp.WithString("list", mcp.Description("Optional list type filter")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("add_item",
		mcp.WithDescription("Add an item to a list. Titles must be non-empty; "+
			"the server assigns the id and timestamps. Read the item contract "+
			"first via the daybook://item-format resource if unsure about fields."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
		mcp.WithString("list", mcp.Description("Target list (default TODO)")),
		mcp.WithString("priority", mcp.Description("URGENT, HIGH, MEDIUM, NORMAL or LOW")),
		mcp.WithString("due_date", mcp.Description("Optional RFC 3339 due date")),
		mcp.WithString("quantity", mcp.Description("Optional quantity annotation (shopping)")),
	), s.addItem)

	s.mcp.AddTool(mcp.NewTool("complete_item",
		mcp.WithDescription("Toggle an item's completion flag."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.completeItem)

	s.mcp.AddTool(mcp.NewTool("delete_item",
		mcp.WithDescription("Delete an item permanently."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.deleteItem)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Full-text search through item titles and descriptions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchItems)

	// Resource: batch/item format contract.
	s.mcp.AddResource(
		mcp.NewResource("daybook://item-format", "Item Format Contract",
			mcp.WithResourceDescription("Canonical JSON shape of a Daybook item and import batch."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readItemFormatResource,
	)

	return s
}

// ServeStdio runs the MCP server over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := models.ListType(strings.ToUpper(req.GetString("list", "")))
	if list != "" && !list.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown list %q", list)), nil
	}
	items, err := s.svc.List(ctx, list)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft := models.Item{
		Title:    title,
		Priority: models.Priority(strings.ToUpper(req.GetString("priority", ""))),
		ListType: models.ListType(strings.ToUpper(req.GetString("list", string(models.ListTodo)))),
		Quantity: req.GetString("quantity", ""),
	}
	if !draft.ListType.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown list %q", draft.ListType)), nil
	}
	if draft.Priority != "" && !draft.Priority.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown priority %q", draft.Priority)), nil
	}
	if raw := req.GetString("due_date", ""); raw != "" {
		due, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError("due_date must be RFC 3339"), nil
		}
		draft.DueDate = &due
	}

	item, err := s.svc.Create(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s (%s) in %s", item.Title, item.ID, item.ListType)), nil
}

func (s *Server) completeItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := s.svc.ToggleComplete(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := "open"
	if item.Completed {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s", item.Title, state)), nil
}

func (s *Server) deleteItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("deleted " + id), nil
}

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", r.Title, r.ID, r.Snippet)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) readItemFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "daybook://item-format",
			MIMEType: "text/markdown",
			Text:     ItemFormatContract,
		},
	}, nil
}
