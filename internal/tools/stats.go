package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// InboxStatsTool aggregates counts over the triage store.
type InboxStatsTool struct {
	store store.Store
}

// NewInboxStatsTool creates an InboxStatsTool backed by the store.
func NewInboxStatsTool(store store.Store) *InboxStatsTool {
	return &InboxStatsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *InboxStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("inbox_stats",
		mcp.WithDescription(
			"Report aggregate triage state: category, classification, pattern, "+
				"rule, and draft counts, the total number of classified emails, "+
				"and the maximum depth of the category hierarchy.",
		),
	)
}

// Handle processes the inbox_stats tool call.
func (t *InboxStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "inbox_stats")

	stats, err := t.store.Stats(ctx)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("collecting stats: %w", err)
	}

	done(nil)
	return jsonResult(stats)
}
