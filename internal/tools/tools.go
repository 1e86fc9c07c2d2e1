// Package tools implements the inboxatlas MCP tool surface. Each tool
// wraps one triage operation over the shared store: maintaining the
// category hierarchy, recording classifications, storing patterns and
// response rules, saving drafts, and rendering diagrams.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inboxatlas/inboxatlas/pkg/observability"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// Tool is the shape every inboxatlas tool exposes for registration.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// All returns every tool wired to the given store, in registration order.
func All(s store.Store) []Tool {
	return []Tool{
		NewCreateDiagramTool(s),
		NewListCategoriesTool(s),
		NewUpsertCategoryTool(s),
		NewClassifyEmailTool(s),
		NewGetPatternsTool(s),
		NewSavePatternTool(s),
		NewGetResponseRulesTool(s),
		NewSaveResponseRuleTool(s),
		NewSaveDraftTool(s),
		NewInboxStatsTool(s),
	}
}

// observe emits the tool start hook and returns the matching completion
// callback. Handlers call the returned func with their terminal error.
func observe(ctx context.Context, name string) func(error) {
	observability.Triage().OnToolStart(ctx, name)
	start := time.Now()
	return func(err error) {
		observability.Triage().OnToolComplete(ctx, name, time.Since(start), err)
	}
}

// jsonResult marshals v as indented JSON for a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
