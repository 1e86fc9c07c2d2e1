package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inboxatlas/inboxatlas/pkg/category"
	"github.com/inboxatlas/inboxatlas/pkg/observability"
	"github.com/inboxatlas/inboxatlas/pkg/render/dot"
	"github.com/inboxatlas/inboxatlas/pkg/render/mermaid"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// CreateDiagramTool renders the stored category hierarchy as a diagram.
type CreateDiagramTool struct {
	store store.Store
}

// NewCreateDiagramTool creates a CreateDiagramTool backed by the store.
func NewCreateDiagramTool(store store.Store) *CreateDiagramTool {
	return &CreateDiagramTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateDiagramTool) Definition() mcp.Tool {
	return mcp.NewTool("create_mermaid_diagram",
		mcp.WithDescription(
			"Generate a diagram of the email category hierarchy from the triage store. "+
				"Categories are grouped under their parents and labeled with email counts. "+
				"Returns Mermaid source in a fenced code block by default; "+
				"pass format 'dot' for Graphviz DOT source instead.",
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'mermaid' (default) or 'dot'"),
			mcp.Enum("mermaid", "dot"),
		),
	)
}

// Handle processes the create_mermaid_diagram tool call.
func (t *CreateDiagramTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "create_mermaid_diagram")

	format := req.GetString("format", "mermaid")
	if format != "mermaid" && format != "dot" {
		done(nil)
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (must be mermaid or dot)", format)), nil
	}

	records, err := t.store.ListCategories(ctx)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	observability.Triage().OnRenderStart(ctx, format, len(records))
	start := time.Now()

	var out string
	switch format {
	case "dot":
		out = dot.ToDOT(category.BuildForest(records), dot.Options{})
	default:
		out = mermaid.Render(records)
	}

	observability.Triage().OnRenderComplete(ctx, format, time.Since(start), nil)
	done(nil)
	return mcp.NewToolResultText(out), nil
}
