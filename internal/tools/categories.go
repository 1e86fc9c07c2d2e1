package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	errs "github.com/inboxatlas/inboxatlas/pkg/errors"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// ListCategoriesTool returns the stored category hierarchy as records.
type ListCategoriesTool struct {
	store store.Store
}

// NewListCategoriesTool creates a ListCategoriesTool backed by the store.
func NewListCategoriesTool(store store.Store) *ListCategoriesTool {
	return &ListCategoriesTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListCategoriesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription(
			"List all email categories in the triage store, in insertion order. "+
				"Each record carries the category name, its parent (empty for roots), "+
				"and the number of emails classified into it.",
		),
	)
}

// Handle processes the list_categories tool call.
func (t *ListCategoriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "list_categories")

	records, err := t.store.ListCategories(ctx)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	done(nil)
	return jsonResult(records)
}

// UpsertCategoryTool creates or reparents a category.
type UpsertCategoryTool struct {
	store store.Store
}

// NewUpsertCategoryTool creates an UpsertCategoryTool backed by the store.
func NewUpsertCategoryTool(store store.Store) *UpsertCategoryTool {
	return &UpsertCategoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *UpsertCategoryTool) Definition() mcp.Tool {
	return mcp.NewTool("upsert_category",
		mcp.WithDescription(
			"Create an email category or update its parent if it already exists. "+
				"Categories are unique by name. Omit 'parent' for a root category; "+
				"a named parent is created implicitly when it does not exist yet.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Category name, e.g. 'Work' or 'Project Alpha'"),
		),
		mcp.WithString("parent",
			mcp.Description("Parent category name; empty makes this a root category"),
		),
	)
}

// Handle processes the upsert_category tool call.
func (t *UpsertCategoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "upsert_category")

	name := strings.TrimSpace(req.GetString("name", ""))
	parent := strings.TrimSpace(req.GetString("parent", ""))
	if err := errs.ValidateCategoryName(name); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if name == parent {
		done(nil)
		return mcp.NewToolResultError("a category cannot be its own parent"), nil
	}

	rec, err := t.store.UpsertCategory(ctx, name, parent)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("upserting category %q: %w", name, err)
	}

	done(nil)
	return jsonResult(rec)
}
