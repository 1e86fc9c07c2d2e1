package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	errs "github.com/inboxatlas/inboxatlas/pkg/errors"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// GetResponseRulesTool reads stored response drafting rules.
type GetResponseRulesTool struct {
	store store.Store
}

// NewGetResponseRulesTool creates a GetResponseRulesTool backed by the store.
func NewGetResponseRulesTool(store store.Store) *GetResponseRulesTool {
	return &GetResponseRulesTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *GetResponseRulesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_response_rules",
		mcp.WithDescription(
			"Retrieve response drafting rules, optionally filtered by category. "+
				"Each rule records the tone, formality, and target length drafts "+
				"for that category should use.",
		),
		mcp.WithString("category",
			mcp.Description("Category filter; empty returns all rules"),
		),
	)
}

// Handle processes the get_response_rules tool call.
func (t *GetResponseRulesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "get_response_rules")

	categoryName := strings.TrimSpace(req.GetString("category", ""))
	rules, err := t.store.GetRules(ctx, categoryName)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("getting response rules: %w", err)
	}

	done(nil)
	return jsonResult(rules)
}

// SaveResponseRuleTool stores the drafting rule for a category.
type SaveResponseRuleTool struct {
	store store.Store
}

// NewSaveResponseRuleTool creates a SaveResponseRuleTool backed by the store.
func NewSaveResponseRuleTool(store store.Store) *SaveResponseRuleTool {
	return &SaveResponseRuleTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveResponseRuleTool) Definition() mcp.Tool {
	return mcp.NewTool("save_response_rule",
		mcp.WithDescription(
			"Store or update the response drafting rule for a category. "+
				"Drafts generated for emails in that category follow the "+
				"recorded tone, formality, and response length.",
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category the rule applies to"),
		),
		mcp.WithString("tone",
			mcp.Required(),
			mcp.Description("Tone drafts should use, e.g. professional, casual, friendly"),
		),
		mcp.WithString("formality",
			mcp.Required(),
			mcp.Description("Formality level: high, medium, or low"),
			mcp.Enum("high", "medium", "low"),
		),
		mcp.WithString("response_length",
			mcp.Description("Target length: short, medium, or long"),
			mcp.Enum("short", "medium", "long"),
		),
	)
}

// Handle processes the save_response_rule tool call.
func (t *SaveResponseRuleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "save_response_rule")

	categoryName := strings.TrimSpace(req.GetString("category", ""))
	tone := strings.ToLower(strings.TrimSpace(req.GetString("tone", "")))
	formality := strings.ToLower(strings.TrimSpace(req.GetString("formality", "")))

	if err := errs.ValidateCategoryName(categoryName); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tone == "" {
		done(nil)
		return mcp.NewToolResultError("'tone' is required"), nil
	}
	if formality == "" {
		done(nil)
		return mcp.NewToolResultError("'formality' is required"), nil
	}
	if err := errs.ValidateFormality(formality); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := store.ResponseRule{
		ID:             uuid.NewString(),
		Category:       categoryName,
		Tone:           tone,
		Formality:      formality,
		ResponseLength: strings.ToLower(req.GetString("response_length", "")),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := t.store.SaveRule(ctx, r); err != nil {
		done(err)
		return nil, fmt.Errorf("saving response rule for %q: %w", categoryName, err)
	}

	done(nil)
	return mcp.NewToolResultText(fmt.Sprintf("Saved response rule for %q (%s, %s)", categoryName, tone, formality)), nil
}
