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

// GetPatternsTool reads stored communication patterns.
type GetPatternsTool struct {
	store store.Store
}

// NewGetPatternsTool creates a GetPatternsTool backed by the store.
func NewGetPatternsTool(store store.Store) *GetPatternsTool {
	return &GetPatternsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *GetPatternsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_patterns",
		mcp.WithDescription(
			"Retrieve stored communication patterns, optionally filtered by "+
				"pattern type (e.g. 'tone', 'formality', 'phrase'). "+
				"Patterns describe how senders in a category usually write.",
		),
		mcp.WithString("type",
			mcp.Description("Pattern type filter; empty returns all patterns"),
		),
	)
}

// Handle processes the get_patterns tool call.
func (t *GetPatternsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "get_patterns")

	patternType := strings.TrimSpace(req.GetString("type", ""))
	patterns, err := t.store.GetPatterns(ctx, patternType)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("getting patterns: %w", err)
	}

	done(nil)
	return jsonResult(patterns)
}

// SavePatternTool stores an observed communication pattern.
type SavePatternTool struct {
	store store.Store
}

// NewSavePatternTool creates a SavePatternTool backed by the store.
func NewSavePatternTool(store store.Store) *SavePatternTool {
	return &SavePatternTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *SavePatternTool) Definition() mcp.Tool {
	return mcp.NewTool("save_pattern",
		mcp.WithDescription(
			"Store a communication pattern observed during inbox analysis, "+
				"e.g. 'hockey teammates write casually and expect quick replies'. "+
				"Patterns feed the response rules used for draft generation.",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Pattern type, e.g. 'tone', 'formality', 'phrase'"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Human-readable description of the pattern"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence in the pattern between 0.0 and 1.0 (default 0.5)"),
		),
	)
}

// Handle processes the save_pattern tool call.
func (t *SavePatternTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "save_pattern")

	patternType := strings.TrimSpace(req.GetString("type", ""))
	description := strings.TrimSpace(req.GetString("description", ""))
	confidence := req.GetFloat("confidence", 0.5)

	if patternType == "" {
		done(nil)
		return mcp.NewToolResultError("'type' is required"), nil
	}
	if description == "" {
		done(nil)
		return mcp.NewToolResultError("'description' is required"), nil
	}
	if err := errs.ValidateConfidence(confidence); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}

	p := store.Pattern{
		ID:          uuid.NewString(),
		Type:        patternType,
		Description: description,
		Confidence:  confidence,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := t.store.SavePattern(ctx, p); err != nil {
		done(err)
		return nil, fmt.Errorf("saving pattern: %w", err)
	}

	done(nil)
	return mcp.NewToolResultText(fmt.Sprintf("Saved %s pattern %s", patternType, p.ID)), nil
}
