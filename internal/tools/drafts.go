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

// SaveDraftTool stores a generated reply for user review.
type SaveDraftTool struct {
	store store.Store
}

// NewSaveDraftTool creates a SaveDraftTool backed by the store.
func NewSaveDraftTool(store store.Store) *SaveDraftTool {
	return &SaveDraftTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveDraftTool) Definition() mcp.Tool {
	return mcp.NewTool("save_draft",
		mcp.WithDescription(
			"Store a generated draft response for user review. Drafts start "+
				"in status 'pending' and are never sent automatically; the user "+
				"approves or discards them later.",
		),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("Identifier of the email this draft replies to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Full text of the draft response"),
		),
		mcp.WithString("subject",
			mcp.Description("Subject line for the reply"),
		),
	)
}

// Handle processes the save_draft tool call.
func (t *SaveDraftTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "save_draft")

	emailID := strings.TrimSpace(req.GetString("email_id", ""))
	body := req.GetString("body", "")

	if err := errs.ValidateEmailID(emailID); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(body) == "" {
		done(nil)
		return mcp.NewToolResultError("'body' is required"), nil
	}

	d := store.Draft{
		ID:        uuid.NewString(),
		EmailID:   emailID,
		Subject:   req.GetString("subject", ""),
		Body:      body,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}
	if err := t.store.SaveDraft(ctx, d); err != nil {
		done(err)
		return nil, fmt.Errorf("saving draft for %s: %w", emailID, err)
	}

	done(nil)
	return mcp.NewToolResultText(fmt.Sprintf("Saved draft %s for email %s (pending review)", d.ID, emailID)), nil
}
