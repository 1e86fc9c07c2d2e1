package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	errs "github.com/inboxatlas/inboxatlas/pkg/errors"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// ClassifyEmailTool records a classification outcome for one email.
type ClassifyEmailTool struct {
	store store.Store
}

// NewClassifyEmailTool creates a ClassifyEmailTool backed by the store.
func NewClassifyEmailTool(store store.Store) *ClassifyEmailTool {
	return &ClassifyEmailTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ClassifyEmailTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_email",
		mcp.WithDescription(
			"Record the triage outcome for an email: which category it belongs to "+
				"and how confident the classification is. The matching category's "+
				"email count is incremented; re-classifying the same email id "+
				"replaces the earlier record without a second increment.",
		),
		mcp.WithString("email_id",
			mcp.Required(),
			mcp.Description("Stable identifier for the email, e.g. the Gmail message id"),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category name; hierarchical form 'Work > Project Alpha' is accepted"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Classification confidence between 0.0 and 1.0 (default 0.5)"),
		),
		mcp.WithString("from",
			mcp.Description("Sender address, kept for pattern analysis"),
		),
		mcp.WithString("subject",
			mcp.Description("Email subject line"),
		),
		mcp.WithString("tone",
			mcp.Description("Observed tone of the email, e.g. formal, casual, urgent"),
		),
		mcp.WithBoolean("requires_response",
			mcp.Description("Whether this email needs a reply (default false)"),
		),
	)
}

// Handle processes the classify_email tool call.
func (t *ClassifyEmailTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done := observe(ctx, "classify_email")

	emailID := strings.TrimSpace(req.GetString("email_id", ""))
	categoryName := strings.TrimSpace(req.GetString("category", ""))
	confidence := req.GetFloat("confidence", 0.5)

	if err := errs.ValidateEmailID(emailID); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := errs.ValidateCategoryName(categoryName); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := errs.ValidateConfidence(confidence); err != nil {
		done(nil)
		return mcp.NewToolResultError(err.Error()), nil
	}

	c := store.Classification{
		EmailID:          emailID,
		From:             req.GetString("from", ""),
		Subject:          req.GetString("subject", ""),
		Category:         categoryName,
		Confidence:       confidence,
		Tone:             strings.ToLower(req.GetString("tone", "")),
		RequiresResponse: req.GetBool("requires_response", false),
		ClassifiedAt:     time.Now().UTC(),
	}
	if err := t.store.SaveClassification(ctx, c); err != nil {
		done(err)
		return nil, fmt.Errorf("saving classification for %s: %w", emailID, err)
	}

	msg := fmt.Sprintf("Classified %s into %q (confidence %.2f)", emailID, categoryName, confidence)
	if confidence < 0.6 {
		msg += " - low confidence, flag for user review"
	}

	done(nil)
	return mcp.NewToolResultText(msg), nil
}
