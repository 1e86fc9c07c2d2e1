// Package store persists triage state: the category hierarchy, email
// classifications, observed communication patterns, response rules, and
// generated drafts.
//
// Three backends implement the [Store] interface:
//   - [SQLiteStore]: local single-user storage for CLI and stdio MCP use
//   - [SupabaseStore]: hosted Postgres via the PostgREST API
//   - [MongoStore]: document storage for self-hosted deployments
//
// All backends share the same semantics: categories are unique by name,
// saving a classification increments the matching category's email count,
// and reads return records in insertion order so diagram rendering stays
// deterministic.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// =============================================================================
// Records
// =============================================================================

// Classification records the triage outcome for one email.
type Classification struct {
	EmailID          string    `json:"email_id" bson:"email_id"`
	From             string    `json:"from_address,omitempty" bson:"from_address,omitempty"`
	Subject          string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Category         string    `json:"category" bson:"category"`
	Confidence       float64   `json:"confidence" bson:"confidence"`
	Tone             string    `json:"tone,omitempty" bson:"tone,omitempty"`
	RequiresResponse bool      `json:"requires_response" bson:"requires_response"`
	ClassifiedAt     time.Time `json:"classified_at" bson:"classified_at"`
}

// Pattern is an observed communication pattern for a sender or category,
// e.g. "hockey teammates write casually and expect quick replies".
type Pattern struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string    `json:"pattern_type" bson:"pattern_type"`
	Description string    `json:"description" bson:"description"`
	Confidence  float64   `json:"confidence" bson:"confidence"`
	Examples    []string  `json:"examples,omitempty" bson:"examples,omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// ResponseRule describes how drafts for a category should be written.
type ResponseRule struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty"`
	Category       string    `json:"category" bson:"category"`
	Tone           string    `json:"tone" bson:"tone"`
	Formality      string    `json:"formality" bson:"formality"`
	ResponseLength string    `json:"response_length,omitempty" bson:"response_length,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// Draft is a generated reply awaiting user review. Drafts are never sent
// by this system; Status tracks the review lifecycle.
type Draft struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	EmailID   string    `json:"email_id" bson:"email_id"`
	Subject   string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Body      string    `json:"body" bson:"body"`
	Status    string    `json:"status" bson:"status"` // "pending", "approved", "discarded"
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CategoryVolume is one entry in the per-category email ranking.
type CategoryVolume struct {
	Name   string `json:"name"`
	Emails int    `json:"emails"`
}

// Stats aggregates inbox state for the stats tool and the HTTP API.
type Stats struct {
	Categories      int              `json:"categories"`
	Emails          int              `json:"emails"`
	Classifications int              `json:"classifications"`
	Patterns        int              `json:"patterns"`
	Rules           int              `json:"rules"`
	Drafts          int              `json:"drafts"`
	MaxDepth        int              `json:"max_depth"`
	TopCategories   []CategoryVolume `json:"top_categories,omitempty"`
}

// topCategories ranks categories by their own email count, descending,
// breaking ties by name. Categories with zero emails are skipped.
func topCategories(records []category.Record, n int) []CategoryVolume {
	var ranked []CategoryVolume
	for _, r := range records {
		if count := category.CoerceCount(r.EmailCount); count > 0 {
			ranked = append(ranked, CategoryVolume{Name: r.Name, Emails: count})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Emails != ranked[j].Emails {
			return ranked[i].Emails > ranked[j].Emails
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// =============================================================================
// Store Interface
// =============================================================================

// Store is the persistence interface shared by all backends.
type Store interface {
	// UpsertCategory creates a category or updates its parent if it
	// already exists. The parent is referenced by name; an empty parent
	// means a root category. Returns the stored record.
	UpsertCategory(ctx context.Context, name, parent string) (category.Record, error)

	// ListCategories returns all categories in insertion order.
	ListCategories(ctx context.Context) ([]category.Record, error)

	// GetCategory returns a category by name.
	// Returns ErrNotFound if no such category exists.
	GetCategory(ctx context.Context, name string) (category.Record, error)

	// SaveClassification records a triage outcome. If the classification
	// names an existing category, that category's email count is
	// incremented. A repeated email id replaces the earlier record
	// without a second increment.
	SaveClassification(ctx context.Context, c Classification) error

	// ListClassifications returns the most recent classifications,
	// newest first. A limit of zero returns all.
	ListClassifications(ctx context.Context, limit int) ([]Classification, error)

	// SavePattern stores or updates a communication pattern.
	SavePattern(ctx context.Context, p Pattern) error

	// GetPatterns returns patterns, optionally filtered by type.
	// An empty type returns all patterns.
	GetPatterns(ctx context.Context, patternType string) ([]Pattern, error)

	// SaveRule stores or updates the response rule for a category.
	SaveRule(ctx context.Context, r ResponseRule) error

	// GetRules returns response rules, optionally filtered by category.
	// An empty category returns all rules.
	GetRules(ctx context.Context, categoryName string) ([]ResponseRule, error)

	// SaveDraft stores a generated draft with status "pending".
	SaveDraft(ctx context.Context, d Draft) error

	// Stats returns aggregate counts across all record kinds.
	Stats(ctx context.Context) (Stats, error)

	// Close releases backend resources.
	Close() error
}
