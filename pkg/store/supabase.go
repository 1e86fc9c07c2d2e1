package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/inboxatlas/inboxatlas/pkg/cache"
	"github.com/inboxatlas/inboxatlas/pkg/category"
)

const supabaseTimeout = 10 * time.Second

// categoriesCacheTTL bounds staleness of the category list between
// mutations. Mutations invalidate the entry eagerly; the TTL only
// covers writes made by other clients.
const categoriesCacheTTL = 30 * time.Second

// SupabaseConfig configures the hosted Postgres backend.
type SupabaseConfig struct {
	// URL is the project URL, e.g. "https://abc.supabase.co".
	URL string

	// APIKey is the project API key, sent as the apikey header.
	APIKey string

	// Token is the OAuth bearer token. Falls back to APIKey when empty.
	Token string

	// Cache stores GET responses. Pass nil to disable caching.
	Cache cache.Cache

	// Keyer generates cache keys. Defaults to cache.NewDefaultKeyer().
	Keyer cache.Keyer
}

// SupabaseStore implements Store against the Supabase PostgREST API.
//
// Tables: email_categories, email_classifications, communication_patterns,
// response_rules, generated_drafts.
type SupabaseStore struct {
	base    string
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	headers map[string]string
}

// OpenSupabase creates a Supabase-backed store. No connection is made
// until the first request.
func OpenSupabase(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("store: supabase URL required")
	}

	token := cfg.Token
	if token == "" {
		token = cfg.APIKey
	}

	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	keyer := cfg.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}

	return &SupabaseStore{
		base:  strings.TrimSuffix(cfg.URL, "/") + "/rest/v1",
		http:  &http.Client{Timeout: supabaseTimeout},
		cache: c,
		keyer: keyer,
		headers: map[string]string{
			"apikey":        cfg.APIKey,
			"Authorization": "Bearer " + token,
			"Content-Type":  "application/json",
		},
	}, nil
}

// Close releases the cache; the HTTP client needs no teardown.
func (s *SupabaseStore) Close() error {
	return s.cache.Close()
}

// supabaseCategory is the email_categories row shape.
type supabaseCategory struct {
	ID         int64  `json:"id,omitempty"`
	Name       string `json:"name"`
	ParentID   *int64 `json:"parent_id"`
	EmailCount int    `json:"email_count,omitempty"`
}

func (r supabaseCategory) record() category.Record {
	rec := category.Record{
		ID:         strconv.FormatInt(r.ID, 10),
		Name:       r.Name,
		EmailCount: r.EmailCount,
	}
	if r.ParentID != nil {
		rec.Parent = strconv.FormatInt(*r.ParentID, 10)
	}
	return rec
}

// =============================================================================
// Categories
// =============================================================================

// UpsertCategory creates or re-parents a category via an on_conflict
// upsert. email_count is never written here so a re-parent cannot reset
// the count.
func (s *SupabaseStore) UpsertCategory(ctx context.Context, name, parent string) (category.Record, error) {
	var parentID *int64
	if parent != "" {
		row, err := s.categoryByName(ctx, parent)
		if err != nil {
			return category.Record{}, fmt.Errorf("parent category %q: %w", parent, err)
		}
		parentID = &row.ID
	}

	body := []supabaseCategory{{Name: name, ParentID: parentID}}
	var rows []supabaseCategory
	err := s.write(ctx, http.MethodPost,
		"email_categories?on_conflict=name", body,
		map[string]string{"Prefer": "resolution=merge-duplicates,return=representation"},
		&rows)
	if err != nil {
		return category.Record{}, err
	}
	if len(rows) == 0 {
		return category.Record{}, fmt.Errorf("store: upsert returned no rows")
	}

	s.invalidateCategories(ctx)
	return rows[0].record(), nil
}

// ListCategories returns all categories in insertion order. Responses
// are cached briefly; mutations invalidate the entry.
func (s *SupabaseStore) ListCategories(ctx context.Context) ([]category.Record, error) {
	key := s.keyer.HTTPKey("supabase", "email_categories")

	if data, hit, _ := s.cache.Get(ctx, key); hit {
		var rows []supabaseCategory
		if err := json.Unmarshal(data, &rows); err == nil {
			return toRecords(rows), nil
		}
		_ = s.cache.Delete(ctx, key)
	}

	var rows []supabaseCategory
	if err := s.get(ctx, "email_categories?select=id,name,parent_id,email_count&order=id.asc", &rows); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		_ = s.cache.Set(ctx, key, data, categoriesCacheTTL)
	}
	return toRecords(rows), nil
}

func toRecords(rows []supabaseCategory) []category.Record {
	out := make([]category.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}

// GetCategory returns a category by name.
func (s *SupabaseStore) GetCategory(ctx context.Context, name string) (category.Record, error) {
	row, err := s.categoryByName(ctx, name)
	if err != nil {
		return category.Record{}, fmt.Errorf("category %q: %w", name, err)
	}
	return row.record(), nil
}

func (s *SupabaseStore) categoryByName(ctx context.Context, name string) (supabaseCategory, error) {
	var rows []supabaseCategory
	path := "email_categories?select=id,name,parent_id,email_count&name=eq." + url.QueryEscape(name)
	if err := s.get(ctx, path, &rows); err != nil {
		return supabaseCategory{}, err
	}
	if len(rows) == 0 {
		return supabaseCategory{}, ErrNotFound
	}
	return rows[0], nil
}

func (s *SupabaseStore) invalidateCategories(ctx context.Context) {
	_ = s.cache.Delete(ctx, s.keyer.HTTPKey("supabase", "email_categories"))
}

// =============================================================================
// Classifications
// =============================================================================

// SaveClassification upserts the classification row and increments the
// category count for first-time email ids.
func (s *SupabaseStore) SaveClassification(ctx context.Context, c Classification) error {
	var existing []struct {
		EmailID string `json:"email_id"`
	}
	path := "email_classifications?select=email_id&email_id=eq." + url.QueryEscape(c.EmailID)
	if err := s.get(ctx, path, &existing); err != nil {
		return err
	}

	if c.ClassifiedAt.IsZero() {
		c.ClassifiedAt = time.Now().UTC()
	}

	err := s.write(ctx, http.MethodPost,
		"email_classifications?on_conflict=email_id", []Classification{c},
		map[string]string{"Prefer": "resolution=merge-duplicates"}, nil)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		if err := s.bumpCategoryCount(ctx, c.Category); err != nil {
			return err
		}
	}

	s.invalidateCategories(ctx)
	return nil
}

func (s *SupabaseStore) bumpCategoryCount(ctx context.Context, name string) error {
	row, err := s.categoryByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		// Classification for an uncreated category is allowed; there is
		// simply no count to bump.
		return nil
	}
	if err != nil {
		return err
	}

	patch := map[string]int{"email_count": row.EmailCount + 1}
	return s.write(ctx, http.MethodPatch,
		"email_categories?id=eq."+strconv.FormatInt(row.ID, 10), patch, nil, nil)
}

// ListClassifications returns recent classifications, newest first.
func (s *SupabaseStore) ListClassifications(ctx context.Context, limit int) ([]Classification, error) {
	path := "email_classifications?select=*&order=classified_at.desc"
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}

	var out []Classification
	if err := s.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Patterns, Rules, Drafts
// =============================================================================

// SavePattern upserts a communication pattern.
func (s *SupabaseStore) SavePattern(ctx context.Context, p Pattern) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	p.ID = "" // assigned by the database
	return s.write(ctx, http.MethodPost,
		"communication_patterns?on_conflict=pattern_type,description", []Pattern{p},
		map[string]string{"Prefer": "resolution=merge-duplicates"}, nil)
}

// GetPatterns returns patterns, optionally filtered by type.
func (s *SupabaseStore) GetPatterns(ctx context.Context, patternType string) ([]Pattern, error) {
	path := "communication_patterns?select=*&order=id.asc"
	if patternType != "" {
		path += "&pattern_type=eq." + url.QueryEscape(patternType)
	}

	var out []Pattern
	if err := s.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveRule upserts the response rule for a category.
func (s *SupabaseStore) SaveRule(ctx context.Context, r ResponseRule) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	r.ID = ""
	return s.write(ctx, http.MethodPost,
		"response_rules?on_conflict=category", []ResponseRule{r},
		map[string]string{"Prefer": "resolution=merge-duplicates"}, nil)
}

// GetRules returns response rules, optionally filtered by category.
func (s *SupabaseStore) GetRules(ctx context.Context, categoryName string) ([]ResponseRule, error) {
	path := "response_rules?select=*&order=id.asc"
	if categoryName != "" {
		path += "&category=eq." + url.QueryEscape(categoryName)
	}

	var out []ResponseRule
	if err := s.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveDraft stores a generated draft.
func (s *SupabaseStore) SaveDraft(ctx context.Context, d Draft) error {
	if d.Status == "" {
		d.Status = "pending"
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.ID = ""
	return s.write(ctx, http.MethodPost, "generated_drafts", []Draft{d}, nil, nil)
}

// =============================================================================
// Stats
// =============================================================================

// Stats counts rows per table using PostgREST exact counts, then derives
// email totals and depth from the category list.
func (s *SupabaseStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	counts := []struct {
		table string
		dest  *int
	}{
		{"email_categories", &st.Categories},
		{"email_classifications", &st.Classifications},
		{"communication_patterns", &st.Patterns},
		{"response_rules", &st.Rules},
		{"generated_drafts", &st.Drafts},
	}
	for _, c := range counts {
		n, err := s.countRows(ctx, c.table)
		if err != nil {
			return Stats{}, err
		}
		*c.dest = n
	}

	records, err := s.ListCategories(ctx)
	if err != nil {
		return Stats{}, err
	}
	f := category.BuildForest(records)
	st.Emails = f.TotalEmails()
	st.MaxDepth = f.MaxDepth()
	st.TopCategories = topCategories(records, 5)

	return st, nil
}

// countRows asks PostgREST for an exact count via the Content-Range
// header, fetching no row data.
func (s *SupabaseStore) countRows(ctx context.Context, table string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.base+"/"+table+"?select=id", nil)
	if err != nil {
		return 0, err
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return 0, err
	}

	// Content-Range: "0-24/25" or "*/0" for empty tables.
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("store: missing Content-Range count: %q", cr)
	}
	return strconv.Atoi(cr[idx+1:])
}

// =============================================================================
// HTTP plumbing
// =============================================================================

// get performs a GET with retry and JSON-decodes the response into v.
func (s *SupabaseStore) get(ctx context.Context, path string, v any) error {
	return cache.RetryWithBackoff(ctx, func() error {
		body, err := s.doRequest(ctx, http.MethodGet, path, nil, nil)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(v)
	})
}

// write performs a mutating request. When out is non-nil the response
// body is decoded into it (used with return=representation).
func (s *SupabaseStore) write(ctx context.Context, method, path string, payload any, headers map[string]string, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return cache.RetryWithBackoff(ctx, func() error {
		body, err := s.doRequest(ctx, method, path, data, headers)
		if err != nil {
			return err
		}
		defer body.Close()
		if out == nil {
			_, _ = io.Copy(io.Discard, body)
			return nil
		}
		return json.NewDecoder(body).Decode(out)
	})
}

func (s *SupabaseStore) doRequest(ctx context.Context, method, path string, payload []byte, headers map[string]string) (io.ReadCloser, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+"/"+path, body)
	if err != nil {
		return nil, err
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrDuplicate
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

// Ensure SupabaseStore implements Store.
var _ Store = (*SupabaseStore)(nil)
