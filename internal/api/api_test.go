package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inboxatlas/inboxatlas/pkg/category"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// readStore is a minimal store.Store for handler tests.
type readStore struct {
	categories      []category.Record
	classifications []store.Classification
	stats           store.Stats

	failWith error
}

func (r *readStore) UpsertCategory(context.Context, string, string) (category.Record, error) {
	return category.Record{}, errors.New("read-only")
}

func (r *readStore) ListCategories(context.Context) ([]category.Record, error) {
	return r.categories, r.failWith
}

func (r *readStore) GetCategory(context.Context, string) (category.Record, error) {
	return category.Record{}, store.ErrNotFound
}

func (r *readStore) SaveClassification(context.Context, store.Classification) error {
	return errors.New("read-only")
}

func (r *readStore) ListClassifications(_ context.Context, limit int) ([]store.Classification, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	if limit > 0 && limit < len(r.classifications) {
		return r.classifications[:limit], nil
	}
	return r.classifications, nil
}

func (r *readStore) SavePattern(context.Context, store.Pattern) error { return errors.New("read-only") }

func (r *readStore) GetPatterns(context.Context, string) ([]store.Pattern, error) { return nil, nil }

func (r *readStore) SaveRule(context.Context, store.ResponseRule) error {
	return errors.New("read-only")
}

func (r *readStore) GetRules(context.Context, string) ([]store.ResponseRule, error) {
	return nil, nil
}

func (r *readStore) SaveDraft(context.Context, store.Draft) error { return errors.New("read-only") }

func (r *readStore) Stats(context.Context) (store.Stats, error) { return r.stats, r.failWith }

func (r *readStore) Close() error { return nil }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := NewHandler(&readStore{}).Router()

	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCategories(t *testing.T) {
	h := NewHandler(&readStore{categories: []category.Record{
		{ID: 1, Name: "Work"},
		{ID: 2, Name: "Project Alpha", Parent: 1, EmailCount: 40},
	}}).Router()

	rec := get(t, h, "/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var records []category.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[0].Name != "Work" {
		t.Errorf("records = %+v", records)
	}
}

func TestCategoriesEmptyIsArray(t *testing.T) {
	h := NewHandler(&readStore{}).Router()

	rec := get(t, h, "/categories")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty list should encode as [], got %s", body)
	}
}

func TestCategoriesStoreError(t *testing.T) {
	h := NewHandler(&readStore{failWith: errors.New("connection refused")}).Router()

	rec := get(t, h, "/categories")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStoreErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing record", fmt.Errorf("loading categories: %w", store.ErrNotFound), http.StatusNotFound},
		{"cancelled", fmt.Errorf("querying: %w", context.Canceled), http.StatusGatewayTimeout},
		{"backend failure", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&readStore{failWith: tc.err}).Router()
			rec := get(t, h, "/categories")
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestClassificationsLimit(t *testing.T) {
	h := NewHandler(&readStore{classifications: []store.Classification{
		{EmailID: "email_0001", Category: "Work"},
		{EmailID: "email_0002", Category: "Hockey"},
		{EmailID: "email_0003", Category: "Finance"},
	}}).Router()

	rec := get(t, h, "/classifications?limit=2")
	var records []store.Classification
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}

	rec = get(t, h, "/classifications?limit=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d", rec.Code)
	}
}

func TestDiagramMermaid(t *testing.T) {
	h := NewHandler(&readStore{categories: []category.Record{
		{ID: 1, Name: "Work"},
	}}).Router()

	rec := get(t, h, "/diagram")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "```mermaid") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDiagramDot(t *testing.T) {
	h := NewHandler(&readStore{categories: []category.Record{
		{ID: 1, Name: "Work"},
	}}).Router()

	rec := get(t, h, "/diagram?format=dot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "digraph inbox") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDiagramUnknownFormat(t *testing.T) {
	h := NewHandler(&readStore{}).Router()

	rec := get(t, h, "/diagram?format=png")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	h := NewHandler(&readStore{stats: store.Stats{Categories: 8, Emails: 300}}).Router()

	rec := get(t, h, "/stats")
	var stats store.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Categories != 8 || stats.Emails != 300 {
		t.Errorf("stats = %+v", stats)
	}
}
