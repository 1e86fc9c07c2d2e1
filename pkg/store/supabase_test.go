package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/inboxatlas/inboxatlas/pkg/cache"
)

func newSupabaseStore(t *testing.T, handler http.Handler) (*SupabaseStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	s, err := OpenSupabase(SupabaseConfig{
		URL:    srv.URL,
		APIKey: "test-key",
		Token:  "test-token",
		Cache:  fc,
	})
	if err != nil {
		t.Fatalf("OpenSupabase: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, srv
}

func TestSupabaseListCategories(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if !strings.HasPrefix(r.URL.Path, "/rest/v1/email_categories") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("missing apikey header")
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Work", "parent_id": null, "email_count": 45},
			{"id": 2, "name": "Project Alpha", "parent_id": 1, "email_count": 20}
		]`))
	})

	s, _ := newSupabaseStore(t, handler)
	ctx := context.Background()

	records, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Name != "Work" || records[0].EmailCount != 45 {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Parent != "1" {
		t.Errorf("Parent = %v, want \"1\"", records[1].Parent)
	}

	// Second call is served from cache.
	if _, err := s.ListCategories(ctx); err != nil {
		t.Fatalf("cached ListCategories: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("upstream requests = %d, want 1 (second read cached)", got)
	}
}

func TestSupabaseUpsertCategory(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Query().Get("on_conflict") != "name" {
			t.Errorf("on_conflict = %q, want name", r.URL.Query().Get("on_conflict"))
		}
		if prefer := r.Header.Get("Prefer"); !strings.Contains(prefer, "merge-duplicates") {
			t.Errorf("Prefer = %q, want merge-duplicates", prefer)
		}

		var rows []supabaseCategory
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(rows) != 1 || rows[0].Name != "Hockey" {
			t.Errorf("body = %+v", rows)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id": 7, "name": "Hockey", "parent_id": null, "email_count": 0}]`))
	})

	s, _ := newSupabaseStore(t, handler)

	rec, err := s.UpsertCategory(context.Background(), "Hockey", "")
	if err != nil {
		t.Fatalf("UpsertCategory: %v", err)
	}
	if rec.ID != "7" || rec.Name != "Hockey" {
		t.Errorf("rec = %+v", rec)
	}
}

func TestSupabaseUpsertInvalidatesCache(t *testing.T) {
	var listCalls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			listCalls.Add(1)
			_, _ = w.Write([]byte(`[{"id": 1, "name": "Work", "parent_id": null, "email_count": 0}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Work", "parent_id": null, "email_count": 0}]`))
	})

	s, _ := newSupabaseStore(t, handler)
	ctx := context.Background()

	if _, err := s.ListCategories(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertCategory(ctx, "Work", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ListCategories(ctx); err != nil {
		t.Fatal(err)
	}

	if got := listCalls.Load(); got != 2 {
		t.Errorf("list calls = %d, want 2 (cache invalidated by upsert)", got)
	}
}

func TestSupabaseGetCategoryNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	s, _ := newSupabaseStore(t, handler)

	_, err := s.GetCategory(context.Background(), "Missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSupabaseSaveClassificationIncrements(t *testing.T) {
	var patched atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/rest/v1/email_classifications"):
			// No existing classification for this email.
			_, _ = w.Write([]byte(`[]`))
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/rest/v1/email_classifications"):
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/rest/v1/email_categories"):
			_, _ = w.Write([]byte(`[{"id": 3, "name": "Work", "parent_id": null, "email_count": 5}]`))
		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/rest/v1/email_categories"):
			var patch map[string]int
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				t.Fatalf("decode patch: %v", err)
			}
			if patch["email_count"] != 6 {
				t.Errorf("email_count patch = %d, want 6", patch["email_count"])
			}
			patched.Store(true)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	s, _ := newSupabaseStore(t, handler)

	err := s.SaveClassification(context.Background(), Classification{
		EmailID:    "18c2b4",
		Category:   "Work",
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("SaveClassification: %v", err)
	}
	if !patched.Load() {
		t.Error("category count was not incremented")
	}
}

func TestSupabaseCountRows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if prefer := r.Header.Get("Prefer"); prefer != "count=exact" {
			t.Errorf("Prefer = %q, want count=exact", prefer)
		}
		w.Header().Set("Content-Range", "0-24/25")
		w.WriteHeader(http.StatusOK)
	})

	s, _ := newSupabaseStore(t, handler)

	n, err := s.countRows(context.Background(), "email_categories")
	if err != nil {
		t.Fatalf("countRows: %v", err)
	}
	if n != 25 {
		t.Errorf("count = %d, want 25", n)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantErr   error
		retryable bool
	}{
		{name: "ok", code: http.StatusOK, wantErr: nil},
		{name: "created", code: http.StatusCreated, wantErr: nil},
		{name: "no content", code: http.StatusNoContent, wantErr: nil},
		{name: "not found", code: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "conflict", code: http.StatusConflict, wantErr: ErrDuplicate},
		{name: "server error", code: http.StatusInternalServerError, retryable: true},
		{name: "unauthorized", code: http.StatusUnauthorized, wantErr: cache.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if tt.wantErr == nil && !tt.retryable {
				if err != nil {
					t.Errorf("checkStatus(%d) = %v, want nil", tt.code, err)
				}
				return
			}
			if tt.retryable {
				if !cache.IsRetryable(err) {
					t.Errorf("checkStatus(%d) should be retryable, got %v", tt.code, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkStatus(%d) = %v, want %v", tt.code, err, tt.wantErr)
			}
		})
	}
}
