package store

import (
	"context"
	"testing"
	"time"

	"github.com/inboxatlas/inboxatlas/pkg/observability"
)

type recordingStoreHooks struct {
	observability.NoopStoreHooks
	queries []string
	writes  []string
}

func (h *recordingStoreHooks) OnQuery(_ context.Context, backend, op string, _ time.Duration, _ error) {
	h.queries = append(h.queries, backend+"/"+op)
}

func (h *recordingStoreHooks) OnWrite(_ context.Context, backend, op string, _ time.Duration, _ error) {
	h.writes = append(h.writes, backend+"/"+op)
}

func TestObservedStoreEmitsHooks(t *testing.T) {
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.SetStoreHooks(observability.NoopStoreHooks{})

	ctx := context.Background()
	s := Observed("sqlite", newTestStore(t))

	if _, err := s.UpsertCategory(ctx, "Work", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ListCategories(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Stats(ctx); err != nil {
		t.Fatal(err)
	}

	if len(hooks.writes) != 1 || hooks.writes[0] != "sqlite/upsert_category" {
		t.Errorf("writes = %v, want [sqlite/upsert_category]", hooks.writes)
	}
	want := []string{"sqlite/list_categories", "sqlite/stats"}
	if len(hooks.queries) != len(want) {
		t.Fatalf("queries = %v, want %v", hooks.queries, want)
	}
	for i, q := range want {
		if hooks.queries[i] != q {
			t.Errorf("queries[%d] = %q, want %q", i, hooks.queries[i], q)
		}
	}
}
