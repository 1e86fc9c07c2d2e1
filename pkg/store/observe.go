package store

import (
	"context"
	"time"

	"github.com/inboxatlas/inboxatlas/pkg/category"
	"github.com/inboxatlas/inboxatlas/pkg/observability"
)

// Observed wraps a store so every operation reports to the registered
// store hooks: reads as queries, mutations as writes. The backend name
// tags each event so mixed deployments can tell backends apart.
func Observed(backend string, s Store) Store {
	return &observedStore{backend: backend, inner: s}
}

type observedStore struct {
	backend string
	inner   Store
}

func (o *observedStore) query(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnQuery(ctx, o.backend, op, time.Since(start), err)
}

func (o *observedStore) write(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnWrite(ctx, o.backend, op, time.Since(start), err)
}

func (o *observedStore) UpsertCategory(ctx context.Context, name, parent string) (category.Record, error) {
	start := time.Now()
	rec, err := o.inner.UpsertCategory(ctx, name, parent)
	o.write(ctx, "upsert_category", start, err)
	return rec, err
}

func (o *observedStore) ListCategories(ctx context.Context) ([]category.Record, error) {
	start := time.Now()
	records, err := o.inner.ListCategories(ctx)
	o.query(ctx, "list_categories", start, err)
	return records, err
}

func (o *observedStore) GetCategory(ctx context.Context, name string) (category.Record, error) {
	start := time.Now()
	rec, err := o.inner.GetCategory(ctx, name)
	o.query(ctx, "get_category", start, err)
	return rec, err
}

func (o *observedStore) SaveClassification(ctx context.Context, c Classification) error {
	start := time.Now()
	err := o.inner.SaveClassification(ctx, c)
	o.write(ctx, "save_classification", start, err)
	return err
}

func (o *observedStore) ListClassifications(ctx context.Context, limit int) ([]Classification, error) {
	start := time.Now()
	records, err := o.inner.ListClassifications(ctx, limit)
	o.query(ctx, "list_classifications", start, err)
	return records, err
}

func (o *observedStore) SavePattern(ctx context.Context, p Pattern) error {
	start := time.Now()
	err := o.inner.SavePattern(ctx, p)
	o.write(ctx, "save_pattern", start, err)
	return err
}

func (o *observedStore) GetPatterns(ctx context.Context, patternType string) ([]Pattern, error) {
	start := time.Now()
	patterns, err := o.inner.GetPatterns(ctx, patternType)
	o.query(ctx, "get_patterns", start, err)
	return patterns, err
}

func (o *observedStore) SaveRule(ctx context.Context, r ResponseRule) error {
	start := time.Now()
	err := o.inner.SaveRule(ctx, r)
	o.write(ctx, "save_rule", start, err)
	return err
}

func (o *observedStore) GetRules(ctx context.Context, categoryName string) ([]ResponseRule, error) {
	start := time.Now()
	rules, err := o.inner.GetRules(ctx, categoryName)
	o.query(ctx, "get_rules", start, err)
	return rules, err
}

func (o *observedStore) SaveDraft(ctx context.Context, d Draft) error {
	start := time.Now()
	err := o.inner.SaveDraft(ctx, d)
	o.write(ctx, "save_draft", start, err)
	return err
}

func (o *observedStore) Stats(ctx context.Context) (Stats, error) {
	start := time.Now()
	st, err := o.inner.Stats(ctx)
	o.query(ctx, "stats", start, err)
	return st, err
}

func (o *observedStore) Close() error {
	return o.inner.Close()
}

// Ensure observedStore implements Store.
var _ Store = (*observedStore)(nil)
