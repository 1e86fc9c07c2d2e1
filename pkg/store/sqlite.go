package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore is the local single-user backend, used by the CLI and the
// stdio MCP server. The database lives in a single file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
// The parent directory is created if needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL UNIQUE,
			parent_id   INTEGER REFERENCES categories(id),
			email_count INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS classifications (
			email_id          TEXT PRIMARY KEY,
			from_address      TEXT,
			subject           TEXT,
			category          TEXT NOT NULL,
			confidence        REAL NOT NULL,
			tone              TEXT,
			requires_response INTEGER NOT NULL DEFAULT 0,
			classified_at     TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS patterns (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern_type TEXT NOT NULL,
			description  TEXT NOT NULL,
			confidence   REAL NOT NULL,
			examples     TEXT,
			updated_at   TEXT NOT NULL,
			UNIQUE(pattern_type, description)
		);

		CREATE TABLE IF NOT EXISTS response_rules (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			category        TEXT NOT NULL UNIQUE,
			tone            TEXT NOT NULL,
			formality       TEXT NOT NULL,
			response_length TEXT,
			updated_at      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS drafts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email_id   TEXT NOT NULL,
			subject    TEXT,
			body       TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_classifications_category ON classifications(category);
		CREATE INDEX IF NOT EXISTS idx_drafts_email ON drafts(email_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// Categories
// =============================================================================

// UpsertCategory creates a category or re-parents an existing one.
func (s *SQLiteStore) UpsertCategory(ctx context.Context, name, parent string) (category.Record, error) {
	var parentID any
	if parent != "" {
		var id int64
		err := s.db.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = ?", parent).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return category.Record{}, fmt.Errorf("parent category %q: %w", parent, ErrNotFound)
		}
		if err != nil {
			return category.Record{}, err
		}
		parentID = id
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, parent_id, email_count, created_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT(name) DO UPDATE SET parent_id = excluded.parent_id`,
		name, parentID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return category.Record{}, err
	}

	return s.GetCategory(ctx, name)
}

// ListCategories returns all categories in insertion order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]category.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, parent_id, email_count FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []category.Record
	for rows.Next() {
		rec, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetCategory returns a category by name.
func (s *SQLiteStore) GetCategory(ctx context.Context, name string) (category.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, parent_id, email_count FROM categories WHERE name = ?", name)

	rec, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return category.Record{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (category.Record, error) {
	var (
		id     int64
		name   string
		parent sql.NullInt64
		count  int
	)
	if err := row.Scan(&id, &name, &parent, &count); err != nil {
		return category.Record{}, err
	}

	rec := category.Record{
		ID:         strconv.FormatInt(id, 10),
		Name:       name,
		EmailCount: count,
	}
	if parent.Valid {
		rec.Parent = strconv.FormatInt(parent.Int64, 10)
	}
	return rec, nil
}

// =============================================================================
// Classifications
// =============================================================================

// SaveClassification records a triage outcome and bumps the category
// email count. Re-classifying the same email replaces the earlier row
// without a second increment.
func (s *SQLiteStore) SaveClassification(ctx context.Context, c Classification) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM classifications WHERE email_id = ?", c.EmailID).Scan(&existing); err != nil {
		return err
	}

	if c.ClassifiedAt.IsZero() {
		c.ClassifiedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO classifications
			(email_id, from_address, subject, category, confidence, tone, requires_response, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.EmailID, c.From, c.Subject, c.Category, c.Confidence, c.Tone,
		boolToInt(c.RequiresResponse), c.ClassifiedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if existing == 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE categories SET email_count = email_count + 1 WHERE name = ?", c.Category); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListClassifications returns recent classifications, newest first.
func (s *SQLiteStore) ListClassifications(ctx context.Context, limit int) ([]Classification, error) {
	query := `
		SELECT email_id, from_address, subject, category, confidence, tone, requires_response, classified_at
		FROM classifications ORDER BY classified_at DESC, email_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Classification
	for rows.Next() {
		var (
			c        Classification
			from     sql.NullString
			subject  sql.NullString
			tone     sql.NullString
			requires int
			at       string
		)
		if err := rows.Scan(&c.EmailID, &from, &subject, &c.Category, &c.Confidence, &tone, &requires, &at); err != nil {
			return nil, err
		}
		c.From = from.String
		c.Subject = subject.String
		c.Tone = tone.String
		c.RequiresResponse = requires != 0
		c.ClassifiedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// Patterns
// =============================================================================

// SavePattern stores or updates a communication pattern. Patterns are
// unique by (type, description); a repeat save refreshes confidence and
// examples.
func (s *SQLiteStore) SavePattern(ctx context.Context, p Pattern) error {
	examples, err := json.Marshal(p.Examples)
	if err != nil {
		return err
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patterns (pattern_type, description, confidence, examples, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(pattern_type, description) DO UPDATE SET
			confidence = excluded.confidence,
			examples   = excluded.examples,
			updated_at = excluded.updated_at`,
		p.Type, p.Description, p.Confidence, string(examples), p.UpdatedAt.Format(time.RFC3339))
	return err
}

// GetPatterns returns patterns, optionally filtered by type.
func (s *SQLiteStore) GetPatterns(ctx context.Context, patternType string) ([]Pattern, error) {
	query := "SELECT id, pattern_type, description, confidence, examples, updated_at FROM patterns"
	args := []any{}
	if patternType != "" {
		query += " WHERE pattern_type = ?"
		args = append(args, patternType)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pattern
	for rows.Next() {
		var (
			id       int64
			p        Pattern
			examples sql.NullString
			at       string
		)
		if err := rows.Scan(&id, &p.Type, &p.Description, &p.Confidence, &examples, &at); err != nil {
			return nil, err
		}
		p.ID = strconv.FormatInt(id, 10)
		if examples.Valid && examples.String != "" && examples.String != "null" {
			if err := json.Unmarshal([]byte(examples.String), &p.Examples); err != nil {
				return nil, err
			}
		}
		p.UpdatedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// Response Rules
// =============================================================================

// SaveRule stores or updates the response rule for a category.
func (s *SQLiteStore) SaveRule(ctx context.Context, r ResponseRule) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO response_rules (category, tone, formality, response_length, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			tone            = excluded.tone,
			formality       = excluded.formality,
			response_length = excluded.response_length,
			updated_at      = excluded.updated_at`,
		r.Category, r.Tone, r.Formality, r.ResponseLength, r.UpdatedAt.Format(time.RFC3339))
	return err
}

// GetRules returns response rules, optionally filtered by category.
func (s *SQLiteStore) GetRules(ctx context.Context, categoryName string) ([]ResponseRule, error) {
	query := "SELECT id, category, tone, formality, response_length, updated_at FROM response_rules"
	args := []any{}
	if categoryName != "" {
		query += " WHERE category = ?"
		args = append(args, categoryName)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResponseRule
	for rows.Next() {
		var (
			id     int64
			r      ResponseRule
			length sql.NullString
			at     string
		)
		if err := rows.Scan(&id, &r.Category, &r.Tone, &r.Formality, &length, &at); err != nil {
			return nil, err
		}
		r.ID = strconv.FormatInt(id, 10)
		r.ResponseLength = length.String
		r.UpdatedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// Drafts
// =============================================================================

// SaveDraft stores a generated draft awaiting review.
func (s *SQLiteStore) SaveDraft(ctx context.Context, d Draft) error {
	if d.Status == "" {
		d.Status = "pending"
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (email_id, subject, body, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.EmailID, d.Subject, d.Body, d.Status, d.CreatedAt.Format(time.RFC3339))
	return err
}

// =============================================================================
// Stats
// =============================================================================

// Stats returns aggregate counts across all record kinds.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM categories", &st.Categories},
		{"SELECT COALESCE(SUM(email_count), 0) FROM categories", &st.Emails},
		{"SELECT COUNT(*) FROM classifications", &st.Classifications},
		{"SELECT COUNT(*) FROM patterns", &st.Patterns},
		{"SELECT COUNT(*) FROM response_rules", &st.Rules},
		{"SELECT COUNT(*) FROM drafts", &st.Drafts},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Stats{}, err
		}
	}

	records, err := s.ListCategories(ctx)
	if err != nil {
		return Stats{}, err
	}
	st.MaxDepth = category.BuildForest(records).MaxDepth()
	st.TopCategories = topCategories(records, 5)

	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
