// Package server wires the MCP components and creates the server
// instance. This is the composition root: it opens the configured
// store backend, injects it into the tools, and registers everything.
// No triage logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/inboxatlas/inboxatlas/internal/config"
	"github.com/inboxatlas/inboxatlas/internal/tools"
	"github.com/inboxatlas/inboxatlas/pkg/buildinfo"
	"github.com/inboxatlas/inboxatlas/pkg/cache"
	"github.com/inboxatlas/inboxatlas/pkg/store"
)

// New creates the MCP server with all triage tools registered against
// the configured store backend.
//
// The returned cleanup function closes the store connection and must be
// called on shutdown (typically via defer). It is always non-nil.
func New(ctx context.Context, cfg config.Config) (*server.MCPServer, func(), error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}

	s := server.NewMCPServer(
		"inboxatlas",
		buildinfo.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	for _, tool := range tools.All(st) {
		s.AddTool(tool.Definition(), tool.Handle)
	}

	cleanup := func() { _ = st.Close() }
	return s, cleanup, nil
}

// OpenStore opens the store backend selected by the configuration.
// The returned store reports operations to the registered store hooks.
func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, fmt.Errorf("resolving sqlite path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		s, err := store.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return store.Observed(config.BackendSQLite, s), nil

	case config.BackendSupabase:
		c, err := openCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := store.OpenSupabase(store.SupabaseConfig{
			URL:    cfg.Store.SupabaseURL,
			APIKey: cfg.Store.SupabaseAPIKey,
			Token:  cfg.Store.SupabaseToken,
			Cache:  cache.Observed(c),
		})
		if err != nil {
			return nil, err
		}
		return store.Observed(config.BackendSupabase, s), nil

	case config.BackendMongo:
		s, err := store.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store.Observed(config.BackendMongo, s), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openCache builds the response cache for remote backends.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving cache directory: %w", err)
		}
		return cache.NewFileCache(dir)
	}
}

// noop is the default cleanup when store initialization failed.
func noop() {}

// serverInstructions tells the connected AI how to run triage.
func serverInstructions() string {
	return `You have access to inboxatlas, an email triage MCP server.

inboxatlas stores the state an email assistant builds up over time: the
category hierarchy, per-email classifications, observed communication
patterns, and the rules used to draft responses. It does not read email
itself; pair it with a Gmail MCP server for inbox access.

## Typical workflows

### Initial inbox scan
1. Fetch emails with your Gmail tools
2. Identify natural groupings and call upsert_category for each
   (use 'parent' for subcategories, e.g. 'Project Alpha' under 'Work')
3. Call classify_email for each email with a confidence score
4. Record observed writing styles with save_pattern
5. Derive drafting rules per category with save_response_rule
6. Call create_mermaid_diagram and present the hierarchy to the user

### Processing a new email
1. Call list_categories to see the existing hierarchy
2. Classify the email with classify_email
3. Fetch the category's rule with get_response_rules
4. Generate a reply following the rule and store it with save_draft
5. Present the draft; it is never sent automatically

## Rules
- Categories are unique by name; upsert_category is idempotent
- Flag classifications with confidence below 0.6 for user review
- Drafts always start pending; only the user approves or discards them
- Use inbox_stats to summarize triage state for the user`
}
