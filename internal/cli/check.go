package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/internal/config"
	"github.com/inboxatlas/inboxatlas/internal/server"
)

// newCheckCmd creates the check command, a doctor for the local setup.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and store connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context())
		},
	}
}

// runCheck reports the effective configuration and probes the store.
// Problems are printed but only a failed store probe is an error.
func runCheck(ctx context.Context) error {
	cfg := configFromContext(ctx)

	if path, err := config.DefaultPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			printSuccess("Config file: %s", path)
		} else {
			printInfo("Config file: %s (not present, using defaults)", path)
		}
	}

	printKeyValue("store", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		if path, err := cfg.SQLitePath(); err == nil {
			printKeyValue("sqlite", path)
		}
	case config.BackendSupabase:
		printKeyValue("supabase", cfg.Store.SupabaseURL)
	case config.BackendMongo:
		printKeyValue("mongo", cfg.Store.MongoDatabase)
	}
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("gmail mcp", cfg.MCP.GmailCommand)

	if cfg.MCP.SupabaseToken == "" {
		printWarning("SUPABASE_OAUTH_TOKEN not set; database MCP server disabled")
	}

	st, err := server.OpenStore(ctx, cfg)
	if err != nil {
		printError("Store: %v", err)
		return err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		printError("Store probe: %v", err)
		return err
	}

	printSuccess("Store reachable")
	printDetail("%d categories, %d classifications, %d drafts",
		stats.Categories, stats.Classifications, stats.Drafts)
	return nil
}
