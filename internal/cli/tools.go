package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/internal/agent"
)

// newToolsCmd creates the tools command, which connects to the
// configured external MCP servers and lists their tool inventories.
func newToolsCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List tools exposed by the configured MCP servers",
		Long: `Tools connects to the Gmail MCP server (and the database MCP server
when an OAuth token is configured) and prints every tool each server
exposes. Use it to verify the agent's tool surface before a triage run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd.Context(), timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "connection timeout")
	return cmd
}

func runTools(ctx context.Context, timeout time.Duration) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, "Connecting to MCP servers")
	spinner.Start()

	clients, err := agent.Connect(ctx, cfg.MCP)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	defer clients.Close()
	spinner.Stop()

	if !clients.HasDatabase() {
		printWarning("Database MCP server skipped (no SUPABASE_OAUTH_TOKEN)")
	}

	inventories, err := clients.ListTools(ctx)
	if err != nil {
		return err
	}

	for _, inv := range inventories {
		printNewline()
		printInfo("%s (%d tools)", inv.Server, len(inv.Tools))
		for _, tool := range inv.Tools {
			printKeyValue(tool.Name, tool.Description)
		}
	}

	logger.Debugf("Listed %d server inventories", len(inventories))
	return nil
}
