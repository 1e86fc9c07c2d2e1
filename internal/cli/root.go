package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/internal/config"
	"github.com/inboxatlas/inboxatlas/pkg/buildinfo"
)

// Execute runs the inboxatlas CLI and returns an error if any command
// fails. The logger and loaded configuration are attached to the
// command context and accessible via loggerFromContext and
// configFromContext.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "inboxatlas",
		Short:        "inboxatlas maps and triages your email inbox",
		Long:         `inboxatlas is an email triage toolkit: it stores the category hierarchy an assistant discovers in your inbox, renders it as Mermaid or Graphviz diagrams, scores classifier output against a golden dataset, and serves the whole store as MCP tools.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			path := configPath
			if path == "" {
				if p, err := config.DefaultPath(); err == nil {
					path = p
				}
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/inboxatlas/config.toml)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newDatasetCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
