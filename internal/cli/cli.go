// Package cli implements the inboxatlas command-line interface.
//
// This package provides commands for rendering the category hierarchy,
// serving the triage store over MCP or HTTP, generating and inspecting
// the synthetic email dataset, scoring classifier output, and managing
// the response cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate Mermaid, DOT, or SVG diagrams of the hierarchy
//   - serve: Run the MCP stdio server or the read-only HTTP API
//   - eval: Score classifier responses against a golden dataset
//   - dataset: Generate and inspect the synthetic email dataset
//   - tools: List tools exposed by the configured MCP servers
//   - check: Verify configuration and store connectivity
//   - cache: Manage the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// and the loaded configuration are passed through context.Context.
package cli

import (
	"context"

	"github.com/inboxatlas/inboxatlas/internal/config"
)

// configKey is the context key for the loaded configuration.
const configKey ctxKey = 1

// withConfig returns a new context with the given config attached.
func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the config from ctx, falling back to
// defaults when the context carries none.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}
