package agent

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inboxatlas/inboxatlas/internal/config"
	"github.com/inboxatlas/inboxatlas/pkg/buildinfo"
)

// ServerTools is the tool inventory discovered from one MCP server.
type ServerTools struct {
	Server string
	Tools  []mcp.Tool
}

// Clients holds the connected MCP client sessions. Close releases all
// of them; it is safe to call after partial initialization.
type Clients struct {
	gmail    *client.Client
	database *client.Client
}

// Connect initializes MCP sessions for the configured servers. Gmail
// runs as a stdio subprocess; the database server speaks streamable
// HTTP with a bearer token and is skipped when no token is configured.
func Connect(ctx context.Context, cfg config.MCPConfig) (*Clients, error) {
	clients := &Clients{}

	gmail, err := client.NewStdioMCPClient(cfg.GmailCommand, nil, cfg.GmailArgs...)
	if err != nil {
		return nil, fmt.Errorf("start gmail mcp server: %w", err)
	}
	clients.gmail = gmail

	if err := initialize(ctx, gmail); err != nil {
		clients.Close()
		return nil, fmt.Errorf("initialize gmail mcp session: %w", err)
	}

	if cfg.SupabaseToken != "" {
		db, err := client.NewStreamableHttpClient(cfg.SupabaseURL,
			transport.WithHTTPHeaders(map[string]string{
				"Authorization": "Bearer " + cfg.SupabaseToken,
			}))
		if err != nil {
			clients.Close()
			return nil, fmt.Errorf("create database mcp client: %w", err)
		}
		clients.database = db

		if err := db.Start(ctx); err != nil {
			clients.Close()
			return nil, fmt.Errorf("connect database mcp server: %w", err)
		}
		if err := initialize(ctx, db); err != nil {
			clients.Close()
			return nil, fmt.Errorf("initialize database mcp session: %w", err)
		}
	}

	return clients, nil
}

// initialize performs the MCP handshake on a connected client.
func initialize(ctx context.Context, c *client.Client) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "inboxatlas",
		Version: buildinfo.Version,
	}

	_, err := c.Initialize(ctx, req)
	return err
}

// ListTools aggregates the tool inventories of all connected servers.
func (c *Clients) ListTools(ctx context.Context) ([]ServerTools, error) {
	var inventories []ServerTools

	if c.gmail != nil {
		tools, err := c.gmail.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			return nil, fmt.Errorf("list gmail tools: %w", err)
		}
		inventories = append(inventories, ServerTools{Server: "gmail", Tools: tools.Tools})
	}

	if c.database != nil {
		tools, err := c.database.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			return nil, fmt.Errorf("list database tools: %w", err)
		}
		inventories = append(inventories, ServerTools{Server: "database", Tools: tools.Tools})
	}

	return inventories, nil
}

// HasDatabase reports whether a database MCP session was configured.
func (c *Clients) HasDatabase() bool {
	return c.database != nil
}

// Close shuts down all client sessions.
func (c *Clients) Close() {
	if c.gmail != nil {
		_ = c.gmail.Close()
		c.gmail = nil
	}
	if c.database != nil {
		_ = c.database.Close()
		c.database = nil
	}
}
