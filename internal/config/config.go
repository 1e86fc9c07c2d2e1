// Package config loads inboxatlas configuration from a TOML file with
// environment variable overrides for secrets and deployment-specific
// settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// appName is the application name used for directories.
const appName = "inboxatlas"

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
	BackendMongo    = "mongo"
)

// Config is the full application configuration.
type Config struct {
	Store StoreConfig `toml:"store"`
	Cache CacheConfig `toml:"cache"`
	MCP   MCPConfig   `toml:"mcp"`
	HTTP  HTTPConfig  `toml:"http"`
}

// StoreConfig selects and configures the triage store backend.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`

	SupabaseURL    string `toml:"supabase_url"`
	SupabaseAPIKey string `toml:"supabase_api_key"`
	SupabaseToken  string `toml:"supabase_token"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// MCPConfig configures the external MCP servers the agent connects to.
type MCPConfig struct {
	GmailCommand string   `toml:"gmail_command"`
	GmailArgs    []string `toml:"gmail_args"`

	SupabaseURL   string `toml:"supabase_url"`
	SupabaseToken string `toml:"supabase_token"`
}

// HTTPConfig configures the read-only HTTP API.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration defaults applied before file and
// environment overrides.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:       BackendSQLite,
			MongoDatabase: appName,
		},
		Cache: CacheConfig{
			Backend: "file",
			RedisDB: 0,
		},
		MCP: MCPConfig{
			GmailCommand: "uvx",
			GmailArgs:    []string{"mcp-server-gmail"},
			SupabaseURL:  "https://mcp.supabase.com/mcp",
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8484",
		},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/inboxatlas/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path (a missing file is not an error;
// defaults apply), then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config. Secrets
// are expected to come from the environment rather than the file.
func applyEnv(cfg *Config) {
	setString(&cfg.Store.Backend, "INBOXATLAS_STORE_BACKEND")
	setString(&cfg.Store.SQLitePath, "INBOXATLAS_SQLITE_PATH")
	setString(&cfg.Store.SupabaseURL, "SUPABASE_URL")
	setString(&cfg.Store.SupabaseAPIKey, "SUPABASE_API_KEY")
	setString(&cfg.Store.SupabaseToken, "SUPABASE_SERVICE_TOKEN")
	setString(&cfg.Store.MongoURI, "MONGO_URI")
	setString(&cfg.Store.MongoDatabase, "MONGO_DATABASE")

	setString(&cfg.Cache.Backend, "INBOXATLAS_CACHE_BACKEND")
	setString(&cfg.Cache.Dir, "INBOXATLAS_CACHE_DIR")
	setString(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "REDIS_PASSWORD")

	setString(&cfg.MCP.GmailCommand, "GMAIL_MCP_COMMAND")
	if args := os.Getenv("GMAIL_MCP_ARGS"); args != "" {
		cfg.MCP.GmailArgs = strings.Fields(args)
	}
	setString(&cfg.MCP.SupabaseURL, "SUPABASE_MCP_URL")
	setString(&cfg.MCP.SupabaseToken, "SUPABASE_OAUTH_TOKEN")

	setString(&cfg.HTTP.Addr, "INBOXATLAS_HTTP_ADDR")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// validate rejects configurations that cannot possibly work.
func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendSupabase, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q (must be %s, %s, or %s)",
			c.Store.Backend, BackendSQLite, BackendSupabase, BackendMongo)
	}

	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}

	if c.Store.Backend == BackendSupabase && c.Store.SupabaseURL == "" {
		return fmt.Errorf("supabase backend requires supabase_url (or SUPABASE_URL)")
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return fmt.Errorf("mongo backend requires mongo_uri (or MONGO_URI)")
	}
	return nil
}

// SQLitePath returns the configured sqlite path, falling back to the
// XDG data directory (~/.local/share/inboxatlas/inbox.db).
func (c Config) SQLitePath() (string, error) {
	if c.Store.SQLitePath != "" {
		return c.Store.SQLitePath, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "inbox.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "inbox.db"), nil
}

// CacheDir returns the configured cache directory, falling back to the
// XDG cache directory (~/.cache/inboxatlas).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
