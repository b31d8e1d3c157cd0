// ABOUTME: Liftlog configuration management with backend selection.
// ABOUTME: Loads file, .env and LIFTLOG_* settings through viper; builds the store and identity guard.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harperreed/liftlog/internal/charm"
	"github.com/harperreed/liftlog/internal/identity"
	"github.com/harperreed/liftlog/internal/store"
)

// Backends accepted by OpenStorage.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendCharm    = "charm"
	BackendMemory   = "memory"
)

// EnvPrefix prefixes every environment override, e.g. LIFTLOG_BACKEND.
const EnvPrefix = "LIFTLOG"

// Config stores liftlog configuration.
type Config struct {
	// Backend selects the record store: sqlite (default), postgres,
	// badger, charm or memory.
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for local storage. SQLite puts
	// liftlog.db here, Badger a badger/ folder. Supports ~ expansion.
	// Defaults to ~/.local/share/liftlog.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `json:"database_url,omitempty" mapstructure:"database_url"`

	// CharmHost overrides the Charm Cloud server.
	CharmHost string `json:"charm_host,omitempty" mapstructure:"charm_host"`

	// CharmAutoSync pushes to Charm Cloud after every write. Defaults to
	// true; turn it off and run `liftlog sync now` on slow links.
	CharmAutoSync *bool `json:"charm_auto_sync,omitempty" mapstructure:"charm_auto_sync"`

	ServerAddr string `json:"server_addr,omitempty" mapstructure:"server_addr"`

	JWTSecret   string `json:"jwt_secret,omitempty" mapstructure:"jwt_secret"`
	JWTIssuer   string `json:"jwt_issuer,omitempty" mapstructure:"jwt_issuer"`
	JWTAudience string `json:"jwt_audience,omitempty" mapstructure:"jwt_audience"`

	// Tokens are static bearer tokens for local use. A list rather than a
	// map because viper lowercases map keys.
	Tokens []StaticToken `json:"tokens,omitempty" mapstructure:"tokens"`

	// Owner is the identity used by the CLI and MCP server.
	Owner string `json:"owner,omitempty" mapstructure:"owner"`

	LogLevel  string `json:"log_level,omitempty" mapstructure:"log_level"`
	LogPretty bool   `json:"log_pretty,omitempty" mapstructure:"log_pretty"`
}

// StaticToken binds a bearer token to an owner id.
type StaticToken struct {
	Token string `json:"token" mapstructure:"token"`
	Owner string `json:"owner" mapstructure:"owner"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetCharmAutoSync reports whether the charm backend syncs after writes.
func (c *Config) GetCharmAutoSync() bool {
	return c.CharmAutoSync == nil || *c.CharmAutoSync
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetServerAddr returns the HTTP listen address, defaulting to :8080.
func (c *Config) GetServerAddr() string {
	if c.ServerAddr == "" {
		return ":8080"
	}
	return c.ServerAddr
}

// GetOwner returns the local owner id, falling back to $USER.
func (c *Config) GetOwner() string {
	if c.Owner != "" {
		return c.Owner
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// DataDir returns the default XDG data directory for liftlog.
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "liftlog")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a record store for the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (store.Store, error) {
	return c.OpenBackend(ctx, c.GetBackend())
}

// OpenBackend creates a record store for backend using this config's
// locations. Used by migrate to open a second backend.
func (c *Config) OpenBackend(ctx context.Context, backend string) (store.Store, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return store.OpenSQLite(filepath.Join(dataDir, "liftlog.db"))
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend needs database_url (or %s_DATABASE_URL)", EnvPrefix)
		}
		return store.OpenPostgres(ctx, c.DatabaseURL)
	case BackendBadger:
		kv, err := store.OpenBadger(filepath.Join(dataDir, "badger"))
		if err != nil {
			return nil, err
		}
		return store.NewKVStore(kv), nil
	case BackendCharm:
		client, err := charm.InitClient(c.CharmHost)
		if err != nil {
			return nil, fmt.Errorf("init charm: %w", err)
		}
		client.SetAutoSync(c.GetCharmAutoSync())
		return store.NewKVStore(client), nil
	case BackendMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// IdentityGuard builds the guard for bearer tokens: static tokens first,
// then JWTs when a secret is set.
func (c *Config) IdentityGuard() (identity.Guard, error) {
	var chain identity.Chain
	if len(c.Tokens) > 0 {
		tokens := make(map[string]string, len(c.Tokens))
		for _, t := range c.Tokens {
			if t.Token == "" || t.Owner == "" {
				return nil, fmt.Errorf("static token entries need both token and owner")
			}
			tokens[t.Token] = t.Owner
		}
		chain = append(chain, identity.NewStaticGuard(tokens))
	}
	if c.JWTSecret != "" {
		g, err := identity.NewJWTGuard(c.JWTSecret, c.JWTIssuer, c.JWTAudience)
		if err != nil {
			return nil, err
		}
		chain = append(chain, g)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("no authentication configured: set jwt_secret or tokens")
	}
	return chain, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads config from path (default path when empty), then applies
// a .env file in the working directory and LIFTLOG_* environment overrides.
// A missing config file is not an error.
func LoadFrom(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"backend", "data_dir", "database_url", "charm_host", "charm_auto_sync", "server_addr",
		"jwt_secret", "jwt_issuer", "jwt_audience", "owner", "log_level", "log_pretty",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path == "" {
		path = GetConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
