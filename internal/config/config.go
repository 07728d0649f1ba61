package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage   StorageConfig
	Catalog   CatalogConfig
	Dashboard DashboardConfig
	Log       LogConfig
}

// StorageConfig selects where dashboard documents are kept.
type StorageConfig struct {
	Backend   string // sqlite | file | memory
	Path      string
	Revisions int
}

// CatalogConfig points at a TOML widget catalog. Empty uses the built-in one.
type CatalogConfig struct {
	Path string
}

// DashboardConfig names the dashboard instance; each instance has its own
// storage key.
type DashboardConfig struct {
	Instance string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "dashgrid")
}

// Load reads configuration from file and env. Env var overrides use prefix DASHGRID_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.revisions", 20)
	v.SetDefault("catalog.path", "")
	v.SetDefault("dashboard.instance", "default")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DASHGRID_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "dashgrid"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DASHGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return normalize(c)
}

// normalize fills derived defaults and rejects values nothing can use.
func normalize(c Config) (Config, error) {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(dataDir(), "dashgrid.db")
		}
	case BackendFile:
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(dataDir(), "dashboards.json")
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("storage.backend %q: want sqlite, file or memory", c.Storage.Backend)
	}
	if c.Storage.Revisions < 1 {
		c.Storage.Revisions = 1
	}
	c.Dashboard.Instance = strings.TrimSpace(c.Dashboard.Instance)
	if c.Dashboard.Instance == "" {
		c.Dashboard.Instance = "default"
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	return c, nil
}

// Path returns the file Load reads and Save writes.
func Path() string {
	if p := os.Getenv("DASHGRID_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "dashgrid", "config.toml")
}

// Save writes the provided config to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.revisions", cfg.Storage.Revisions)
	v.Set("catalog.path", cfg.Catalog.Path)
	v.Set("dashboard.instance", cfg.Dashboard.Instance)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
