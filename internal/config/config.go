// Package config loads dayplan settings from a YAML file, DAYPLAN_* env
// vars and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sadopc/dayplan/internal/planner"
)

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"

	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	envs     = []string{EnvDevelopment, EnvTesting, EnvProduction}
	backends = []string{BackendJSON, BackendSQLite}
)

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	// Path defaults to dayplan_data.json or dayplan.db in Dir().
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	// Level defaults to debug outside production and warn in production.
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type PlannerConfig struct {
	DefaultTasks []string `mapstructure:"default_tasks"`
}

// Config is the top-level application configuration.
type Config struct {
	Env     string        `mapstructure:"env"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Planner PlannerConfig `mapstructure:"planner"`
}

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Dir returns ~/.config/dayplan
func Dir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(cfg, "dayplan")
}

// DefaultPath returns the default config file, ~/.config/dayplan/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Flags registers the command-line overrides understood by Load.
func Flags(flags *pflag.FlagSet) {
	flags.String("config", DefaultPath(), "config file")
	flags.String("env", "", "environment: development, testing or production")
	flags.String("addr", "", "HTTP listen address")
	flags.String("data", "", "data file or database path")
	flags.String("backend", "", "storage backend: json or sqlite")
	flags.String("log-level", "", "log level: debug, info, warn or error")
}

var flagKeys = map[string]string{
	"env":       "env",
	"addr":      "server.addr",
	"data":      "storage.path",
	"backend":   "storage.backend",
	"log-level": "log.level",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DAYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", EnvProduction)
	v.SetDefault("server.addr", "127.0.0.1:8000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("storage.path", "")
	v.SetDefault("log.level", "")
	v.SetDefault("log.file", filepath.Join(Dir(), "dayplan.log"))
	v.SetDefault("planner.default_tasks", planner.DefaultTasks)
	return v
}

// Load reads the config file at path (a missing file is not an error),
// applies env vars and any flags set in flags, which may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if !slices.Contains(envs, c.Env) {
		return fmt.Errorf("invalid env %q: must be one of %s", c.Env, strings.Join(envs, ", "))
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend %q: must be one of %s", c.Storage.Backend, strings.Join(backends, ", "))
	}
	if c.Storage.Path == "" {
		name := "dayplan_data.json"
		if c.Storage.Backend == BackendSQLite {
			name = "dayplan.db"
		}
		c.Storage.Path = filepath.Join(Dir(), name)
	}
	if c.Log.Level == "" {
		c.Log.Level = "debug"
		if c.Env == EnvProduction {
			c.Log.Level = "warn"
		}
	}
	return nil
}

// Save writes cfg as YAML to path, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("env", cfg.Env)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.read_timeout", cfg.Server.ReadTimeout.String())
	v.Set("server.write_timeout", cfg.Server.WriteTimeout.String())
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("planner.default_tasks", cfg.Planner.DefaultTasks)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config to %s: %w", path, err)
	}
	return nil
}
