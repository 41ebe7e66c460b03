package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/store"
	"github.com/xraph/lendbook/store/memory"
	"github.com/xraph/lendbook/store/mongo"
	"github.com/xraph/lendbook/store/postgres"
	"github.com/xraph/lendbook/store/sqlite"
)

// Store drivers accepted by store.driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config is the CLI configuration. Values come from flags, then
// LENDBOOK_* environment variables, then lendbook.yaml.
type Config struct {
	Store    StoreConfig `mapstructure:"store"`
	Language string      `mapstructure:"language"`
	Log      LogConfig   `mapstructure:"log"`
	HTTP     HTTPConfig  `mapstructure:"http"`
	Wallet   string      `mapstructure:"wallet"`
}

// StoreConfig selects and addresses the storage backend.
type StoreConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Database string `mapstructure:"database"`
	Key      string `mapstructure:"key"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// Audit writes one log line per book event.
	Audit bool `mapstructure:"audit"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

func defaults() map[string]any {
	return map[string]any{
		"store.driver":   DriverSQLite,
		"store.dsn":      "lendbook.db",
		"store.database": "lendbook",
		"store.key":      lendbook.DefaultStorageKey,
		"language":       "en",
		"log.level":      "warn",
		"log.audit":      false,
		"http.addr":      ":8080",
		"wallet":         "",
	}
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"store-driver": "store.driver",
	"store-dsn":    "store.dsn",
	"store-key":    "store.key",
	"language":     "language",
	"log-level":    "log.level",
	"audit":        "log.audit",
	"wallet":       "wallet",
}

// loadConfig resolves the configuration for cmd. configFile, when set,
// replaces the lendbook.yaml search.
func loadConfig(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lendbook")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "lendbook"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("lendbook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return c, err
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// openStore opens the backend named by cfg.Driver.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite, "":
		return sqlite.Open(ctx, cfg.DSN)
	case DriverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	case DriverMongo:
		return mongo.Open(ctx, cfg.DSN, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return l
}
