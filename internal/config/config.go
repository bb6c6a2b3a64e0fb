// Package config loads runtime settings from an optional YAML file and
// the environment. Environment variables win over file values.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/fintrail/fintrail/internal/screening"
	"github.com/fintrail/fintrail/pkg/errors"
)

// Config holds every runtime setting.
type Config struct {
	LogLevel        string `mapstructure:"log_level"`
	DatabaseDSN     string `mapstructure:"database_dsn"`
	PolicyFile      string `mapstructure:"policy_file"`
	QueryLimit      int    `mapstructure:"query_limit"`
	Recommendations bool   `mapstructure:"recommendations"`
	// SanctionedEntities overrides the built-in screening list when set.
	SanctionedEntities []string `mapstructure:"sanctioned_entities"`
	Seed               Seed     `mapstructure:"seed"`
}

// Seed controls the mock-data generator run on startup.
type Seed struct {
	Enabled      bool  `mapstructure:"enabled"`
	Suppliers    int   `mapstructure:"suppliers"`
	Transactions int   `mapstructure:"transactions"`
	Source       int64 `mapstructure:"source"`
}

// Load reads the config file at path (skipped when path is empty or the
// file does not exist) and overlays FINTRAIL_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("database_dsn", "fintrail.db")
	v.SetDefault("policy_file", "")
	v.SetDefault("query_limit", 100)
	v.SetDefault("recommendations", true)
	v.SetDefault("sanctioned_entities", screening.DefaultEntities())
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.suppliers", 50)
	v.SetDefault("seed.transactions", 500)
	v.SetDefault("seed.source", 1)

	v.SetEnvPrefix("FINTRAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Invalid.Explain("reading config file %s", path).Wrap(err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Invalid.Explain("unmarshaling config").Wrap(err)
	}
	if cfg.QueryLimit <= 0 {
		return nil, errors.Invalid.Explain("query_limit must be positive, got %d", cfg.QueryLimit)
	}
	return &cfg, nil
}
