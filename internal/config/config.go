// Package config provides configuration management for the ledgerkeep
// dataset event engine.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like STORE_ROOT_DIR, LOG_LEVEL)
// 3. Default values
package config

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Depot     DepotConfig     `mapstructure:"depot"`
	Integrity IntegrityConfig `mapstructure:"integrity"`
	Log       LogConfig       `mapstructure:"log"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

// StoreConfig locates a dataset's on-disk backing.
type StoreConfig struct {
	// RootDir is the parent directory under which each dataset gets its own
	// subdirectory (depot/ and rk/), named by dataset.
	RootDir string `mapstructure:"root_dir"`
}

// DepotConfig bounds the blob store's behavior.
type DepotConfig struct {
	// MaxBlobSize is loaded from config and Validate requires it to be
	// positive. No Depot implementation reads it: Reserve does not check
	// requested sizes against it.
	MaxBlobSize datasize.ByteSize `mapstructure:"max_blob_size"`
}

// IntegrityConfig selects the tamper-evidence regime new datasets start
// under. An individual dataset's mode, once chosen at init, does not
// change for its lifetime; this only supplies the CLI's default.
type IntegrityConfig struct {
	// Mode is "hashchain" or "signed".
	Mode string `mapstructure:"mode"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// WorkerConfig contains worker pool settings for the bulk-import CLI
// command, which fans ProcessEvent calls out across independent datasets.
type WorkerConfig struct {
	ImportPoolSize int `mapstructure:"import_pool_size"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ledgerkeep")

	// No prefix: uses standard names like STORE_ROOT_DIR, LOG_LEVEL.
	// Maps nested config: depot.max_blob_size -> DEPOT_MAX_BLOB_SIZE.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars.
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Store.RootDir == "" {
		return fmt.Errorf("store.root_dir must not be empty")
	}
	switch c.Integrity.Mode {
	case "hashchain", "signed":
	default:
		return fmt.Errorf("integrity.mode must be %q or %q, got %q", "hashchain", "signed", c.Integrity.Mode)
	}
	if c.Depot.MaxBlobSize <= 0 {
		return fmt.Errorf("depot.max_blob_size must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.root_dir", "./ledgerkeep-data")

	v.SetDefault("depot.max_blob_size", "1GB")

	v.SetDefault("integrity.mode", "hashchain")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("worker.import_pool_size", 16)
}
