package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store  StoreConfig
	Wanted WantedConfig
	UI     UIConfig
	Log    LogConfig
}

// StoreConfig selects and tunes the tabular backend.
type StoreConfig struct {
	Driver    string // sqlite, csv or memory
	Path      string
	CSVDir    string        `mapstructure:"csv_dir"`
	Encoding  string        // csv only: shift_jis or utf-8
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`
}

// WantedConfig holds ledger defaults.
type WantedConfig struct {
	DurationHours int `mapstructure:"duration_hours"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone       string
	TimeFormat     string `mapstructure:"time_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Path  string
	Level string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "finecalc")
}

// Path returns the config file location: $FINECALC_CONFIG or the default.
func Path() string {
	if p := os.Getenv("FINECALC_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "finecalc", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix FINECALC_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", filepath.Join(dataDir(), "finecalc.db"))
	v.SetDefault("store.csv_dir", filepath.Join(dataDir(), "sheets"))
	v.SetDefault("store.encoding", "shift_jis")
	v.SetDefault("store.cache_ttl", "10m")
	v.SetDefault("store.cache_size", 8)
	v.SetDefault("wanted.duration_hours", 72)
	v.SetDefault("ui.timezone", "Asia/Tokyo")
	v.SetDefault("ui.time_format", "2006/01/02 15:04")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("log.path", filepath.Join(dataDir(), "finecalc.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FINECALC_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "finecalc"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINECALC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.csv_dir", cfg.Store.CSVDir)
	v.Set("store.encoding", cfg.Store.Encoding)
	v.Set("store.cache_ttl", cfg.Store.CacheTTL.String())
	v.Set("store.cache_size", cfg.Store.CacheSize)
	v.Set("wanted.duration_hours", cfg.Wanted.DurationHours)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.time_format", cfg.UI.TimeFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Location resolves UI.Timezone, falling back to a fixed UTC+9 zone.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.UI.Timezone); err == nil && c.UI.Timezone != "" {
		return loc
	}
	return time.FixedZone("JST", 9*60*60)
}
