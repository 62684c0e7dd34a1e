package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// appName names the XDG subdirectories and the environment prefix.
const appName = "tarot-today"

// Config represents the application configuration
type Config struct {
	DefaultDeck    string  `toml:"default_deck" mapstructure:"default_deck"`
	Language       string  `toml:"language" mapstructure:"language"`
	SiteRoot       string  `toml:"site_root" mapstructure:"site_root"`     // directory holding index.html and decks/
	Subfolder      string  `toml:"subfolder" mapstructure:"subfolder"`     // one-level-deep page folder
	Placeholder    string  `toml:"placeholder" mapstructure:"placeholder"` // shown when a card image fails
	DecksFile      string  `toml:"decks_file" mapstructure:"decks_file"`   // extra [[deck]] definitions
	JournalPath    string  `toml:"journal_path" mapstructure:"journal_path"`
	LogLevel       string  `toml:"log_level" mapstructure:"log_level"`
	LogFormat      string  `toml:"log_format" mapstructure:"log_format"`
	HTTPAddr       string  `toml:"http_addr" mapstructure:"http_addr"`
	RateLimit      float64 `toml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	RateLimitBurst int     `toml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// DefaultConfig returns the configuration written on first use.
func DefaultConfig() *Config {
	return &Config{
		DefaultDeck:    "rider-waite",
		Language:       "en",
		SiteRoot:       ".",
		Subfolder:      "pages",
		Placeholder:    "images/card-back.svg",
		JournalPath:    filepath.Join(GetXDGDataHome(), appName, "journal.db"),
		LogLevel:       "info",
		LogFormat:      "text",
		HTTPAddr:       ":8080",
		RateLimit:      10,
		RateLimitBurst: 20,
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...)
}

// GetCacheDir returns the application cache directory
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), appName)
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// newViper layers TAROT_* environment variables over the config file and
// the defaults.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(GetConfigFilePath())
	v.SetConfigType("toml")

	v.SetEnvPrefix("TAROT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("default_deck", d.DefaultDeck)
	v.SetDefault("language", d.Language)
	v.SetDefault("site_root", d.SiteRoot)
	v.SetDefault("subfolder", d.Subfolder)
	v.SetDefault("placeholder", d.Placeholder)
	v.SetDefault("decks_file", d.DecksFile)
	v.SetDefault("journal_path", d.JournalPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_limit_burst", d.RateLimitBurst)

	return v
}

// LoadConfig loads the config file, creating it with defaults when it does
// not exist. Environment variables override file values.
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if _, err := createDefaultConfig(); err != nil {
			return nil, err
		}
	}

	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if c.DefaultDeck == "" {
		errs = append(errs, errors.New("default_deck must not be empty"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit must not be negative (got %v)", c.RateLimit))
	}
	if c.RateLimitBurst < 0 {
		errs = append(errs, fmt.Errorf("rate_limit_burst must not be negative (got %d)", c.RateLimitBurst))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json (got %q)", c.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := DefaultConfig()
	if err := save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// readFile decodes the config file alone, without environment overrides,
// so that saving does not persist them.
func readFile() (*Config, error) {
	configPath := GetConfigFilePath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	return config, nil
}

func save(config *Config) error {
	configPath := GetConfigFilePath()

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}

// GetDefaultDeck returns the default deck id from config
func GetDefaultDeck() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}
	return config.DefaultDeck, nil
}

// SetDefaultDeck sets the default deck in the config
func SetDefaultDeck(deckID string) error {
	config, err := readFile()
	if err != nil {
		return err
	}
	config.DefaultDeck = deckID
	return save(config)
}

// SetLanguage sets the reading language in the config
func SetLanguage(lang string) error {
	config, err := readFile()
	if err != nil {
		return err
	}
	config.Language = lang
	return save(config)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NewLogger builds the structured logger described by the config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
