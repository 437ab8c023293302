package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/mmcdole/marquee/internal/domain"
)

// APIKeyEnv is the conventional environment variable for the catalog key
const APIKeyEnv = "TICKETMASTER_API_KEY"

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Search  SearchConfig  `mapstructure:"search"`
	Browser BrowserConfig `mapstructure:"browser"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds events catalog configuration
type CatalogConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Sort       string `mapstructure:"sort"`        // "date,asc" or "date,desc"
	City       string `mapstructure:"city"`        // Optional city filter
	Country    string `mapstructure:"country"`     // Optional ISO country code filter
	TimeoutSec int    `mapstructure:"timeout_sec"` // Per-request timeout
	RetryMax   int    `mapstructure:"retry_max"`
}

// SearchConfig holds search session preferences
type SearchConfig struct {
	DefaultKeyword string `mapstructure:"default_keyword"` // Used on startup and by refresh with no keyword
	Dedupe         bool   `mapstructure:"dedupe"`          // Drop events already shown in this session
}

// BrowserConfig holds the external URL opener configuration
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty for system default
	Args    []string `mapstructure:"args"`
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // Empty string keeps favorites in memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:    "https://app.ticketmaster.com/discovery/v2",
			Sort:       string(domain.SortDateAsc),
			TimeoutSec: 30,
			RetryMax:   3,
		},
		Search: SearchConfig{
			DefaultKeyword: "music",
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "marquee.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// LoadConfig loads configuration from .env files, the config file in
// DefaultConfigDir or the working directory, and the environment.
func LoadConfig() (*Config, error) {
	return Load(DefaultConfigDir(), ".")
}

// Load is LoadConfig with explicit config search paths.
// Precedence: environment > .env files > config file > defaults.
func Load(searchPaths ...string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides: MARQUEE_CATALOG_API_KEY, MARQUEE_SEARCH_DEFAULT_KEYWORD, ...
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	// The catalog key is usually provided under its conventional name
	if err := v.BindEnv("catalog.api_key", "MARQUEE_CATALOG_API_KEY", APIKeyEnv); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", APIKeyEnv, err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandPaths resolves a leading ~ so paths do not depend on the working directory
func (c *Config) expandPaths() error {
	dataDir, err := homedir.Expand(c.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("invalid storage.data_dir %q: %w", c.Storage.DataDir, err)
	}
	c.Storage.DataDir = dataDir

	logFile, err := homedir.Expand(c.Logging.File)
	if err != nil {
		return fmt.Errorf("invalid logging.file %q: %w", c.Logging.File, err)
	}
	c.Logging.File = logFile
	return nil
}

// setDefaults registers every default so AutomaticEnv can see the keys
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	v.SetDefault("catalog.api_key", d.Catalog.APIKey)
	v.SetDefault("catalog.sort", d.Catalog.Sort)
	v.SetDefault("catalog.city", d.Catalog.City)
	v.SetDefault("catalog.country", d.Catalog.Country)
	v.SetDefault("catalog.timeout_sec", d.Catalog.TimeoutSec)
	v.SetDefault("catalog.retry_max", d.Catalog.RetryMax)
	v.SetDefault("search.default_keyword", d.Search.DefaultKeyword)
	v.SetDefault("search.dedupe", d.Search.Dedupe)
	v.SetDefault("browser.command", d.Browser.Command)
	v.SetDefault("browser.args", d.Browser.Args)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
}

// loadEnvFiles loads environment variables from .env files.
// Variables already present in the environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// Validate rejects settings the catalog client cannot work with
func (c *Config) Validate() error {
	switch domain.SortOrder(c.Catalog.Sort) {
	case domain.SortDateAsc, domain.SortDateDesc:
	default:
		return fmt.Errorf("invalid catalog.sort %q: want %q or %q", c.Catalog.Sort, domain.SortDateAsc, domain.SortDateDesc)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.Catalog.APIKey) != ""
}

// SaveConfig writes cfg to config.yaml in dir (DefaultConfigDir when empty)
func SaveConfig(cfg *Config, dir string) error {
	if dir == "" {
		dir = DefaultConfigDir()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.api_key", cfg.Catalog.APIKey)
	v.Set("catalog.sort", cfg.Catalog.Sort)
	v.Set("catalog.city", cfg.Catalog.City)
	v.Set("catalog.country", cfg.Catalog.Country)
	v.Set("catalog.timeout_sec", cfg.Catalog.TimeoutSec)
	v.Set("catalog.retry_max", cfg.Catalog.RetryMax)

	v.Set("search.default_keyword", cfg.Search.DefaultKeyword)
	v.Set("search.dedupe", cfg.Search.Dedupe)

	v.Set("browser.command", cfg.Browser.Command)
	v.Set("browser.args", cfg.Browser.Args)

	v.Set("storage.data_dir", cfg.Storage.DataDir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
