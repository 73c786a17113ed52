package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the equisearch API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Registry   RegistryConfig   `yaml:"registry"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Search     SearchConfig     `yaml:"search"`
	Insights   InsightsConfig   `yaml:"insights"`
	Patterns   PatternsConfig   `yaml:"patterns"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RegistryConfig holds tenant registry settings. The redis backend shares the
// document store connection; badger keeps the registry in an embedded store.
type RegistryConfig struct {
	Backend string `yaml:"backend"` // redis, badger (default: redis)
	Path    string `yaml:"path"`    // badger data directory
}

// RecognizerConfig holds entity recognizer settings.
type RecognizerConfig struct {
	Provider string `yaml:"provider"` // gazetteer, openai (default: gazetteer)
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
}

// SearchConfig holds result sizing and marketplace trigger settings.
type SearchConfig struct {
	TenantPageSize      int `yaml:"tenant_page_size"`
	DualPageSize        int `yaml:"dual_page_size"`
	MarketplacePageSize int `yaml:"marketplace_page_size"`
	InventoryFloor      int `yaml:"inventory_floor"`
	MaxBulkSize         int `yaml:"max_bulk_size"`
	BulkWorkers         int `yaml:"bulk_workers"`
}

// InsightsConfig holds deviation thresholds and static currency rates.
type InsightsConfig struct {
	SpecDeviationPct  float64            `yaml:"spec_deviation_pct"`
	PriceDeviationPct float64            `yaml:"price_deviation_pct"`
	CurrencyRates     map[string]float64 `yaml:"currency_rates"`
}

// PatternsConfig holds extraction pattern file settings.
type PatternsConfig struct {
	File  string `yaml:"file"`  // empty = built-in tables
	Watch bool   `yaml:"watch"` // hot reload on file change
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix    string `yaml:"key_prefix"`
	Partitioning string `yaml:"partitioning"` // shared, tenant (default: shared)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Registry.Backend == "" {
		c.Registry.Backend = "redis"
	}
	if c.Recognizer.Provider == "" {
		c.Recognizer.Provider = "gazetteer"
	}
	if c.Recognizer.Model == "" {
		c.Recognizer.Model = "gpt-4o-mini"
	}
	if c.Search.TenantPageSize <= 0 {
		c.Search.TenantPageSize = 10
	}
	if c.Search.DualPageSize <= 0 {
		c.Search.DualPageSize = 20
	}
	if c.Search.MarketplacePageSize <= 0 {
		c.Search.MarketplacePageSize = 5
	}
	if c.Search.InventoryFloor <= 0 {
		c.Search.InventoryFloor = 3
	}
	if c.Search.MaxBulkSize <= 0 {
		c.Search.MaxBulkSize = 100
	}
	if c.Search.BulkWorkers <= 0 {
		c.Search.BulkWorkers = 8
	}
	if c.Insights.SpecDeviationPct <= 0 {
		c.Insights.SpecDeviationPct = 20
	}
	if c.Insights.PriceDeviationPct <= 0 {
		c.Insights.PriceDeviationPct = 15
	}
	if len(c.Insights.CurrencyRates) == 0 {
		c.Insights.CurrencyRates = map[string]float64{
			"USD": 1.0,
			"EUR": 1.1,
			"GBP": 1.3,
		}
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "equisearch:"
	}
	if c.Storage.Partitioning == "" {
		c.Storage.Partitioning = "shared"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Registry.Backend {
	case "redis":
		// shares database.addrs
	case "badger":
		if c.Registry.Path == "" {
			return fmt.Errorf("registry.path is required for the badger backend")
		}
	default:
		return fmt.Errorf("registry.backend must be \"redis\" or \"badger\", got %q", c.Registry.Backend)
	}
	switch c.Recognizer.Provider {
	case "gazetteer":
		// offline, no credentials
	case "openai":
		if c.Recognizer.APIKey == "" {
			return fmt.Errorf("recognizer.api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("recognizer.provider must be \"gazetteer\" or \"openai\", got %q", c.Recognizer.Provider)
	}
	switch c.Storage.Partitioning {
	case "shared", "tenant":
	default:
		return fmt.Errorf("storage.partitioning must be \"shared\" or \"tenant\", got %q", c.Storage.Partitioning)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
