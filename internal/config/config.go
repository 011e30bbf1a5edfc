// Package config loads the service configuration from config/<env>.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Responder providers.
const (
	ResponderTemplate = "template"
	ResponderOpenAI   = "openai"
)

// Config holds the mindsync API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Responder ResponderConfig `yaml:"responder"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds service API keys. Empty disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds index store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, memory (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RetrievalConfig holds encoder and ranking settings.
type RetrievalConfig struct {
	Dimensions   int    `yaml:"dimensions"`
	DefaultTopK  int    `yaml:"default_top_k"`
	MaxTopK      int    `yaml:"max_top_k"`
	PoolFactor   int    `yaml:"pool_factor"`
	TaxonomyFile string `yaml:"taxonomy_file"` // empty: built-in taxonomy
	// SimilarityFloor drops candidates at or below it; nil means 0.15, 0 disables.
	SimilarityFloor        *float64 `yaml:"similarity_floor"`
	KeywordThreshold       *float64 `yaml:"keyword_threshold"`
	StrongKeywordWeight    *float64 `yaml:"strong_keyword_weight"`
	StrongSimilarityWeight *float64 `yaml:"strong_similarity_weight"`
	WeakKeywordWeight      *float64 `yaml:"weak_keyword_weight"`
	WeakSimilarityWeight   *float64 `yaml:"weak_similarity_weight"`
}

// ResponderConfig selects how answers are written.
type ResponderConfig struct {
	Provider    string  `yaml:"provider"` // template, openai (default: template)
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	RatePerSec  float64 `yaml:"rate_per_sec"` // 0 = unlimited
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	r := &c.Retrieval
	if r.Dimensions <= 0 {
		r.Dimensions = 384
	}
	if r.DefaultTopK <= 0 {
		r.DefaultTopK = 5
	}
	if r.MaxTopK <= 0 {
		r.MaxTopK = 50
	}
	if r.PoolFactor <= 0 {
		r.PoolFactor = 2
	}
	setDefault(&r.SimilarityFloor, 0.15)
	setDefault(&r.KeywordThreshold, 3)
	setDefault(&r.StrongKeywordWeight, 0.75)
	setDefault(&r.StrongSimilarityWeight, 0.25)
	setDefault(&r.WeakKeywordWeight, 0.3)
	setDefault(&r.WeakSimilarityWeight, 0.7)

	if c.Responder.Provider == "" {
		c.Responder.Provider = ResponderTemplate
	}
	if c.Responder.Model == "" {
		c.Responder.Model = "gpt-4o-mini"
	}
	if c.Responder.MaxTokens <= 0 {
		c.Responder.MaxTokens = 300
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "mindsync:"
	}
}

func setDefault(p **float64, v float64) {
	if *p == nil {
		*p = &v
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}

	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			errs = append(errs, errors.New("database.addrs is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"database.driver must be %q, %q or %q, got %q",
			DriverValkey, DriverRedis, DriverMemory, c.Database.Driver))
	}

	r := c.Retrieval
	if r.MaxTopK < r.DefaultTopK {
		errs = append(errs, fmt.Errorf("retrieval.max_top_k (%d) must be >= default_top_k (%d)", r.MaxTopK, r.DefaultTopK))
	}
	if f := deref(r.SimilarityFloor); f < 0 || f >= 1 {
		errs = append(errs, fmt.Errorf("retrieval.similarity_floor must be in [0, 1), got %v", f))
	}

	switch c.Responder.Provider {
	case ResponderTemplate:
	case ResponderOpenAI:
		if c.Responder.APIKey == "" {
			errs = append(errs, errors.New("responder.api_key is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"responder.provider must be %q or %q, got %q",
			ResponderTemplate, ResponderOpenAI, c.Responder.Provider))
	}
	if c.Responder.RatePerSec < 0 {
		errs = append(errs, fmt.Errorf("responder.rate_per_sec must be >= 0, got %v", c.Responder.RatePerSec))
	}

	return errors.Join(errs...)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// relative to this source file, for tests run from a package directory
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
