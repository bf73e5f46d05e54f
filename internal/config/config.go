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

// Config holds the hunt configuration.
type Config struct {
	HTTP     HTTPConfig               `yaml:"http"`
	Engine   EngineConfig             `yaml:"engine"`
	Handlers map[string]HandlerConfig `yaml:"handlers"`
	Hunt     HuntConfig               `yaml:"hunt"`
	Models   []ModelConfig            `yaml:"models"`
	Database DatabaseConfig           `yaml:"database"`
	Cache    CacheConfig              `yaml:"cache"`
	Auth     AuthConfig               `yaml:"auth"`
	Logging  LoggingConfig            `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
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

// EngineConfig holds search engine connection settings.
type EngineConfig struct {
	Hosts            []string `yaml:"hosts"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Retries          int      `yaml:"retries"` // negative disables client retries
	Handler          string   `yaml:"handler"` // name of a signing handler, empty for none
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// HandlerConfig holds the settings of one named request signing handler.
type HandlerConfig struct {
	Key     string `yaml:"key"`
	Secret  string `yaml:"secret"`
	Token   string `yaml:"token"`
	Region  string `yaml:"region"`
	Service string `yaml:"service"`
}

// HuntConfig holds index, query and sync settings.
type HuntConfig struct {
	Index            string         `yaml:"index"`
	Types            []string       `yaml:"types"`
	Fields           []string       `yaml:"fields"`
	Settings         map[string]any `yaml:"settings"`
	Multilingual     bool           `yaml:"multilingual"`
	LocaleField      string         `yaml:"locale_field"`
	SupportLocales   []string       `yaml:"support_locales"`
	ModelNamespace   string         `yaml:"model_namespace"`
	RetryOnConflict  *int           `yaml:"retry_on_conflict"`
	MaxDepth         int            `yaml:"max_depth"`
	LenientHydration bool           `yaml:"lenient_hydration"`
}

// ModelConfig declares one record type.
type ModelConfig struct {
	Name         string           `yaml:"name"`
	Table        string           `yaml:"table"`
	SearchableAs string           `yaml:"searchable_as"`
	Key          string           `yaml:"key"`
	Mapping      map[string]any   `yaml:"mapping"`
	Relations    []RelationConfig `yaml:"relations"`
}

// RelationConfig declares one relation accessor of a model.
type RelationConfig struct {
	Name   string       `yaml:"name"`
	Kind   string       `yaml:"kind"` // belongs_to, has_one, has_many, belongs_to_many
	Target string       `yaml:"target"`
	Pivot  *PivotConfig `yaml:"pivot"`
}

// PivotConfig describes the association table of a many-to-many relation.
type PivotConfig struct {
	Table      string   `yaml:"table"`
	ForeignKey string   `yaml:"foreign_key"`
	RelatedKey string   `yaml:"related_key"`
	Attributes []string `yaml:"attributes"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	DSN       string `yaml:"dsn"`
	BatchSize int    `yaml:"batch_size"`
}

// CacheConfig holds quick-search response cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.Engine.Hosts) == 0 {
		c.Engine.Hosts = []string{"http://localhost:9200"}
	}
	if c.Engine.ReadinessTimeout <= 0 {
		c.Engine.ReadinessTimeout = 10
	}
	if c.Hunt.Index == "" {
		c.Hunt.Index = "default"
	}
	if c.Hunt.ModelNamespace == "" {
		c.Hunt.ModelNamespace = `App\`
	}
	if c.Hunt.RetryOnConflict == nil {
		n := 3
		c.Hunt.RetryOnConflict = &n
	}
	if c.Hunt.MaxDepth <= 0 {
		c.Hunt.MaxDepth = 8
	}
	if c.Database.BatchSize <= 0 {
		c.Database.BatchSize = 100
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 30
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

var relationKinds = map[string]bool{
	"belongs_to": true, "has_one": true, "has_many": true, "belongs_to_many": true,
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Engine.Handler != "" {
		if _, ok := c.Handlers[c.Engine.Handler]; !ok {
			return fmt.Errorf("engine.handler %q is not declared in handlers", c.Engine.Handler)
		}
	}
	if *c.Hunt.RetryOnConflict < 0 {
		return fmt.Errorf("hunt.retry_on_conflict must not be negative, got %d", *c.Hunt.RetryOnConflict)
	}
	if c.Hunt.Multilingual && c.Hunt.LocaleField == "" && len(c.Hunt.SupportLocales) == 0 {
		return fmt.Errorf("hunt.multilingual requires hunt.support_locales or hunt.locale_field")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return c.validateModels()
}

func (c *Config) validateModels() error {
	names := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.Name == "" || m.Table == "" {
			return fmt.Errorf("models[%d]: name and table are required", i)
		}
		if names[m.Name] {
			return fmt.Errorf("models[%d]: duplicate model %q", i, m.Name)
		}
		names[m.Name] = true
	}
	for _, m := range c.Models {
		for _, r := range m.Relations {
			if !relationKinds[r.Kind] {
				return fmt.Errorf("model %q relation %q: unknown kind %q", m.Name, r.Name, r.Kind)
			}
			if !names[r.Target] {
				return fmt.Errorf("model %q relation %q: target %q is not a declared model", m.Name, r.Name, r.Target)
			}
		}
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
