package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dinerank/dinerank/internal/domain/score"
)

// Config holds the dinerank API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Cache     CacheConfig     `yaml:"cache"`
	Sources   SourcesConfig   `yaml:"sources"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Logging   LoggingConfig   `yaml:"logging"`
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

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	SearchTTLSec     int      `yaml:"search_ttl_sec"`   // 0 = repository default
	AnalysisTTLSec   int      `yaml:"analysis_ttl_sec"` // 0 = repository default
}

// SourcesConfig holds the platform client settings.
type SourcesConfig struct {
	Google SourceConfig `yaml:"google"`
	Yelp   SourceConfig `yaml:"yelp"`
}

// SourceConfig holds one platform client's settings.
type SourceConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Enabled reports whether the platform is configured.
func (s SourceConfig) Enabled() bool {
	return s.APIKey != ""
}

// ScoringConfig tunes ranking, matching and review analysis.
// Zero values take the engine defaults.
type ScoringConfig struct {
	// Weights is the seven-factor ranking weight table. Must sum to 1.0
	// when set.
	Weights *score.Weights `yaml:"weights"`
	// MatchThreshold is the cross-source entity match cutoff in (0,1).
	MatchThreshold float64 `yaml:"match_threshold"`
	// SourceWeights adjusts per-platform review influence in the unified
	// score (keyed by platform name).
	SourceWeights map[string]float64 `yaml:"source_weights"`
	// AuthenticityFloor drops reviews scored below it before analysis.
	AuthenticityFloor float64 `yaml:"authenticity_floor"`
}

// NarrativeConfig holds the generative narrative provider settings.
type NarrativeConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Provider    string  `yaml:"provider"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Enabled reports whether narrative enrichment is configured.
func (n NarrativeConfig) Enabled() bool {
	return n.APIKey != ""
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Sources.Google.TimeoutSec <= 0 {
		c.Sources.Google.TimeoutSec = 10
	}
	if c.Sources.Yelp.TimeoutSec <= 0 {
		c.Sources.Yelp.TimeoutSec = 10
	}
	if c.Narrative.Provider == "" {
		c.Narrative.Provider = "openai"
	}
	if c.Narrative.Model == "" {
		c.Narrative.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case "memory":
		// no addrs needed
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}
	if !c.Sources.Google.Enabled() && !c.Sources.Yelp.Enabled() {
		return fmt.Errorf("at least one platform under sources must have an api_key")
	}
	if c.Scoring.Weights != nil {
		if err := c.Scoring.Weights.Validate(); err != nil {
			return fmt.Errorf("scoring.weights: %w", err)
		}
	}
	if t := c.Scoring.MatchThreshold; t != 0 && (t <= 0 || t >= 1) {
		return fmt.Errorf("scoring.match_threshold must be in (0,1), got %v", t)
	}
	for name, w := range c.Scoring.SourceWeights {
		if w <= 0 {
			return fmt.Errorf("scoring.source_weights.%s must be positive, got %v", name, w)
		}
	}
	if f := c.Scoring.AuthenticityFloor; f < 0 || f >= 1 {
		return fmt.Errorf("scoring.authenticity_floor must be in [0,1), got %v", f)
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
