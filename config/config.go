package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Catalog   CatalogConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds generation-service configuration. An empty API key is
// valid: the service runs fallback-only and every answer comes from the
// deterministic templates.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
}

// CatalogConfig holds catalog store configuration. Sentinel values are
// dataset fill values that must be treated as missing data; they are
// configuration rather than constants because they change with every catalog
// export.
type CatalogConfig struct {
	DBPath              string    `mapstructure:"db_path"`
	CSVPath             string    `mapstructure:"csv_path"`
	SentinelWeights     []float64 `mapstructure:"sentinel_weights"`
	SentinelTurnRadiusM []float64 `mapstructure:"sentinel_turn_radius_m"`
}

// MatchingConfig holds product-matcher configuration
type MatchingConfig struct {
	MaxResults int `mapstructure:"max_results"`
}

// CacheConfig holds response-cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	GeminiPerMinute int `mapstructure:"gemini_per_minute"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/skiguide/")

	v.SetEnvPrefix("SKIGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("gemini.model", "gemini-2.0-flash-exp")
	v.SetDefault("gemini.timeout", "15s")
	v.SetDefault("gemini.max_output_tokens", 300)

	v.SetDefault("catalog.db_path", "catalog.db")
	v.SetDefault("catalog.csv_path", "")
	// Observed fill values in the current catalog export: most rows carry
	// weight 1140g and turn radius 20m regardless of the actual ski.
	v.SetDefault("catalog.sentinel_weights", []float64{1140})
	v.SetDefault("catalog.sentinel_turn_radius_m", []float64{20})

	v.SetDefault("matching.max_results", 10)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("ratelimit.gemini_per_minute", 30)

	v.SetDefault("logging.json", false)
	v.SetDefault("logging.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.DBPath == "" && config.Catalog.CSVPath == "" {
		return fmt.Errorf("catalog source is required (set SKIGUIDE_CATALOG_DB_PATH or SKIGUIDE_CATALOG_CSV_PATH)")
	}

	if config.Matching.MaxResults <= 0 {
		return fmt.Errorf("matching.max_results must be positive, got: %d", config.Matching.MaxResults)
	}

	if config.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini.timeout must be positive, got: %s", config.Gemini.Timeout)
	}

	return nil
}
