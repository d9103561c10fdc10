// Package config loads and validates application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file named by
// CONFIG_PATH, then environment variables (highest priority).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the optional YAML config file.
const PathEnvVar = "CONFIG_PATH"

// Config holds all configuration values for the API server.
// Each koanf key is the lower-cased name of its environment variable.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `koanf:"port"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `koanf:"database_url"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `koanf:"cors_origins"`

	// MaxBodyBytes caps request bodies. Recipe images arrive inline as base64.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool `koanf:"migrate_on_start"`

	// JWTSecret signs bearer tokens. Required.
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// RedisURL enables token revocation and the recipe-creation quota.
	RedisURL string `koanf:"redis_url"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	// RecipeCreateLimit is the per-user hourly cap on POST /recipes. 0 disables it.
	RecipeCreateLimit int `koanf:"recipe_create_limit"`

	MediaDir     string `koanf:"media_dir"`
	MediaBaseURL string `koanf:"media_base_url"`

	// S3Bucket switches image storage from MediaDir to S3 when set.
	S3Bucket    string        `koanf:"s3_bucket"`
	S3Region    string        `koanf:"s3_region"`
	S3Endpoint  string        `koanf:"s3_endpoint"`
	S3KeyID     string        `koanf:"s3_key_id"`
	S3AccessKey string        `koanf:"s3_access_key"`
	S3PublicURL string        `koanf:"s3_public_url"`
	S3Timeout   time.Duration `koanf:"s3_timeout"`
}

func defaults() Config {
	return Config{
		Port:              "8080",
		LogLevel:          "info",
		CORSOrigins:       []string{"http://localhost:3000"},
		MaxBodyBytes:      10 << 20,
		TokenTTL:          24 * time.Hour,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RecipeCreateLimit: 30,
		MediaDir:          "./media",
		MediaBaseURL:      "/media",
		S3Region:          "us-east-1",
		S3Timeout:         30 * time.Second,
	}
}

// sliceKeys are parsed as comma-separated lists when they arrive as strings.
var sliceKeys = []string{"cors_origins"}

// Load reads configuration and returns a Config.
// Returns an error listing any required values that are not set.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := os.Getenv(PathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	known := make(map[string]bool)
	for _, key := range k.Keys() {
		known[key] = true
	}
	// Empty variables are skipped so that an exported-but-blank PORT still
	// falls back to the default.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		key = strings.ToLower(key)
		if !known[key] || value == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	for _, key := range sliceKeys {
		if s, ok := k.Get(key).(string); ok {
			if err := k.Set(key, splitCSV(s)); err != nil {
				return Config{}, fmt.Errorf("config: set %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
