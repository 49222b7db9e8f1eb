// Package config loads the service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// Sampling parameters sent to the language model.
	DefaultLLMTemperature = 0.7
	DefaultLLMTopP        = 0.95
	DefaultLLMMaxTokens   = 8192

	DefaultAdvisorRateLimitRPS   = 1.0
	DefaultAdvisorRateLimitBurst = 5
	DefaultMenuFetchLimit        = 4
)

// Environment variable prefix. APP_LLM_OLLAMA_BASE_URL sets llm.ollama.base_url.
const envPrefix = "APP_"

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Catalog   CatalogConfig   `koanf:"catalog"   validate:"required"`
	Storage   StorageConfig   `koanf:"storage"   validate:"required"`
	LLM       LLMConfig       `koanf:"llm"       validate:"required"`
	Advisor   AdvisorConfig   `koanf:"advisor"   validate:"required"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`

	// Flags holds feature flag values keyed by their dotted name,
	// e.g. "advisor.fallback".
	Flags map[string]any `koanf:"-"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`

	// RequestTimeout bounds advisor requests, which wait on the language
	// model. APITimeout bounds every other API request.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required,min=1s"`
	APITimeout     time.Duration `koanf:"api_timeout"     validate:"required,min=1s"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	// "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`
	// TrustedProxies lists proxies whose X-Forwarded-For is believed.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"dive,cidr|ip"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// CatalogConfig selects where recipes are read from.
type CatalogConfig struct {
	Source string `koanf:"source" validate:"required,oneof=file s3"`
	Path   string `koanf:"path"   validate:"required_if=Source file"`

	Bucket string `koanf:"bucket" validate:"required_if=Source s3"`
	Key    string `koanf:"key"    validate:"required_if=Source s3"`
	Region string `koanf:"region"`
	// Endpoint overrides the S3 endpoint, e.g. for MinIO or LocalStack.
	Endpoint string `koanf:"endpoint" validate:"omitempty,url"`
}

// StorageConfig selects the shopping list store.
type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=memory sqlite"`
	Path   string `koanf:"path"   validate:"required_if=Driver sqlite"`
}

// LLMConfig selects and tunes the language model provider. Provider "none"
// disables the model; the advisor then answers from its fallback only.
type LLMConfig struct {
	Provider    string        `koanf:"provider"    validate:"required,oneof=none ollama bedrock"`
	Temperature float64       `koanf:"temperature" validate:"min=0,max=2"`
	TopP        float64       `koanf:"top_p"       validate:"min=0,max=1"`
	MaxTokens   int           `koanf:"max_tokens"  validate:"required,min=1,max=65536"`
	Timeout     time.Duration `koanf:"timeout"     validate:"required,min=1s"`
	Ollama      OllamaConfig  `koanf:"ollama"`
	Bedrock     BedrockConfig `koanf:"bedrock"`
}

// OllamaConfig addresses an Ollama server.
type OllamaConfig struct {
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Model   string `koanf:"model"`
}

// BedrockConfig selects an Amazon Bedrock model.
type BedrockConfig struct {
	ModelID string `koanf:"model_id"`
	Region  string `koanf:"region"`
}

// AdvisorConfig tunes the advisor endpoints.
type AdvisorConfig struct {
	CacheTTL       time.Duration   `koanf:"cache_ttl"        validate:"required,min=1s"`
	CacheCleanup   time.Duration   `koanf:"cache_cleanup"    validate:"required,min=1s"`
	MenuFetchLimit int             `koanf:"menu_fetch_limit" validate:"required,min=1,max=32"`
	RateLimit      RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"     validate:"required_if=Enabled true,omitempty,gt=0"`
	Burst   int     `koanf:"burst"   validate:"required_if=Enabled true,omitempty,min=1"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "kondate",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "90s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "75s",
		"server.api_timeout":      "10s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.cors_origins":     []string{"*"},

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/kondate.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "kondate",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      false,

		"catalog.source": "file",
		"catalog.path":   "./configs/recipes.yaml",
		"catalog.bucket": "",
		"catalog.key":    "recipes.yaml",
		"catalog.region": "",

		"storage.driver": "memory",
		"storage.path":   "./data/kondate.db",

		"llm.provider":         "none",
		"llm.temperature":      DefaultLLMTemperature,
		"llm.top_p":            DefaultLLMTopP,
		"llm.max_tokens":       DefaultLLMMaxTokens,
		"llm.timeout":          "60s",
		"llm.ollama.base_url":  "http://localhost:11434",
		"llm.ollama.model":     "gemma3:4b",
		"llm.bedrock.model_id": "anthropic.claude-3-haiku-20240307-v1:0",
		"llm.bedrock.region":   "",

		"advisor.cache_ttl":          "30m",
		"advisor.cache_cleanup":      "10m",
		"advisor.menu_fetch_limit":   DefaultMenuFetchLimit,
		"advisor.rate_limit.enabled": true,
		"advisor.rate_limit.rps":     DefaultAdvisorRateLimitRPS,
		"advisor.rate_limit.burst":   DefaultAdvisorRateLimitBurst,

		"client.timeout":                           "60s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "200ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"flags.advisor.fallback":           true,
		"flags.advisor.cache":              true,
		"flags.advisor.chat_history_limit": 10,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, dir+"/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", dir, profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Flags = k.Cut("flags").All()

	return &cfg, nil
}

// envKeyMapper maps APP_SERVER_READ_TIMEOUT onto the known key
// server.read_timeout. Underscores are ambiguous between nesting and key
// names, so variables are matched against the keys already loaded. Unknown
// variables fall back to treating every underscore as nesting.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))] = key
	}

	return func(s string) string {
		name := strings.TrimPrefix(s, envPrefix)
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(strings.ToLower(name), "_", ".")
	}
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
