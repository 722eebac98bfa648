// Package config assembles runtime settings from defaults, an optional .env
// file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"lucidly/pkg/utils"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderHTTP   = "http"
	ProviderSample = "sample"

	defaultJWTSecret = "change-me"
)

type Config struct {
	Port          string
	GinMode       string
	StorageDriver string
	DatabaseDSN   string

	JWTSecret         string
	SessionTTL        time.Duration
	PasswordIterations int
	DefaultQuota      int

	ProviderTimeout        time.Duration
	ImageProvider          string
	VideoProvider          string
	InterpretationProvider string
	OpenAIAPIKey           string
	OpenAIChatModel        string
	OpenAIImageModel       string
	GeminiAPIKey           string
	GeminiModel            string
	VideoAPIURL            string
	VideoAPIKey            string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string

	LogLevel  string
	LogFormat string
}

// LoadDefaults fills development defaults. Providers start unconfigured so a
// missing key fails loudly instead of producing sample content.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.GinMode = "release"
	c.StorageDriver = DriverPostgres
	c.JWTSecret = defaultJWTSecret
	c.SessionTTL = 7 * 24 * time.Hour
	c.PasswordIterations = utils.DefaultPasswordIterations
	c.DefaultQuota = 3
	c.ProviderTimeout = 30 * time.Second
	c.OpenAIChatModel = "gpt-4o-mini"
	c.OpenAIImageModel = "dall-e-3"
	c.GeminiModel = "gemini-1.5-flash"
	c.S3Region = "us-east-1"
	c.RateLimitRPS = 1
	c.RateLimitBurst = 5
	c.CORSOrigins = []string{"*"}
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig reads .env when present and overlays the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return Load(os.LookupEnv)
}

func Load(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	e := envReader{lookup: lookup}
	e.str("PORT", &cfg.Port)
	e.str("GIN_MODE", &cfg.GinMode)
	e.str("STORAGE_DRIVER", &cfg.StorageDriver)
	e.str("DATABASE_URL", &cfg.DatabaseDSN)
	e.str("POSTGRES_URL", &cfg.DatabaseDSN)
	e.str("JWT_SECRET", &cfg.JWTSecret)
	e.duration("SESSION_TTL", &cfg.SessionTTL)
	e.int("PASSWORD_KDF_ITERATIONS", &cfg.PasswordIterations)
	e.int("DEFAULT_QUOTA_LIMIT", &cfg.DefaultQuota)
	e.duration("PROVIDER_TIMEOUT", &cfg.ProviderTimeout)
	e.str("IMAGE_PROVIDER", &cfg.ImageProvider)
	e.str("VIDEO_PROVIDER", &cfg.VideoProvider)
	e.str("INTERPRETATION_PROVIDER", &cfg.InterpretationProvider)
	e.str("OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	e.str("OPENAI_CHAT_MODEL", &cfg.OpenAIChatModel)
	e.str("OPENAI_IMAGE_MODEL", &cfg.OpenAIImageModel)
	e.str("GEMINI_API_KEY", &cfg.GeminiAPIKey)
	e.str("GEMINI_MODEL", &cfg.GeminiModel)
	e.str("VIDEO_API_URL", &cfg.VideoAPIURL)
	e.str("VIDEO_API_KEY", &cfg.VideoAPIKey)
	e.str("S3_BUCKET", &cfg.S3Bucket)
	e.str("S3_REGION", &cfg.S3Region)
	e.str("S3_ENDPOINT", &cfg.S3Endpoint)
	e.str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	e.str("S3_SECRET_KEY", &cfg.S3SecretKey)
	e.str("S3_PUBLIC_URL", &cfg.S3PublicURL)
	e.float("RATE_LIMIT_RPS", &cfg.RateLimitRPS)
	e.int("RATE_LIMIT_BURST", &cfg.RateLimitBurst)
	e.list("CORS_ALLOWED_ORIGINS", &cfg.CORSOrigins)
	e.str("LOG_LEVEL", &cfg.LogLevel)
	e.str("LOG_FORMAT", &cfg.LogFormat)

	if e.err != nil {
		return nil, e.err
	}

	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	cfg.ImageProvider = strings.ToLower(cfg.ImageProvider)
	cfg.VideoProvider = strings.ToLower(cfg.VideoProvider)
	cfg.InterpretationProvider = strings.ToLower(cfg.InterpretationProvider)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the postgres storage driver"))
		}
		if c.JWTSecret == defaultJWTSecret {
			errs = append(errs, errors.New("JWT_SECRET must be set for the postgres storage driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.PasswordIterations < utils.MinPasswordIterations {
		errs = append(errs, fmt.Errorf("PASSWORD_KDF_ITERATIONS must be at least %d", utils.MinPasswordIterations))
	}
	if c.DefaultQuota < 0 {
		errs = append(errs, errors.New("DEFAULT_QUOTA_LIMIT must not be negative"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit settings must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) fail(key, value string, err error) {
	e.err = errors.Join(e.err, fmt.Errorf("invalid %s=%q: %w", key, value, err))
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = f
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
