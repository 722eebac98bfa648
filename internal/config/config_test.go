package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad_MemoryDefaults(t *testing.T) {
	cfg, err := Load(lookupFrom(map[string]string{"STORAGE_DRIVER": "Memory"}))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.DefaultQuota)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 210_000, cfg.PasswordIterations)
	assert.Empty(t, cfg.ImageProvider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(lookupFrom(map[string]string{
		"STORAGE_DRIVER":          "postgres",
		"POSTGRES_URL":            "postgres://u:p@localhost/lucidly",
		"JWT_SECRET":              "s3cret",
		"SESSION_TTL":             "2h",
		"PROVIDER_TIMEOUT":        "5s",
		"IMAGE_PROVIDER":          "OpenAI",
		"RATE_LIMIT_RPS":          "0.5",
		"CORS_ALLOWED_ORIGINS":    "http://a.test, http://b.test",
		"PASSWORD_KDF_ITERATIONS": "150000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost/lucidly", cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, ProviderOpenAI, cfg.ImageProvider)
	assert.InDelta(t, 0.5, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 150_000, cfg.PasswordIterations)
}

func TestLoad_PostgresNeedsDSNAndSecret(t *testing.T) {
	_, err := Load(lookupFrom(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsWeakIterations(t *testing.T) {
	_, err := Load(lookupFrom(map[string]string{
		"STORAGE_DRIVER":          "memory",
		"PASSWORD_KDF_ITERATIONS": "1000",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSWORD_KDF_ITERATIONS")
}

func TestLoad_MalformedValues(t *testing.T) {
	_, err := Load(lookupFrom(map[string]string{
		"STORAGE_DRIVER": "memory",
		"SESSION_TTL":    "forever",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}
