package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "STORAGE_DRIVER", "JWT_TTL", "STATUS_CACHE_TTL", "REDIS_HOST", "ORDER_TRANSITION_POLICY", "METRICS_ADDR"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "strict", cfg.TransitionPolicy)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 24*time.Hour, cfg.StatusCacheTTL)
	assert.Equal(t, "order-events", cfg.KafkaOrderTopic)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_TTL", "3600")
	t.Setenv("STATUS_CACHE_TTL", "15m")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("ORDER_TRANSITION_POLICY", "permissive")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PUBLIC_BASE_URL", "http://orders.test/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.StatusCacheTTL)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, "permissive", cfg.TransitionPolicy)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://orders.test", cfg.PublicBaseURL)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown storage driver", key: "STORAGE_DRIVER", value: "mongo"},
		{name: "unknown transition policy", key: "ORDER_TRANSITION_POLICY", value: "lenient"},
		{name: "bad duration", key: "JWT_TTL", value: "soon"},
		{name: "default jwt secret in production", key: "JWT_SECRET", value: DefaultJWTSecret},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("APP_ENV", "production")
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(testCase.key, testCase.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{Host: "db", Port: "5432", Name: "food", User: "app", Password: "secret"}.DSN()
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=food sslmode=disable", dsn)
}
