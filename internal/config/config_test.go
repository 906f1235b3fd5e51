package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points APP_DOTENV at a missing file and clears the variables the
// tests below depend on.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("APP_DOTENV", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"DB_HOST", "JWT_SECRET", "STUDIO_TZ", "CORS_ORIGINS", "RABBITMQ_URL", "AMQP_URL", "API_KEY", "SEED_ENABLED"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "09:00", cfg.ScheduleStart)
	assert.Equal(t, "22:00", cfg.ScheduleEnd)
	assert.Equal(t, "Europe/Madrid", cfg.Location.String())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "0 7 * * *", cfg.RosterCron)
	assert.True(t, cfg.SeedEnabled)
	assert.False(t, cfg.AuthEnabled())
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoadAuthRequiresSecret(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "127.0.0.1")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoadFromDotenv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CORS_ORIGINS=http://a.test, http://b.test\nAMQP_URL=amqp://guest:guest@mq:5672/\n"), 0o600))
	t.Setenv("APP_DOTENV", path)
	// godotenv does not override variables that already exist, so unset
	// the cleared ones for this test
	require.NoError(t, os.Unsetenv("CORS_ORIGINS"))
	require.NoError(t, os.Unsetenv("AMQP_URL"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.AMQPURL)
}

func TestLoadRejectsUnknownZone(t *testing.T) {
	isolate(t)
	t.Setenv("STUDIO_TZ", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "10")
	t.Setenv("RATE_LIMIT_WRITE_CAPACITY", "50")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 10, cfg.WriteCapacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestCacheConfigNeverCachesWrites(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get,post,head")
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
}
