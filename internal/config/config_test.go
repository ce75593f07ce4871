package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		set          bool
		defaultValue string
		expected     string
	}{
		{name: "unset uses default", key: "PRODUKTA_TEST_UNSET", defaultValue: "fallback", expected: "fallback"},
		{name: "set value wins", key: "PRODUKTA_TEST_SET", value: "custom", set: true, defaultValue: "fallback", expected: "custom"},
		{name: "empty value is kept", key: "PRODUKTA_TEST_EMPTY", value: "", set: true, defaultValue: "fallback", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.expected, getEnvOrDefault(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	t.Setenv("PRODUKTA_TEST_INT", "42")
	t.Setenv("PRODUKTA_TEST_BAD_INT", "forty-two")

	assert.Equal(t, 42, getEnvAsIntOrDefault("PRODUKTA_TEST_INT", 7))
	assert.Equal(t, 7, getEnvAsIntOrDefault("PRODUKTA_TEST_BAD_INT", 7))
	assert.Equal(t, 7, getEnvAsIntOrDefault("PRODUKTA_TEST_MISSING_INT", 7))
}

func TestParseCommaSeparatedList(t *testing.T) {
	assert.Equal(t, []string{}, parseCommaSeparatedList(""))
	assert.Equal(t, []string{"a", "b"}, parseCommaSeparatedList(" a, ,b ,"))
	assert.Equal(t, []string{"http://localhost:3000"}, parseCommaSeparatedList("http://localhost:3000"))
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 8080, AppConfig.Port)
	assert.Equal(t, "development", AppConfig.Environment)
	assert.Equal(t, StorageMemory, AppConfig.StorageBackend)
	assert.Equal(t, "msmes", AppConfig.MSMECollection)
	assert.Equal(t, "sectors", AppConfig.SectorCollection)
	assert.Equal(t, 10*time.Minute, AppConfig.RedisTTL)
	assert.Equal(t, 30*time.Minute, AppConfig.VisitDedupeWindow)
	assert.Equal(t, "produkta-admin", AppConfig.AdminRole)
	assert.Equal(t, "produkta-superadmin", AppConfig.SuperAdminRole)
	assert.False(t, AppConfig.TracingEnabled)
	assert.False(t, AppConfig.SeedFixtures)
}

func TestLoadConfig_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "MONGO")
	t.Setenv("MONGODB_DATABASE", "produkta_test")
	t.Setenv("REDIS_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://produkta.ph, https://admin.produkta.ph")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 9090, AppConfig.Port)
	assert.Equal(t, StorageMongo, AppConfig.StorageBackend)
	assert.Equal(t, "produkta_test", AppConfig.MongoDatabase)
	assert.Equal(t, time.Hour, AppConfig.RedisTTL)
	assert.Equal(t, []string{"https://produkta.ph", "https://admin.produkta.ph"}, AppConfig.CORSAllowedOrigins)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	assert.Error(t, LoadConfig())
}

func TestLoadConfig_InvalidRedisTTL(t *testing.T) {
	t.Setenv("REDIS_TTL", "forever")
	assert.Error(t, LoadConfig())
}

func TestLoadConfig_InvalidBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "csv")
	err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoadConfig_SQLRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sql")
	t.Setenv("DATABASE_DSN", "")
	err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DSN")
}

func TestLoadConfig_InvalidTracingFlag(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "maybe")
	assert.Error(t, LoadConfig())
}

func TestLoadConfig_SeedFixtures(t *testing.T) {
	t.Setenv("SEED_FIXTURES", "true")
	require.NoError(t, LoadConfig())
	assert.True(t, AppConfig.SeedFixtures)

	t.Setenv("SEED_FIXTURES", "sometimes")
	assert.Error(t, LoadConfig())
}
