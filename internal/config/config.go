package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageSQL    = "sql"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Storage backend: memory, mongo or sql
	StorageBackend string `json:"storage_backend"`
	// SeedFixtures loads the development data set into an empty mongo or sql store on startup
	SeedFixtures bool `json:"seed_fixtures"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Collection names
	MSMECollection    string `json:"mongo_msme_collection"`
	SectorCollection  string `json:"mongo_sector_collection"`
	AdminCollection   string `json:"mongo_admin_collection"`
	CounterCollection string `json:"mongo_counter_collection"`

	// Relational database configuration
	DatabaseDSN          string `json:"database_dsn"`
	DatabaseMaxOpenConns int    `json:"database_max_open_conns"`
	DatabaseMaxIdleConns int    `json:"database_max_idle_conns"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Analytics
	VisitDedupeWindow time.Duration `json:"visit_dedupe_window"`

	// Tracing
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`

	// Roles carried in realm_access.roles
	AdminRole      string `json:"admin_role"`
	SuperAdminRole string `json:"superadmin_role"`

	// CORS
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	// Export
	ExportLogoPath string `json:"export_logo_path"`
	ExportTitle    string `json:"export_title"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "10m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	dedupeWindow, err := time.ParseDuration(getEnvOrDefault("VISIT_DEDUPE_WINDOW", "30m"))
	if err != nil {
		return fmt.Errorf("invalid VISIT_DEDUPE_WINDOW: %w", err)
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	seedFixtures, err := strconv.ParseBool(getEnvOrDefault("SEED_FIXTURES", "false"))
	if err != nil {
		return fmt.Errorf("invalid SEED_FIXTURES: %w", err)
	}

	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageMemory))
	switch backend {
	case StorageMemory, StorageMongo, StorageSQL:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be memory, mongo or sql", backend)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if backend == StorageSQL && dsn == "" {
		return fmt.Errorf("DATABASE_DSN environment variable is required when STORAGE_BACKEND=sql")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		StorageBackend: backend,
		SeedFixtures:   seedFixtures,

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "produkta"),

		// Collection names
		MSMECollection:    getEnvOrDefault("MONGODB_MSME_COLLECTION", "msmes"),
		SectorCollection:  getEnvOrDefault("MONGODB_SECTOR_COLLECTION", "sectors"),
		AdminCollection:   getEnvOrDefault("MONGODB_ADMIN_COLLECTION", "admins"),
		CounterCollection: getEnvOrDefault("MONGODB_COUNTER_COLLECTION", "counters"),

		DatabaseDSN:          dsn,
		DatabaseMaxOpenConns: getEnvAsIntOrDefault("DATABASE_MAX_OPEN_CONNS", 25),
		DatabaseMaxIdleConns: getEnvAsIntOrDefault("DATABASE_MAX_IDLE_CONNS", 5),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		VisitDedupeWindow: dedupeWindow,

		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),

		AdminRole:      getEnvOrDefault("ADMIN_ROLE", "produkta-admin"),
		SuperAdminRole: getEnvOrDefault("SUPERADMIN_ROLE", "produkta-superadmin"),

		CORSAllowedOrigins: parseCommaSeparatedList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		ExportLogoPath: getEnvOrDefault("EXPORT_LOGO_PATH", ""),
		ExportTitle:    getEnvOrDefault("EXPORT_TITLE", "ProdukTa MSME Directory"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the integer value of an environment variable or a default value
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseCommaSeparatedList splits a comma-separated string into trimmed, non-empty items
func parseCommaSeparatedList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
