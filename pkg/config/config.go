package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/cache"
	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/storage/postgres"
)

// Config holds all configuration of an embedding application.
type Config struct {
	// MultiTenancyEnabled toggles the host/tenant split. With it disabled
	// the deployment always runs as a single tenant.
	MultiTenancyEnabled bool

	Storage       StorageConfig
	Cache         CacheConfig
	Settings      SettingsConfig
	Audit         AuditConfig
	Observability ObservabilityConfig
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Type is "memory" or "postgres".
	Type string

	Postgres postgres.Config
}

// CacheConfig selects and configures the permission snapshot cache.
type CacheConfig struct {
	// Type is "memory" or "redis".
	Type string

	// Memory cache bounds.
	MemorySize int
	MemoryTTL  time.Duration

	Redis cache.RedisConfig
}

// SettingsConfig configures the settings provider.
type SettingsConfig struct {
	// FilePath optionally points at a YAML settings file that is
	// hot-reloaded on change. Empty means static defaults only.
	FilePath string
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Enabled toggles audit logging entirely.
	Enabled bool

	// Directory is where file-based audit logs go. Empty disables the
	// file sink.
	Directory string

	// RetentionDays bounds how long audit events are kept.
	RetentionDays int

	// RetentionSchedule is a cron expression for the purge job.
	RetentionSchedule string
}

// ObservabilityConfig holds logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel       string
	MetricsEnabled bool
	OTel           observability.OTelConfig
}

// Load reads configuration from GATEHOUSE_* environment variables and
// validates it.
func Load() (*Config, error) {
	cfg := &Config{
		MultiTenancyEnabled: getEnvBool("GATEHOUSE_MULTI_TENANCY_ENABLED", true),
		Storage: StorageConfig{
			Type: getEnv("GATEHOUSE_STORAGE_TYPE", "memory"),
			Postgres: postgres.Config{
				URL:         getEnv("GATEHOUSE_POSTGRES_URL", ""),
				MaxConns:    getEnvInt("GATEHOUSE_POSTGRES_MAX_CONNS", 25),
				MinConns:    getEnvInt("GATEHOUSE_POSTGRES_MIN_CONNS", 5),
				Timeout:     getEnvDuration("GATEHOUSE_POSTGRES_TIMEOUT", 10*time.Second),
				MaxLifetime: getEnvDuration("GATEHOUSE_POSTGRES_MAX_LIFETIME", time.Hour),
				MaxIdleTime: getEnvDuration("GATEHOUSE_POSTGRES_MAX_IDLE_TIME", 10*time.Minute),
			},
		},
		Cache: CacheConfig{
			Type:       getEnv("GATEHOUSE_CACHE_TYPE", "memory"),
			MemorySize: getEnvInt("GATEHOUSE_CACHE_SIZE", cache.DefaultMemorySize),
			MemoryTTL:  getEnvDuration("GATEHOUSE_CACHE_TTL", cache.DefaultMemoryTTL),
			Redis: cache.RedisConfig{
				URL:        getEnv("GATEHOUSE_REDIS_URL", ""),
				KeyPrefix:  getEnv("GATEHOUSE_REDIS_KEY_PREFIX", "gatehouse:permissions:"),
				TTL:        getEnvDuration("GATEHOUSE_REDIS_TTL", cache.DefaultRedisTTL),
				Password:   getEnv("GATEHOUSE_REDIS_PASSWORD", ""),
				DB:         getEnvInt("GATEHOUSE_REDIS_DB", 0),
				MaxRetries: getEnvInt("GATEHOUSE_REDIS_MAX_RETRIES", 3),
			},
		},
		Settings: SettingsConfig{
			FilePath: getEnv("GATEHOUSE_SETTINGS_FILE", ""),
		},
		Audit: AuditConfig{
			Enabled:           getEnvBool("GATEHOUSE_AUDIT_ENABLED", true),
			Directory:         getEnv("GATEHOUSE_AUDIT_DIR", ""),
			RetentionDays:     getEnvInt("GATEHOUSE_AUDIT_RETENTION_DAYS", 90),
			RetentionSchedule: getEnv("GATEHOUSE_AUDIT_RETENTION_SCHEDULE", "5 0 * * *"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("GATEHOUSE_LOG_LEVEL", "info"),
			MetricsEnabled: getEnvBool("GATEHOUSE_METRICS_ENABLED", true),
			OTel: observability.OTelConfig{
				Enabled:        getEnvBool("GATEHOUSE_OTEL_ENABLED", false),
				Endpoint:       getEnv("GATEHOUSE_OTEL_ENDPOINT", "localhost:4317"),
				ServiceName:    getEnv("GATEHOUSE_OTEL_SERVICE_NAME", "gatehouse"),
				ServiceVersion: getEnv("GATEHOUSE_OTEL_SERVICE_VERSION", "1.0.0"),
				Insecure:       getEnvBool("GATEHOUSE_OTEL_INSECURE", true),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory":
	case "postgres":
		if c.Storage.Postgres.URL == "" {
			return fmt.Errorf("postgres URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be memory or postgres)", c.Storage.Type)
	}

	switch c.Cache.Type {
	case "memory":
		if c.Cache.MemorySize <= 0 {
			return fmt.Errorf("cache size must be positive")
		}
	case "redis":
		if c.Cache.Redis.URL == "" {
			return fmt.Errorf("redis URL is required for redis cache")
		}
	default:
		return fmt.Errorf("invalid cache type: %s (must be memory or redis)", c.Cache.Type)
	}

	if c.Audit.Enabled && c.Audit.RetentionDays <= 0 {
		return fmt.Errorf("audit retention days must be positive")
	}

	if c.Observability.OTel.Enabled {
		if c.Observability.OTel.Endpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTel.ServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
