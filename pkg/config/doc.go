// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Tenancy and storage settings:
//
//	GATEHOUSE_MULTI_TENANCY_ENABLED="true"
//	GATEHOUSE_STORAGE_TYPE="postgres"  # memory, postgres
//	GATEHOUSE_POSTGRES_URL="postgres://localhost/gatehouse"
//	GATEHOUSE_POSTGRES_MAX_CONNS="25"
//
// Cache settings:
//
//	GATEHOUSE_CACHE_TYPE="redis"  # memory, redis
//	GATEHOUSE_CACHE_SIZE="1024"
//	GATEHOUSE_CACHE_TTL="30m"
//	GATEHOUSE_REDIS_URL="redis://localhost:6379"
//	GATEHOUSE_REDIS_TTL="5m"
//
// Settings and audit:
//
//	GATEHOUSE_SETTINGS_FILE="/etc/gatehouse/settings.yaml"
//	GATEHOUSE_AUDIT_ENABLED="true"
//	GATEHOUSE_AUDIT_DIR="/var/log/gatehouse"
//	GATEHOUSE_AUDIT_RETENTION_DAYS="90"
//	GATEHOUSE_AUDIT_RETENTION_SCHEDULE="5 0 * * *"
//
// Observability settings:
//
//	GATEHOUSE_LOG_LEVEL="info"  # debug, info, warn, error
//	GATEHOUSE_METRICS_ENABLED="true"
//	GATEHOUSE_OTEL_ENABLED="true"
//	GATEHOUSE_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Storage: %s\n", cfg.Storage.Type)
//	fmt.Printf("Cache: %s\n", cfg.Cache.Type)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/cache: Uses cache configuration
//   - pkg/observability: Uses observability configuration
package config
