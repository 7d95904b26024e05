package config

import (
	"os"
	"testing"
	"time"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{
			name:         "returns true for 'true'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "true",
			want:         true,
		},
		{
			name:         "returns true for '1'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "1",
			want:         true,
		},
		{
			name:         "returns false for 'false'",
			key:          "TEST_BOOL",
			defaultValue: true,
			envValue:     "false",
			want:         false,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_BOOL_NOT_SET",
			defaultValue: true,
			envValue:     "",
			want:         true,
		},
		{
			name:         "returns true for 'TRUE' (case insensitive)",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "TRUE",
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvInt tests the getEnvInt helper function
func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{
			name:         "returns parsed int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "42",
			want:         42,
		},
		{
			name:         "returns default for invalid int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "not-a-number",
			want:         10,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_NOT_SET",
			defaultValue: 10,
			envValue:     "",
			want:         10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		want         time.Duration
	}{
		{
			name:         "returns parsed duration",
			key:          "TEST_DURATION",
			defaultValue: time.Minute,
			envValue:     "30s",
			want:         30 * time.Second,
		},
		{
			name:         "returns default for invalid duration",
			key:          "TEST_DURATION",
			defaultValue: time.Minute,
			envValue:     "garbage",
			want:         time.Minute,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_DURATION_NOT_SET",
			defaultValue: time.Minute,
			envValue:     "",
			want:         time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLoadDefaults verifies the defaults applied with no environment set
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.MultiTenancyEnabled {
		t.Error("expected multi-tenancy enabled by default")
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %v, want memory", cfg.Storage.Type)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %v, want memory", cfg.Cache.Type)
	}
	if cfg.Cache.MemorySize <= 0 {
		t.Errorf("Cache.MemorySize = %v, want positive", cfg.Cache.MemorySize)
	}
	if !cfg.Audit.Enabled {
		t.Error("expected audit enabled by default")
	}
	if cfg.Audit.RetentionDays != 90 {
		t.Errorf("Audit.RetentionDays = %v, want 90", cfg.Audit.RetentionDays)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("Observability.LogLevel = %v, want info", cfg.Observability.LogLevel)
	}
	if cfg.Observability.OTel.Enabled {
		t.Error("expected OTel disabled by default")
	}
	if cfg.Observability.OTel.ServiceName != "gatehouse" {
		t.Errorf("OTel.ServiceName = %v, want gatehouse", cfg.Observability.OTel.ServiceName)
	}
}

// TestLoadFromEnvironment verifies environment overrides
func TestLoadFromEnvironment(t *testing.T) {
	envVars := map[string]string{
		"GATEHOUSE_MULTI_TENANCY_ENABLED": "false",
		"GATEHOUSE_STORAGE_TYPE":          "postgres",
		"GATEHOUSE_POSTGRES_URL":          "postgres://localhost/gatehouse",
		"GATEHOUSE_POSTGRES_MAX_CONNS":    "50",
		"GATEHOUSE_CACHE_TYPE":            "redis",
		"GATEHOUSE_REDIS_URL":             "redis://localhost:6379",
		"GATEHOUSE_REDIS_TTL":             "2m",
		"GATEHOUSE_SETTINGS_FILE":         "/etc/gatehouse/settings.yaml",
		"GATEHOUSE_AUDIT_DIR":             "/var/log/gatehouse",
		"GATEHOUSE_AUDIT_RETENTION_DAYS":  "30",
		"GATEHOUSE_LOG_LEVEL":             "debug",
		"GATEHOUSE_OTEL_ENABLED":          "true",
		"GATEHOUSE_OTEL_ENDPOINT":         "otel-collector:4317",
	}
	for k, v := range envVars {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MultiTenancyEnabled {
		t.Error("expected multi-tenancy disabled")
	}
	if cfg.Storage.Type != "postgres" {
		t.Errorf("Storage.Type = %v, want postgres", cfg.Storage.Type)
	}
	if cfg.Storage.Postgres.URL != "postgres://localhost/gatehouse" {
		t.Errorf("Postgres.URL = %v", cfg.Storage.Postgres.URL)
	}
	if cfg.Storage.Postgres.MaxConns != 50 {
		t.Errorf("Postgres.MaxConns = %v, want 50", cfg.Storage.Postgres.MaxConns)
	}
	if cfg.Cache.Type != "redis" {
		t.Errorf("Cache.Type = %v, want redis", cfg.Cache.Type)
	}
	if cfg.Cache.Redis.URL != "redis://localhost:6379" {
		t.Errorf("Redis.URL = %v", cfg.Cache.Redis.URL)
	}
	if cfg.Cache.Redis.TTL != 2*time.Minute {
		t.Errorf("Redis.TTL = %v, want 2m", cfg.Cache.Redis.TTL)
	}
	if cfg.Settings.FilePath != "/etc/gatehouse/settings.yaml" {
		t.Errorf("Settings.FilePath = %v", cfg.Settings.FilePath)
	}
	if cfg.Audit.Directory != "/var/log/gatehouse" {
		t.Errorf("Audit.Directory = %v", cfg.Audit.Directory)
	}
	if cfg.Audit.RetentionDays != 30 {
		t.Errorf("Audit.RetentionDays = %v, want 30", cfg.Audit.RetentionDays)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.Observability.LogLevel)
	}
	if !cfg.Observability.OTel.Enabled {
		t.Error("expected OTel enabled")
	}
	if cfg.Observability.OTel.Endpoint != "otel-collector:4317" {
		t.Errorf("OTel.Endpoint = %v", cfg.Observability.OTel.Endpoint)
	}
}

// TestValidate tests configuration validation
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{Type: "memory"},
			Cache:   CacheConfig{Type: "memory", MemorySize: 128},
			Audit:   AuditConfig{Enabled: true, RetentionDays: 90},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "invalid storage type",
			mutate:  func(c *Config) { c.Storage.Type = "cassandra" },
			wantErr: true,
		},
		{
			name:    "postgres without URL",
			mutate:  func(c *Config) { c.Storage.Type = "postgres" },
			wantErr: true,
		},
		{
			name: "postgres with URL",
			mutate: func(c *Config) {
				c.Storage.Type = "postgres"
				c.Storage.Postgres.URL = "postgres://localhost/db"
			},
			wantErr: false,
		},
		{
			name:    "invalid cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: true,
		},
		{
			name:    "redis cache without URL",
			mutate:  func(c *Config) { c.Cache.Type = "redis" },
			wantErr: true,
		},
		{
			name: "redis cache with URL",
			mutate: func(c *Config) {
				c.Cache.Type = "redis"
				c.Cache.Redis.URL = "redis://localhost:6379"
			},
			wantErr: false,
		},
		{
			name:    "non-positive cache size",
			mutate:  func(c *Config) { c.Cache.MemorySize = 0 },
			wantErr: true,
		},
		{
			name:    "audit enabled with zero retention",
			mutate:  func(c *Config) { c.Audit.RetentionDays = 0 },
			wantErr: true,
		},
		{
			name: "audit disabled ignores retention",
			mutate: func(c *Config) {
				c.Audit.Enabled = false
				c.Audit.RetentionDays = 0
			},
			wantErr: false,
		},
		{
			name:    "otel enabled without endpoint",
			mutate:  func(c *Config) { c.Observability.OTel.Enabled = true },
			wantErr: true,
		},
		{
			name: "otel enabled without service name",
			mutate: func(c *Config) {
				c.Observability.OTel.Enabled = true
				c.Observability.OTel.Endpoint = "localhost:4317"
			},
			wantErr: true,
		},
		{
			name: "otel fully configured",
			mutate: func(c *Config) {
				c.Observability.OTel.Enabled = true
				c.Observability.OTel.Endpoint = "localhost:4317"
				c.Observability.OTel.ServiceName = "gatehouse"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
