// Package config loads server configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverSpanner  = "spanner"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	StoreDriver string `yaml:"store_driver"`
	SpannerDB   string `yaml:"spanner_database"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	// SeedFile is a YAML fixture loaded into the memory store at startup.
	SeedFile string `yaml:"seed_file"`

	GRPCPort string `yaml:"grpc_port"`
	HTTPPort string `yaml:"http_port"`

	LogLevel  string `yaml:"log_level"`
	JWTSecret string `yaml:"jwt_secret"`

	ServiceName  string `yaml:"service_name"`
	Environment  string `yaml:"environment"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

// Default returns the configuration for local development against the
// Spanner emulator.
func Default() Config {
	return Config{
		StoreDriver: DriverSpanner,
		SpannerDB:   "projects/test-project/instances/dev-instance/databases/storefront-db",
		SQLitePath:  "storefront.db",
		GRPCPort:    "9090",
		HTTPPort:    "8080",
		LogLevel:    "INFO",
		ServiceName: "storefront",
		Environment: "development",
	}
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds the configuration using getenv for lookups. If
// CONFIG_FILE is set, that YAML file is applied over the defaults before
// environment overrides.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"STORE_DRIVER", &cfg.StoreDriver},
		{"SPANNER_DATABASE", &cfg.SpannerDB},
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"SQLITE_PATH", &cfg.SQLitePath},
		{"SEED_FILE", &cfg.SeedFile},
		{"GRPC_PORT", &cfg.GRPCPort},
		{"HTTP_PORT", &cfg.HTTPPort},
		{"LOG_LEVEL", &cfg.LogLevel},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"OTEL_SERVICE_NAME", &cfg.ServiceName},
		{"ENVIRONMENT", &cfg.Environment},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.OTLPEndpoint},
	}
	for _, o := range overrides {
		if v := getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if v := getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		cfg.OTLPInsecure = v == "true"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the selected store has what it needs.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverSpanner:
		if c.SpannerDB == "" {
			return fmt.Errorf("spanner_database is required for the spanner store")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres store")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.GRPCPort == "" || c.HTTPPort == "" {
		return fmt.Errorf("grpc_port and http_port are required")
	}
	return nil
}

// SlogLevel parses LogLevel. Unknown values fall back to INFO.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
