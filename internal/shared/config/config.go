package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	MSSQL      MSSQLConfig
	Auth       AuthConfig
	EventStore EventStoreConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend: "json", "postgres" or "mssql"
	Backend string
	// DataDir holds the JSON collection files for the "json" backend
	DataDir string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MSSQLConfig holds connection settings for the hospital information
// system database (SQL Server), used by the "mssql" backend.
type MSSQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (m MSSQLConfig) DSN() string {
	return fmt.Sprintf(
		"sqlserver://%s:%s@%s:%d?database=%s",
		m.User, m.Password, m.Host, m.Port, m.Database,
	)
}

type AuthConfig struct {
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	TokenTTL      time.Duration
}

// EventStoreConfig holds configuration for the domain event log (EventStoreDB).
type EventStoreConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 5000),
			Env:  getEnv("ENV", "development"),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "json"),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hospital_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MSSQL: MSSQLConfig{
			Host:     getEnv("MSSQL_HOST", "localhost"),
			Port:     getEnvInt("MSSQL_PORT", 1433),
			User:     getEnv("MSSQL_USER", "sa"),
			Password: getEnv("MSSQL_PASSWORD", ""),
			Database: getEnv("MSSQL_NAME", "hospital_db"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
			TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 480)) * time.Minute,
		},
		EventStore: EventStoreConfig{
			Enabled:  getEnvBool("EVENTSTORE_ENABLED", false),
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	switch cfg.Storage.Backend {
	case "json", "postgres", "mssql":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
