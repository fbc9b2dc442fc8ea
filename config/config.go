// Package config provides configuration management for the task manager.
// It loads values from environment variables, applies defaults for optional
// ones, collects every problem it finds and reports them together, so a
// misconfigured deployment fails once with the full list instead of one
// variable at a time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	User     string `validate:"required"`
	Password string
	DBName   string `validate:"required"`
	MaxSize  int    `validate:"min=1,max=100"`
}

// DSN returns a postgres:// URL for the pool settings.
func (c *PoolConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DBName,
	)
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver            string      `validate:"oneof=postgres memory"`
	MigrationsOnStart bool
	DB                *PoolConfig `validate:"required_if=Driver postgres"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	AllowedOrigins  []string      `validate:"min=1,dive,required"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Storage *StorageConfig `validate:"required"`
	Server  *ServerConfig  `validate:"required"`
	Log     *LogConfig     `validate:"required"`
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// `time.ParseDuration` expects a string like "15s" or "1m30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size between 1 and 100, recording a note when it had to clamp.
func clampPoolSize(size int, errors *[]string) int {
	if size < 1 {
		*errors = append(*errors, fmt.Sprintf("pool size DB_POOL_SIZE (%d) is less than minimum 1", size))
		return 1
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size DB_POOL_SIZE (%d) is greater than maximum 100", size))
		return 100
	}
	return size
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Storage Configuration
	storage := &StorageConfig{
		Driver:            strings.ToLower(getOptionalEnv("STORAGE_DRIVER", DriverPostgres)),
		MigrationsOnStart: getOptionalEnvBool("MIGRATIONS_ON_START", true, &errors),
	}

	// Database settings are only demanded when Postgres backs the repositories.
	if storage.Driver == DriverPostgres {
		storage.DB = &PoolConfig{
			User:     getRequiredEnv("DB_USER", &errors),
			Password: getRequiredEnv("DB_PASSWORD", &errors),
			DBName:   getRequiredEnv("DB_NAME", &errors),
			Host:     getOptionalEnv("DB_HOST", "localhost"),
			Port:     getOptionalEnvInt("DB_PORT", 5432, &errors),
			MaxSize:  clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), &errors),
		}
	}

	// Server Configuration
	server := &ServerConfig{
		Port:            getOptionalEnv("PORT", "8080"),
		ReadTimeout:     getOptionalEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second, &errors),
		WriteTimeout:    getOptionalEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second, &errors),
		ShutdownTimeout: getOptionalEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second, &errors),
		AllowedOrigins:  splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	logCfg := &LogConfig{
		Level:  strings.ToLower(getOptionalEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getOptionalEnv("LOG_FORMAT", "json")),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	cfg := &AppConfig{
		Storage: storage,
		Server:  server,
		Log:     logCfg,
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of cfg and reports every failing field.
func Validate(cfg *AppConfig) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("configuration errors: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("configuration errors:\n- %s", strings.Join(msgs, "\n- "))
}
