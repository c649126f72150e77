package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Buffer   BufferConfig
	Engine   EngineConfig
	Signing  SigningConfig
	SMTP     SMTPConfig
	App      AppConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// BufferConfig holds the durable local buffer configuration
type BufferConfig struct {
	Path string
}

// EngineConfig holds the reconciliation loop configuration
type EngineConfig struct {
	PollInterval    time.Duration
	DebounceWindow  time.Duration
	BatchSize       int
	TerminalsFile   string
	TerminalTimeout time.Duration
}

type SigningConfig struct {
	Salt string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// A missing .env file is fine in production; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "scaf-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Durable buffer configuration
	config.Buffer = BufferConfig{
		Path: getEnv("BUFFER_PATH", "buffer_attendance.db"),
	}

	// Engine configuration
	pollInterval, err := time.ParseDuration(getEnv("ENGINE_POLL_INTERVAL", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_POLL_INTERVAL: %w", err)
	}

	debounceSeconds, err := strconv.Atoi(getEnv("DEBOUNCE_WINDOW_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEBOUNCE_WINDOW_SECONDS: %w", err)
	}

	batchSize, err := strconv.Atoi(getEnv("ENGINE_BATCH_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_BATCH_SIZE: %w", err)
	}

	terminalTimeout, err := time.ParseDuration(getEnv("TERMINAL_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TERMINAL_TIMEOUT: %w", err)
	}

	config.Engine = EngineConfig{
		PollInterval:    pollInterval,
		DebounceWindow:  time.Duration(debounceSeconds) * time.Second,
		BatchSize:       batchSize,
		TerminalsFile:   getEnv("TERMINALS_FILE", "terminals.json"),
		TerminalTimeout: terminalTimeout,
	}

	// Integrity signing configuration
	config.Signing = SigningConfig{
		Salt: getEnv("SIGNING_SALT", ""),
	}

	// SMTP configuration (receipts are skipped when host is unset)
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "Control de Asistencia"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Signing.Salt == "" {
		return fmt.Errorf("SIGNING_SALT is required")
	}
	if c.Buffer.Path == "" {
		return fmt.Errorf("BUFFER_PATH is required")
	}
	if c.Engine.PollInterval <= 0 {
		return fmt.Errorf("ENGINE_POLL_INTERVAL must be positive")
	}
	if c.Engine.BatchSize <= 0 {
		return fmt.Errorf("ENGINE_BATCH_SIZE must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
