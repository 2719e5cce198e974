package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment    string        `env:"GO_ENV" env-default:"development"`
	Port           string        `env:"PORT" env-default:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" env-default:"info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`
	AllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" env-default:""`

	DB   DBConfig
	Auth AuthConfig
	Mail MailConfig
}

// DBConfig names the backing store and bounds how long we wait for it.
type DBConfig struct {
	URL                  string        `env:"DATABASE_URL" env-required:"true"`
	MaxOpenConns         int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	ServerSelectTimeout  time.Duration `env:"DB_SERVER_SELECTION_TIMEOUT" env-default:"5s"`
	SocketIdleTimeout    time.Duration `env:"DB_SOCKET_TIMEOUT" env-default:"45s"`
	ApplySchemaOnStartup bool          `env:"DB_APPLY_SCHEMA" env-default:"true"`
}

// AuthConfig configures operator tokens for event administration.
type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET" env-default:""`
	TokenExpiry time.Duration `env:"JWT_EXPIRY" env-default:"24h"`
}

// MailConfig selects the mail provider used for booking confirmations.
type MailConfig struct {
	Provider            string `env:"MAIL_PROVIDER" env-default:"noop"`
	FromAddress         string `env:"MAIL_FROM_ADDRESS" env-default:"events@localhost"`
	FromName            string `env:"MAIL_FROM_NAME" env-default:"Tech Events"`
	SESRegion           string `env:"AWS_REGION" env-default:"us-east-1"`
	SESAccessKeyID      string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SESSecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	SESConfigurationSet string `env:"AWS_SES_CONFIGURATION_SET" env-default:""`
	InsecureSkipVerify  bool   `env:"MAIL_INSECURE_SKIP_VERIFY" env-default:"false"`
}

// Load loads configuration from environment variables.
// Outside production it first loads a .env file if one exists.
// A missing DATABASE_URL is a fatal configuration error.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if strings.TrimSpace(cfg.DB.URL) == "" {
		return nil, fmt.Errorf("read config: DATABASE_URL is empty")
	}
	return &cfg, nil
}

// LoadAuth reads only the token settings, for tools that never touch the database.
func LoadAuth() (*AuthConfig, error) {
	loadDotEnv()

	var cfg AuthConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read auth config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("read auth config: JWT_SECRET is empty")
	}
	return &cfg, nil
}

func loadDotEnv() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env file not loaded", "err", err)
		}
	}
}

// IsProduction reports whether the service runs with GO_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	return strings.Split(c.AllowedOrigins, ",")
}
