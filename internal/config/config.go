package config

import (
	"context"
	"fmt"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	DB DBConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST,    default=localhost"`
	Port     string `env:"DB_PORT,    default=5432"`
	User     string `env:"DB_USER,    default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,    default=wrenchforum"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

// Load reads configuration from environment variables. A .env file in the
// working directory is picked up automatically for local dev.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
