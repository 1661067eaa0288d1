// Package config loads typed application configuration from the
// environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// App is the full application configuration.
type App struct {
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Database
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"localbook"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Auth
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`

	// Mail. Leave SMTPHost empty to log notifications instead of
	// sending them.
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"465"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`
}

// Load reads configuration from the environment.
func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// DSN builds the Postgres connection string.
func (c App) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
