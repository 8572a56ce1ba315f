// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and connection settings are required,
// tunables carry defaults.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`               // dev, test or prod
	Port     string `envconfig:"APP_PORT" default:"8080"`             // HTTP port to listen on
	Timezone string `envconfig:"APP_TIMEZONE" default:"Asia/Kolkata"` // venue-local time zone

	DBUser string `envconfig:"DB_USER" required:"true"`
	DBPass string `envconfig:"DB_PASS"` // empty allowed
	DBHost string `envconfig:"DB_HOST" required:"true"`
	DBPort string `envconfig:"DB_PORT" default:"3306"`
	DBName string `envconfig:"DB_NAME" required:"true"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	AccessTTLMin   int    `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"15"`
	RefreshTTLDays int    `envconfig:"REFRESH_TOKEN_TTL_DAYS" default:"7"`
	BcryptCost     int    `envconfig:"BCRYPT_COST" default:"10"`

	// RabbitMQ; an empty URL disables event publishing and the booking log
	// consumer.
	RabbitURL      string `envconfig:"RABBITMQ_URL"`
	MatchExchange  string `envconfig:"MATCH_EXCHANGE" default:"maidaan.matches"`
	MatchQueue     string `envconfig:"MATCH_QUEUE" default:"maidaan.booking.log"`
	BookingLogPath string `envconfig:"BOOKING_LOG_PATH" default:"logs/booking.log"`

	OTelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
}

// Load reads .env when present and then the process environment.  A
// missing required variable or an unknown time zone is returned as an
// error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Location resolves APP_TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
