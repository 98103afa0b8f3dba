package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment. Secrets (the bootstrap admin
// password) are deployment-time input only and never live in source.
type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	DatabaseFile string `env:"SM_DATABASE_FILE" envDefault:"socialmaster.db"`
	PepperFile   string `env:"SM_PEPPER_FILE" envDefault:"pepper"`

	SessionTTL           time.Duration `env:"SM_SESSION_TTL" envDefault:"24h"`
	HousekeepingInterval time.Duration `env:"SM_HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	// CookieSecure should only be disabled for plain-HTTP local development.
	CookieSecure bool `env:"SM_COOKIE_SECURE" envDefault:"true"`

	// Bootstrap admin credentials for first boot. When the password is empty
	// a random one is generated and logged once.
	AdminUsername string `env:"SM_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"SM_ADMIN_EMAIL" envDefault:"admin@localhost"`
	AdminPassword string `env:"SM_ADMIN_PASSWORD"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
