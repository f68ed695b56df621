package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	MongoURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName     string `env:"DB_NAME" envDefault:"verdura"`
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	JwtSecret  string `env:"JWT_SECRET" envDefault:"your_secret_key"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"./static/uploads"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin@verdura.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"DefaultPassword123!"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:""`

	// Whether cancelled orders count towards analytics revenue. The storefront
	// historically counted them, so the default preserves that behavior.
	AnalyticsIncludeCancelled bool `env:"ANALYTICS_INCLUDE_CANCELLED" envDefault:"true"`
}

// Load reads .env if present and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.AdminUsername
	}
	return cfg, nil
}

// Addr returns the listen address in :port form.
func (c *Config) Addr() string {
	if len(c.Port) > 0 && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}
