// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	Filename      string `yaml:"filename"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

// JobsConfig holds the cron expressions of the background jobs. An empty
// expression disables the job.
type JobsConfig struct {
	StandingsSweep string `yaml:"standings_sweep"`
	AutoConfirm    string `yaml:"auto_confirm"`
	MakeupNotices  string `yaml:"makeup_notices"`
}

type EmailConfig struct {
	Enabled     bool   `yaml:"enabled"`
	FromAddress string `yaml:"from_address"`
	Region      string `yaml:"region"`
	AccessKeyID string `yaml:"-"` // Loaded from environment
	SecretKey   string `yaml:"-"` // Loaded from environment
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Engine struct {
		// ConflictRetries is how many times a transition is re-evaluated
		// after losing an optimistic version race.
		ConflictRetries int `yaml:"conflict_retries"`
		// StandingsTimeout bounds a single standings recomputation.
		StandingsTimeout time.Duration `yaml:"standings_timeout"`
	} `yaml:"engine"`

	API struct {
		// TrustProxy takes the client address from X-Forwarded-For.
		TrustProxy               bool          `yaml:"trust_proxy"`
		WritesPerMinute          int           `yaml:"writes_per_minute"`
		AnonymousWritesPerMinute int           `yaml:"anonymous_writes_per_minute"`
		ShutdownTimeout          time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"api"`

	Jobs JobsConfig `yaml:"jobs"`

	Email EmailConfig `yaml:"email"`

	Auth struct {
		ClerkSecretKey string `yaml:"-"` // Loaded from environment
	} `yaml:"-"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.Auth.ClerkSecretKey = os.Getenv("CLERK_SECRET_KEY")
	cfg.Email.AccessKeyID = os.Getenv("AWS_SES_ACCESS_KEY_ID")
	cfg.Email.SecretKey = os.Getenv("AWS_SES_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "courtleague"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "build/db/courtleague.db"
	cfg.Database.BusyTimeoutMS = 5000
	cfg.Engine.ConflictRetries = 3
	cfg.Engine.StandingsTimeout = 30 * time.Second
	cfg.API.WritesPerMinute = 60
	cfg.API.AnonymousWritesPerMinute = 20
	cfg.API.ShutdownTimeout = 30 * time.Second
	cfg.Jobs.StandingsSweep = "*/5 * * * *"
	cfg.Jobs.AutoConfirm = "*/15 * * * *"
	cfg.Jobs.MakeupNotices = "0 * * * *"
	cfg.Email.Region = "us-east-1"
	return cfg
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Engine.ConflictRetries < 0 {
		return fmt.Errorf("engine conflict_retries cannot be negative")
	}

	if c.API.WritesPerMinute <= 0 || c.API.AnonymousWritesPerMinute <= 0 {
		return fmt.Errorf("api write limits must be positive")
	}

	for name, expr := range map[string]string{
		"standings_sweep": c.Jobs.StandingsSweep,
		"auto_confirm":    c.Jobs.AutoConfirm,
		"makeup_notices":  c.Jobs.MakeupNotices,
	} {
		if expr == "" {
			continue
		}
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("jobs.%s: invalid cron expression %q: %w", name, expr, err)
		}
	}

	if c.Email.Enabled {
		if c.Email.FromAddress == "" {
			return fmt.Errorf("email from_address is required when email is enabled")
		}
		if c.Email.Region == "" {
			return fmt.Errorf("email region is required when email is enabled")
		}
	}

	return nil
}
