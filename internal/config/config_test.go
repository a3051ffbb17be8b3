package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: test-league
  port: 9090
database:
  driver: sqlite
  filename: /tmp/test.db
engine:
  standings_timeout: 5s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.App.Name != "test-league" || cfg.App.Port != 9090 {
		t.Fatalf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Engine.ConflictRetries != 3 {
		t.Fatalf("expected default conflict retries, got %d", cfg.Engine.ConflictRetries)
	}
	if cfg.Engine.StandingsTimeout != 5*time.Second {
		t.Fatalf("expected 5s standings timeout, got %s", cfg.Engine.StandingsTimeout)
	}
	if cfg.Jobs.StandingsSweep == "" {
		t.Fatalf("expected default standings sweep schedule")
	}
}

func TestLoadReadsSecretsFromEnv(t *testing.T) {
	t.Setenv("CLERK_SECRET_KEY", "sk_test")
	path := writeConfig(t, "app:\n  name: x\n  port: 1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Auth.ClerkSecretKey != "sk_test" {
		t.Fatalf("expected clerk key from env, got %q", cfg.Auth.ClerkSecretKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.App.Port = 0 }, wantErr: "port"},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "unsupported"},
		{name: "bad cron", mutate: func(c *Config) { c.Jobs.AutoConfirm = "every minute" }, wantErr: "auto_confirm"},
		{name: "zero write limit", mutate: func(c *Config) { c.API.WritesPerMinute = 0 }, wantErr: "write limits"},
		{name: "disabled job", mutate: func(c *Config) { c.Jobs.MakeupNotices = "" }},
		{name: "email without sender", mutate: func(c *Config) {
			c.Email.Enabled = true
			c.Email.FromAddress = ""
		}, wantErr: "from_address"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
