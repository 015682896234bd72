package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/jobcompass?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ConsumerWorkers != 4 {
		t.Errorf("ConsumerWorkers = %d", cfg.ConsumerWorkers)
	}
	if cfg.MaxJobAgeDays != 7 {
		t.Errorf("MaxJobAgeDays = %d", cfg.MaxJobAgeDays)
	}
	if !cfg.LinkedInEnabled {
		t.Error("LinkedInEnabled should default to true")
	}
	if cfg.HeadHunterEnabled {
		t.Error("HeadHunterEnabled should default to false")
	}
	if !cfg.DedupEnabled {
		t.Error("DedupEnabled should default to true")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on defaults: %v", err)
	}
}

func TestLoadRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when POSTGRES_DSN is unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/jobcompass")
	t.Setenv("CONSUMER_WORKERS", "8")
	t.Setenv("SCRAPE_SKILLS", "Go, Rust , ")
	t.Setenv("SOURCE_PAUSE", "500ms")
	t.Setenv("HEADHUNTER_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ConsumerWorkers != 8 {
		t.Errorf("ConsumerWorkers = %d", cfg.ConsumerWorkers)
	}
	if len(cfg.ScrapeSkills) != 2 || cfg.ScrapeSkills[0] != "Go" || cfg.ScrapeSkills[1] != "Rust" {
		t.Errorf("ScrapeSkills = %v", cfg.ScrapeSkills)
	}
	if cfg.SourcePause != 500*time.Millisecond {
		t.Errorf("SourcePause = %v", cfg.SourcePause)
	}
	if !cfg.HeadHunterEnabled {
		t.Error("HeadHunterEnabled not applied")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			PostgresDSN:      "postgres://localhost/jobcompass",
			ConsumerWorkers:  4,
			MaxJobAgeDays:    7,
			MaxJobsPerSource: 20,
			LogLevel:         "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.ConsumerWorkers = 0 }},
		{"too many workers", func(c *Config) { c.ConsumerWorkers = 100 }},
		{"zero max age", func(c *Config) { c.MaxJobAgeDays = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"zero jobs per source", func(c *Config) { c.MaxJobsPerSource = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
