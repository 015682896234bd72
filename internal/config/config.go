package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// HTTP API
	HTTPAddr string

	// Event consumption
	ConsumerGroup   string
	ConsumerWorkers int

	// Scraping
	ScrapeCron         string
	ScrapeSkills       []string
	MaxJobAgeDays      int
	MaxJobsPerSource   int
	DefaultLocation    string
	SourcePause        time.Duration
	LinkedInEnabled    bool
	LinkedInAuthCookie string
	HeadHunterEnabled  bool
	DedupEnabled       bool

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		RedisAddr:        "localhost:6379",
		RedisDB:          0,
		HTTPAddr:         ":8080",
		ConsumerGroup:    "storage",
		ConsumerWorkers:  4,
		ScrapeCron:       "0 8 * * *",
		ScrapeSkills:     []string{"Go", "Java", "Python", "React", "Docker", "Kubernetes"},
		MaxJobAgeDays:    7,
		MaxJobsPerSource: 20,
		SourcePause:      2 * time.Second,
		LinkedInEnabled:  true,
		DedupEnabled:     true,
		LogLevel:         "info",
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	if group := os.Getenv("CONSUMER_GROUP"); group != "" {
		cfg.ConsumerGroup = group
	}

	if workers := os.Getenv("CONSUMER_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("invalid CONSUMER_WORKERS: %w", err)
		}
		cfg.ConsumerWorkers = n
	}

	if cron := os.Getenv("SCRAPE_CRON"); cron != "" {
		cfg.ScrapeCron = cron
	}

	if skills := os.Getenv("SCRAPE_SKILLS"); skills != "" {
		cfg.ScrapeSkills = splitAndTrim(skills)
	}

	if maxAge := os.Getenv("MAX_JOB_AGE_DAYS"); maxAge != "" {
		n, err := strconv.Atoi(maxAge)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_JOB_AGE_DAYS: %w", err)
		}
		cfg.MaxJobAgeDays = n
	}

	if maxJobs := os.Getenv("MAX_JOBS_PER_SOURCE"); maxJobs != "" {
		n, err := strconv.Atoi(maxJobs)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_JOBS_PER_SOURCE: %w", err)
		}
		cfg.MaxJobsPerSource = n
	}

	cfg.DefaultLocation = os.Getenv("DEFAULT_LOCATION")

	if pause := os.Getenv("SOURCE_PAUSE"); pause != "" {
		d, err := time.ParseDuration(pause)
		if err != nil {
			return nil, fmt.Errorf("invalid SOURCE_PAUSE: %w", err)
		}
		cfg.SourcePause = d
	}

	if enabled := os.Getenv("LINKEDIN_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return nil, fmt.Errorf("invalid LINKEDIN_ENABLED: %w", err)
		}
		cfg.LinkedInEnabled = b
	}

	cfg.LinkedInAuthCookie = os.Getenv("LINKEDIN_AUTH_COOKIE")

	if enabled := os.Getenv("HEADHUNTER_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return nil, fmt.Errorf("invalid HEADHUNTER_ENABLED: %w", err)
		}
		cfg.HeadHunterEnabled = b
	}

	if enabled := os.Getenv("DEDUP_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return nil, fmt.Errorf("invalid DEDUP_ENABLED: %w", err)
		}
		cfg.DedupEnabled = b
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.ConsumerWorkers < 1 || c.ConsumerWorkers > 64 {
		return fmt.Errorf("consumer workers must be between 1 and 64: %d", c.ConsumerWorkers)
	}

	if c.MaxJobAgeDays < 1 {
		return fmt.Errorf("max job age must be at least 1 day: %d", c.MaxJobAgeDays)
	}

	if c.MaxJobsPerSource < 1 || c.MaxJobsPerSource > 1000 {
		return fmt.Errorf("max jobs per source must be between 1 and 1000: %d", c.MaxJobsPerSource)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
