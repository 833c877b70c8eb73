package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the engine.
type AppConfig struct {
	DatabaseURL        string
	OrgIDs             []string // organizations the daily sweep covers
	LogLevel           string
	Environment        string
	CronSpecDailySweep string
	FollowupTargetDays int
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	for _, id := range strings.Split(os.Getenv("ORG_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.OrgIDs = append(cfg.OrgIDs, id)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecDailySweep = os.Getenv("CRON_SPEC_DAILY_SWEEP")
	if cfg.CronSpecDailySweep == "" {
		cfg.CronSpecDailySweep = "0 8 * * *" // Default: 08:00 daily
	}

	cfg.FollowupTargetDays = 7
	if v := os.Getenv("FOLLOWUP_TARGET_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid FOLLOWUP_TARGET_DAYS: %q", v)
		}
		cfg.FollowupTargetDays = days
	}

	return cfg, nil
}
