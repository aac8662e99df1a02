package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rickb777/date"
	"github.com/sirupsen/logrus"
)

// RunMode selects between a one-shot sync and the long-running server.
const (
	RunModeOnce  = "once"
	RunModeServe = "serve"
)

type AppConfig struct {
	// Persistent store.
	DatabaseURL string
	RouteSchema string
	StopSchema  string

	// Routing API.
	OptimoRouteAPIKey  string
	OptimoRouteBaseURL string
	HTTPTimeout        time.Duration

	// Sync window.
	StartDate  date.Date // first day of the window; defaults to today
	WindowDays int

	// Fixed civil timezone stop times are localized to.
	Timezone string

	RunMode string
	SyncAt  string // daily run time in serve mode, "HH:MM"
	Port    string
	LogFile string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	cfg.RouteSchema = os.Getenv("DB_ROUTE_SCHEMA")
	cfg.StopSchema = os.Getenv("DB_STOP_SCHEMA")

	cfg.OptimoRouteAPIKey = os.Getenv("OPTIMOROUTE_API_KEY")
	if cfg.OptimoRouteAPIKey == "" {
		return nil, fmt.Errorf("OPTIMOROUTE_API_KEY is required")
	}
	cfg.OptimoRouteBaseURL = os.Getenv("OPTIMOROUTE_BASE_URL")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.StartDate = date.Today()
	if startStr := os.Getenv("SYNC_START_DATE"); startStr != "" {
		start, err := date.ParseISO(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_START_DATE: %w", err)
		}
		cfg.StartDate = start
	}
	cfg.WindowDays = getenvInt("SYNC_WINDOW_DAYS", 7)

	cfg.Timezone = getenvDefault("SCHEDULE_TIMEZONE", "America/Los_Angeles")

	cfg.RunMode = getenvDefault("RUN_MODE", RunModeOnce)
	if cfg.RunMode != RunModeOnce && cfg.RunMode != RunModeServe {
		return nil, fmt.Errorf("invalid RUN_MODE %q: must be %q or %q", cfg.RunMode, RunModeOnce, RunModeServe)
	}
	cfg.SyncAt = getenvDefault("SYNC_AT", "05:00")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
