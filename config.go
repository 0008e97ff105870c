package main

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// AppConfig holds the runtime configuration, sourced from environment
// variables with command-line flags taking precedence.
type AppConfig struct {
	Port            string
	RefreshInterval time.Duration
	RunAnalysisNow  bool
	DBPath          string
	UpstreamAPIURL  string
}

const (
	defaultPort            = "8080"
	defaultRefreshInterval = 60 * time.Minute
	defaultDBPath          = "data/lotto.db"
	defaultUpstreamAPIURL  = ""
)

// LoadConfig reads PORT, REFRESH_INTERVAL (minutes; 0 disables the
// background refresh loop), RUN_ANALYSIS, DB_PATH and UPSTREAM_API_URL
// from the environment, then applies any matching command-line flag
// overrides.
func LoadConfig() AppConfig {
	cfg := AppConfig{
		Port:            envOrDefault("PORT", defaultPort),
		RefreshInterval: envMinutesOrDefault("REFRESH_INTERVAL", defaultRefreshInterval),
		RunAnalysisNow:  envBoolOrDefault("RUN_ANALYSIS", false),
		DBPath:          envOrDefault("DB_PATH", defaultDBPath),
		UpstreamAPIURL:  envOrDefault("UPSTREAM_API_URL", defaultUpstreamAPIURL),
	}

	portFlag := flag.String("port", cfg.Port, "HTTP port to listen on")
	refreshFlag := flag.Duration("refresh-interval", cfg.RefreshInterval, "background refresh interval (0 disables)")
	runAnalysisFlag := flag.Bool("run-analysis", cfg.RunAnalysisNow, "run a refresh immediately on startup")
	dbPathFlag := flag.String("db-path", cfg.DBPath, "path to the sqlite database file")
	upstreamFlag := flag.String("upstream-api-url", cfg.UpstreamAPIURL, "base URL for upstream draw results")
	flag.Parse()

	cfg.Port = *portFlag
	cfg.RefreshInterval = *refreshFlag
	cfg.RunAnalysisNow = *runAnalysisFlag
	cfg.DBPath = *dbPathFlag
	cfg.UpstreamAPIURL = *upstreamFlag

	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envMinutesOrDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	minutes, err := strconv.Atoi(v)
	if err != nil || minutes < 0 {
		return def
	}
	return time.Duration(minutes) * time.Minute
}
