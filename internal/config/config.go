package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	RedisAddress       string
	RedisPassword      string
	RedisDB            int
	PushGatewayAddress string
	AdminToken         string
	ClaimWindow        time.Duration
	SweepInterval      time.Duration
	ShutdownTimeout    time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultRedisDB         = 0
	defaultClaimWindow     = 24 * time.Hour
	defaultSweepInterval   = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		RedisAddress:       getString(lookup, "REDIS_ADDRESS", ""),
		RedisPassword:      getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:            getInt(lookup, "REDIS_DB", defaultRedisDB),
		PushGatewayAddress: getString(lookup, "PUSH_GATEWAY_ADDRESS", ""),
		AdminToken:         getString(lookup, "ADMIN_TOKEN", ""),
		ClaimWindow:        getDuration(lookup, "CLAIM_WINDOW", defaultClaimWindow),
		SweepInterval:      getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("giftvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		claimWindowStr     = cfg.ClaimWindow.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "r", cfg.RedisAddress, "Redis address for expiry records")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis logical database number")
	fs.StringVar(&cfg.PushGatewayAddress, "push", cfg.PushGatewayAddress, "Push notification gateway base URL")
	fs.StringVar(&cfg.AdminToken, "admin-token", cfg.AdminToken, "Token guarding administrative endpoints")
	fs.StringVar(&claimWindowStr, "claim-window", claimWindowStr, "How long a redemption stays claimable")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry reconciliation sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ClaimWindow, err = time.ParseDuration(claimWindowStr); err != nil {
		return nil, fmt.Errorf("invalid claim window: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if tokenFile, ok := lookup("ADMIN_TOKEN_FILE"); ok && tokenFile != "" {
		content, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read admin token file: %w", err)
		}
		cfg.AdminToken = string(content)
	}

	if cfg.ClaimWindow <= 0 {
		cfg.ClaimWindow = defaultClaimWindow
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.RedisAddress == "" {
		return nil, fmt.Errorf("redis address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
