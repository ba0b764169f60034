// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package config provides configuration management for Janitarr.
//
// Configuration is assembled from three layers with increasing priority:
// built-in defaults, an optional YAML config file, and environment
// variables. Per-user integration credentials are NOT part of this
// package; they live in the database, encrypted with CredentialEncryptor.
package config

import "time"

// Config is the full application configuration, constructed once at
// startup and passed by dependency injection into each component.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Sync     SyncConfig     `koanf:"sync"`
	Notify   NotifyConfig   `koanf:"notify"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	CORSOrigins []string      `koanf:"cors_origins"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig controls the DuckDB cache store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// SecurityConfig controls authentication and rate limiting.
type SecurityConfig struct {
	// JWTSecret signs access tokens and derives the credential
	// encryption key. Required; minimum 32 characters in production.
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SyncConfig controls the sync scheduler and the upstream fetches.
type SyncConfig struct {
	// Interval between scheduled sync passes over all configured users.
	Interval time.Duration `koanf:"interval"`
	// TriggerCooldown is the minimum spacing between on-demand syncs for
	// one user.
	TriggerCooldown time.Duration `koanf:"trigger_cooldown"`
	// PageSize and MaxPages bound the paginated Jellyseerr request fetch.
	PageSize int `koanf:"page_size"`
	MaxPages int `koanf:"max_pages"`
	// HTTPTimeout bounds each outbound call to an upstream service.
	HTTPTimeout time.Duration `koanf:"http_timeout"`
}

// NotifyConfig controls the fire-and-forget webhook notifier.
type NotifyConfig struct {
	WebhookURL string        `koanf:"webhook_url"`
	Timeout    time.Duration `koanf:"timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8420,
			Timeout:     30 * time.Second,
			CORSOrigins: []string{"*"},
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/janitarr.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Sync: SyncConfig{
			Interval:        6 * time.Hour,
			TriggerCooldown: 5 * time.Minute,
			PageSize:        100,
			MaxPages:        100,
			HTTPTimeout:     30 * time.Second,
		},
		Notify: NotifyConfig{
			WebhookURL: "",
			Timeout:    10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
