// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/janitarr/config.yaml",
	"/etc/janitarr/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "JANITARR_CONFIG"

// envPrefix is stripped from environment variables before mapping them
// onto config paths: JANITARR_SERVER_PORT -> server.port.
const envPrefix = "JANITARR_"

// Load assembles configuration from defaults, an optional YAML file, and
// JANITARR_* environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envOverrides maps environment variable suffixes (after JANITARR_) onto
// config paths. Multi-word leaf keys make a naive underscore-to-dot
// transform ambiguous, so the mapping is explicit.
var envOverrides = map[string]string{
	"SERVER_HOST":             "server.host",
	"SERVER_PORT":             "server.port",
	"SERVER_TIMEOUT":          "server.timeout",
	"SERVER_CORS_ORIGINS":     "server.cors_origins",
	"SERVER_ENVIRONMENT":      "server.environment",
	"DATABASE_PATH":           "database.path",
	"DATABASE_MAX_MEMORY":     "database.max_memory",
	"DATABASE_THREADS":        "database.threads",
	"JWT_SECRET":              "security.jwt_secret",
	"TOKEN_TTL":               "security.token_ttl",
	"RATE_LIMIT_REQS":         "security.rate_limit_reqs",
	"RATE_LIMIT_WINDOW":       "security.rate_limit_window",
	"RATE_LIMIT_DISABLED":     "security.rate_limit_disabled",
	"SYNC_INTERVAL":           "sync.interval",
	"SYNC_TRIGGER_COOLDOWN":   "sync.trigger_cooldown",
	"SYNC_PAGE_SIZE":          "sync.page_size",
	"SYNC_MAX_PAGES":          "sync.max_pages",
	"SYNC_HTTP_TIMEOUT":       "sync.http_timeout",
	"NOTIFY_WEBHOOK_URL":      "notify.webhook_url",
	"NOTIFY_TIMEOUT":          "notify.timeout",
	"LOG_LEVEL":               "logging.level",
	"LOG_FORMAT":              "logging.format",
	"LOG_CALLER":              "logging.caller",
}

// envTransform maps a JANITARR_* environment variable name to its config
// path. Unknown variables are dropped so unrelated environment noise
// cannot leak into the configuration.
func envTransform(s string) string {
	key := strings.TrimPrefix(strings.ToUpper(s), envPrefix)
	if path, ok := envOverrides[key]; ok {
		return path
	}
	return ""
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive as plain strings from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		s, ok := val.(string)
		if !ok {
			continue // already a slice from YAML or defaults
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
