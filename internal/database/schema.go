// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package database

import (
	"context"
	"fmt"
)

// createSchema creates all tables. Every statement is idempotent so
// startup against an existing database is a no-op.
//
// Cached upstream rows (media items, requests) keep the raw upstream
// payload as a JSON text column next to the extracted fields; narrow
// accessors on the models read provider ids and stream languages out
// of it without the schema having to chase upstream payload shapes.
func (db *DB) createSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// api_key holds AES-256-GCM ciphertext, never the plaintext key.
		`CREATE TABLE IF NOT EXISTS integration_settings (
			user_id TEXT NOT NULL,
			service TEXT NOT NULL,
			url TEXT NOT NULL,
			api_key TEXT NOT NULL,
			external_user_id TEXT,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, service)
		)`,

		`CREATE TABLE IF NOT EXISTS threshold_settings (
			user_id TEXT PRIMARY KEY,
			old_content_months INTEGER NOT NULL,
			min_age_months INTEGER NOT NULL,
			large_movie_gb INTEGER NOT NULL,
			too_recent_months INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS cached_media_items (
			user_id TEXT NOT NULL,
			external_id TEXT NOT NULL,
			name TEXT NOT NULL,
			media_type TEXT NOT NULL,
			year INTEGER,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			date_created TIMESTAMP,
			path TEXT,
			played BOOLEAN NOT NULL DEFAULT false,
			play_count INTEGER NOT NULL DEFAULT 0,
			last_played TIMESTAMP,
			raw_data TEXT,
			PRIMARY KEY (user_id, external_id)
		)`,

		`CREATE TABLE IF NOT EXISTS cached_requests (
			user_id TEXT NOT NULL,
			request_id BIGINT NOT NULL,
			media_id BIGINT NOT NULL,
			tmdb_id BIGINT NOT NULL,
			media_type TEXT NOT NULL,
			status TEXT NOT NULL,
			title TEXT,
			requested_by TEXT,
			created_at TIMESTAMP,
			release_date TIMESTAMP,
			raw_data TEXT,
			PRIMARY KEY (user_id, request_id)
		)`,

		`CREATE TABLE IF NOT EXISTS sync_status (
			user_id TEXT PRIMARY KEY,
			last_started TIMESTAMP,
			last_completed TIMESTAMP,
			last_status TEXT,
			last_error TEXT,
			item_count INTEGER NOT NULL DEFAULT 0,
			request_count INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS whitelist_entries (
			user_id TEXT NOT NULL,
			flavor TEXT NOT NULL,
			external_id TEXT NOT NULL,
			expires_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, flavor, external_id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
