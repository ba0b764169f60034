// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

// UpsertIntegrationSettings stores one user's credentials for one
// service. The API key is encrypted before it touches the database.
func (db *DB) UpsertIntegrationSettings(ctx context.Context, s models.IntegrationSettings) error {
	if db.enc == nil {
		return errors.New("credential encryptor not configured")
	}
	ciphertext, err := db.enc.Encrypt(s.APIKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO integration_settings (user_id, service, url, api_key, external_user_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, service) DO UPDATE SET
			url = excluded.url,
			api_key = excluded.api_key,
			external_user_id = excluded.external_user_id,
			updated_at = excluded.updated_at`,
		s.UserID, s.Service, s.URL, ciphertext, s.ExternalUserID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert %s settings: %w", s.Service, err)
	}
	return nil
}

// GetIntegrationSettings returns the decrypted settings for one
// service, or nil when the user has not configured it.
func (db *DB) GetIntegrationSettings(ctx context.Context, userID, service string) (*models.IntegrationSettings, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT user_id, service, url, api_key, COALESCE(external_user_id, ''), updated_at
		FROM integration_settings WHERE user_id = ? AND service = ?`, userID, service)

	var s models.IntegrationSettings
	var ciphertext string
	err := row.Scan(&s.UserID, &s.Service, &s.URL, &ciphertext, &s.ExternalUserID, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s settings: %w", service, err)
	}

	if db.enc == nil {
		return nil, errors.New("credential encryptor not configured")
	}
	s.APIKey, err = db.enc.Decrypt(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s API key: %w", service, err)
	}
	return &s, nil
}

// ListConfiguredServices returns the service names the user has saved
// settings for. It never decrypts anything.
func (db *DB) ListConfiguredServices(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT service FROM integration_settings WHERE user_id = ? ORDER BY service`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list configured services: %w", err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan service name: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// DeleteIntegrationSettings removes one service's credentials.
func (db *DB) DeleteIntegrationSettings(ctx context.Context, userID, service string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM integration_settings WHERE user_id = ? AND service = ?`, userID, service)
	if err != nil {
		return fmt.Errorf("failed to delete %s settings: %w", service, err)
	}
	return nil
}

// UpsertThresholds stores the user's classification thresholds.
func (db *DB) UpsertThresholds(ctx context.Context, t models.ThresholdSettings) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO threshold_settings (user_id, old_content_months, min_age_months, large_movie_gb, too_recent_months)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			old_content_months = excluded.old_content_months,
			min_age_months = excluded.min_age_months,
			large_movie_gb = excluded.large_movie_gb,
			too_recent_months = excluded.too_recent_months`,
		t.UserID, t.OldContentMonths, t.MinAgeMonths, t.LargeMovieGB, t.TooRecentMonths)
	if err != nil {
		return fmt.Errorf("failed to upsert thresholds: %w", err)
	}
	return nil
}

// GetThresholds returns the user's thresholds, falling back to the
// defaults when none were ever saved.
func (db *DB) GetThresholds(ctx context.Context, userID string) (models.ThresholdSettings, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT user_id, old_content_months, min_age_months, large_movie_gb, too_recent_months
		FROM threshold_settings WHERE user_id = ?`, userID)

	var t models.ThresholdSettings
	err := row.Scan(&t.UserID, &t.OldContentMonths, &t.MinAgeMonths, &t.LargeMovieGB, &t.TooRecentMonths)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultThresholds(userID), nil
	}
	if err != nil {
		return models.ThresholdSettings{}, fmt.Errorf("failed to scan thresholds: %w", err)
	}
	return t, nil
}
