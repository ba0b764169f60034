// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

// AddWhitelistEntry inserts or refreshes a whitelist entry. Re-adding
// an existing id updates its expiry.
func (db *DB) AddWhitelistEntry(ctx context.Context, e models.WhitelistEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO whitelist_entries (user_id, flavor, external_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, flavor, external_id) DO UPDATE SET
			expires_at = excluded.expires_at`,
		e.UserID, string(e.Flavor), e.ExternalID, nullableTime(e.ExpiresAt), createdAt)
	if err != nil {
		return fmt.Errorf("failed to add %s whitelist entry: %w", e.Flavor, err)
	}
	return nil
}

// RemoveWhitelistEntry deletes one entry. Returns whether it existed.
func (db *DB) RemoveWhitelistEntry(ctx context.Context, userID string, flavor models.WhitelistFlavor, externalID string) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM whitelist_entries WHERE user_id = ? AND flavor = ? AND external_id = ?`,
		userID, string(flavor), externalID)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s whitelist entry: %w", flavor, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, nil
	}
	return n > 0, nil
}

// ListWhitelist returns every entry of one flavor, expired ones included
// so the UI can show and clean them up.
func (db *DB) ListWhitelist(ctx context.Context, userID string, flavor models.WhitelistFlavor) ([]models.WhitelistEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, flavor, external_id, expires_at, created_at
		FROM whitelist_entries WHERE user_id = ? AND flavor = ? ORDER BY created_at, external_id`,
		userID, string(flavor))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s whitelist: %w", flavor, err)
	}
	defer rows.Close()

	var entries []models.WhitelistEntry
	for rows.Next() {
		var (
			e         models.WhitelistEntry
			flavorStr string
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&e.UserID, &flavorStr, &e.ExternalID, &expiresAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan whitelist entry: %w", err)
		}
		e.Flavor = models.WhitelistFlavor(flavorStr)
		e.ExpiresAt = timePtr(expiresAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ActiveWhitelistSet returns the ids of one flavor that are still in
// force at the given time, as a set for classification lookups.
func (db *DB) ActiveWhitelistSet(ctx context.Context, userID string, flavor models.WhitelistFlavor, now time.Time) (map[string]struct{}, error) {
	entries, err := db.ListWhitelist(ctx, userID, flavor)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(entries))
	for i := range entries {
		if entries[i].Active(now) {
			set[entries[i].ExternalID] = struct{}{}
		}
	}
	return set, nil
}
