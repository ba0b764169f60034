// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mpellat/janitarr/internal/models"
)

// ReplaceMediaItems atomically swaps the user's cached library for the
// freshly fetched one. A failed sync never leaves a half-written cache:
// everything happens inside one transaction.
func (db *DB) ReplaceMediaItems(ctx context.Context, userID string, items []models.CachedMediaItem) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin media replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_media_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear cached media: %w", err)
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cached_media_items
				(user_id, external_id, name, media_type, year, size_bytes, date_created, path, played, play_count, last_played, raw_data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, item.ExternalID, item.Name, item.MediaType, item.Year, item.SizeBytes,
			nullableTime(item.DateCreated), item.Path, item.Played, item.PlayCount,
			nullableTime(item.LastPlayed), string(item.RawData))
		if err != nil {
			return fmt.Errorf("failed to insert media item %s: %w", item.ExternalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit media replace: %w", err)
	}
	return nil
}

// ListMediaItems returns the user's cached library.
func (db *DB) ListMediaItems(ctx context.Context, userID string) ([]models.CachedMediaItem, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, external_id, name, media_type, COALESCE(year, 0), size_bytes,
			date_created, COALESCE(path, ''), played, play_count, last_played, COALESCE(raw_data, '')
		FROM cached_media_items WHERE user_id = ? ORDER BY external_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	defer rows.Close()

	var items []models.CachedMediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteMediaItemsByProviderID removes cached items whose raw upstream
// payload carries the given provider id, for example Tmdb "603". The
// provider id lives inside the raw JSON blob, so matching happens here
// rather than in SQL. Returns how many rows were removed.
func (db *DB) DeleteMediaItemsByProviderID(ctx context.Context, userID, provider, providerID string) (int, error) {
	if providerID == "" {
		return 0, nil
	}
	items, err := db.ListMediaItems(ctx, userID)
	if err != nil {
		return 0, err
	}

	var externalIDs []string
	for i := range items {
		if items[i].ProviderID(provider) == providerID {
			externalIDs = append(externalIDs, items[i].ExternalID)
		}
	}
	if len(externalIDs) == 0 {
		return 0, nil
	}

	for _, id := range externalIDs {
		if _, err := db.conn.ExecContext(ctx,
			`DELETE FROM cached_media_items WHERE user_id = ? AND external_id = ?`, userID, id); err != nil {
			return 0, fmt.Errorf("failed to delete media item %s: %w", id, err)
		}
	}
	return len(externalIDs), nil
}

func scanMediaItem(rows *sql.Rows) (models.CachedMediaItem, error) {
	var (
		item        models.CachedMediaItem
		dateCreated sql.NullTime
		lastPlayed  sql.NullTime
		raw         string
	)
	err := rows.Scan(&item.UserID, &item.ExternalID, &item.Name, &item.MediaType, &item.Year,
		&item.SizeBytes, &dateCreated, &item.Path, &item.Played, &item.PlayCount, &lastPlayed, &raw)
	if err != nil {
		return models.CachedMediaItem{}, fmt.Errorf("failed to scan media item: %w", err)
	}
	item.DateCreated = timePtr(dateCreated)
	item.LastPlayed = timePtr(lastPlayed)
	if raw != "" {
		item.RawData = []byte(raw)
	}
	return item, nil
}
