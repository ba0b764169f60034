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

// MarkSyncStarted records that a sync pass began for the user.
func (db *DB) MarkSyncStarted(ctx context.Context, userID string, startedAt time.Time) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sync_status (user_id, last_started) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET last_started = excluded.last_started`,
		userID, startedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark sync started: %w", err)
	}
	return nil
}

// MarkSyncCompleted records the outcome of a sync pass. status is one
// of the models.SyncStatus* constants; errMsg is empty on full success.
func (db *DB) MarkSyncCompleted(ctx context.Context, userID string, completedAt time.Time, status, errMsg string, itemCount, requestCount int) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sync_status (user_id, last_completed, last_status, last_error, item_count, request_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			last_completed = excluded.last_completed,
			last_status = excluded.last_status,
			last_error = excluded.last_error,
			item_count = excluded.item_count,
			request_count = excluded.request_count`,
		userID, completedAt.UTC(), status, errMsg, itemCount, requestCount)
	if err != nil {
		return fmt.Errorf("failed to mark sync completed: %w", err)
	}
	return nil
}

// GetSyncStatus returns the user's sync status, or nil when the user
// has never synced.
func (db *DB) GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatus, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT user_id, last_started, last_completed, COALESCE(last_status, ''), COALESCE(last_error, ''), item_count, request_count
		FROM sync_status WHERE user_id = ?`, userID)

	var (
		s             models.SyncStatus
		lastStarted   sql.NullTime
		lastCompleted sql.NullTime
	)
	err := row.Scan(&s.UserID, &lastStarted, &lastCompleted, &s.LastStatus, &s.LastError, &s.ItemCount, &s.RequestCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync status: %w", err)
	}
	s.LastStarted = timePtr(lastStarted)
	s.LastCompleted = timePtr(lastCompleted)
	return &s, nil
}
