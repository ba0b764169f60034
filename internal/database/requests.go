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

	"github.com/mpellat/janitarr/internal/models"
)

// ReplaceRequests atomically swaps the user's cached requests for the
// freshly fetched set, in one transaction like ReplaceMediaItems.
func (db *DB) ReplaceRequests(ctx context.Context, userID string, requests []models.CachedRequest) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin request replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_requests WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear cached requests: %w", err)
	}

	for _, req := range requests {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cached_requests
				(user_id, request_id, media_id, tmdb_id, media_type, status, title, requested_by, created_at, release_date, raw_data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, req.RequestID, req.MediaID, req.TmdbID, req.MediaType, req.Status.String(),
			req.Title, req.RequestedBy, nullableTime(req.CreatedAt), nullableTime(req.ReleaseDate),
			string(req.RawData))
		if err != nil {
			return fmt.Errorf("failed to insert request %d: %w", req.RequestID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit request replace: %w", err)
	}
	return nil
}

// ListRequests returns the user's cached requests.
func (db *DB) ListRequests(ctx context.Context, userID string) ([]models.CachedRequest, error) {
	rows, err := db.conn.QueryContext(ctx, requestSelect+` WHERE user_id = ? ORDER BY request_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []models.CachedRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// GetRequestByID returns one cached request, or nil when absent.
func (db *DB) GetRequestByID(ctx context.Context, userID string, requestID int64) (*models.CachedRequest, error) {
	rows, err := db.conn.QueryContext(ctx,
		requestSelect+` WHERE user_id = ? AND request_id = ?`, userID, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", requestID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	req, err := scanRequest(rows)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindMediaIDByTmdb returns the Jellyseerr media id cached for a TMDB
// id and type. When several requests point at the same media (duplicate
// requests are normal) the one with the lowest request id wins, which
// keeps the answer deterministic.
func (db *DB) FindMediaIDByTmdb(ctx context.Context, userID string, tmdbID int64, mediaType string) (int64, bool, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT media_id FROM cached_requests
		WHERE user_id = ? AND tmdb_id = ? AND media_type = ?
		ORDER BY request_id LIMIT 1`, userID, tmdbID, mediaType)

	var mediaID int64
	err := row.Scan(&mediaID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up media id for tmdb %d: %w", tmdbID, err)
	}
	return mediaID, true, nil
}

// DeleteRequestsByTmdb prunes every cached request for a TMDB id and
// type. Returns how many rows were removed.
func (db *DB) DeleteRequestsByTmdb(ctx context.Context, userID string, tmdbID int64, mediaType string) (int, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM cached_requests WHERE user_id = ? AND tmdb_id = ? AND media_type = ?`,
		userID, tmdbID, mediaType)
	if err != nil {
		return 0, fmt.Errorf("failed to delete requests for tmdb %d: %w", tmdbID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

const requestSelect = `
	SELECT user_id, request_id, media_id, tmdb_id, media_type, status,
		COALESCE(title, ''), COALESCE(requested_by, ''), created_at, release_date, COALESCE(raw_data, '')
	FROM cached_requests`

func scanRequest(rows *sql.Rows) (models.CachedRequest, error) {
	var (
		req         models.CachedRequest
		status      string
		createdAt   sql.NullTime
		releaseDate sql.NullTime
		raw         string
	)
	err := rows.Scan(&req.UserID, &req.RequestID, &req.MediaID, &req.TmdbID, &req.MediaType,
		&status, &req.Title, &req.RequestedBy, &createdAt, &releaseDate, &raw)
	if err != nil {
		return models.CachedRequest{}, fmt.Errorf("failed to scan request: %w", err)
	}
	req.Status = models.RequestStatusFromName(status)
	req.CreatedAt = timePtr(createdAt)
	req.ReleaseDate = timePtr(releaseDate)
	if raw != "" {
		req.RawData = []byte(raw)
	}
	return req, nil
}
