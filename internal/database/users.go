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

	"github.com/google/uuid"

	"github.com/mpellat/janitarr/internal/models"
)

// ErrUsernameTaken is returned when a signup collides with an existing
// username.
var ErrUsernameTaken = errors.New("username already taken")

// CreateUser inserts a new user with the given bcrypt hash and seeds
// the default classification thresholds.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	existing, err := db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := db.UpsertThresholds(ctx, models.DefaultThresholds(user.ID)); err != nil {
		return nil, fmt.Errorf("failed to seed default thresholds: %w", err)
	}
	return user, nil
}

// GetUserByUsername returns the user, or nil when no user matches.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username))
}

// GetUserByID returns the user, or nil when no user matches.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id))
}

// ListUserIDsWithService returns the ids of users who have configured
// the given integration, for the scheduler's sync passes. Users who
// never set the service up are not enumerated at all.
func (db *DB) ListUserIDsWithService(ctx context.Context, service string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id FROM users u
		 JOIN integration_settings s ON s.user_id = u.id AND s.service = ?
		 ORDER BY u.created_at`, service)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
