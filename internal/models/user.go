// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package models

import "time"

// User is an account that owns cached data and integration settings.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Integration service names.
const (
	ServiceJellyfin   = "jellyfin"
	ServiceJellyseerr = "jellyseerr"
	ServiceRadarr     = "radarr"
	ServiceSonarr     = "sonarr"
)

// KnownServices lists every supported integration, for request validation.
var KnownServices = []string{ServiceJellyfin, ServiceJellyseerr, ServiceRadarr, ServiceSonarr}

// IntegrationSettings holds one user's credentials for one downstream
// service. APIKey is encrypted at rest; the database layer stores and
// returns the ciphertext, and callers decrypt on use.
type IntegrationSettings struct {
	UserID string `json:"user_id"`
	// Service is one of the Service* constants.
	Service string `json:"service"`
	URL     string `json:"url"`
	APIKey  string `json:"-"`
	// ExternalUserID is the Jellyfin user whose library and watch state
	// are synced. Only meaningful for the jellyfin service.
	ExternalUserID string    `json:"external_user_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ThresholdSettings are the per-user classification knobs.
type ThresholdSettings struct {
	UserID string `json:"user_id"`
	// OldContentMonths: a played item is stale when its last play is
	// older than this many months.
	OldContentMonths int `json:"old_content_months"`
	// MinAgeMonths: a never-played item is not flagged until it has been
	// in the library this long.
	MinAgeMonths int `json:"min_age_months"`
	// LargeMovieGB: movies at or above this size are flagged.
	LargeMovieGB int `json:"large_movie_gb"`
	// TooRecentMonths: requests released within this window are not yet
	// considered stale.
	TooRecentMonths int `json:"too_recent_months"`
}

// DefaultThresholds returns the stock classification thresholds.
func DefaultThresholds(userID string) ThresholdSettings {
	return ThresholdSettings{
		UserID:           userID,
		OldContentMonths: 12,
		MinAgeMonths:     3,
		LargeMovieGB:     15,
		TooRecentMonths:  3,
	}
}
