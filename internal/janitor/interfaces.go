// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package janitor orchestrates the cache sync, the background sync
// scheduler and the deletion flows against the downstream services.
package janitor

import (
	"context"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

// Store is the slice of the database layer the orchestrators need.
// Narrowing it to an interface keeps the sync and delete flows testable
// without a live DuckDB instance.
type Store interface {
	GetIntegrationSettings(ctx context.Context, userID, service string) (*models.IntegrationSettings, error)
	ListUserIDsWithService(ctx context.Context, service string) ([]string, error)

	ReplaceMediaItems(ctx context.Context, userID string, items []models.CachedMediaItem) error
	ReplaceRequests(ctx context.Context, userID string, requests []models.CachedRequest) error
	MarkSyncStarted(ctx context.Context, userID string, startedAt time.Time) error
	MarkSyncCompleted(ctx context.Context, userID string, completedAt time.Time, status, errMsg string, itemCount, requestCount int) error

	FindMediaIDByTmdb(ctx context.Context, userID string, tmdbID int64, mediaType string) (int64, bool, error)
	GetRequestByID(ctx context.Context, userID string, requestID int64) (*models.CachedRequest, error)
	DeleteMediaItemsByProviderID(ctx context.Context, userID, provider, providerID string) (int, error)
	DeleteRequestsByTmdb(ctx context.Context, userID string, tmdbID int64, mediaType string) (int, error)
}

// MediaServer is the primary upstream: the user's library with watch
// state.
type MediaServer interface {
	FetchLibrary(ctx context.Context) ([]models.CachedMediaItem, error)
}

// RequestManager is the secondary upstream and the delete target for
// media entries.
type RequestManager interface {
	FetchRequests(ctx context.Context) ([]models.CachedRequest, error)
	DeleteMedia(ctx context.Context, mediaID int64) (bool, string)
}

// AcquisitionManager deletes content by catalog id; one instance per
// media kind (movies, series).
type AcquisitionManager interface {
	DeleteByTmdbID(ctx context.Context, tmdbID int64, deleteFiles bool) (bool, string)
}

// ClientFactory builds upstream adapters from a user's stored
// integration settings. Credentials are per user, so adapters cannot be
// constructed once at startup.
type ClientFactory interface {
	MediaServer(s *models.IntegrationSettings) MediaServer
	RequestManager(s *models.IntegrationSettings) RequestManager
	MovieManager(s *models.IntegrationSettings) AcquisitionManager
	SeriesManager(s *models.IntegrationSettings) AcquisitionManager
}
