// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"

	"github.com/mpellat/janitarr/internal/clients"
	"github.com/mpellat/janitarr/internal/config"
	"github.com/mpellat/janitarr/internal/models"
)

// HTTPClientFactory builds the real HTTP adapters.
type HTTPClientFactory struct {
	cfg config.SyncConfig
}

// NewHTTPClientFactory returns a factory using the sync tuning knobs
// (timeouts, pagination bounds) from the configuration.
func NewHTTPClientFactory(cfg config.SyncConfig) *HTTPClientFactory {
	return &HTTPClientFactory{cfg: cfg}
}

func (f *HTTPClientFactory) MediaServer(s *models.IntegrationSettings) MediaServer {
	return clients.NewJellyfinClient(s.URL, s.APIKey, s.ExternalUserID, f.cfg.HTTPTimeout)
}

func (f *HTTPClientFactory) RequestManager(s *models.IntegrationSettings) RequestManager {
	return clients.NewJellyseerrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout, f.cfg.PageSize, f.cfg.MaxPages)
}

func (f *HTTPClientFactory) MovieManager(s *models.IntegrationSettings) AcquisitionManager {
	return clients.NewRadarrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout)
}

func (f *HTTPClientFactory) SeriesManager(s *models.IntegrationSettings) AcquisitionManager {
	return clients.NewSonarrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout)
}

// JellyfinUsers lists the accounts on the user's Jellyfin server, so
// the owner can pick which account's watch state to sync.
func (f *HTTPClientFactory) JellyfinUsers(ctx context.Context, s *models.IntegrationSettings) ([]clients.JellyfinUser, error) {
	return clients.NewJellyfinClient(s.URL, s.APIKey, s.ExternalUserID, f.cfg.HTTPTimeout).ListUsers(ctx)
}

// MovieSlugs returns Radarr's id-to-titleSlug map, keyed by TMDB id.
// Display-only; used to build links into the Radarr UI.
func (f *HTTPClientFactory) MovieSlugs(ctx context.Context, s *models.IntegrationSettings) (map[int64]string, error) {
	return clients.NewRadarrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout).TitleSlugs(ctx)
}

// SeriesSlugs returns Sonarr's id-to-titleSlug map, keyed by TMDB id.
func (f *HTTPClientFactory) SeriesSlugs(ctx context.Context, s *models.IntegrationSettings) (map[int64]string, error) {
	return clients.NewSonarrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout).TitleSlugs(ctx)
}
