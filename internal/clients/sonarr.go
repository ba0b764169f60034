// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package clients

import (
	"context"
	"fmt"
	"time"
)

// SonarrClient talks to a Sonarr instance, the acquisition manager for
// series. Like Radarr there is no server-side catalog-id filter, so
// lookups scan the full series listing.
type SonarrClient struct {
	arrClient
}

// SonarrSeries is the slice of Sonarr's series resource Janitarr uses.
type SonarrSeries struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	TmdbID    int64  `json:"tmdbId"`
	TvdbID    int64  `json:"tvdbId"`
	TitleSlug string `json:"titleSlug"`
}

// NewSonarrClient creates a Sonarr adapter.
func NewSonarrClient(baseURL, apiKey string, timeout time.Duration) *SonarrClient {
	return &SonarrClient{arrClient: newArrClient("Sonarr", baseURL, apiKey, timeout)}
}

// ValidateConnection reports whether Sonarr answers with the configured
// API key.
func (c *SonarrClient) ValidateConnection(ctx context.Context) bool {
	return c.validateConnection(ctx)
}

// FetchSeries retrieves the full series listing through the retry policy.
func (c *SonarrClient) FetchSeries(ctx context.Context) ([]SonarrSeries, error) {
	var series []SonarrSeries
	if err := c.getJSONWithRetry(ctx, "/api/v3/series", &series); err != nil {
		return nil, err
	}
	return series, nil
}

// FindByTmdbID scans the series listing for the given TMDB id. Returns
// nil when no series matches. The lookup fails fast (no retry).
func (c *SonarrClient) FindByTmdbID(ctx context.Context, tmdbID int64) (*SonarrSeries, error) {
	var series []SonarrSeries
	if err := c.getJSON(ctx, "/api/v3/series", &series); err != nil {
		return nil, err
	}
	for i := range series {
		if series[i].TmdbID == tmdbID {
			return &series[i], nil
		}
	}
	return nil, nil
}

// DeleteSeries removes a series by Sonarr's internal id. deleteFiles
// also removes the files on disk.
func (c *SonarrClient) DeleteSeries(ctx context.Context, id int64, deleteFiles bool) (bool, string) {
	return c.deleteByID(ctx, "series", id, deleteFiles)
}

// DeleteByTmdbID composes FindByTmdbID and DeleteSeries.
func (c *SonarrClient) DeleteByTmdbID(ctx context.Context, tmdbID int64, deleteFiles bool) (bool, string) {
	series, err := c.FindByTmdbID(ctx, tmdbID)
	if err != nil {
		return false, fmt.Sprintf("failed to look up TMDB id %d in Sonarr: %v", tmdbID, err)
	}
	if series == nil {
		return false, fmt.Sprintf("no series with TMDB id %d in Sonarr", tmdbID)
	}
	return c.DeleteSeries(ctx, series.ID, deleteFiles)
}

// TitleSlugs returns a TMDB id to title-slug map, used only to build
// human-facing Sonarr links.
func (c *SonarrClient) TitleSlugs(ctx context.Context) (map[int64]string, error) {
	series, err := c.FetchSeries(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make(map[int64]string, len(series))
	for _, s := range series {
		if s.TitleSlug != "" {
			slugs[s.TmdbID] = s.TitleSlug
		}
	}
	return slugs, nil
}
