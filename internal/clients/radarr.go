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

// RadarrClient talks to a Radarr instance, the acquisition manager for
// movies. Radarr has no server-side filter by TMDB id, so lookups scan
// the full movie listing.
type RadarrClient struct {
	arrClient
}

// RadarrMovie is the slice of Radarr's movie resource Janitarr uses.
type RadarrMovie struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	TmdbID     int64  `json:"tmdbId"`
	TitleSlug  string `json:"titleSlug"`
	SizeOnDisk int64  `json:"sizeOnDisk"`
}

// NewRadarrClient creates a Radarr adapter.
func NewRadarrClient(baseURL, apiKey string, timeout time.Duration) *RadarrClient {
	return &RadarrClient{arrClient: newArrClient("Radarr", baseURL, apiKey, timeout)}
}

// ValidateConnection reports whether Radarr answers with the configured
// API key.
func (c *RadarrClient) ValidateConnection(ctx context.Context) bool {
	return c.validateConnection(ctx)
}

// FetchMovies retrieves the full movie listing through the retry policy.
func (c *RadarrClient) FetchMovies(ctx context.Context) ([]RadarrMovie, error) {
	var movies []RadarrMovie
	if err := c.getJSONWithRetry(ctx, "/api/v3/movie", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// FindByTmdbID scans the movie listing for the given TMDB id. Returns
// nil when no movie matches. The lookup fails fast (no retry).
func (c *RadarrClient) FindByTmdbID(ctx context.Context, tmdbID int64) (*RadarrMovie, error) {
	var movies []RadarrMovie
	if err := c.getJSON(ctx, "/api/v3/movie", &movies); err != nil {
		return nil, err
	}
	for i := range movies {
		if movies[i].TmdbID == tmdbID {
			return &movies[i], nil
		}
	}
	return nil, nil
}

// DeleteMovie removes a movie by Radarr's internal id. deleteFiles also
// removes the files on disk.
func (c *RadarrClient) DeleteMovie(ctx context.Context, id int64, deleteFiles bool) (bool, string) {
	return c.deleteByID(ctx, "movie", id, deleteFiles)
}

// DeleteByTmdbID composes FindByTmdbID and DeleteMovie. A missing match
// fails with a message naming the TMDB id; a failed delete propagates
// that failure message.
func (c *RadarrClient) DeleteByTmdbID(ctx context.Context, tmdbID int64, deleteFiles bool) (bool, string) {
	movie, err := c.FindByTmdbID(ctx, tmdbID)
	if err != nil {
		return false, fmt.Sprintf("failed to look up TMDB id %d in Radarr: %v", tmdbID, err)
	}
	if movie == nil {
		return false, fmt.Sprintf("no movie with TMDB id %d in Radarr", tmdbID)
	}
	return c.DeleteMovie(ctx, movie.ID, deleteFiles)
}

// TitleSlugs returns a TMDB id to title-slug map, used only to build
// human-facing Radarr links.
func (c *RadarrClient) TitleSlugs(ctx context.Context) (map[int64]string, error) {
	movies, err := c.FetchMovies(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make(map[int64]string, len(movies))
	for _, m := range movies {
		if m.TitleSlug != "" {
			slugs[m.TmdbID] = m.TitleSlug
		}
	}
	return slugs, nil
}
