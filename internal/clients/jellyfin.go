// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/models"
)

// jellyfinAuthHeader carries the API key on every Jellyfin request.
const jellyfinAuthHeader = "X-Emby-Token"

// JellyfinClient talks to a Jellyfin server. It is the primary data
// source: library items with watch state and media stream metadata.
//
// Library fetches are guarded by a circuit breaker (opens after 3
// consecutive failures, half-opens after 60s) in addition to the shared
// retry policy, so a dead server stops consuming retry budget on every
// scheduled sync.
type JellyfinClient struct {
	baseURL string
	apiKey  string
	// userID is the Jellyfin user whose library and watch state are
	// fetched.
	userID  string
	client  *http.Client
	retry   *Retryer
	breaker *gobreaker.CircuitBreaker[[]models.CachedMediaItem]
}

// JellyfinUser is one account on the Jellyfin server, listed so the
// owner can pick which user's watch state to sync.
type JellyfinUser struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// NewJellyfinClient creates a Jellyfin adapter for one user's stored
// credentials.
func NewJellyfinClient(baseURL, apiKey, userID string, timeout time.Duration) *JellyfinClient {
	c := &JellyfinClient{
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  apiKey,
		userID:  userID,
		client:  newHTTPClient(timeout),
		retry:   NewRetryer(),
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]models.CachedMediaItem](gobreaker.Settings{
		Name:    "jellyfin",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("service", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
		},
	})
	return c
}

// ValidateConnection reports whether the server is reachable with the
// configured credentials. It deliberately hits /Users, which requires a
// valid API key; the public system-info endpoint answers for any URL and
// would make every configuration appear valid.
func (c *JellyfinClient) ValidateConnection(ctx context.Context) bool {
	err := doJSON(ctx, c.client, "Jellyfin", http.MethodGet, c.baseURL+"/Users", jellyfinAuthHeader, c.apiKey, nil)
	if err != nil {
		logging.Debug().Err(err).Msg("Jellyfin connection validation failed")
		return false
	}
	return true
}

// ListUsers returns the accounts on the Jellyfin server. Fails fast.
func (c *JellyfinClient) ListUsers(ctx context.Context) ([]JellyfinUser, error) {
	var users []JellyfinUser
	if err := doJSON(ctx, c.client, "Jellyfin", http.MethodGet, c.baseURL+"/Users", jellyfinAuthHeader, c.apiKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// jellyfinItem is the typed slice of the library item payload that gets
// promoted to cache columns. The full payload is kept verbatim as the
// raw-data blob.
type jellyfinItem struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	Type           string `json:"Type"`
	ProductionYear int    `json:"ProductionYear"`
	DateCreated    string `json:"DateCreated"`
	Path           string `json:"Path"`
	MediaSources   []struct {
		Size int64 `json:"Size"`
	} `json:"MediaSources"`
	UserData struct {
		Played         bool   `json:"Played"`
		PlayCount      int    `json:"PlayCount"`
		LastPlayedDate string `json:"LastPlayedDate"`
	} `json:"UserData"`
}

// FetchLibrary retrieves the user's movies and series with watch state
// and stream metadata, normalized into cache rows. The call goes through
// the circuit breaker and the retry policy.
func (c *JellyfinClient) FetchLibrary(ctx context.Context) ([]models.CachedMediaItem, error) {
	return c.breaker.Execute(func() ([]models.CachedMediaItem, error) {
		return FetchWithRetry(ctx, c.retry, "Jellyfin", c.fetchLibraryOnce)
	})
}

func (c *JellyfinClient) fetchLibraryOnce(ctx context.Context) ([]models.CachedMediaItem, error) {
	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("IncludeItemTypes", "Movie,Series")
	params.Set("Fields", "DateCreated,Path,ProviderIds,MediaSources")

	reqURL := fmt.Sprintf("%s/Users/%s/Items?%s", c.baseURL, url.PathEscape(c.userID), params.Encode())

	var page struct {
		Items []json.RawMessage `json:"Items"`
	}
	if err := doJSON(ctx, c.client, "Jellyfin", http.MethodGet, reqURL, jellyfinAuthHeader, c.apiKey, &page); err != nil {
		return nil, err
	}

	items := make([]models.CachedMediaItem, 0, len(page.Items))
	for _, raw := range page.Items {
		var it jellyfinItem
		if err := json.Unmarshal(raw, &it); err != nil {
			logging.Warn().Err(err).Msg("Skipping undecodable Jellyfin item")
			continue
		}
		if it.ID == "" {
			continue
		}
		items = append(items, normalizeJellyfinItem(it, raw))
	}
	return items, nil
}

func normalizeJellyfinItem(it jellyfinItem, raw json.RawMessage) models.CachedMediaItem {
	var size int64
	for _, src := range it.MediaSources {
		size += src.Size
	}

	mediaType := models.MediaTypeMovie
	if strings.EqualFold(it.Type, "Series") {
		mediaType = models.MediaTypeSeries
	}

	return models.CachedMediaItem{
		ExternalID:  it.ID,
		Name:        it.Name,
		MediaType:   mediaType,
		Year:        it.ProductionYear,
		SizeBytes:   size,
		DateCreated: parseUpstreamTime(it.DateCreated),
		Path:        it.Path,
		Played:      it.UserData.Played,
		PlayCount:   it.UserData.PlayCount,
		LastPlayed:  parseUpstreamTime(it.UserData.LastPlayedDate),
		RawData:     raw,
	}
}

// parseUpstreamTime parses the timestamp formats the upstream services
// emit. Unparseable or empty values yield nil; classification applies
// its own defaulting rules to missing dates.
func parseUpstreamTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
