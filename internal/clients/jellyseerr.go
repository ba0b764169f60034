// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/models"
)

// arrAuthHeader authenticates against Jellyseerr, Radarr and Sonarr.
const arrAuthHeader = "X-Api-Key"

// JellyseerrClient talks to a Jellyseerr instance: the secondary data
// source for cached requests, and the delete target for media entries.
type JellyseerrClient struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	retry    *Retryer
	pageSize int
	maxPages int
}

// NewJellyseerrClient creates a Jellyseerr adapter. pageSize and
// maxPages bound the paginated request fetch; maxPages is a safety stop
// against servers that keep reporting more pages.
func NewJellyseerrClient(baseURL, apiKey string, timeout time.Duration, pageSize, maxPages int) *JellyseerrClient {
	if pageSize <= 0 {
		pageSize = 100
	}
	if maxPages <= 0 {
		maxPages = 100
	}
	return &JellyseerrClient{
		baseURL:  normalizeBaseURL(baseURL),
		apiKey:   apiKey,
		client:   newHTTPClient(timeout),
		retry:    NewRetryer(),
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// ValidateConnection reports whether the server answers with the
// configured API key. It hits /api/v1/auth/me, which requires a valid
// key; Jellyseerr's /api/v1/status is unauthenticated and would accept
// any URL.
func (c *JellyseerrClient) ValidateConnection(ctx context.Context) bool {
	err := doJSON(ctx, c.client, "Jellyseerr", http.MethodGet, c.baseURL+"/api/v1/auth/me", arrAuthHeader, c.apiKey, nil)
	if err != nil {
		logging.Debug().Err(err).Msg("Jellyseerr connection validation failed")
		return false
	}
	return true
}

// jellyseerrRequest is the typed slice of a request payload. Media
// detail fields (title, release dates) are decoded tolerantly: absent
// fields stay zero and classification applies its defaulting rules.
type jellyseerrRequest struct {
	ID        int64  `json:"id"`
	Status    int    `json:"status"`
	CreatedAt string `json:"createdAt"`
	Media     struct {
		ID           int64  `json:"id"`
		TmdbID       int64  `json:"tmdbId"`
		MediaType    string `json:"mediaType"`
		Status       int    `json:"status"`
		Title        string `json:"title"`
		ReleaseDate  string `json:"releaseDate"`
		FirstAirDate string `json:"firstAirDate"`
	} `json:"media"`
	RequestedBy struct {
		DisplayName string `json:"displayName"`
	} `json:"requestedBy"`
}

type jellyseerrRequestPage struct {
	PageInfo struct {
		Pages   int `json:"pages"`
		Results int `json:"results"`
	} `json:"pageInfo"`
	Results []json.RawMessage `json:"results"`
}

// FetchRequests retrieves all requests, paginating until the server
// reports no more pages or the page-count safety limit is reached. Each
// page fetch goes through the retry policy.
func (c *JellyseerrClient) FetchRequests(ctx context.Context) ([]models.CachedRequest, error) {
	var requests []models.CachedRequest

	for page := 0; page < c.maxPages; page++ {
		reqURL := fmt.Sprintf("%s/api/v1/request?take=%d&skip=%d", c.baseURL, c.pageSize, page*c.pageSize)

		result, err := FetchWithRetry(ctx, c.retry, "Jellyseerr", func(ctx context.Context) (jellyseerrRequestPage, error) {
			var p jellyseerrRequestPage
			err := doJSON(ctx, c.client, "Jellyseerr", http.MethodGet, reqURL, arrAuthHeader, c.apiKey, &p)
			return p, err
		})
		if err != nil {
			return nil, err
		}
		if len(result.Results) == 0 {
			break
		}

		for _, raw := range result.Results {
			var req jellyseerrRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				logging.Warn().Err(err).Msg("Skipping undecodable Jellyseerr request")
				continue
			}
			requests = append(requests, normalizeJellyseerrRequest(req, raw))
		}

		if result.PageInfo.Pages > 0 && page+1 >= result.PageInfo.Pages {
			break
		}
	}

	return requests, nil
}

func normalizeJellyseerrRequest(req jellyseerrRequest, raw json.RawMessage) models.CachedRequest {
	releaseDate := req.Media.ReleaseDate
	if req.Media.MediaType == "tv" && req.Media.FirstAirDate != "" {
		releaseDate = req.Media.FirstAirDate
	}

	return models.CachedRequest{
		RequestID:   req.ID,
		MediaID:     req.Media.ID,
		TmdbID:      req.Media.TmdbID,
		MediaType:   req.Media.MediaType,
		Status:      mapJellyseerrStatus(req.Status, req.Media.Status),
		Title:       req.Media.Title,
		RequestedBy: req.RequestedBy.DisplayName,
		CreatedAt:   parseUpstreamTime(req.CreatedAt),
		ReleaseDate: parseUpstreamTime(releaseDate),
		RawData:     raw,
	}
}

// mapJellyseerrStatus folds the two Jellyseerr status dimensions into
// the single cache enum. Media availability wins when it says anything
// definite (processing and beyond); otherwise the request state decides
// between pending and approved.
func mapJellyseerrStatus(requestStatus, mediaStatus int) models.RequestStatus {
	switch mediaStatus {
	case 5:
		return models.RequestStatusAvailable
	case 4:
		return models.RequestStatusPartiallyAvailable
	case 3:
		return models.RequestStatusProcessing
	}
	switch requestStatus {
	case 2:
		return models.RequestStatusApproved
	case 1:
		return models.RequestStatusPending
	}
	return models.RequestStatusUnknown
}

// DeleteMedia removes a media entry (not a request) by its Jellyseerr
// media id. The returned message describes the outcome either way; "not
// found" is a failure message, not an error.
func (c *JellyseerrClient) DeleteMedia(ctx context.Context, mediaID int64) (bool, string) {
	reqURL := fmt.Sprintf("%s/api/v1/media/%d", c.baseURL, mediaID)

	err := c.retry.Do(ctx, "Jellyseerr", func(ctx context.Context) error {
		return doJSON(ctx, c.client, "Jellyseerr", http.MethodDelete, reqURL, arrAuthHeader, c.apiKey, nil)
	})
	if err != nil {
		if IsNotFound(err) {
			return false, fmt.Sprintf("media %d not found in Jellyseerr", mediaID)
		}
		return false, fmt.Sprintf("failed to delete media %d from Jellyseerr: %v", mediaID, err)
	}
	return true, fmt.Sprintf("deleted media %d from Jellyseerr", mediaID)
}
