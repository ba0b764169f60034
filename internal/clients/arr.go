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

	"github.com/mpellat/janitarr/internal/logging"
)

// arrClient is the plumbing shared by the Radarr and Sonarr adapters:
// same auth header, same v3 API conventions, same delete semantics.
type arrClient struct {
	service string
	baseURL string
	apiKey  string
	client  *http.Client
	retry   *Retryer
}

func newArrClient(service, baseURL, apiKey string, timeout time.Duration) arrClient {
	return arrClient{
		service: service,
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  apiKey,
		client:  newHTTPClient(timeout),
		retry:   NewRetryer(),
	}
}

// validateConnection hits /api/v3/system/status, which rejects missing
// or wrong API keys with a 401.
func (c *arrClient) validateConnection(ctx context.Context) bool {
	err := doJSON(ctx, c.client, c.service, http.MethodGet, c.baseURL+"/api/v3/system/status", arrAuthHeader, c.apiKey, nil)
	if err != nil {
		logging.Debug().Err(err).Str("service", c.service).Msg("Connection validation failed")
		return false
	}
	return true
}

// getJSON fetches a resource without retrying. Lookups fail fast.
func (c *arrClient) getJSON(ctx context.Context, path string, out interface{}) error {
	return doJSON(ctx, c.client, c.service, http.MethodGet, c.baseURL+path, arrAuthHeader, c.apiKey, out)
}

// getJSONWithRetry fetches a resource through the retry policy. Used
// for full-collection fetches.
func (c *arrClient) getJSONWithRetry(ctx context.Context, path string, out interface{}) error {
	return c.retry.Do(ctx, c.service, func(ctx context.Context) error {
		return doJSON(ctx, c.client, c.service, http.MethodGet, c.baseURL+path, arrAuthHeader, c.apiKey, out)
	})
}

// deleteByID removes a resource by its internal id. deleteFiles asks
// the service to also remove the files on disk. The outcome message is
// human-readable; "not found" is a failure message, not an error.
func (c *arrClient) deleteByID(ctx context.Context, resource string, id int64, deleteFiles bool) (bool, string) {
	path := fmt.Sprintf("/api/v3/%s/%d?deleteFiles=%t&addImportExclusion=false", resource, id, deleteFiles)

	err := c.retry.Do(ctx, c.service, func(ctx context.Context) error {
		return doJSON(ctx, c.client, c.service, http.MethodDelete, c.baseURL+path, arrAuthHeader, c.apiKey, nil)
	})
	if err != nil {
		if IsNotFound(err) {
			return false, fmt.Sprintf("%s %d not found in %s", resource, id, c.service)
		}
		return false, fmt.Sprintf("failed to delete %s %d from %s: %v", resource, id, c.service, err)
	}
	return true, fmt.Sprintf("deleted %s %d from %s", resource, id, c.service)
}
