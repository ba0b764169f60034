// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package clients contains the HTTP adapters for the downstream services
// Janitarr talks to (Jellyfin, Jellyseerr, Radarr, Sonarr) and the retry
// helper their calls route through.
package clients

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024

// StatusError is an HTTP failure carrying the status code so the retry
// helper can classify it: >=500 is transient, 4xx is permanent.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned HTTP %d", e.Service, e.StatusCode)
}

// newStatusError builds a StatusError, capturing a bounded slice of the
// response body for the message.
func newStatusError(service string, resp *http.Response) *StatusError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		body = []byte("(failed to read response body)")
	}
	return &StatusError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
}

// IsTransient reports whether an error is worth retrying. HTTP statuses
// >= 500 and network-level failures (connection, timeout, read) are
// transient; HTTP 4xx and everything else is permanent.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return false
}

// IsNotFound reports whether an error is an HTTP 404 from a downstream
// service. Deletion paths turn this into a descriptive failure message
// rather than propagating the error.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
