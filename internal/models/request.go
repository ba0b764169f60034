// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// RequestStatus enumerates the Jellyseerr request states the cache keeps.
// The numeric values match Jellyseerr's API status codes.
type RequestStatus int

const (
	RequestStatusUnknown            RequestStatus = 0
	RequestStatusPending            RequestStatus = 1
	RequestStatusApproved           RequestStatus = 2
	RequestStatusProcessing         RequestStatus = 3
	RequestStatusPartiallyAvailable RequestStatus = 4
	RequestStatusAvailable          RequestStatus = 5
)

// String returns the human-readable status name.
func (s RequestStatus) String() string {
	switch s {
	case RequestStatusPending:
		return "pending"
	case RequestStatusApproved:
		return "approved"
	case RequestStatusProcessing:
		return "processing"
	case RequestStatusPartiallyAvailable:
		return "partially-available"
	case RequestStatusAvailable:
		return "available"
	default:
		return "unknown"
	}
}

// RequestStatusFromName is the inverse of String, for rows read back
// from the database. Unrecognized names fold into RequestStatusUnknown.
func RequestStatusFromName(name string) RequestStatus {
	switch name {
	case "pending":
		return RequestStatusPending
	case "approved":
		return RequestStatusApproved
	case "processing":
		return RequestStatusProcessing
	case "partially-available":
		return RequestStatusPartiallyAvailable
	case "available":
		return RequestStatusAvailable
	default:
		return RequestStatusUnknown
	}
}

// CachedRequest is one row of the per-user request cache, mirroring a
// Jellyseerr request. RequestID identifies the request itself; MediaID
// identifies the underlying media entry, which is what Jellyseerr's
// delete endpoint operates on. Several requests may share one TmdbID
// when the same title was requested more than once.
type CachedRequest struct {
	UserID      string          `json:"user_id"`
	RequestID   int64           `json:"request_id"`
	MediaID     int64           `json:"media_id"`
	TmdbID      int64           `json:"tmdb_id"`
	MediaType   string          `json:"media_type"`
	Status      RequestStatus   `json:"status"`
	Title       string          `json:"title,omitempty"`
	RequestedBy string          `json:"requested_by,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	ReleaseDate *time.Time      `json:"release_date,omitempty"`
	RawData     json.RawMessage `json:"raw_data,omitempty"`
}
