// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package models

import "time"

// APIResponse is the envelope every Janitarr endpoint returns.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError describes a request failure in a machine-usable way.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DeleteResult is the outcome of a janitor deletion. The per-target flags
// let callers render partial outcomes: the Radarr/Sonarr deletion and the
// Jellyseerr media deletion succeed or fail independently.
type DeleteResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ArrDeleted        bool   `json:"arr_deleted"`
	JellyseerrDeleted bool   `json:"jellyseerr_deleted"`
}
