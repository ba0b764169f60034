// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package models

import "time"

// Sync outcome states. "partial" means the primary Jellyfin fetch
// succeeded but the secondary Jellyseerr fetch failed.
const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// SyncStatus is the per-user sync bookkeeping row, upserted on every run.
// LastStarted is written when a sync begins regardless of outcome; the
// completed fields are written only once the run reaches a terminal state.
type SyncStatus struct {
	UserID        string     `json:"user_id"`
	LastStarted   *time.Time `json:"last_started,omitempty"`
	LastCompleted *time.Time `json:"last_completed,omitempty"`
	LastStatus    string     `json:"last_status,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	ItemCount     int        `json:"item_count"`
	RequestCount  int        `json:"request_count"`
}

// SyncResult is what a single sync run reports back to its caller.
type SyncResult struct {
	Status           string `json:"status"`
	MediaItemsSynced int    `json:"media_items_synced"`
	RequestsSynced   int    `json:"requests_synced"`
	Error            string `json:"error,omitempty"`
}
