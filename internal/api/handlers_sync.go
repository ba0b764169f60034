// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"errors"
	"net/http"

	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/janitor"
	"github.com/mpellat/janitarr/internal/models"
)

// TriggerSync starts an on-demand sync for the calling user. Requests
// inside the cooldown window get 429.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	result, err := h.syncer.TriggerSync(r.Context(), userID)
	if err != nil {
		if errors.Is(err, janitor.ErrSyncThrottled) {
			respondError(w, http.StatusTooManyRequests, "sync_throttled", "a sync ran recently, try again later", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "sync failed to start", err)
		return
	}

	// The run's own outcome (success, partial, failed) travels in the
	// result body; the HTTP status only says the trigger was accepted.
	respondSuccess(w, http.StatusOK, result)
}

// SyncStatus returns the calling user's sync bookkeeping row.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	status, err := h.store.GetSyncStatus(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load sync status", err)
		return
	}
	if status == nil {
		status = &models.SyncStatus{UserID: userID}
	}
	respondSuccess(w, http.StatusOK, status)
}
