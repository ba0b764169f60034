// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"net/http"

	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/janitor"
	"github.com/mpellat/janitarr/internal/metrics"
	"github.com/mpellat/janitarr/internal/models"
	"github.com/mpellat/janitarr/internal/notify"
)

type deleteMediaRequest struct {
	TmdbID int64 `json:"tmdb_id" validate:"required,min=1"`
	// Flag fields are pointers so an absent field means "yes", the
	// default janitor behavior.
	DeleteFromArr        *bool `json:"delete_from_arr"`
	DeleteFromJellyseerr *bool `json:"delete_from_jellyseerr"`
	DeleteFiles          *bool `json:"delete_files"`
}

type deleteRequestRequest struct {
	RequestID            int64 `json:"request_id" validate:"required,min=1"`
	DeleteFromArr        *bool `json:"delete_from_arr"`
	DeleteFromJellyseerr *bool `json:"delete_from_jellyseerr"`
	DeleteFiles          *bool `json:"delete_files"`
}

func deleteFlags(arr, jellyseerr, files *bool) janitor.DeleteFlags {
	flags := janitor.DefaultDeleteFlags()
	if arr != nil {
		flags.RemoveFromArr = *arr
	}
	if jellyseerr != nil {
		flags.RemoveFromJellyseerr = *jellyseerr
	}
	if files != nil {
		flags.DeleteFiles = *files
	}
	return flags
}

func (h *Handler) respondDeleteResult(w http.ResponseWriter, userID, kind string, result models.DeleteResult) {
	metrics.RecordDeletion(kind, result.Success)
	if h.notifier.Enabled() {
		h.notifier.Publish(notify.EventDeleteCompleted, userID, result)
	}
	// Partial or failed outcomes still return the result body; the
	// per-target flags tell the caller what happened.
	respondSuccess(w, http.StatusOK, result)
}

// DeleteMovie removes a movie via Radarr and Jellyseerr.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req deleteMediaRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	flags := deleteFlags(req.DeleteFromArr, req.DeleteFromJellyseerr, req.DeleteFiles)
	result := h.deleter.DeleteMovie(r.Context(), userID, req.TmdbID, flags)
	h.respondDeleteResult(w, userID, "movie", result)
}

// DeleteSeries removes a series via Sonarr and Jellyseerr.
func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req deleteMediaRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	flags := deleteFlags(req.DeleteFromArr, req.DeleteFromJellyseerr, req.DeleteFiles)
	result := h.deleter.DeleteSeries(r.Context(), userID, req.TmdbID, flags)
	h.respondDeleteResult(w, userID, "series", result)
}

// DeleteRequest removes the media behind a cached request.
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req deleteRequestRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	flags := deleteFlags(req.DeleteFromArr, req.DeleteFromJellyseerr, req.DeleteFiles)
	result := h.deleter.DeleteRequest(r.Context(), userID, req.RequestID, flags)
	h.respondDeleteResult(w, userID, "request", result)
}
