// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/models"
	"github.com/mpellat/janitarr/internal/validation"
)

type whitelistRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	// ExpiresAt is optional; an absent value means the entry never
	// expires.
	ExpiresAt *time.Time `json:"expires_at"`
}

// flavorParam extracts and checks the {flavor} route parameter. On an
// unknown flavor it writes the error response and reports false.
func flavorParam(w http.ResponseWriter, r *http.Request) (models.WhitelistFlavor, bool) {
	flavor := chi.URLParam(r, "flavor")
	if validation.Var(flavor, "flavor") != nil {
		respondError(w, http.StatusBadRequest, "unknown_flavor", "unknown whitelist flavor "+flavor, nil)
		return "", false
	}
	return models.WhitelistFlavor(flavor), true
}

// ListWhitelist returns every entry of one flavor, expired included.
func (h *Handler) ListWhitelist(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	flavor, ok := flavorParam(w, r)
	if !ok {
		return
	}

	entries, err := h.store.ListWhitelist(r.Context(), userID, flavor)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load whitelist", err)
		return
	}
	respondSuccess(w, http.StatusOK, entries)
}

// AddWhitelistEntry adds or refreshes an entry. Re-adding an existing
// id replaces its expiry.
func (h *Handler) AddWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	flavor, ok := flavorParam(w, r)
	if !ok {
		return
	}

	var req whitelistRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry := models.WhitelistEntry{
		UserID:     userID,
		Flavor:     flavor,
		ExternalID: req.ExternalID,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := h.store.AddWhitelistEntry(r.Context(), entry); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save whitelist entry", err)
		return
	}
	respondSuccess(w, http.StatusCreated, entry)
}

// RemoveWhitelistEntry deletes one entry by external id.
func (h *Handler) RemoveWhitelistEntry(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	flavor, ok := flavorParam(w, r)
	if !ok {
		return
	}

	externalID := chi.URLParam(r, "externalID")
	existed, err := h.store.RemoveWhitelistEntry(r.Context(), userID, flavor, externalID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete whitelist entry", err)
		return
	}
	if !existed {
		respondError(w, http.StatusNotFound, "not_found", "no whitelist entry for "+externalID, nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"external_id": externalID})
}
