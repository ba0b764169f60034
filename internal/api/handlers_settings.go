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
	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/models"
	"github.com/mpellat/janitarr/internal/validation"
)

type integrationRequest struct {
	Service        string `json:"service" validate:"required,service"`
	URL            string `json:"url" validate:"required,url"`
	APIKey         string `json:"api_key" validate:"required"`
	ExternalUserID string `json:"external_user_id"`
}

type thresholdsRequest struct {
	OldContentMonths int `json:"old_content_months" validate:"required,min=1,max=240"`
	MinAgeMonths     int `json:"min_age_months" validate:"required,min=1,max=240"`
	LargeMovieGB     int `json:"large_movie_gb" validate:"required,min=1,max=1000"`
	TooRecentMonths  int `json:"too_recent_months" validate:"required,min=1,max=240"`
}

type validateIntegrationRequest struct {
	Service string `json:"service" validate:"required,service"`
}

// integrationView is what the API returns for a stored integration.
// The key itself never leaves the server.
type integrationView struct {
	Service        string    `json:"service"`
	URL            string    `json:"url"`
	ExternalUserID string    `json:"external_user_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListIntegrations returns every configured integration, without keys.
func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	services, err := h.store.ListConfiguredServices(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load integrations", err)
		return
	}

	views := make([]integrationView, 0, len(services))
	for _, svc := range services {
		s, err := h.store.GetIntegrationSettings(r.Context(), userID, svc)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load integrations", err)
			return
		}
		if s == nil {
			continue
		}
		views = append(views, integrationView{
			Service:        s.Service,
			URL:            s.URL,
			ExternalUserID: s.ExternalUserID,
			UpdatedAt:      s.UpdatedAt,
		})
	}
	respondSuccess(w, http.StatusOK, views)
}

// UpsertIntegration stores or replaces one service's credentials.
func (h *Handler) UpsertIntegration(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req integrationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	err := h.store.UpsertIntegrationSettings(r.Context(), models.IntegrationSettings{
		UserID:         userID,
		Service:        req.Service,
		URL:            req.URL,
		APIKey:         req.APIKey,
		ExternalUserID: req.ExternalUserID,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save integration", err)
		return
	}

	logging.Info().Str("user_id", userID).Str("service", req.Service).Msg("Integration saved")
	respondSuccess(w, http.StatusOK, integrationView{Service: req.Service, URL: req.URL, ExternalUserID: req.ExternalUserID, UpdatedAt: time.Now()})
}

// DeleteIntegration removes one service's credentials.
func (h *Handler) DeleteIntegration(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	service := chi.URLParam(r, "service")
	if validation.Var(service, "service") != nil {
		respondError(w, http.StatusBadRequest, "unknown_service", "unknown service "+service, nil)
		return
	}

	if err := h.store.DeleteIntegrationSettings(r.Context(), userID, service); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete integration", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"service": service})
}

// GetThresholds returns the user's classification thresholds, falling
// back to the defaults when none were saved.
func (h *Handler) GetThresholds(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	t, err := h.store.GetThresholds(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load thresholds", err)
		return
	}
	respondSuccess(w, http.StatusOK, t)
}

// PutThresholds replaces the user's classification thresholds.
func (h *Handler) PutThresholds(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req thresholdsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	t := models.ThresholdSettings{
		UserID:           userID,
		OldContentMonths: req.OldContentMonths,
		MinAgeMonths:     req.MinAgeMonths,
		LargeMovieGB:     req.LargeMovieGB,
		TooRecentMonths:  req.TooRecentMonths,
	}
	if err := h.store.UpsertThresholds(r.Context(), t); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save thresholds", err)
		return
	}
	respondSuccess(w, http.StatusOK, t)
}

// ValidateIntegration probes the named service with the stored
// credentials and reports reachability.
func (h *Handler) ValidateIntegration(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req validateIntegrationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	settings, err := h.store.GetIntegrationSettings(r.Context(), userID, req.Service)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load integration", err)
		return
	}
	if settings == nil {
		respondError(w, http.StatusNotFound, "not_configured", req.Service+" integration not configured", nil)
		return
	}

	valid := h.clients.ValidateConnection(r.Context(), settings)
	respondSuccess(w, http.StatusOK, map[string]interface{}{"service": req.Service, "valid": valid})
}

// ListJellyfinUsers returns the accounts on the configured Jellyfin
// server, so the owner can pick the external user id whose watch state
// the sync should follow.
func (h *Handler) ListJellyfinUsers(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	settings, err := h.store.GetIntegrationSettings(r.Context(), userID, models.ServiceJellyfin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load integration", err)
		return
	}
	if settings == nil {
		respondError(w, http.StatusNotFound, "not_configured", "jellyfin integration not configured", nil)
		return
	}

	users, err := h.clients.JellyfinUsers(r.Context(), settings)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Jellyfin user listing failed")
		respondError(w, http.StatusBadGateway, "upstream_error", "failed to list jellyfin users", err)
		return
	}
	respondSuccess(w, http.StatusOK, users)
}
