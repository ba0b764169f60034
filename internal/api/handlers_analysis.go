// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"net/http"
	"strings"

	"github.com/mpellat/janitarr/internal/analysis"
	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/models"
)

// analysisInput is everything a classification call needs from the
// store.
type analysisInput struct {
	items      []models.CachedMediaItem
	requests   []models.CachedRequest
	thresholds models.ThresholdSettings
	whitelists analysis.Whitelists
}

func (h *Handler) loadAnalysisInput(r *http.Request, userID string) (*analysisInput, error) {
	ctx := r.Context()

	items, err := h.store.ListMediaItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := h.store.ListRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	thresholds, err := h.store.GetThresholds(ctx, userID)
	if err != nil {
		return nil, err
	}
	whitelists, err := h.whitelists(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &analysisInput{items: items, requests: requests, thresholds: thresholds, whitelists: whitelists}, nil
}

// AnalysisSummary returns per-category counts and total sizes.
func (h *Handler) AnalysisSummary(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	in, err := h.loadAnalysisInput(r, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analysis data", err)
		return
	}
	respondSuccess(w, http.StatusOK, h.engine.Summarize(in.items, in.requests, in.thresholds, in.whitelists))
}

// AnalysisIssues returns the flat issue listing, optionally filtered by
// ?filter=old|large|language|request|multi. With ?links=true each issue
// that maps to a Radarr or Sonarr entry gets a link into that UI.
func (h *Handler) AnalysisIssues(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	in, err := h.loadAnalysisInput(r, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analysis data", err)
		return
	}
	filter := r.URL.Query().Get("filter")
	issues := h.engine.ListIssues(in.items, in.requests, in.thresholds, in.whitelists, filter)
	if r.URL.Query().Get("links") == "true" {
		h.attachLinks(r, userID, issues)
	}
	respondSuccess(w, http.StatusOK, issues)
}

// attachLinks fills Issue.URL from the acquisition managers' slug maps.
// Links are cosmetic, so lookup failures only log; the listing is
// returned either way.
func (h *Handler) attachLinks(r *http.Request, userID string, issues []analysis.Issue) {
	movieSlugs, radarrURL := h.slugMap(r, userID, models.ServiceRadarr)
	seriesSlugs, sonarrURL := h.slugMap(r, userID, models.ServiceSonarr)

	for i := range issues {
		if issues[i].TmdbID == 0 {
			continue
		}
		switch issues[i].MediaType {
		case models.MediaTypeMovie:
			if slug, ok := movieSlugs[issues[i].TmdbID]; ok {
				issues[i].URL = radarrURL + "/movie/" + slug
			}
		case models.MediaTypeSeries, "tv":
			if slug, ok := seriesSlugs[issues[i].TmdbID]; ok {
				issues[i].URL = sonarrURL + "/series/" + slug
			}
		}
	}
}

func (h *Handler) slugMap(r *http.Request, userID, service string) (map[int64]string, string) {
	settings, err := h.store.GetIntegrationSettings(r.Context(), userID, service)
	if err != nil || settings == nil {
		return nil, ""
	}
	var slugs map[int64]string
	if service == models.ServiceRadarr {
		slugs, err = h.clients.MovieSlugs(r.Context(), settings)
	} else {
		slugs, err = h.clients.SeriesSlugs(r.Context(), settings)
	}
	if err != nil {
		logging.Warn().Err(err).Str("service", service).Msg("Slug lookup failed, issue links omitted")
		return nil, ""
	}
	return slugs, strings.TrimRight(settings.URL, "/")
}

// AnalysisOld lists old or unwatched content.
func (h *Handler) AnalysisOld(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	in, err := h.loadAnalysisInput(r, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analysis data", err)
		return
	}
	respondSuccess(w, http.StatusOK, h.engine.OldContent(in.items, in.thresholds, in.whitelists))
}

// AnalysisLarge lists oversized movies.
func (h *Handler) AnalysisLarge(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	in, err := h.loadAnalysisInput(r, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analysis data", err)
		return
	}
	respondSuccess(w, http.StatusOK, h.engine.LargeMovies(in.items, in.thresholds))
}

// AnalysisLanguage lists items with audio language gaps.
func (h *Handler) AnalysisLanguage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	in, err := h.loadAnalysisInput(r, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analysis data", err)
		return
	}
	respondSuccess(w, http.StatusOK, h.engine.LanguageIssues(in.items, in.whitelists))
}

// AnalysisRequests lists stale requests.
func (h *Handler) AnalysisRequests(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	in, err := h.loadAnalysisInput(r, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analysis data", err)
		return
	}
	respondSuccess(w, http.StatusOK, h.engine.UnavailableRequests(in.requests, in.thresholds))
}
