// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpellat/janitarr/internal/middleware"
)

// Router assembles the HTTP routes.
type Router struct {
	handler *Handler
	mw      *Middleware
}

// NewRouter creates a router over the given handler set.
func NewRouter(handler *Handler, mw *Middleware) *Router {
	return &Router{handler: handler, mw: mw}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS is global
	// so OPTIONS preflights are handled everywhere.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.mw.RateLimitAuth())
		r.Post("/signup", router.handler.Signup)
		r.With(router.mw.RateLimitLogin()).Post("/login", router.handler.Login)
	})

	// Everything else requires a valid token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.handler.jwt.Middleware)

		r.Post("/sync", router.handler.TriggerSync)
		r.Get("/sync/status", router.handler.SyncStatus)

		r.Get("/analysis/summary", router.handler.AnalysisSummary)
		r.Get("/analysis/issues", router.handler.AnalysisIssues)
		r.Get("/analysis/old", router.handler.AnalysisOld)
		r.Get("/analysis/large", router.handler.AnalysisLarge)
		r.Get("/analysis/language", router.handler.AnalysisLanguage)
		r.Get("/analysis/requests", router.handler.AnalysisRequests)

		r.Get("/settings/integrations", router.handler.ListIntegrations)
		r.Put("/settings/integrations", router.handler.UpsertIntegration)
		r.Delete("/settings/integrations/{service}", router.handler.DeleteIntegration)
		r.Get("/settings/thresholds", router.handler.GetThresholds)
		r.Put("/settings/thresholds", router.handler.PutThresholds)
		r.Post("/integrations/validate", router.handler.ValidateIntegration)
		r.Get("/integrations/jellyfin/users", router.handler.ListJellyfinUsers)

		r.Route("/whitelist/{flavor}", func(r chi.Router) {
			r.Get("/", router.handler.ListWhitelist)
			r.Post("/", router.handler.AddWhitelistEntry)
			r.Delete("/{externalID}", router.handler.RemoveWhitelistEntry)
		})

		r.Post("/delete/movie", router.handler.DeleteMovie)
		r.Post("/delete/series", router.handler.DeleteSeries)
		r.Post("/delete/request", router.handler.DeleteRequest)
	})

	return r
}
