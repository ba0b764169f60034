// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/mpellat/janitarr/internal/config"
)

// Middleware builds the Chi-compatible middleware stack from the server
// and security configuration. Rate limits are tiered: login is
// strictest, the other auth endpoints are strict, and data endpoints
// get the configured standard limit.
type Middleware struct {
	cors     func(http.Handler) http.Handler
	reqs     int
	window   time.Duration
	disabled bool
}

// NewMiddleware creates the middleware factory.
func NewMiddleware(server config.ServerConfig, security config.SecurityConfig) *Middleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &Middleware{
		cors:     corsHandler,
		reqs:     security.RateLimitReqs,
		window:   security.RateLimitWindow,
		disabled: security.RateLimitDisabled,
	}
}

// CORS returns the go-chi/cors handler. Applied globally so OPTIONS
// preflights are answered on every route.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit is the standard per-IP limit for authenticated endpoints.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.reqs, m.window)
}

// RateLimitAuth is the strict limit for the auth route group, to slow
// credential stuffing.
func (m *Middleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.limit(10, time.Minute)
}

// RateLimitLogin is the strictest limit, applied to login only.
func (m *Middleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.limit(5, 5*time.Minute)
}

// RateLimitHealth is permissive so monitoring probes are never dropped.
func (m *Middleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.limit(1000, time.Minute)
}

func (m *Middleware) limit(reqs int, window time.Duration) func(http.Handler) http.Handler {
	if m.disabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(reqs, window, httprate.WithKeyFuncs(httprate.KeyByIP))
}
