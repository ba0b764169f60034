// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package api provides the HTTP surface: Chi routing, middleware wiring
// and the request handlers.
package api

import (
	"context"
	"time"

	"github.com/mpellat/janitarr/internal/analysis"
	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/clients"
	"github.com/mpellat/janitarr/internal/janitor"
	"github.com/mpellat/janitarr/internal/models"
	"github.com/mpellat/janitarr/internal/notify"
)

// Store is the slice of the database layer the handlers need. An
// interface so handler tests run against an in-memory fake.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	GetIntegrationSettings(ctx context.Context, userID, service string) (*models.IntegrationSettings, error)
	UpsertIntegrationSettings(ctx context.Context, s models.IntegrationSettings) error
	DeleteIntegrationSettings(ctx context.Context, userID, service string) error
	ListConfiguredServices(ctx context.Context, userID string) ([]string, error)

	GetThresholds(ctx context.Context, userID string) (models.ThresholdSettings, error)
	UpsertThresholds(ctx context.Context, t models.ThresholdSettings) error

	ListMediaItems(ctx context.Context, userID string) ([]models.CachedMediaItem, error)
	ListRequests(ctx context.Context, userID string) ([]models.CachedRequest, error)
	GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatus, error)

	AddWhitelistEntry(ctx context.Context, e models.WhitelistEntry) error
	RemoveWhitelistEntry(ctx context.Context, userID string, flavor models.WhitelistFlavor, externalID string) (bool, error)
	ListWhitelist(ctx context.Context, userID string, flavor models.WhitelistFlavor) ([]models.WhitelistEntry, error)
	ActiveWhitelistSet(ctx context.Context, userID string, flavor models.WhitelistFlavor, now time.Time) (map[string]struct{}, error)
}

// SyncTrigger starts an on-demand sync, subject to the per-user
// cooldown.
type SyncTrigger interface {
	TriggerSync(ctx context.Context, userID string) (models.SyncResult, error)
}

// MediaDeleter runs the deletion flows.
type MediaDeleter interface {
	DeleteMovie(ctx context.Context, userID string, tmdbID int64, flags janitor.DeleteFlags) models.DeleteResult
	DeleteSeries(ctx context.Context, userID string, tmdbID int64, flags janitor.DeleteFlags) models.DeleteResult
	DeleteRequest(ctx context.Context, userID string, requestID int64, flags janitor.DeleteFlags) models.DeleteResult
}

// IntegrationClients probes and queries the downstream services with a
// user's stored credentials.
type IntegrationClients interface {
	ValidateConnection(ctx context.Context, s *models.IntegrationSettings) bool
	JellyfinUsers(ctx context.Context, s *models.IntegrationSettings) ([]clients.JellyfinUser, error)
	MovieSlugs(ctx context.Context, s *models.IntegrationSettings) (map[int64]string, error)
	SeriesSlugs(ctx context.Context, s *models.IntegrationSettings) (map[int64]string, error)
}

// Handler holds the handler dependencies.
type Handler struct {
	store    Store
	jwt      *auth.JWTManager
	syncer   SyncTrigger
	deleter  MediaDeleter
	clients  IntegrationClients
	notifier *notify.Notifier
	engine   *analysis.Engine
}

// NewHandler creates the API handler set.
func NewHandler(store Store, jwt *auth.JWTManager, syncer SyncTrigger, deleter MediaDeleter, clients IntegrationClients, notifier *notify.Notifier) *Handler {
	return &Handler{
		store:    store,
		jwt:      jwt,
		syncer:   syncer,
		deleter:  deleter,
		clients:  clients,
		notifier: notifier,
		engine:   analysis.NewEngine(),
	}
}

// whitelists loads the three active whitelist sets for classification.
func (h *Handler) whitelists(ctx context.Context, userID string) (analysis.Whitelists, error) {
	now := time.Now()
	content, err := h.store.ActiveWhitelistSet(ctx, userID, models.WhitelistContent, now)
	if err != nil {
		return analysis.Whitelists{}, err
	}
	frenchOnly, err := h.store.ActiveWhitelistSet(ctx, userID, models.WhitelistFrenchOnly, now)
	if err != nil {
		return analysis.Whitelists{}, err
	}
	exempt, err := h.store.ActiveWhitelistSet(ctx, userID, models.WhitelistLanguageExempt, now)
	if err != nil {
		return analysis.Whitelists{}, err
	}
	return analysis.Whitelists{Content: content, FrenchOnly: frenchOnly, LanguageExempt: exempt}, nil
}
