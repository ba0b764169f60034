// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"
	"time"

	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/metrics"
	"github.com/mpellat/janitarr/internal/models"
	"github.com/mpellat/janitarr/internal/notify"
)

// Orchestrator runs one user's fetch-then-replace sync pass.
type Orchestrator struct {
	store    Store
	factory  ClientFactory
	notifier *notify.Notifier
	now      func() time.Time
}

// NewOrchestrator creates a sync orchestrator.
func NewOrchestrator(store Store, factory ClientFactory) *Orchestrator {
	return &Orchestrator{store: store, factory: factory, now: time.Now}
}

// WithNotifier attaches a webhook notifier. Sync completions are then
// published as sync.completed events.
func (o *Orchestrator) WithNotifier(n *notify.Notifier) *Orchestrator {
	o.notifier = n
	return o
}

// RunSync refreshes one user's cache from the upstream services.
//
// The media server is the primary source: if it is unconfigured the
// sync fails without touching the status record, and if its fetch fails
// the sync fails with the cache untouched. The request manager is
// secondary: its failure degrades the result to "partial" but never
// discards the media items already committed, and its absence is not an
// error at all. Each cache replacement is its own unit of work; there
// is deliberately no transaction spanning both.
func (o *Orchestrator) RunSync(ctx context.Context, userID string) models.SyncResult {
	start := time.Now()
	result := o.runSync(ctx, userID)
	metrics.RecordSyncRun(result.Status, time.Since(start), result.MediaItemsSynced+result.RequestsSynced)
	if o.notifier.Enabled() {
		o.notifier.Publish(notify.EventSyncCompleted, userID, result)
	}
	return result
}

func (o *Orchestrator) runSync(ctx context.Context, userID string) models.SyncResult {
	jellyfinSettings, err := o.store.GetIntegrationSettings(ctx, userID, models.ServiceJellyfin)
	if err != nil {
		return models.SyncResult{Status: models.SyncStatusFailed, Error: err.Error()}
	}
	if jellyfinSettings == nil {
		return models.SyncResult{Status: models.SyncStatusFailed, Error: "jellyfin integration not configured"}
	}

	if err := o.store.MarkSyncStarted(ctx, userID, o.now()); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Failed to record sync start")
	}

	items, err := o.factory.MediaServer(jellyfinSettings).FetchLibrary(ctx)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("Media server fetch failed")
		o.complete(ctx, userID, models.SyncStatusFailed, err.Error(), 0, 0)
		return models.SyncResult{Status: models.SyncStatusFailed, Error: err.Error()}
	}
	for i := range items {
		items[i].UserID = userID
	}
	if err := o.store.ReplaceMediaItems(ctx, userID, items); err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("Media cache replacement failed")
		o.complete(ctx, userID, models.SyncStatusFailed, err.Error(), 0, 0)
		return models.SyncResult{Status: models.SyncStatusFailed, Error: err.Error()}
	}

	result := models.SyncResult{Status: models.SyncStatusSuccess, MediaItemsSynced: len(items)}

	jellyseerrSettings, err := o.store.GetIntegrationSettings(ctx, userID, models.ServiceJellyseerr)
	if err != nil {
		result.Status = models.SyncStatusPartial
		result.Error = err.Error()
	} else if jellyseerrSettings != nil {
		requests, err := o.factory.RequestManager(jellyseerrSettings).FetchRequests(ctx)
		if err != nil {
			logging.Warn().Err(err).Str("user_id", userID).Msg("Request manager fetch failed, keeping media results")
			result.Status = models.SyncStatusPartial
			result.Error = err.Error()
		} else {
			for i := range requests {
				requests[i].UserID = userID
			}
			if err := o.store.ReplaceRequests(ctx, userID, requests); err != nil {
				logging.Warn().Err(err).Str("user_id", userID).Msg("Request cache replacement failed, keeping media results")
				result.Status = models.SyncStatusPartial
				result.Error = err.Error()
			} else {
				result.RequestsSynced = len(requests)
			}
		}
	}

	o.complete(ctx, userID, result.Status, result.Error, result.MediaItemsSynced, result.RequestsSynced)
	logging.Info().
		Str("user_id", userID).
		Str("status", result.Status).
		Int("media_items", result.MediaItemsSynced).
		Int("requests", result.RequestsSynced).
		Msg("Sync finished")
	return result
}

func (o *Orchestrator) complete(ctx context.Context, userID, status, errMsg string, itemCount, requestCount int) {
	if err := o.store.MarkSyncCompleted(ctx, userID, o.now(), status, errMsg, itemCount, requestCount); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Failed to record sync completion")
	}
}
