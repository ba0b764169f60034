// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"
	"errors"
	"testing"

	"github.com/mpellat/janitarr/internal/models"
)

func syncFixtures() (*fakeStore, *fakeFactory) {
	store := newFakeStore()
	factory := &fakeFactory{
		mediaServer: &fakeMediaServer{items: []models.CachedMediaItem{
			{ExternalID: "m1", Name: "The Matrix"},
			{ExternalID: "m2", Name: "Heat"},
		}},
		requestManager: &fakeRequestManager{requests: []models.CachedRequest{
			{RequestID: 1, MediaID: 10, TmdbID: 603},
		}},
	}
	return store, factory
}

func TestRunSyncFullSuccess(t *testing.T) {
	store, factory := syncFixtures()
	store.configure(models.ServiceJellyfin, "http://jf:8096")
	store.configure(models.ServiceJellyseerr, "http://js:5055")

	result := NewOrchestrator(store, factory).RunSync(context.Background(), "u1")

	if result.Status != models.SyncStatusSuccess {
		t.Fatalf("status = %s (%s)", result.Status, result.Error)
	}
	if result.MediaItemsSynced != 2 || result.RequestsSynced != 1 {
		t.Errorf("counts: %+v", result)
	}
	if len(store.media) != 2 || store.media[0].UserID != "u1" {
		t.Errorf("media cache not replaced with user id: %+v", store.media)
	}
	if len(store.started) != 1 || len(store.completed) != 1 {
		t.Fatalf("status record: %d starts, %d completions", len(store.started), len(store.completed))
	}
	mark := store.completed[0]
	if mark.status != models.SyncStatusSuccess || mark.itemCount != 2 || mark.requestCount != 1 {
		t.Errorf("completion mark: %+v", mark)
	}
}

func TestRunSyncJellyfinUnconfigured(t *testing.T) {
	store, factory := syncFixtures()
	// Only the secondary is configured.
	store.configure(models.ServiceJellyseerr, "http://js:5055")

	result := NewOrchestrator(store, factory).RunSync(context.Background(), "u1")

	if result.Status != models.SyncStatusFailed {
		t.Fatalf("status = %s", result.Status)
	}
	// The status record must not be touched at all.
	if len(store.started) != 0 || len(store.completed) != 0 {
		t.Errorf("status record touched: %d starts, %d completions", len(store.started), len(store.completed))
	}
	if factory.mediaServer.calls.Load() != 0 {
		t.Errorf("media server should not have been called")
	}
}

func TestRunSyncPrimaryFetchFails(t *testing.T) {
	store, factory := syncFixtures()
	store.configure(models.ServiceJellyfin, "http://jf:8096")
	store.configure(models.ServiceJellyseerr, "http://js:5055")
	factory.mediaServer.err = errors.New("connection refused")

	// Pre-existing cache from an earlier sync.
	store.media = []models.CachedMediaItem{{ExternalID: "old"}}

	result := NewOrchestrator(store, factory).RunSync(context.Background(), "u1")

	if result.Status != models.SyncStatusFailed || result.MediaItemsSynced != 0 {
		t.Fatalf("result: %+v", result)
	}
	// Cache untouched on primary failure.
	if store.mediaReplaces != 0 || len(store.media) != 1 || store.media[0].ExternalID != "old" {
		t.Errorf("cache disturbed on failed sync: %+v", store.media)
	}
	if len(store.completed) != 1 || store.completed[0].status != models.SyncStatusFailed {
		t.Errorf("failure not recorded: %+v", store.completed)
	}
}

func TestRunSyncSecondaryFailureIsPartial(t *testing.T) {
	store, factory := syncFixtures()
	store.configure(models.ServiceJellyfin, "http://jf:8096")
	store.configure(models.ServiceJellyseerr, "http://js:5055")
	factory.requestManager.fetchErr = errors.New("jellyseerr down")

	// Stale requests from an earlier sync must survive.
	store.requests = []models.CachedRequest{{RequestID: 99}}

	result := NewOrchestrator(store, factory).RunSync(context.Background(), "u1")

	if result.Status != models.SyncStatusPartial {
		t.Fatalf("status = %s", result.Status)
	}
	if result.MediaItemsSynced != 2 || result.RequestsSynced != 0 {
		t.Errorf("counts: %+v", result)
	}
	if result.Error == "" {
		t.Error("partial result should carry the secondary error")
	}
	if len(store.media) != 2 {
		t.Errorf("media results discarded on secondary failure")
	}
	if len(store.requests) != 1 || store.requests[0].RequestID != 99 {
		t.Errorf("stale request cache disturbed: %+v", store.requests)
	}
	if store.completed[0].status != models.SyncStatusPartial || store.completed[0].errMsg == "" {
		t.Errorf("completion mark: %+v", store.completed[0])
	}
}

func TestRunSyncSecondaryUnconfiguredIsSuccess(t *testing.T) {
	store, factory := syncFixtures()
	store.configure(models.ServiceJellyfin, "http://jf:8096")

	result := NewOrchestrator(store, factory).RunSync(context.Background(), "u1")

	if result.Status != models.SyncStatusSuccess {
		t.Fatalf("unconfigured secondary must not degrade status: %s", result.Status)
	}
	if result.RequestsSynced != 0 || result.Error != "" {
		t.Errorf("result: %+v", result)
	}
}
