// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

// fakeStore is an in-memory Store for orchestrator and deleter tests.
type fakeStore struct {
	// mu guards the mutable fields; scheduler passes write from one
	// goroutine per user.
	mu       sync.Mutex
	settings map[string]*models.IntegrationSettings // keyed by service
	users    []string

	media    []models.CachedMediaItem
	requests []models.CachedRequest

	started       []time.Time
	completed     []completedMark
	mediaReplaces int

	settingsErr error
	replaceErr  error
}

type completedMark struct {
	status, errMsg          string
	itemCount, requestCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]*models.IntegrationSettings)}
}

func (f *fakeStore) configure(service, url string) {
	f.settings[service] = &models.IntegrationSettings{
		UserID: "u1", Service: service, URL: url, APIKey: "k",
	}
}

func (f *fakeStore) GetIntegrationSettings(_ context.Context, _, service string) (*models.IntegrationSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings[service], nil
}

func (f *fakeStore) ListUserIDsWithService(_ context.Context, service string) ([]string, error) {
	if f.settings[service] == nil {
		return nil, nil
	}
	return f.users, nil
}

func (f *fakeStore) ReplaceMediaItems(_ context.Context, _ string, items []models.CachedMediaItem) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = items
	f.mediaReplaces++
	return nil
}

func (f *fakeStore) ReplaceRequests(_ context.Context, _ string, requests []models.CachedRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = requests
	return nil
}

func (f *fakeStore) MarkSyncStarted(_ context.Context, _ string, startedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, startedAt)
	return nil
}

func (f *fakeStore) MarkSyncCompleted(_ context.Context, _ string, _ time.Time, status, errMsg string, itemCount, requestCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, completedMark{status, errMsg, itemCount, requestCount})
	return nil
}

func (f *fakeStore) FindMediaIDByTmdb(_ context.Context, _ string, tmdbID int64, _ string) (int64, bool, error) {
	for _, r := range f.requests {
		if r.TmdbID == tmdbID {
			return r.MediaID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeStore) GetRequestByID(_ context.Context, _ string, requestID int64) (*models.CachedRequest, error) {
	for i := range f.requests {
		if f.requests[i].RequestID == requestID {
			return &f.requests[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteMediaItemsByProviderID(_ context.Context, _, _, providerID string) (int, error) {
	var kept []models.CachedMediaItem
	deleted := 0
	for _, m := range f.media {
		if m.ProviderID("Tmdb") == providerID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.media = kept
	return deleted, nil
}

func (f *fakeStore) DeleteRequestsByTmdb(_ context.Context, _ string, tmdbID int64, _ string) (int, error) {
	var kept []models.CachedRequest
	deleted := 0
	for _, r := range f.requests {
		if r.TmdbID == tmdbID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.requests = kept
	return deleted, nil
}

// fakeFactory hands out canned upstream clients.
type fakeFactory struct {
	mediaServer    *fakeMediaServer
	requestManager *fakeRequestManager
	movieManager   *fakeArrManager
	seriesManager  *fakeArrManager
}

func (f *fakeFactory) MediaServer(*models.IntegrationSettings) MediaServer       { return f.mediaServer }
func (f *fakeFactory) RequestManager(*models.IntegrationSettings) RequestManager { return f.requestManager }
func (f *fakeFactory) MovieManager(*models.IntegrationSettings) AcquisitionManager {
	return f.movieManager
}
func (f *fakeFactory) SeriesManager(*models.IntegrationSettings) AcquisitionManager {
	return f.seriesManager
}

type fakeMediaServer struct {
	items []models.CachedMediaItem
	err   error
	calls atomic.Int32
}

func (m *fakeMediaServer) FetchLibrary(context.Context) ([]models.CachedMediaItem, error) {
	m.calls.Add(1)
	return m.items, m.err
}

type fakeRequestManager struct {
	requests   []models.CachedRequest
	fetchErr   error
	deleteOK   bool
	deletedIDs []int64
}

func (m *fakeRequestManager) FetchRequests(context.Context) ([]models.CachedRequest, error) {
	return m.requests, m.fetchErr
}

func (m *fakeRequestManager) DeleteMedia(_ context.Context, mediaID int64) (bool, string) {
	m.deletedIDs = append(m.deletedIDs, mediaID)
	if !m.deleteOK {
		return false, fmt.Sprintf("media %d not found in Jellyseerr", mediaID)
	}
	return true, fmt.Sprintf("deleted media %d from Jellyseerr", mediaID)
}

type fakeArrManager struct {
	ok         bool
	msg        string
	deletedIDs []int64
	gotFiles   []bool
}

func (m *fakeArrManager) DeleteByTmdbID(_ context.Context, tmdbID int64, deleteFiles bool) (bool, string) {
	m.deletedIDs = append(m.deletedIDs, tmdbID)
	m.gotFiles = append(m.gotFiles, deleteFiles)
	return m.ok, m.msg
}
