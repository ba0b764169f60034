// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/clients"
	"github.com/mpellat/janitarr/internal/config"
	"github.com/mpellat/janitarr/internal/database"
	"github.com/mpellat/janitarr/internal/janitor"
	"github.com/mpellat/janitarr/internal/models"
)

const testJWTSecret = "test-secret-with-at-least-32-characters!"

var errDown = errors.New("connection refused")

type settingsKey struct{ userID, service string }

type whitelistKey struct {
	userID     string
	flavor     models.WhitelistFlavor
	externalID string
}

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	users      map[string]*models.User // by username
	settings   map[settingsKey]*models.IntegrationSettings
	thresholds map[string]models.ThresholdSettings
	media      map[string][]models.CachedMediaItem
	requests   map[string][]models.CachedRequest
	syncStatus map[string]*models.SyncStatus
	whitelist  map[whitelistKey]models.WhitelistEntry

	pingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]*models.User),
		settings:   make(map[settingsKey]*models.IntegrationSettings),
		thresholds: make(map[string]models.ThresholdSettings),
		media:      make(map[string][]models.CachedMediaItem),
		requests:   make(map[string][]models.CachedRequest),
		syncStatus: make(map[string]*models.SyncStatus),
		whitelist:  make(map[whitelistKey]models.WhitelistEntry),
	}
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, database.ErrUsernameTaken
	}
	u := &models.User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[username] = u
	return u, nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.users[username], nil
}

func (f *fakeStore) GetIntegrationSettings(ctx context.Context, userID, service string) (*models.IntegrationSettings, error) {
	return f.settings[settingsKey{userID, service}], nil
}

func (f *fakeStore) UpsertIntegrationSettings(ctx context.Context, s models.IntegrationSettings) error {
	s.UpdatedAt = time.Now()
	f.settings[settingsKey{s.UserID, s.Service}] = &s
	return nil
}

func (f *fakeStore) DeleteIntegrationSettings(ctx context.Context, userID, service string) error {
	delete(f.settings, settingsKey{userID, service})
	return nil
}

func (f *fakeStore) ListConfiguredServices(ctx context.Context, userID string) ([]string, error) {
	var services []string
	for _, svc := range models.KnownServices {
		if _, ok := f.settings[settingsKey{userID, svc}]; ok {
			services = append(services, svc)
		}
	}
	return services, nil
}

func (f *fakeStore) GetThresholds(ctx context.Context, userID string) (models.ThresholdSettings, error) {
	if t, ok := f.thresholds[userID]; ok {
		return t, nil
	}
	return models.DefaultThresholds(userID), nil
}

func (f *fakeStore) UpsertThresholds(ctx context.Context, t models.ThresholdSettings) error {
	f.thresholds[t.UserID] = t
	return nil
}

func (f *fakeStore) ListMediaItems(ctx context.Context, userID string) ([]models.CachedMediaItem, error) {
	return f.media[userID], nil
}

func (f *fakeStore) ListRequests(ctx context.Context, userID string) ([]models.CachedRequest, error) {
	return f.requests[userID], nil
}

func (f *fakeStore) GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatus, error) {
	return f.syncStatus[userID], nil
}

func (f *fakeStore) AddWhitelistEntry(ctx context.Context, e models.WhitelistEntry) error {
	e.CreatedAt = time.Now()
	f.whitelist[whitelistKey{e.UserID, e.Flavor, e.ExternalID}] = e
	return nil
}

func (f *fakeStore) RemoveWhitelistEntry(ctx context.Context, userID string, flavor models.WhitelistFlavor, externalID string) (bool, error) {
	k := whitelistKey{userID, flavor, externalID}
	if _, ok := f.whitelist[k]; !ok {
		return false, nil
	}
	delete(f.whitelist, k)
	return true, nil
}

func (f *fakeStore) ListWhitelist(ctx context.Context, userID string, flavor models.WhitelistFlavor) ([]models.WhitelistEntry, error) {
	var entries []models.WhitelistEntry
	for k, e := range f.whitelist {
		if k.userID == userID && k.flavor == flavor {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (f *fakeStore) ActiveWhitelistSet(ctx context.Context, userID string, flavor models.WhitelistFlavor, now time.Time) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for k, e := range f.whitelist {
		if k.userID == userID && k.flavor == flavor && e.Active(now) {
			set[k.externalID] = struct{}{}
		}
	}
	return set, nil
}

type fakeSyncer struct {
	result models.SyncResult
	err    error
	calls  int
}

func (f *fakeSyncer) TriggerSync(ctx context.Context, userID string) (models.SyncResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeDeleter struct {
	result    models.DeleteResult
	lastKind  string
	lastID    int64
	lastFlags janitor.DeleteFlags
}

func (f *fakeDeleter) DeleteMovie(ctx context.Context, userID string, tmdbID int64, flags janitor.DeleteFlags) models.DeleteResult {
	f.lastKind, f.lastID, f.lastFlags = "movie", tmdbID, flags
	return f.result
}

func (f *fakeDeleter) DeleteSeries(ctx context.Context, userID string, tmdbID int64, flags janitor.DeleteFlags) models.DeleteResult {
	f.lastKind, f.lastID, f.lastFlags = "series", tmdbID, flags
	return f.result
}

func (f *fakeDeleter) DeleteRequest(ctx context.Context, userID string, requestID int64, flags janitor.DeleteFlags) models.DeleteResult {
	f.lastKind, f.lastID, f.lastFlags = "request", requestID, flags
	return f.result
}

type fakeClients struct {
	valid       bool
	lastService string
	jfUsers     []clients.JellyfinUser
	jfUsersErr  error
	movieSlugs  map[int64]string
	seriesSlugs map[int64]string
	slugErr     error
}

func (f *fakeClients) JellyfinUsers(ctx context.Context, s *models.IntegrationSettings) ([]clients.JellyfinUser, error) {
	return f.jfUsers, f.jfUsersErr
}

func (f *fakeClients) ValidateConnection(ctx context.Context, s *models.IntegrationSettings) bool {
	f.lastService = s.Service
	return f.valid
}

func (f *fakeClients) MovieSlugs(ctx context.Context, s *models.IntegrationSettings) (map[int64]string, error) {
	return f.movieSlugs, f.slugErr
}

func (f *fakeClients) SeriesSlugs(ctx context.Context, s *models.IntegrationSettings) (map[int64]string, error) {
	return f.seriesSlugs, f.slugErr
}

// testEnv bundles a routed handler with its fakes and a valid token.
type testEnv struct {
	router  http.Handler
	store   *fakeStore
	syncer  *fakeSyncer
	deleter *fakeDeleter
	clients *fakeClients
	jwt     *auth.JWTManager
	userID  string
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtManager, err := auth.NewJWTManager(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	store := newFakeStore()
	syncer := &fakeSyncer{result: models.SyncResult{Status: models.SyncStatusSuccess}}
	deleter := &fakeDeleter{result: models.DeleteResult{Success: true}}
	clientsFake := &fakeClients{valid: true}

	handler := NewHandler(store, jwtManager, syncer, deleter, clientsFake, nil)
	mw := NewMiddleware(
		config.ServerConfig{CORSOrigins: []string{"*"}},
		config.SecurityConfig{RateLimitDisabled: true},
	)
	router := NewRouter(handler, mw).Setup()

	userID := uuid.NewString()
	store.users["tester"] = &models.User{ID: userID, Username: "tester"}
	token, err := jwtManager.Generate(userID, "tester")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	return &testEnv{
		router:  router,
		store:   store,
		syncer:  syncer,
		deleter: deleter,
		clients: clientsFake,
		jwt:     jwtManager,
		userID:  userID,
		token:   token,
	}
}

// do performs a request against the router. A non-empty token is sent
// as a bearer token; body may be nil or any JSON-encodable value.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (data %q)", err, string(env.Data))
	}
}
