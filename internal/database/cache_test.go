// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package database

import (
	"context"
	"testing"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

func mediaFixture(externalID, name string, raw string) models.CachedMediaItem {
	added := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	return models.CachedMediaItem{
		UserID:      "u1",
		ExternalID:  externalID,
		Name:        name,
		MediaType:   models.MediaTypeMovie,
		Year:        1999,
		SizeBytes:   10_000_000_000,
		DateCreated: &added,
		Played:      true,
		PlayCount:   2,
		RawData:     []byte(raw),
	}
}

func TestReplaceAndListMediaItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []models.CachedMediaItem{
		mediaFixture("m1", "The Matrix", `{"ProviderIds":{"Tmdb":"603"}}`),
		mediaFixture("m2", "Heat", `{"ProviderIds":{"Tmdb":"949"}}`),
	}
	if err := db.ReplaceMediaItems(ctx, "u1", first); err != nil {
		t.Fatalf("first ReplaceMediaItems: %v", err)
	}

	// A later sync replaces the cache wholesale: dropped upstream items
	// disappear, new ones appear.
	second := []models.CachedMediaItem{
		mediaFixture("m2", "Heat", `{"ProviderIds":{"Tmdb":"949"}}`),
		mediaFixture("m3", "Alien", `{"ProviderIds":{"Tmdb":"348"}}`),
	}
	if err := db.ReplaceMediaItems(ctx, "u1", second); err != nil {
		t.Fatalf("second ReplaceMediaItems: %v", err)
	}

	items, err := db.ListMediaItems(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMediaItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items after replace, got %d", len(items))
	}
	if items[0].ExternalID != "m2" || items[1].ExternalID != "m3" {
		t.Errorf("unexpected ids: %s, %s", items[0].ExternalID, items[1].ExternalID)
	}
	if items[0].DateCreated == nil || items[0].DateCreated.Year() != 2024 {
		t.Errorf("date_created did not round-trip: %v", items[0].DateCreated)
	}
	if items[1].TmdbID() != "348" {
		t.Errorf("raw blob did not round-trip: provider id %q", items[1].TmdbID())
	}
}

func TestReplaceMediaItemsIsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := mediaFixture("m1", "The Matrix", `{}`)
	u2 := mediaFixture("m1", "The Matrix", `{}`)
	u2.UserID = "u2"

	if err := db.ReplaceMediaItems(ctx, "u1", []models.CachedMediaItem{u1}); err != nil {
		t.Fatalf("ReplaceMediaItems(u1): %v", err)
	}
	if err := db.ReplaceMediaItems(ctx, "u2", []models.CachedMediaItem{u2}); err != nil {
		t.Fatalf("ReplaceMediaItems(u2): %v", err)
	}
	// Emptying u1's cache must not touch u2's rows.
	if err := db.ReplaceMediaItems(ctx, "u1", nil); err != nil {
		t.Fatalf("ReplaceMediaItems(u1, empty): %v", err)
	}

	items, err := db.ListMediaItems(ctx, "u2")
	if err != nil {
		t.Fatalf("ListMediaItems(u2): %v", err)
	}
	if len(items) != 1 {
		t.Errorf("u2 cache was disturbed: %d items", len(items))
	}
}

func TestDeleteMediaItemsByProviderID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	items := []models.CachedMediaItem{
		mediaFixture("m1", "The Matrix", `{"ProviderIds":{"Tmdb":"603","Imdb":"tt0133093"}}`),
		mediaFixture("m2", "The Matrix 4K", `{"ProviderIds":{"Tmdb":"603"}}`),
		mediaFixture("m3", "Heat", `{"ProviderIds":{"Tmdb":"949"}}`),
		mediaFixture("m4", "No Providers", `{}`),
	}
	if err := db.ReplaceMediaItems(ctx, "u1", items); err != nil {
		t.Fatalf("ReplaceMediaItems: %v", err)
	}

	// Both editions carry TMDB 603 and both must go.
	n, err := db.DeleteMediaItemsByProviderID(ctx, "u1", "Tmdb", "603")
	if err != nil {
		t.Fatalf("DeleteMediaItemsByProviderID: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deletions, got %d", n)
	}

	remaining, err := db.ListMediaItems(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMediaItems: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(remaining))
	}
	for _, item := range remaining {
		if item.TmdbID() == "603" {
			t.Errorf("item %s still cached after delete", item.ExternalID)
		}
	}

	// Unknown and empty provider ids are no-ops.
	if n, err := db.DeleteMediaItemsByProviderID(ctx, "u1", "Tmdb", "99999"); err != nil || n != 0 {
		t.Errorf("unknown id: n=%d err=%v", n, err)
	}
	if n, err := db.DeleteMediaItemsByProviderID(ctx, "u1", "Tmdb", ""); err != nil || n != 0 {
		t.Errorf("empty id: n=%d err=%v", n, err)
	}
}

func requestFixture(requestID, mediaID, tmdbID int64, status models.RequestStatus) models.CachedRequest {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.CachedRequest{
		UserID:    "u1",
		RequestID: requestID,
		MediaID:   mediaID,
		TmdbID:    tmdbID,
		MediaType: models.MediaTypeMovie,
		Status:    status,
		Title:     "Title",
		CreatedAt: &created,
	}
}

func TestReplaceAndListRequests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requests := []models.CachedRequest{
		requestFixture(1, 10, 603, models.RequestStatusApproved),
		requestFixture(2, 11, 949, models.RequestStatusAvailable),
	}
	if err := db.ReplaceRequests(ctx, "u1", requests); err != nil {
		t.Fatalf("ReplaceRequests: %v", err)
	}

	got, err := db.ListRequests(ctx, "u1")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0].Status != models.RequestStatusApproved || got[1].Status != models.RequestStatusAvailable {
		t.Errorf("status did not round-trip: %v, %v", got[0].Status, got[1].Status)
	}
	if got[0].CreatedAt == nil || got[0].CreatedAt.Month() != time.March {
		t.Errorf("created_at did not round-trip: %v", got[0].CreatedAt)
	}

	one, err := db.GetRequestByID(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("GetRequestByID: %v", err)
	}
	if one == nil || one.TmdbID != 949 {
		t.Errorf("GetRequestByID returned %+v", one)
	}
	missing, err := db.GetRequestByID(ctx, "u1", 99)
	if err != nil {
		t.Fatalf("GetRequestByID(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown request, got %+v", missing)
	}
}

func TestFindMediaIDByTmdbPicksLowestRequestID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Duplicate requests for the same title: the lowest request id wins.
	requests := []models.CachedRequest{
		requestFixture(7, 70, 603, models.RequestStatusApproved),
		requestFixture(3, 30, 603, models.RequestStatusPending),
		requestFixture(5, 50, 949, models.RequestStatusApproved),
	}
	if err := db.ReplaceRequests(ctx, "u1", requests); err != nil {
		t.Fatalf("ReplaceRequests: %v", err)
	}

	mediaID, found, err := db.FindMediaIDByTmdb(ctx, "u1", 603, models.MediaTypeMovie)
	if err != nil {
		t.Fatalf("FindMediaIDByTmdb: %v", err)
	}
	if !found || mediaID != 30 {
		t.Errorf("expected media id 30 (request 3), got %d found=%v", mediaID, found)
	}

	_, found, err = db.FindMediaIDByTmdb(ctx, "u1", 12345, models.MediaTypeMovie)
	if err != nil {
		t.Fatalf("FindMediaIDByTmdb(missing): %v", err)
	}
	if found {
		t.Error("expected no mapping for unknown tmdb id")
	}
}

func TestDeleteRequestsByTmdb(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requests := []models.CachedRequest{
		requestFixture(1, 10, 603, models.RequestStatusApproved),
		requestFixture(2, 20, 603, models.RequestStatusPending),
		requestFixture(3, 30, 949, models.RequestStatusApproved),
	}
	if err := db.ReplaceRequests(ctx, "u1", requests); err != nil {
		t.Fatalf("ReplaceRequests: %v", err)
	}

	n, err := db.DeleteRequestsByTmdb(ctx, "u1", 603, models.MediaTypeMovie)
	if err != nil {
		t.Fatalf("DeleteRequestsByTmdb: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows deleted, got %d", n)
	}

	remaining, err := db.ListRequests(ctx, "u1")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(remaining) != 1 || remaining[0].TmdbID != 949 {
		t.Errorf("unexpected remaining requests: %+v", remaining)
	}
}
