// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngineAt(testNow)
}

func defaults() models.ThresholdSettings {
	return models.DefaultThresholds("u1")
}

func monthsAgo(n int) *time.Time {
	t := testNow.AddDate(0, -n, 0)
	return &t
}

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func withAudio(langs ...string) []byte {
	streams := ""
	for i, lang := range langs {
		if i > 0 {
			streams += ","
		}
		streams += fmt.Sprintf(`{"Type":"Audio","Language":"%s"}`, lang)
	}
	return []byte(`{"MediaSources":[{"MediaStreams":[` + streams + `]}]}`)
}

func TestOldOrUnwatched(t *testing.T) {
	e := testEngine()
	th := defaults()

	tests := []struct {
		name string
		item models.CachedMediaItem
		want bool
	}{
		{
			name: "unplayed past min age",
			item: models.CachedMediaItem{Played: false, DateCreated: monthsAgo(4)},
			want: true,
		},
		{
			name: "unplayed within min age",
			item: models.CachedMediaItem{Played: false, DateCreated: daysAgo(30)},
			want: false,
		},
		{
			name: "unplayed missing add date treated as old enough",
			item: models.CachedMediaItem{Played: false},
			want: true,
		},
		{
			name: "played long ago",
			item: models.CachedMediaItem{Played: true, LastPlayed: monthsAgo(13), DateCreated: daysAgo(1)},
			want: true,
		},
		{
			name: "played recently ignores ancient add date",
			item: models.CachedMediaItem{Played: true, LastPlayed: daysAgo(7), DateCreated: monthsAgo(60)},
			want: false,
		},
		{
			name: "played with no last played date",
			item: models.CachedMediaItem{Played: true, DateCreated: daysAgo(1)},
			want: true,
		},
		{
			name: "played exactly at cutoff is not yet old",
			item: models.CachedMediaItem{Played: true, LastPlayed: monthsAgo(12)},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.OldOrUnwatched(&tt.item, th); got != tt.want {
				t.Errorf("OldOrUnwatched() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLargeMovie(t *testing.T) {
	e := testEngine()
	th := defaults()
	threshold := int64(th.LargeMovieGB) * (1 << 30)

	tests := []struct {
		name string
		item models.CachedMediaItem
		want bool
	}{
		{"above threshold", models.CachedMediaItem{MediaType: models.MediaTypeMovie, SizeBytes: threshold + 1}, true},
		{"exactly at threshold is flagged", models.CachedMediaItem{MediaType: models.MediaTypeMovie, SizeBytes: threshold}, true},
		{"one byte under", models.CachedMediaItem{MediaType: models.MediaTypeMovie, SizeBytes: threshold - 1}, false},
		{"series never flagged", models.CachedMediaItem{MediaType: models.MediaTypeSeries, SizeBytes: threshold * 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.LargeMovie(&tt.item, th); got != tt.want {
				t.Errorf("LargeMovie() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLanguageIssue(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name          string
		raw           []byte
		exemptEnglish bool
		want          bool
	}{
		{"english and french", withAudio("eng", "fre"), false, false},
		{"english only", withAudio("eng"), false, true},
		{"french only", withAudio("fra"), false, true},
		{"french only with english exemption", withAudio("fr"), true, false},
		{"neither with english exemption", withAudio("jpn"), true, true},
		{"code variants accepted", withAudio("english", "french"), false, false},
		{"no stream metadata assumed compliant", nil, false, false},
		{"empty media sources assumed compliant", []byte(`{"MediaSources":[]}`), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.CachedMediaItem{RawData: tt.raw}
			if got := e.LanguageIssue(&item, tt.exemptEnglish); got != tt.want {
				t.Errorf("LanguageIssue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnavailableRequest(t *testing.T) {
	e := testEngine()
	th := defaults()
	future := testNow.AddDate(0, 1, 0)

	tests := []struct {
		name string
		req  models.CachedRequest
		want bool
	}{
		{"pending released long ago", models.CachedRequest{Status: models.RequestStatusPending, ReleaseDate: monthsAgo(6)}, true},
		{"approved released long ago", models.CachedRequest{Status: models.RequestStatusApproved, ReleaseDate: monthsAgo(6)}, true},
		{"unknown status included", models.CachedRequest{Status: models.RequestStatusUnknown, ReleaseDate: monthsAgo(6)}, true},
		{"partially available included", models.CachedRequest{Status: models.RequestStatusPartiallyAvailable, ReleaseDate: monthsAgo(6)}, true},
		{"processing excluded", models.CachedRequest{Status: models.RequestStatusProcessing, ReleaseDate: monthsAgo(6)}, false},
		{"available excluded", models.CachedRequest{Status: models.RequestStatusAvailable, ReleaseDate: monthsAgo(6)}, false},
		{"future release excluded", models.CachedRequest{Status: models.RequestStatusPending, ReleaseDate: &future}, false},
		{"too recent release excluded", models.CachedRequest{Status: models.RequestStatusPending, ReleaseDate: monthsAgo(1)}, false},
		{"missing release date included", models.CachedRequest{Status: models.RequestStatusPending}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.UnavailableRequest(&tt.req, th); got != tt.want {
				t.Errorf("UnavailableRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWhitelistsApplied(t *testing.T) {
	e := testEngine()
	th := defaults()

	// Stale, oversized, english-only movie.
	item := models.CachedMediaItem{
		ExternalID:  "m1",
		MediaType:   models.MediaTypeMovie,
		SizeBytes:   20 * (1 << 30),
		Played:      false,
		DateCreated: daysAgo(120),
		RawData:     withAudio("eng"),
	}
	items := []models.CachedMediaItem{item}

	// Without whitelists the item lands in all three categories.
	if got := len(e.OldContent(items, th, Whitelists{})); got != 1 {
		t.Errorf("OldContent without whitelist: %d items", got)
	}
	if got := len(e.LanguageIssues(items, Whitelists{})); got != 1 {
		t.Errorf("LanguageIssues without whitelist: %d items", got)
	}

	// Content whitelist removes it from "old" only.
	wl := Whitelists{Content: map[string]struct{}{"m1": {}}}
	if got := len(e.OldContent(items, th, wl)); got != 0 {
		t.Errorf("content-whitelisted item still old: %d items", got)
	}
	if got := len(e.LargeMovies(items, th)); got != 1 {
		t.Errorf("content whitelist must not affect large: %d items", got)
	}
	if got := len(e.LanguageIssues(items, wl)); got != 1 {
		t.Errorf("content whitelist must not affect language: %d items", got)
	}

	// French-only exemption: english-only audio still lacks French.
	wl = Whitelists{FrenchOnly: map[string]struct{}{"m1": {}}}
	if got := len(e.LanguageIssues(items, wl)); got != 1 {
		t.Errorf("french-only exemption should still require French: %d items", got)
	}

	// Language exemption skips language checks entirely.
	wl = Whitelists{LanguageExempt: map[string]struct{}{"m1": {}}}
	if got := len(e.LanguageIssues(items, wl)); got != 0 {
		t.Errorf("language-exempt item still flagged: %d items", got)
	}
}

func TestSummarize(t *testing.T) {
	e := testEngine()
	th := defaults()

	items := []models.CachedMediaItem{
		{ExternalID: "m1", MediaType: models.MediaTypeMovie, SizeBytes: 16 * (1 << 30), Played: false, DateCreated: monthsAgo(6)},
		{ExternalID: "m2", MediaType: models.MediaTypeMovie, SizeBytes: 20 * (1 << 30), Played: true, LastPlayed: daysAgo(3)},
		{ExternalID: "m3", MediaType: models.MediaTypeSeries, Played: true, LastPlayed: daysAgo(3), RawData: withAudio("jpn")},
	}
	requests := []models.CachedRequest{
		{RequestID: 1, Status: models.RequestStatusPending, ReleaseDate: monthsAgo(6)},
		{RequestID: 2, Status: models.RequestStatusAvailable, ReleaseDate: monthsAgo(6)},
	}

	s := e.Summarize(items, requests, th, Whitelists{})

	if s.OldContent.Count != 1 || s.OldContent.TotalSizeBytes != 16*(1<<30) {
		t.Errorf("old content: %+v", s.OldContent)
	}
	if s.LargeMovies.Count != 2 {
		t.Errorf("large movies: %+v", s.LargeMovies)
	}
	if s.LanguageIssues.Count != 1 {
		t.Errorf("language issues: %+v", s.LanguageIssues)
	}
	if s.UnavailableRequests.Count != 1 || s.UnavailableRequests.TotalSizeBytes != 0 {
		t.Errorf("unavailable requests: %+v", s.UnavailableRequests)
	}
	if s.UnavailableRequests.TotalSize != "0 B" {
		t.Errorf("sizeless category should read %q, got %q", "0 B", s.UnavailableRequests.TotalSize)
	}
}

// Seed one unplayed 120-day-old 10 GB movie, flag it, whitelist it and
// confirm it drops out of "old" while other categories are unaffected.
func TestContentWhitelistEndToEnd(t *testing.T) {
	e := testEngine()
	th := defaults()

	item := models.CachedMediaItem{
		ExternalID:  "m1",
		MediaType:   models.MediaTypeMovie,
		SizeBytes:   10_000_000_000,
		Played:      false,
		DateCreated: daysAgo(120),
	}
	items := []models.CachedMediaItem{item}

	if !e.OldOrUnwatched(&item, th) {
		t.Fatal("120-day-old unplayed item should be old")
	}

	wl := Whitelists{Content: map[string]struct{}{"m1": {}}}
	s := e.Summarize(items, nil, th, wl)
	if s.OldContent.Count != 0 {
		t.Errorf("whitelisted item still counted as old: %+v", s.OldContent)
	}
	// 10 GB is under the 15 GiB default, so large stays empty too; the
	// whitelist is not what keeps it out.
	if s.LargeMovies.Count != 0 {
		t.Errorf("unexpected large count: %+v", s.LargeMovies)
	}
}
