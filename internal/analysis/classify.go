// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package analysis classifies cached library content. Every function is
// pure over a cache snapshot, the user's thresholds and the active
// whitelist sets; nothing here touches the network or the database.
package analysis

import (
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

// Whitelists are the active per-user exemption sets, keyed by external
// item id. They are resolved (expiry already applied) before
// classification runs.
type Whitelists struct {
	// Content excludes an item from the old/unwatched category only.
	Content map[string]struct{}
	// FrenchOnly relaxes the English audio requirement for an item.
	FrenchOnly map[string]struct{}
	// LanguageExempt skips language checks for an item entirely.
	LanguageExempt map[string]struct{}
}

func (w Whitelists) has(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}

// Engine evaluates classification rules at a fixed reference time. The
// injectable clock keeps month arithmetic deterministic under test.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt returns an engine pinned to a fixed reference time.
func NewEngineAt(now time.Time) *Engine {
	return &Engine{now: func() time.Time { return now }}
}

// OldOrUnwatched reports whether an item is stale. Never-played items
// get a minimum-age grace period from their add date; played items are
// judged solely on last-played recency, their add date is irrelevant.
// A never-played item with no add date is treated as old enough: the
// grace period exists to protect fresh arrivals, and an undated row
// cannot be shown to be fresh.
func (e *Engine) OldOrUnwatched(item *models.CachedMediaItem, t models.ThresholdSettings) bool {
	now := e.now()
	if !item.Played {
		if item.DateCreated == nil {
			return true
		}
		return item.DateCreated.Before(now.AddDate(0, -t.MinAgeMonths, 0))
	}
	if item.LastPlayed == nil {
		return true
	}
	return item.LastPlayed.Before(now.AddDate(0, -t.OldContentMonths, 0))
}

// LargeMovie reports whether a movie meets or exceeds the size
// threshold. The boundary is inclusive; series are never flagged.
func (e *Engine) LargeMovie(item *models.CachedMediaItem, t models.ThresholdSettings) bool {
	if item.MediaType != models.MediaTypeMovie {
		return false
	}
	return item.SizeBytes >= int64(t.LargeMovieGB)*(1<<30)
}

var (
	englishCodes = map[string]struct{}{"eng": {}, "en": {}, "english": {}}
	frenchCodes  = map[string]struct{}{"fre": {}, "fr": {}, "french": {}, "fra": {}}
)

// LanguageIssue reports whether an item's audio tracks fall short of
// the language requirements: French audio always, English audio unless
// exemptFromEnglish. Items with no stream metadata at all are assumed
// compliant; an un-enriched cache row proves nothing.
func (e *Engine) LanguageIssue(item *models.CachedMediaItem, exemptFromEnglish bool) bool {
	audio := item.AudioLanguages()
	if len(audio) == 0 {
		return false
	}
	hasEnglish, hasFrench := false, false
	for _, lang := range audio {
		if _, ok := englishCodes[lang]; ok {
			hasEnglish = true
		}
		if _, ok := frenchCodes[lang]; ok {
			hasFrench = true
		}
	}
	if !exemptFromEnglish && !hasEnglish {
		return true
	}
	return !hasFrench
}

// unavailableStatuses are the request states that count as "not yet
// watchable". Processing is excluded: a download in flight is on its
// way and flagging it would only prompt users to re-request it.
var unavailableStatuses = map[models.RequestStatus]struct{}{
	models.RequestStatusUnknown:            {},
	models.RequestStatusPending:            {},
	models.RequestStatusApproved:           {},
	models.RequestStatusPartiallyAvailable: {},
}

// UnavailableRequest reports whether a request is stale: an unavailable
// status, released (not in the future), and past the too-recent grace
// window. A missing release date counts as stale because recency cannot
// be ruled out in the request's favor.
func (e *Engine) UnavailableRequest(req *models.CachedRequest, t models.ThresholdSettings) bool {
	if _, ok := unavailableStatuses[req.Status]; !ok {
		return false
	}
	if req.ReleaseDate == nil {
		return true
	}
	now := e.now()
	if req.ReleaseDate.After(now) {
		return false
	}
	return !req.ReleaseDate.After(now.AddDate(0, -t.TooRecentMonths, 0))
}

// OldContent returns the stale items, with the content whitelist
// applied first.
func (e *Engine) OldContent(items []models.CachedMediaItem, t models.ThresholdSettings, wl Whitelists) []models.CachedMediaItem {
	var out []models.CachedMediaItem
	for i := range items {
		if wl.has(wl.Content, items[i].ExternalID) {
			continue
		}
		if e.OldOrUnwatched(&items[i], t) {
			out = append(out, items[i])
		}
	}
	return out
}

// LargeMovies returns the oversized movies. No whitelist applies here.
func (e *Engine) LargeMovies(items []models.CachedMediaItem, t models.ThresholdSettings) []models.CachedMediaItem {
	var out []models.CachedMediaItem
	for i := range items {
		if e.LargeMovie(&items[i], t) {
			out = append(out, items[i])
		}
	}
	return out
}

// LanguageIssues returns the items with missing required audio tracks,
// honoring the language-exempt and French-only whitelists.
func (e *Engine) LanguageIssues(items []models.CachedMediaItem, wl Whitelists) []models.CachedMediaItem {
	var out []models.CachedMediaItem
	for i := range items {
		if wl.has(wl.LanguageExempt, items[i].ExternalID) {
			continue
		}
		if e.LanguageIssue(&items[i], wl.has(wl.FrenchOnly, items[i].ExternalID)) {
			out = append(out, items[i])
		}
	}
	return out
}

// UnavailableRequests returns the stale requests.
func (e *Engine) UnavailableRequests(requests []models.CachedRequest, t models.ThresholdSettings) []models.CachedRequest {
	var out []models.CachedRequest
	for i := range requests {
		if e.UnavailableRequest(&requests[i], t) {
			out = append(out, requests[i])
		}
	}
	return out
}
