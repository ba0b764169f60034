// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/mpellat/janitarr/internal/models"
)

// Issue tags.
const (
	TagOld      = "old"
	TagLarge    = "large"
	TagLanguage = "language"
	TagRequest  = "request"

	// FilterMulti selects items carrying at least two tags.
	FilterMulti = "multi"
)

// Issue is one row of the unified listing. Media items and requests
// share the shape; fields that do not apply to one kind stay nil.
type Issue struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MediaType string   `json:"media_type"`
	Tags      []string `json:"tags"`

	// TmdbID is 0 when the upstream payload carried no TMDB provider
	// id. URL is filled by the API layer from the acquisition-manager
	// slug map; it is display-only.
	TmdbID int64  `json:"tmdb_id,omitempty"`
	URL    string `json:"url,omitempty"`

	// Media-item fields, nil for requests.
	SizeBytes  *int64     `json:"size_bytes"`
	Year       int        `json:"year,omitempty"`
	LastPlayed *time.Time `json:"last_played"`

	// Stream languages, filled only for language-tagged items so the
	// listing shows what the file actually carries.
	AudioLanguages    []string `json:"audio_languages,omitempty"`
	SubtitleLanguages []string `json:"subtitle_languages,omitempty"`

	// Request fields, empty for media items.
	RequestedBy string `json:"requested_by,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ListIssues builds the unified issue listing: every cached media item
// with at least one issue tag, plus every stale request under the
// synthetic "request-<id>" identifier. filter narrows the result to one
// tag, or to multi-tag items via FilterMulti; empty means everything.
// The result is sorted by size descending; size ties and the sizeless
// request rows keep their original relative order.
func (e *Engine) ListIssues(items []models.CachedMediaItem, requests []models.CachedRequest, t models.ThresholdSettings, wl Whitelists, filter string) []Issue {
	var issues []Issue

	for i := range items {
		item := &items[i]
		tags := e.itemTags(item, t, wl)
		if len(tags) == 0 {
			continue
		}
		size := item.SizeBytes
		tmdbID, _ := strconv.ParseInt(item.TmdbID(), 10, 64)
		issue := Issue{
			ID:         item.ExternalID,
			Name:       item.Name,
			MediaType:  item.MediaType,
			Tags:       tags,
			TmdbID:     tmdbID,
			SizeBytes:  &size,
			Year:       item.Year,
			LastPlayed: item.LastPlayed,
		}
		if hasTag(tags, TagLanguage) {
			issue.AudioLanguages = item.AudioLanguages()
			issue.SubtitleLanguages = item.SubtitleLanguages()
		}
		issues = append(issues, issue)
	}

	for i := range requests {
		req := &requests[i]
		if !e.UnavailableRequest(req, t) {
			continue
		}
		issues = append(issues, Issue{
			ID:          fmt.Sprintf("request-%d", req.RequestID),
			Name:        req.Title,
			MediaType:   req.MediaType,
			Tags:        []string{TagRequest},
			TmdbID:      req.TmdbID,
			RequestedBy: req.RequestedBy,
			Status:      req.Status.String(),
		})
	}

	issues = filterIssues(issues, filter)

	sort.SliceStable(issues, func(a, b int) bool {
		return issueSize(issues[a]) > issueSize(issues[b])
	})
	return issues
}

func (e *Engine) itemTags(item *models.CachedMediaItem, t models.ThresholdSettings, wl Whitelists) []string {
	var tags []string
	if !wl.has(wl.Content, item.ExternalID) && e.OldOrUnwatched(item, t) {
		tags = append(tags, TagOld)
	}
	if e.LargeMovie(item, t) {
		tags = append(tags, TagLarge)
	}
	if !wl.has(wl.LanguageExempt, item.ExternalID) && e.LanguageIssue(item, wl.has(wl.FrenchOnly, item.ExternalID)) {
		tags = append(tags, TagLanguage)
	}
	return tags
}

func filterIssues(issues []Issue, filter string) []Issue {
	if filter == "" {
		return issues
	}
	var out []Issue
	for _, issue := range issues {
		if filter == FilterMulti {
			if len(issue.Tags) >= 2 {
				out = append(out, issue)
			}
			continue
		}
		if hasTag(issue.Tags, filter) {
			out = append(out, issue)
		}
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func issueSize(i Issue) int64 {
	if i.SizeBytes == nil {
		return 0
	}
	return *i.SizeBytes
}
